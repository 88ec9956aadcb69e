// Package storage provides the backup targets that ledger snapshots are
// written to: always a local directory, plus an S3 bucket when configured.
package storage

import (
	"io"
	"log"

	"attendance/config"
)

type Target interface {
	Name() string
	Save(name string, reader io.Reader) error
}

var targets []Target

func Init() {
	targets = []Target{NewDiskTarget(config.BACKUP_DIR)}
	if config.BACKUP_S3_BUCKET != "" {
		s3Target, err := NewS3Target(config.BACKUP_S3_BUCKET, config.BACKUP_S3_REGION, config.BACKUP_S3_PREFIX)
		if err != nil {
			log.Printf("S3 backup target unavailable: %v", err)
		} else {
			targets = append(targets, s3Target)
		}
	}
	log.Printf("Backup targets configured: %d", len(targets))
}

func Targets() []Target {
	return targets
}
