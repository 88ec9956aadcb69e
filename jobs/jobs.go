// Package jobs runs the periodic maintenance tasks, currently just the
// daily ledger snapshot.
package jobs

import (
	"log"
	"time"

	"attendance/config"
	"attendance/ledger"
	"attendance/storage"

	"github.com/go-co-op/gocron"
)

var scheduler *gocron.Scheduler

// Init schedules the daily snapshot and starts the scheduler in the
// background. Panics on a bad BACKUP_AT value so misconfiguration is
// caught at startup.
func Init() {
	scheduler = gocron.NewScheduler(time.Local)
	_, err := scheduler.Every(1).Day().At(config.BACKUP_AT).Do(snapshotLedgers)
	if err != nil {
		log.Printf("Cannot schedule ledger snapshot at %q: %v", config.BACKUP_AT, err)
		panic(err)
	}
	scheduler.StartAsync()
	log.Printf("Daily ledger snapshot scheduled at %s", config.BACKUP_AT)
}

// Stop halts the scheduler. Used by tests and shutdown paths.
func Stop() {
	if scheduler != nil {
		scheduler.Stop()
	}
}

func snapshotLedgers() {
	written, err := ledger.Default.Snapshot(time.Now(), storage.Targets())
	if err != nil {
		log.Printf("Ledger snapshot failed: %v", err)
		return
	}
	log.Printf("Ledger snapshot written: %v", written)
}
