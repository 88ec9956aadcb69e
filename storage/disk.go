package storage

import (
	"io"
	"os"
	"path/filepath"
)

type DiskTarget struct {
	// BasePath is a directory writable by the current process
	BasePath string
}

func NewDiskTarget(basePath string) *DiskTarget {
	return &DiskTarget{BasePath: basePath}
}

func (t *DiskTarget) Name() string {
	return "disk:" + t.BasePath
}

func (t *DiskTarget) Save(name string, reader io.Reader) error {
	fileName := filepath.Join(t.BasePath, name)
	if err := os.MkdirAll(filepath.Dir(fileName), 0777); err != nil {
		return err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	_, err = io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}
