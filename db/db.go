package db

import (
	"os"
	"path/filepath"

	"attendance/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

func Init() {
	var (
		db  *gorm.DB
		err error
	)
	options := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	if config.MYSQL_DSN != "" {
		db, err = gorm.Open(mysql.Open(config.MYSQL_DSN), options)
	} else {
		if dir := filepath.Dir(config.SQLITE_FILE); dir != "." {
			_ = os.MkdirAll(dir, 0777)
		}
		db, err = gorm.Open(sqlite.Open(config.SQLITE_FILE), options)
	}
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}
