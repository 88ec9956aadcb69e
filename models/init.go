package models

import (
	"attendance/db"
)

func Init() {
	db.Instance.AutoMigrate(&FaceSample{})
}
