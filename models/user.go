package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	UserID   int64     `gorm:"uniqueIndex"`
	LastUsed time.Time `gorm:"autoCreateTime"`
}
