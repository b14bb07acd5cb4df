package models

import (
	"github.com/guregu/null/v6/zero"
	"gorm.io/gorm"
)

// Resolution is one handled link, stored for /stats.
type Resolution struct {
	gorm.Model

	ChatID            int64       `gorm:"not null;index"`
	UserID            int64       `gorm:"index"`
	ExtractorCodeName string      `gorm:"not null;index"`
	ContentID         string      `gorm:"not null;index"`
	Strategy          string      `gorm:"not null"`
	ItemCount         int         `gorm:"not null;default:0"`
	Title             zero.String `gorm:"size:512"`
}
