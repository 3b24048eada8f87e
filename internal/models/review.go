package models

import "gorm.io/gorm"

// Review is a best-effort entity: deployments without review storage
// never migrate this table.
type Review struct {
	gorm.Model

	ReviewerName string `gorm:"not null"`
	Rating       int    `gorm:"not null"`
	Comment      string
}
