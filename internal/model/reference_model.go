// FILE: internal/model/reference_model.go
// GORM models for the five reference dictionaries and their id counters
package model

import "time"

// ReferenceEntity is shared by system_names, modules, features, clients and sources.
// The table is chosen per call with db.Table(category.TableName()).
type ReferenceEntity struct {
	Id        int64     `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"type:text;not null"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// ReferenceSequence holds the last surrogate id handed out for a category.
// Ids are monotonic and never reused.
type ReferenceSequence struct {
	Category string `gorm:"type:varchar(32);primaryKey"`
	LastId   int64  `gorm:"not null;default:0"`
}

func (ReferenceSequence) TableName() string {
	return "reference_sequences"
}
