package models

import (
	"time"
)

// ElectionStatus is supplied by the external scheduling system; this core
// never transitions it.
type ElectionStatus string

const (
	ElectionUpcoming  ElectionStatus = "upcoming"
	ElectionOngoing   ElectionStatus = "ongoing"
	ElectionCompleted ElectionStatus = "completed"
)

// Election is a read-only reference row mirroring the external election
// scheduler. Eligibility checks consult the status; receipts use the title.
type Election struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UUID      string         `json:"uuid" gorm:"uniqueIndex"`
	Title     string         `json:"title"`
	Status    ElectionStatus `json:"status" gorm:"default:'upcoming'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
