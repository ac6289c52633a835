package models

import (
	"time"
)

// Setting is a single key/value configuration row (for example the current
// semester). Required rows are created by the startup migration, never
// lazily on the read path.
type Setting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"uniqueIndex"`
	Value     string    `json:"value"`
	Category  string    `json:"category"`
	Type      string    `json:"type"` // "string", "bool", "int"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
