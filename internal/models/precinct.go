package models

import (
	"time"
)

// Precinct is a physical or logical voting location, typically a campus
// laboratory. A precinct exclusively owns its address rules; deleting a
// precinct removes its rules and election assignments with it.
type Precinct struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	UUID        string        `json:"uuid" gorm:"uniqueIndex"`
	Name        string        `json:"name" gorm:"index"`
	Description string        `json:"description"`
	Rules       []AddressRule `json:"rules,omitempty" gorm:"foreignKey:PrecinctID"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
