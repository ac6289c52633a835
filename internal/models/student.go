package models

import (
	"time"
)

// Student is a read-only reference row mirroring the external student
// system of record. Only the fields the eligibility check needs are kept;
// enrollment management happens elsewhere.
type Student struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudentID  string    `json:"student_id" gorm:"uniqueIndex"`
	FullName   string    `json:"full_name"`
	CourseName string    `json:"course_name" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
