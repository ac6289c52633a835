package models

import (
	"encoding/json"
	"sort"
	"time"
)

// ElectionPrecinctAssignment binds a precinct to an election together with
// the set of course names whose students vote at that precinct. Courses is
// a JSON array stored in a text column; the whole set is always replaced
// wholesale, never merged.
type ElectionPrecinctAssignment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ElectionID uint      `json:"election_id" gorm:"index:idx_election_precinct,unique"`
	PrecinctID uint      `json:"precinct_id" gorm:"index:idx_election_precinct,unique"`
	Courses    string    `json:"courses" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CourseList decodes the stored course set. A corrupt column yields an
// empty list rather than an error; the row is then effectively unassigned.
func (a *ElectionPrecinctAssignment) CourseList() []string {
	if a.Courses == "" {
		return nil
	}
	var courses []string
	if err := json.Unmarshal([]byte(a.Courses), &courses); err != nil {
		return nil
	}
	return courses
}

// SetCourses stores the given course names, de-duplicated and sorted so the
// persisted form is canonical.
func (a *ElectionPrecinctAssignment) SetCourses(courses []string) error {
	seen := make(map[string]struct{}, len(courses))
	unique := make([]string, 0, len(courses))
	for _, c := range courses {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}
	sort.Strings(unique)

	encoded, err := json.Marshal(unique)
	if err != nil {
		return err
	}
	a.Courses = string(encoded)
	return nil
}

// HasCourse reports whether the assignment covers the given course name.
func (a *ElectionPrecinctAssignment) HasCourse(course string) bool {
	for _, c := range a.CourseList() {
		if c == course {
			return true
		}
	}
	return false
}
