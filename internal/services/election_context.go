package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/themisvote/themis/backend/internal/models"
)

var ErrElectionNotFound = errors.New("election not found")

// ElectionContext is the contract with the external scheduling system.
// The eligibility gate itself never re-checks status; the HTTP boundary
// uses this to refuse checks outside an ongoing election.
type ElectionContext interface {
	Status(electionID uint) (models.ElectionStatus, error)
	Title(electionID uint) (string, error)
}

// ElectionDirectory is the GORM-backed ElectionContext over the read-only
// elections reference table.
type ElectionDirectory struct {
	db *gorm.DB
}

func NewElectionDirectory(db *gorm.DB) *ElectionDirectory {
	return &ElectionDirectory{db: db}
}

func (d *ElectionDirectory) get(electionID uint) (*models.Election, error) {
	var election models.Election
	if err := d.db.First(&election, electionID).Error; err != nil {
		return nil, storeErr(err, ErrElectionNotFound)
	}
	return &election, nil
}

func (d *ElectionDirectory) Status(electionID uint) (models.ElectionStatus, error) {
	election, err := d.get(electionID)
	if err != nil {
		return "", err
	}
	return election.Status, nil
}

func (d *ElectionDirectory) Title(electionID uint) (string, error) {
	election, err := d.get(electionID)
	if err != nil {
		return "", err
	}
	return election.Title, nil
}
