package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/themisvote/themis/backend/internal/ipmatch"
	"github.com/themisvote/themis/backend/internal/logger"
	"github.com/themisvote/themis/backend/internal/metrics"
	"github.com/themisvote/themis/backend/internal/models"
)

var (
	// ErrTemporarilyUnavailable means the decision could not be made because
	// the backing store failed mid-check. Callers must hard-fail the vote
	// attempt, never guess eligible or ineligible.
	ErrTemporarilyUnavailable = errors.New("eligibility check temporarily unavailable")
	ErrStudentNotFound        = errors.New("student not found")
)

// IneligibilityReason tells a rejected voter (and the admin logs) why.
// The two reasons are never merged internally even if the UI chooses to
// show a generic message.
type IneligibilityReason string

const (
	ReasonNoAssignment IneligibilityReason = "no_assignment"
	ReasonIPNotAllowed IneligibilityReason = "ip_not_allowed"
)

// EligibilityDecision is a business outcome, not an error. Denials carry a
// reason; grants carry the resolved precinct.
type EligibilityDecision struct {
	Eligible bool                `json:"eligible"`
	Reason   IneligibilityReason `json:"reason,omitempty"`
	Precinct *models.Precinct    `json:"precinct,omitempty"`
}

// VoterDirectory resolves a student's course of record. The student system
// of record lives outside this core; the bundled implementation reads the
// mirrored reference table.
type VoterDirectory interface {
	CourseOf(studentID string) (string, error)
}

// StudentDirectory is the GORM-backed VoterDirectory over the read-only
// students reference table.
type StudentDirectory struct {
	db *gorm.DB
}

func NewStudentDirectory(db *gorm.DB) *StudentDirectory {
	return &StudentDirectory{db: db}
}

func (d *StudentDirectory) CourseOf(studentID string) (string, error) {
	var student models.Student
	if err := d.db.Where("student_id = ?", studentID).First(&student).Error; err != nil {
		return "", storeErr(err, ErrStudentNotFound)
	}
	return student.CourseName, nil
}

// EligibilityService decides whether a student may cast a ballot from a
// given client address. It holds no state between calls and performs no
// writes; re-checking the same inputs returns the same decision until an
// administrator changes rules or assignments.
type EligibilityService struct {
	registry *PrecinctService
	voters   VoterDirectory
}

func NewEligibilityService(registry *PrecinctService, voters VoterDirectory) *EligibilityService {
	return &EligibilityService{registry: registry, voters: voters}
}

// CheckEligibility gates a vote attempt: the student must have a precinct
// assignment for the election and the client IP must satisfy one of that
// precinct's active address rules. An unparsable client IP is treated as
// not allowed, never as an internal error. Store outages surface as
// ErrTemporarilyUnavailable.
func (s *EligibilityService) CheckEligibility(studentID string, electionID uint, clientIP string) (EligibilityDecision, error) {
	precinct, err := s.resolvePrecinct(studentID, electionID)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			metrics.IncEligibilityCheck("unavailable")
			return EligibilityDecision{}, fmt.Errorf("%w: %v", ErrTemporarilyUnavailable, err)
		}
		metrics.IncEligibilityCheck("denied_no_assignment")
		return EligibilityDecision{Eligible: false, Reason: ReasonNoAssignment}, nil
	}

	rules, err := s.registry.ListActiveRules(precinct.ID)
	if err != nil {
		metrics.IncEligibilityCheck("unavailable")
		return EligibilityDecision{}, fmt.Errorf("%w: %v", ErrTemporarilyUnavailable, err)
	}

	addr, err := ipmatch.ParseAddr(clientIP)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"student_id":  studentID,
			"election_id": electionID,
		}).WithError(err).Warn("unparsable client address on eligibility check")
		metrics.IncEligibilityCheck("denied_ip")
		return EligibilityDecision{Eligible: false, Reason: ReasonIPNotAllowed}, nil
	}

	allowed, parseErrs := ipmatch.MatchesAny(addr, rules)
	for _, perr := range parseErrs {
		logger.WithFields(map[string]interface{}{
			"precinct_id": precinct.ID,
		}).WithError(perr).Warn("skipping malformed address rule")
	}
	if !allowed {
		metrics.IncEligibilityCheck("denied_ip")
		return EligibilityDecision{Eligible: false, Reason: ReasonIPNotAllowed}, nil
	}

	metrics.IncEligibilityCheck("eligible")
	return EligibilityDecision{Eligible: true, Precinct: precinct}, nil
}

// GetAssignment resolves the precinct a student votes at for an election,
// or ErrAssignmentNotFound when none is configured.
func (s *EligibilityService) GetAssignment(studentID string, electionID uint) (*models.Precinct, error) {
	precinct, err := s.resolvePrecinct(studentID, electionID)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrTemporarilyUnavailable, err)
		}
		return nil, err
	}
	return precinct, nil
}

func (s *EligibilityService) resolvePrecinct(studentID string, electionID uint) (*models.Precinct, error) {
	course, err := s.voters.CourseOf(studentID)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			// an unknown student cannot have an assignment
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return s.registry.FindPrecinctForCourse(electionID, course)
}
