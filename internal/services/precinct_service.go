package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/themisvote/themis/backend/internal/ipmatch"
	"github.com/themisvote/themis/backend/internal/models"
)

var (
	ErrPrecinctNotFound   = errors.New("precinct not found")
	ErrRuleNotFound       = errors.New("address rule not found")
	ErrInvalidRuleKind    = errors.New("invalid address rule")
	ErrAssignmentNotFound = errors.New("no precinct assignment")
	ErrStoreUnavailable   = errors.New("store temporarily unavailable")
)

// PrecinctService manages precincts, their address rules and their course
// assignments per election. All validation happens before anything is
// written; driver failures other than not-found surface as
// ErrStoreUnavailable so callers never mistake an outage for a miss.
type PrecinctService struct {
	db *gorm.DB
}

func NewPrecinctService(db *gorm.DB) *PrecinctService {
	return &PrecinctService{db: db}
}

// storeErr maps a driver error to the taxonomy: notFound for missing rows,
// ErrStoreUnavailable for everything else.
func storeErr(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// CreatePrecinct creates a new precinct with validation.
func (s *PrecinctService) CreatePrecinct(p *models.Precinct) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	p.UUID = uuid.New().String()
	if err := s.db.Create(p).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// GetPrecinct retrieves a precinct by ID.
func (s *PrecinctService) GetPrecinct(id uint) (*models.Precinct, error) {
	var p models.Precinct
	if err := s.db.First(&p, id).Error; err != nil {
		return nil, storeErr(err, ErrPrecinctNotFound)
	}
	return &p, nil
}

// ListPrecincts retrieves all precincts sorted by name.
func (s *PrecinctService) ListPrecincts() ([]models.Precinct, error) {
	var precincts []models.Precinct
	if err := s.db.Order("name asc").Find(&precincts).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return precincts, nil
}

// DeletePrecinct permanently removes a precinct together with its rules
// and election assignments, in one transaction.
func (s *PrecinctService) DeletePrecinct(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Precinct{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPrecinctNotFound
		}
		if err := tx.Where("precinct_id = ?", id).Delete(&models.AddressRule{}).Error; err != nil {
			return err
		}
		return tx.Where("precinct_id = ?", id).Delete(&models.ElectionPrecinctAssignment{}).Error
	})
	if err != nil {
		if errors.Is(err, ErrPrecinctNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// AddRule validates a rule spec and attaches it to a precinct. A spec
// missing the sub-fields its declared kind requires fails with
// ErrInvalidRuleKind.
func (s *PrecinctService) AddRule(precinctID uint, spec models.RuleSpec) (*models.AddressRule, error) {
	if _, err := s.GetPrecinct(precinctID); err != nil {
		return nil, err
	}
	if err := ipmatch.ValidateSpec(spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRuleKind, err)
	}

	rule := specToRule(spec)
	rule.UUID = uuid.New().String()
	rule.PrecinctID = precinctID
	if err := s.db.Create(&rule).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &rule, nil
}

// UpdateRule fully replaces the mutable fields of an existing rule after
// re-validating the spec. The rule keeps its identity and precinct.
func (s *PrecinctService) UpdateRule(ruleID uint, spec models.RuleSpec) (*models.AddressRule, error) {
	var rule models.AddressRule
	if err := s.db.First(&rule, ruleID).Error; err != nil {
		return nil, storeErr(err, ErrRuleNotFound)
	}
	if err := ipmatch.ValidateSpec(spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRuleKind, err)
	}

	replacement := specToRule(spec)
	rule.Kind = replacement.Kind
	rule.IPAddress = replacement.IPAddress
	rule.RangeStart = replacement.RangeStart
	rule.RangeEnd = replacement.RangeEnd
	rule.Network = replacement.Network
	rule.PrefixLength = replacement.PrefixLength
	rule.Active = replacement.Active

	if err := s.db.Save(&rule).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &rule, nil
}

// DeactivateRule flips a rule inactive. Reversible via UpdateRule.
func (s *PrecinctService) DeactivateRule(ruleID uint) error {
	result := s.db.Model(&models.AddressRule{}).Where("id = ?", ruleID).Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// DeleteRule permanently removes a rule.
func (s *PrecinctService) DeleteRule(ruleID uint) error {
	result := s.db.Delete(&models.AddressRule{}, ruleID)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

// ListActiveRules retrieves the active rules of a precinct.
func (s *PrecinctService) ListActiveRules(precinctID uint) ([]models.AddressRule, error) {
	var rules []models.AddressRule
	err := s.db.Where("precinct_id = ? AND active = ?", precinctID, true).
		Order("id asc").Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return rules, nil
}

// AssignCourses replaces the complete course set for an (election,
// precinct) pair. Callers pass the desired set, not a delta; the swap is
// atomic so readers observe either the old set or the new one, never a
// partial mix.
func (s *PrecinctService) AssignCourses(electionID, precinctID uint, courses []string) (*models.ElectionPrecinctAssignment, error) {
	if _, err := s.GetPrecinct(precinctID); err != nil {
		return nil, err
	}

	var assignment models.ElectionPrecinctAssignment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("election_id = ? AND precinct_id = ?", electionID, precinctID).
			First(&assignment).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		assignment.ElectionID = electionID
		assignment.PrecinctID = precinctID
		if err := assignment.SetCourses(courses); err != nil {
			return err
		}
		return tx.Save(&assignment).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &assignment, nil
}

// GetAssignments retrieves all assignments of an election ordered by
// precinct ID.
func (s *PrecinctService) GetAssignments(electionID uint) ([]models.ElectionPrecinctAssignment, error) {
	var assignments []models.ElectionPrecinctAssignment
	err := s.db.Where("election_id = ?", electionID).
		Order("precinct_id asc").Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return assignments, nil
}

// FindPrecinctForCourse resolves which precinct a course votes at in an
// election. When a course is misconfigured into several precincts the
// lowest precinct ID wins, deterministically; the audit sweep reports the
// duplicate as a configuration issue.
func (s *PrecinctService) FindPrecinctForCourse(electionID uint, courseName string) (*models.Precinct, error) {
	assignments, err := s.GetAssignments(electionID)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		if a.HasCourse(courseName) {
			return s.GetPrecinct(a.PrecinctID)
		}
	}
	return nil, ErrAssignmentNotFound
}

func specToRule(spec models.RuleSpec) models.AddressRule {
	active := true
	if spec.Active != nil {
		active = *spec.Active
	}
	return models.AddressRule{
		Kind:         spec.Kind,
		IPAddress:    spec.IPAddress,
		RangeStart:   spec.RangeStart,
		RangeEnd:     spec.RangeEnd,
		Network:      spec.Network,
		PrefixLength: spec.PrefixLength,
		Active:       active,
	}
}
