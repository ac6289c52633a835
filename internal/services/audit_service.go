package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/themisvote/themis/backend/internal/logger"
	"github.com/themisvote/themis/backend/internal/metrics"
	"github.com/themisvote/themis/backend/internal/models"
)

// AssignmentConflict is one course mapped to more than one precinct within
// the same election. The registry resolves lookups deterministically
// (lowest precinct ID wins) but the configuration is still wrong and an
// administrator has to fix it.
type AssignmentConflict struct {
	ElectionID  uint   `json:"election_id"`
	CourseName  string `json:"course_name"`
	PrecinctIDs []uint `json:"precinct_ids"`
}

// AuditService periodically sweeps the registry for configuration issues.
// Findings are reported, never auto-repaired.
type AuditService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewAuditService(db *gorm.DB, notifier *NotificationService) *AuditService {
	return &AuditService{db: db, notifier: notifier}
}

// Sweep scans every election's assignments for courses claimed by more
// than one precinct.
func (s *AuditService) Sweep() ([]AssignmentConflict, error) {
	var assignments []models.ElectionPrecinctAssignment
	if err := s.db.Order("election_id asc, precinct_id asc").Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	type key struct {
		electionID uint
		course     string
	}
	owners := make(map[key][]uint)
	for _, a := range assignments {
		for _, course := range a.CourseList() {
			k := key{electionID: a.ElectionID, course: course}
			owners[k] = append(owners[k], a.PrecinctID)
		}
	}

	var conflicts []AssignmentConflict
	for k, precincts := range owners {
		if len(precincts) < 2 {
			continue
		}
		conflicts = append(conflicts, AssignmentConflict{
			ElectionID:  k.electionID,
			CourseName:  k.course,
			PrecinctIDs: precincts,
		})
	}
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].ElectionID != conflicts[j].ElectionID {
			return conflicts[i].ElectionID < conflicts[j].ElectionID
		}
		return conflicts[i].CourseName < conflicts[j].CourseName
	})
	return conflicts, nil
}

// Run executes one sweep and reports every finding through the logs, the
// metrics counter and the admin notification feed.
func (s *AuditService) Run() {
	conflicts, err := s.Sweep()
	if err != nil {
		logger.Log().WithError(err).Error("registry audit sweep failed")
		return
	}
	for _, c := range conflicts {
		metrics.IncAuditConflict()
		precincts := make([]string, len(c.PrecinctIDs))
		for i, id := range c.PrecinctIDs {
			precincts[i] = fmt.Sprintf("%d", id)
		}
		msg := fmt.Sprintf(
			"Course %q in election %d is assigned to precincts %s; lookups resolve to precinct %s. Remove the duplicates.",
			c.CourseName, c.ElectionID, strings.Join(precincts, ", "), precincts[0],
		)
		logger.WithFields(map[string]interface{}{
			"election_id": c.ElectionID,
			"course":      c.CourseName,
		}).Warn("duplicate precinct assignment")
		if s.notifier != nil {
			s.notifier.Notify(models.NotificationTypeWarning, "Duplicate precinct assignment", msg)
		}
	}
	logger.WithFields(map[string]interface{}{"conflicts": len(conflicts)}).Info("registry audit sweep complete")
}

// Schedule registers the sweep on the given cron runner.
func (s *AuditService) Schedule(c *cron.Cron, spec string) error {
	if _, err := c.AddFunc(spec, s.Run); err != nil {
		return fmt.Errorf("schedule registry audit: %w", err)
	}
	return nil
}
