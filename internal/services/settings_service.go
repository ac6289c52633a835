package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/themisvote/themis/backend/internal/models"
)

var ErrSettingNotFound = errors.New("setting not found")

// SettingKeyCurrentSemester names the single-row configuration value other
// subsystems key their queries on. It is seeded by the startup migration.
const SettingKeyCurrentSemester = "current_semester"

// SettingKeyOperatorTokenHash stores the bcrypt hash of the static
// operator API token accepted by the admin auth middleware.
const SettingKeyOperatorTokenHash = "operator_token_hash"

// SettingsService is the explicit get/set interface over the settings
// table. The read path assumes the schema and required rows already exist;
// it never creates them on demand.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the value for a key or ErrSettingNotFound.
func (s *SettingsService) Get(key string) (string, error) {
	var setting models.Setting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return "", storeErr(err, ErrSettingNotFound)
	}
	return setting.Value, nil
}

// Set upserts a key/value pair.
func (s *SettingsService) Set(key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	return s.db.Where(models.Setting{Key: key}).
		Assign(models.Setting{Value: value}).
		FirstOrCreate(&setting).Error
}

// GetAll returns every setting as a key/value map.
func (s *SettingsService) GetAll() (map[string]string, error) {
	var settings []models.Setting
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// CurrentSemester returns the configured semester identifier.
func (s *SettingsService) CurrentSemester() (string, error) {
	return s.Get(SettingKeyCurrentSemester)
}
