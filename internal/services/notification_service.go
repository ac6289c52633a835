package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/themisvote/themis/backend/internal/logger"
	"github.com/themisvote/themis/backend/internal/models"
)

// NotificationService records admin-console notifications and pushes them
// to external channels (shoutrrr URLs from configuration). Delivery
// failures are logged and never propagate: a broken webhook must not take
// down the operation that raised the alert.
type NotificationService struct {
	db   *gorm.DB
	urls []string
}

func NewNotificationService(db *gorm.DB, urls []string) *NotificationService {
	return &NotificationService{db: db, urls: urls}
}

// Create stores an in-app notification.
func (s *NotificationService) Create(nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
		Read:    false,
	}
	result := s.db.Create(notification)
	return notification, result.Error
}

// List returns notifications newest first, optionally unread only.
func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.db.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(id string) error {
	return s.db.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (s *NotificationService) MarkAllAsRead() error {
	return s.db.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// Notify stores the notification and fans it out to every configured
// external channel in the background.
func (s *NotificationService) Notify(nType models.NotificationType, title, message string) {
	if _, err := s.Create(nType, title, message); err != nil {
		logger.Log().WithError(err).Error("failed to store notification")
	}

	for _, url := range s.urls {
		go func(url string) {
			msg := fmt.Sprintf("%s\n\n%s", title, message)
			if err := shoutrrr.Send(url, msg); err != nil {
				logger.Log().WithError(err).Warn("failed to send external notification")
			}
		}(url)
	}
}
