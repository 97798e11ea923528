package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

// RecentSentLimit caps the officer's broadcast history
const RecentSentLimit = 10

var ErrMessageRequired = apperrors.NewValidationError("Message required")

// NotificationService broadcasts officer messages to all students
type NotificationService struct {
	notifications NotificationStore
	publisher     Publisher
	now           Clock
	logger        zerolog.Logger
}

// NewNotificationService creates a new NotificationService. publisher may be nil.
func NewNotificationService(notifications NotificationStore, publisher Publisher, now Clock, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		publisher:     publisher,
		now:           clockOrNow(now),
		logger:        logger,
	}
}

// Broadcast stores the message for every registered student and returns the
// recipient count. Connected students get a live push after the commit.
func (s *NotificationService) Broadcast(ctx context.Context, officerID int64, message string) (int64, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return 0, ErrMessageRequired
	}

	at := s.now().UTC()
	recipients, err := s.notifications.Broadcast(ctx, officerID, message, at)
	if err != nil {
		return 0, err
	}

	if s.publisher != nil {
		s.publisher.PublishNotification(message, at)
	}

	s.logger.Info().Int64("officerID", officerID).Int64("recipients", recipients).Msg("Notification broadcast")
	return recipients, nil
}

// ListRecentSent returns the officer's latest broadcasts
func (s *NotificationService) ListRecentSent(ctx context.Context, officerID int64) ([]models.SentNotification, error) {
	return s.notifications.ListSentByOfficer(ctx, officerID, RecentSentLimit)
}

// ListForStudent returns the student's notifications, newest first
func (s *NotificationService) ListForStudent(ctx context.Context, studentID int64) ([]models.Notification, error) {
	return s.notifications.ListForStudent(ctx, studentID)
}

// MarkRead marks one of the student's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, studentID, notificationID int64) error {
	return s.notifications.MarkRead(ctx, studentID, notificationID)
}
