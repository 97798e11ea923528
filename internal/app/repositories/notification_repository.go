package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/db"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/logger"
)

// NotificationRepository handles broadcasts and per-student notifications
type NotificationRepository struct {
	db db.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(pool db.Pool) *NotificationRepository {
	return &NotificationRepository{db: pool, sb: newBuilder()}
}

// Broadcast records the sent message and copies it to every registered
// student in one transaction. It returns the number of recipients.
func (r *NotificationRepository) Broadcast(ctx context.Context, officerID int64, message string, at time.Time) (int64, error) {
	var recipients int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("sent_notifications").
			Columns("officer_id", "message", "created_at").
			Values(officerID, message, at).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build sent notification query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error recording sent notification: %w", err)
		}

		fanOut := r.sb.Select("id").
			Column("?::text", message).
			Column("?::timestamptz", at).
			From("students")
		sql, args, err = r.sb.Insert("notifications").
			Columns("student_id", "message", "created_at").
			Select(fanOut).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build notification fan-out query: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error fanning out notification: %w", err)
		}
		recipients = tag.RowsAffected()
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("officerID", officerID).Msg("Error broadcasting notification")
		return 0, err
	}
	return recipients, nil
}

// ListSentByOfficer returns an officer's latest broadcasts, newest first
func (r *NotificationRepository) ListSentByOfficer(ctx context.Context, officerID int64, limit uint64) ([]models.SentNotification, error) {
	sql, args, err := r.sb.Select("id", "officer_id", "message", "created_at").
		From("sent_notifications").
		Where(squirrel.Eq{"officer_id": officerID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sent notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing sent notifications: %w", err)
	}
	defer rows.Close()

	sent := []models.SentNotification{}
	for rows.Next() {
		var n models.SentNotification
		if err := rows.Scan(&n.ID, &n.OfficerID, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning sent notification row: %w", err)
		}
		sent = append(sent, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sent notification rows: %w", err)
	}
	return sent, nil
}

// ListForStudent returns a student's notifications, newest first
func (r *NotificationRepository) ListForStudent(ctx context.Context, studentID int64) ([]models.Notification, error) {
	sql, args, err := r.sb.Select("id", "student_id", "message", "is_read", "created_at").
		From("notifications").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	notes := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.StudentID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return notes, nil
}

// MarkRead flags one of the student's notifications as read
func (r *NotificationRepository) MarkRead(ctx context.Context, studentID, notificationID int64) error {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": notificationID, "student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark read query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationAbsent
	}
	return nil
}
