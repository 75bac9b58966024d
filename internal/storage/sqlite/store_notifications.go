package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/storage"
)

// CreateNotification records one outbound email.
func (s *Store) CreateNotification(ctx context.Context, notification storage.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(notification.ID) == "" {
		return fmt.Errorf("notification id is required")
	}
	if strings.TrimSpace(notification.RecipientEmail) == "" {
		return fmt.Errorf("recipient email is required")
	}
	createdAt := notification.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO notifications (
		   id, notification_type, recipient_email, subject, body,
		   stop_id, donation_id, sent, sent_at,
		   response_received, response_content, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		notification.ID,
		string(notification.Type),
		notification.RecipientEmail,
		notification.Subject,
		notification.Body,
		notification.StopID,
		notification.DonationID,
		boolToInt(notification.Sent),
		toNullMillis(notification.SentAt),
		boolToInt(notification.ResponseReceived),
		notification.ResponseContent,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// MarkNotificationSent flips a notification to sent.
func (s *Store) MarkNotificationSent(ctx context.Context, id string, sentAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE notifications SET sent = 1, sent_at = ? WHERE id = ?`,
		toMillis(sentAt),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// RecordNotificationResponse stores a partner reply against the sent
// notifications of a stop.
func (s *Store) RecordNotificationResponse(ctx context.Context, stopID, response string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE notifications
		    SET response_received = 1, response_content = ?
		  WHERE stop_id = ? AND sent = 1`,
		response,
		stopID,
	)
	if err != nil {
		return fmt.Errorf("record notification response: %w", err)
	}
	return nil
}

// ListNotificationsForStop returns a stop's notifications oldest first.
func (s *Store) ListNotificationsForStop(ctx context.Context, stopID string) ([]storage.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, notification_type, recipient_email, subject, body,
		        stop_id, donation_id, sent, sent_at,
		        response_received, response_content, created_at
		   FROM notifications
		  WHERE stop_id = ?
		  ORDER BY created_at ASC, id ASC`,
		stopID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []storage.Notification
	for rows.Next() {
		var notification storage.Notification
		var notificationType string
		var sent, responseReceived int
		var sentAt sql.NullInt64
		var createdAt int64
		if err := rows.Scan(
			&notification.ID,
			&notificationType,
			&notification.RecipientEmail,
			&notification.Subject,
			&notification.Body,
			&notification.StopID,
			&notification.DonationID,
			&sent,
			&sentAt,
			&responseReceived,
			&notification.ResponseContent,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list notifications: %w", err)
		}
		notification.Type = storage.NotificationType(notificationType)
		notification.Sent = sent != 0
		notification.SentAt = fromNullMillis(sentAt)
		notification.ResponseReceived = responseReceived != 0
		notification.CreatedAt = fromMillis(createdAt)
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}
