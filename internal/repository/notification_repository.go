package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"github.com/stanstork/contact-api/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, draft models.NotificationDraft) (models.Notification, error)
	ListForRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error)
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, draft models.NotificationDraft) (models.Notification, error) {
	const query = `
		INSERT INTO notifications (title, message, user_id, type, related_id, related_table)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, message, user_id, type, related_id, related_table, created_at
	`

	row := r.db.QueryRowContext(ctx, query,
		draft.Title,
		draft.Message,
		draft.RecipientID,
		draft.Type,
		nullableString(draft.RelatedID),
		nullableString(draft.RelatedTable),
	)
	notif, err := scanNotification(row)
	if err != nil {
		return models.Notification{}, errors.Wrap(err, "insert notification")
	}
	return notif, nil
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	limit = clampLimit(limit)

	const query = `
		SELECT id, title, message, user_id, type, related_id, related_table, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, strings.TrimSpace(recipientID), limit)
	if err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		notif, err := scanNotification(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan notification")
		}
		notifications = append(notifications, notif)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	return notifications, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 25
	}
	return limit
}

func nullableString(v *string) interface{} {
	if v == nil {
		return nil
	}
	if trimmed := strings.TrimSpace(*v); trimmed != "" {
		return trimmed
	}
	return nil
}

func scanNotification(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Notification, error) {
	var (
		notif        models.Notification
		relatedID    sql.NullString
		relatedTable sql.NullString
	)

	if err := scanner.Scan(
		&notif.ID,
		&notif.Title,
		&notif.Message,
		&notif.RecipientID,
		&notif.Type,
		&relatedID,
		&relatedTable,
		&notif.CreatedAt,
	); err != nil {
		return models.Notification{}, err
	}

	if relatedID.Valid {
		val := relatedID.String
		notif.RelatedID = &val
	}
	if relatedTable.Valid {
		val := relatedTable.String
		notif.RelatedTable = &val
	}

	return notif, nil
}
