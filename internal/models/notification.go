package models

import "time"

type NotificationType string

const (
	NotificationTypeAdminContact NotificationType = "admin_contact"
)

// ProfilesTable is the related_table value for notifications that point back at a profile.
const ProfilesTable = "profiles"

type Notification struct {
	ID           string           `json:"id" db:"id"`
	Title        string           `json:"title" db:"title"`
	Message      string           `json:"message" db:"message"`
	RecipientID  string           `json:"recipient_id" db:"user_id"`
	Type         NotificationType `json:"type" db:"type"`
	RelatedID    *string          `json:"related_id,omitempty" db:"related_id"`
	RelatedTable *string          `json:"related_table,omitempty" db:"related_table"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

// NotificationDraft is a notification that has not been persisted yet.
type NotificationDraft struct {
	Title        string
	Message      string
	RecipientID  string
	Type         NotificationType
	RelatedID    *string
	RelatedTable *string
}
