package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stanstork/contact-api/internal/models"
)

// ErrUnknownRecipient mirrors the foreign key violation Postgres raises when a
// notification points at a profile that does not exist.
var ErrUnknownRecipient = errors.New("notification recipient does not exist")

// MemoryStore is an in-process stand-in for the profiles and notifications tables.
// It satisfies both ProfileRepository and NotificationRepository.
type MemoryStore struct {
	mu            sync.RWMutex
	profiles      []models.Profile
	notifications []models.Notification
	now           func() time.Time
}

func NewMemoryStore(profiles ...models.Profile) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, p := range profiles {
		s.AddProfile(p)
	}
	return s
}

// AddProfile inserts a profile, generating an id when none is set.
func (s *MemoryStore) AddProfile(p models.Profile) models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	if p.Role == "" {
		p.Role = models.RoleUser
	}
	s.profiles = append(s.profiles, p)
	return p
}

func (s *MemoryStore) FindAdmins(ctx context.Context) ([]models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "query admin profiles")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var admins []models.Profile
	for _, p := range s.profiles {
		if p.Role.IsAdmin() {
			admins = append(admins, p)
		}
	}
	return admins, nil
}

func (s *MemoryStore) Create(ctx context.Context, draft models.NotificationDraft) (models.Notification, error) {
	if err := ctx.Err(); err != nil {
		return models.Notification{}, errors.Wrap(err, "insert notification")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasProfileLocked(draft.RecipientID) {
		return models.Notification{}, errors.Wrap(ErrUnknownRecipient, "insert notification")
	}

	notif := models.Notification{
		ID:           uuid.NewString(),
		Title:        draft.Title,
		Message:      draft.Message,
		RecipientID:  draft.RecipientID,
		Type:         draft.Type,
		RelatedID:    copyString(draft.RelatedID),
		RelatedTable: copyString(draft.RelatedTable),
		CreatedAt:    s.now().UTC(),
	}
	s.notifications = append(s.notifications, notif)
	return notif, nil
}

func (s *MemoryStore) ListForRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	limit = clampLimit(limit)
	recipientID = strings.TrimSpace(recipientID)

	s.mu.RLock()
	var matched []models.Notification
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			matched = append(matched, n)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Notifications returns a snapshot of every stored notification in insertion order.
func (s *MemoryStore) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

func (s *MemoryStore) hasProfileLocked(id string) bool {
	for _, p := range s.profiles {
		if p.ID == id {
			return true
		}
	}
	return false
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	val := *v
	return &val
}
