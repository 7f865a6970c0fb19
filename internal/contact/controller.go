package contact

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stanstork/contact-api/internal/models"
)

// DefaultIOTimeout bounds each store call when no timeout is configured.
const DefaultIOTimeout = 5 * time.Second

// AdminResolver looks up every profile eligible to receive contact messages.
type AdminResolver interface {
	FindAdmins(ctx context.Context) ([]models.Profile, error)
}

// NotificationWriter persists exactly one notification per call.
type NotificationWriter interface {
	Create(ctx context.Context, draft models.NotificationDraft) (models.Notification, error)
}

type Options struct {
	Policy    RecipientPolicy
	IOTimeout time.Duration
}

// Result is handed back to the caller on success. ClearInput tells the caller to
// reset the form it collected the input from.
type Result struct {
	Notification models.Notification
	ClearInput   bool
}

type Controller struct {
	admins    AdminResolver
	writer    NotificationWriter
	policy    RecipientPolicy
	ioTimeout time.Duration
	logger    zerolog.Logger
}

func NewController(admins AdminResolver, writer NotificationWriter, opts Options, logger zerolog.Logger) *Controller {
	if opts.Policy == nil {
		opts.Policy = FirstPolicy{}
	}
	if opts.IOTimeout <= 0 {
		opts.IOTimeout = DefaultIOTimeout
	}
	return &Controller{
		admins:    admins,
		writer:    writer,
		policy:    opts.Policy,
		ioTimeout: opts.IOTimeout,
		logger:    logger.With().Str("component", "contact_controller").Logger(),
	}
}

// Submit runs a fresh submission for senderID.
func (c *Controller) Submit(ctx context.Context, input Input, senderID string) (Result, error) {
	return c.Run(ctx, NewSubmission(input, senderID))
}

// Run drives sub from Idle to a terminal state. Once started the submission is
// not cancelled by ctx; each store call is bounded by the configured I/O timeout.
func (c *Controller) Run(ctx context.Context, sub *Submission) (Result, error) {
	if err := sub.start(); err != nil {
		return Result{}, err
	}
	ctx = context.WithoutCancel(ctx)

	if err := sub.validate(); err != nil {
		return Result{}, c.failWith(sub, ErrValidation, err)
	}
	logger := c.logger.With().Str("sender_id", sub.senderID).Logger()

	if err := sub.resolve(); err != nil {
		return Result{}, err
	}
	admins, err := c.findAdmins(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to resolve admin recipients")
		return Result{}, c.failWith(sub, ErrLookup, err)
	}
	if len(admins) == 0 {
		logger.Warn().Msg("no admin profiles available for contact message")
		return Result{}, c.failWith(sub, ErrNoAdminAvailable, nil)
	}
	recipient := c.policy.Select(admins)

	if err := sub.write(); err != nil {
		return Result{}, err
	}
	relatedID := sub.senderID
	relatedTable := models.ProfilesTable
	notif, err := c.create(ctx, models.NotificationDraft{
		Title:        sub.input.Subject,
		Message:      sub.input.Body,
		RecipientID:  recipient.ID,
		Type:         models.NotificationTypeAdminContact,
		RelatedID:    &relatedID,
		RelatedTable: &relatedTable,
	})
	if err != nil {
		logger.Error().Err(err).Str("recipient_id", recipient.ID).Msg("failed to persist contact notification")
		return Result{}, c.failWith(sub, ErrWrite, err)
	}

	if err := sub.succeed(); err != nil {
		return Result{}, err
	}
	logger.Info().
		Str("notification_id", notif.ID).
		Str("recipient_id", recipient.ID).
		Msg("admin contact notification created")
	return Result{Notification: notif, ClearInput: true}, nil
}

func (c *Controller) findAdmins(ctx context.Context) ([]models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.ioTimeout)
	defer cancel()
	return c.admins.FindAdmins(ctx)
}

func (c *Controller) create(ctx context.Context, draft models.NotificationDraft) (models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.ioTimeout)
	defer cancel()
	return c.writer.Create(ctx, draft)
}

func (c *Controller) failWith(sub *Submission, kind, cause error) error {
	if err := sub.fail(kind); err != nil {
		return err
	}
	return fail(kind, cause)
}
