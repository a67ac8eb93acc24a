package campaigns

import (
	"context"
	"strings"
	"time"

	"github.com/jrsteele09/dmtool-server/credentials"
	apperrors "github.com/jrsteele09/dmtool-server/internal/errors"
	"github.com/jrsteele09/dmtool-server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// WriteMode selects how the campaign and GM inserts are kept together.
type WriteMode string

const (
	// WriteModeCompensating runs the inserts separately and deletes the
	// campaign again when the GM insert fails.
	WriteModeCompensating WriteMode = "compensating"
	// WriteModeTransactional runs both inserts in one store transaction.
	WriteModeTransactional WriteMode = "transactional"
)

// compensationTimeout bounds the campaign removal after a failed GM insert.
// The removal ignores cancellation of the request context.
const compensationTimeout = 10 * time.Second

// Outcome classifies the result of CreateCampaign.
type Outcome int

const (
	// OutcomeCreated: campaign and GM assignment exist.
	OutcomeCreated Outcome = iota
	// OutcomeRejected: duplicate name or invalid input, nothing was written.
	OutcomeRejected
	// OutcomeFailed: a store failure, nothing is left behind.
	OutcomeFailed
	// OutcomeInconsistent: a campaign without a GM is left in the store.
	OutcomeInconsistent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	case OutcomeInconsistent:
		return "inconsistent"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by CreateCampaign to its Outcome.
func Classify(err error) Outcome {
	var inconsistent *InconsistentStateError
	switch {
	case err == nil:
		return OutcomeCreated
	case errors.As(err, &inconsistent):
		return OutcomeInconsistent
	case errors.Is(err, ErrDuplicateCampaign), errors.Is(err, apperrors.ErrInvalidRequest):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

// Coordinator creates campaigns and assigns their author as GM.
type Coordinator struct {
	store   Writer
	hasher  credentials.Hasher
	mode    WriteMode
	logger  zerolog.Logger
	nowTime func() time.Time
}

// CoordinatorOption defines a function type to modify the Coordinator instance.
type CoordinatorOption func(*Coordinator)

// WithWriteMode selects the write mode, WriteModeCompensating by default.
func WithWriteMode(mode WriteMode) CoordinatorOption {
	return func(c *Coordinator) {
		c.mode = mode
	}
}

func WithLogger(logger zerolog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		c.nowTime = nowFunc
	}
}

func NewCoordinator(store Writer, hasher credentials.Hasher, options ...CoordinatorOption) (*Coordinator, error) {
	if store == nil {
		return nil, errors.New("[NewCoordinator] campaign store is required")
	}
	if hasher == nil {
		return nil, errors.New("[NewCoordinator] hasher is required")
	}

	c := &Coordinator{
		store:   store,
		hasher:  hasher,
		mode:    WriteModeCompensating,
		logger:  zerolog.Nop(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}

	switch c.mode {
	case WriteModeCompensating:
	case WriteModeTransactional:
		if _, ok := store.(TxRunner); !ok {
			c.logger.Warn().Msg("campaign store cannot run transactions, using compensating writes")
			c.mode = WriteModeCompensating
		}
	default:
		return nil, errors.Errorf("[NewCoordinator] unknown write mode %q", c.mode)
	}
	return c, nil
}

// Mode returns the write mode in effect.
func (c *Coordinator) Mode() WriteMode {
	return c.mode
}

// CreateCampaign creates a campaign for the identity and assigns it as GM.
//
// Errors, by Classify outcome:
//   - OutcomeRejected: ErrDuplicateCampaign, or errors.ErrInvalidRequest for a blank name.
//   - OutcomeFailed: *StoreError for the campaign insert, *RecoverableError for
//     the GM insert after the campaign was removed again.
//   - OutcomeInconsistent: *InconsistentStateError, the campaign could not be removed.
//
// Nothing is retried.
func (c *Coordinator) CreateCampaign(ctx context.Context, identity users.Identity, systemID int64, name, secret string) (*Campaign, error) {
	if identity.IsZero() {
		return nil, errors.Wrap(apperrors.ErrInvalidRequest, "identity is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidRequest, "campaign name is required")
	}

	digest, err := c.hasher.Hash(secret)
	if err != nil {
		return nil, errors.Wrap(err, "[CreateCampaign] failed to hash campaign secret")
	}

	campaign := &Campaign{
		AuthorID:   identity.Subject,
		SystemID:   systemID,
		Name:       name,
		SecretHash: digest,
		CreatedAt:  c.nowTime().UTC(),
	}

	logger := c.logger.With().
		Str("author", campaign.AuthorID).
		Str("campaign", campaign.Name).
		Str("mode", string(c.mode)).
		Logger()

	if c.mode == WriteModeTransactional {
		err = c.createTransactional(ctx, logger, campaign)
	} else {
		err = c.createCompensating(ctx, logger, campaign)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("campaign_id", campaign.ID).Msg("assigned author as gm of campaign")
	return campaign, nil
}

func (c *Coordinator) createCompensating(ctx context.Context, logger zerolog.Logger, campaign *Campaign) error {
	id, err := c.store.InsertCampaign(ctx, campaign)
	if err != nil {
		return c.insertFailure(logger, err)
	}
	campaign.ID = id
	logger = logger.With().Int64("campaign_id", id).Logger()
	logger.Debug().Msg("campaign created, assigning author as gm")

	assignErr := c.store.InsertOwnership(ctx, Ownership{UserID: campaign.AuthorID, CampaignID: id})
	if assignErr == nil {
		return nil
	}
	logger.Warn().Err(assignErr).Msg("failed to assign author as gm, removing campaign")

	removeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	removeErr := c.store.DeleteCampaign(removeCtx, id, campaign.AuthorID)
	if removeErr != nil && !errors.Is(removeErr, apperrors.ErrNotFound) {
		inconsistent := &InconsistentStateError{
			AuthorID:          campaign.AuthorID,
			Name:              campaign.Name,
			CampaignID:        id,
			Cause:             assignErr,
			CompensationCause: removeErr,
		}
		logger.Error().
			AnErr("assign_error", assignErr).
			AnErr("remove_error", removeErr).
			Bool("manual_intervention", true).
			Msg("database in inconsistent state: failed to remove campaign without gm")
		campaign.ID = 0
		return inconsistent
	}

	campaign.ID = 0
	return &RecoverableError{Name: campaign.Name, Err: assignErr}
}

func (c *Coordinator) createTransactional(ctx context.Context, logger zerolog.Logger, campaign *Campaign) error {
	runner := c.store.(TxRunner)

	err := runner.RunInTx(ctx, func(ctx context.Context, w Writer) error {
		id, err := w.InsertCampaign(ctx, campaign)
		if err != nil {
			return c.insertFailure(logger, err)
		}
		campaign.ID = id

		if err := w.InsertOwnership(ctx, Ownership{UserID: campaign.AuthorID, CampaignID: id}); err != nil {
			logger.Warn().Err(err).Int64("campaign_id", id).Msg("failed to assign author as gm, rolling back")
			return &RecoverableError{Name: campaign.Name, Err: err}
		}
		return nil
	})
	if err == nil {
		return nil
	}

	campaign.ID = 0
	var recoverable *RecoverableError
	var storeErr *StoreError
	switch {
	case errors.Is(err, ErrDuplicateCampaign), errors.As(err, &recoverable), errors.As(err, &storeErr):
		return err
	default:
		// Begin or commit failed; nothing was committed.
		logger.Error().Err(err).Msg("campaign transaction failed")
		return &RecoverableError{Name: campaign.Name, Err: err}
	}
}

func (c *Coordinator) insertFailure(logger zerolog.Logger, err error) error {
	if errors.Is(err, apperrors.ErrDuplicate) {
		logger.Info().Msg("failed to add campaign: duplicate campaign name for user")
		return ErrDuplicateCampaign
	}
	logger.Error().Err(err).Msg("failed to add campaign")
	return &StoreError{Op: "insert campaign", Err: err}
}
