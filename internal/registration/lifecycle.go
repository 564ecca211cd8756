package registration

import (
	"context"

	"github.com/rs/zerolog"

	"expoDesk/internal/model"
	"expoDesk/internal/repo"
	"expoDesk/pkg/validator"
)

type StatusStore interface {
	TransitionStatusTx(ctx context.Context, entryCode string, next model.Status) (*model.Registration, error)
}

// Lifecycle applies post-creation status changes requested by admins and
// gate scanners.
type Lifecycle struct {
	store StatusStore
	pub   Publisher
	log   *zerolog.Logger
}

func NewLifecycle(store StatusStore, pub Publisher, log *zerolog.Logger) *Lifecycle {
	return &Lifecycle{store: store, pub: pub, log: log}
}

func (l *Lifecycle) CheckIn(ctx context.Context, entryCode string) (*model.Registration, error) {
	return l.transition(ctx, entryCode, model.StatusCheckedIn)
}

func (l *Lifecycle) Cancel(ctx context.Context, entryCode string) (*model.Registration, error) {
	return l.transition(ctx, entryCode, model.StatusCancelled)
}

func (l *Lifecycle) transition(ctx context.Context, entryCode string, next model.Status) (*model.Registration, error) {
	if !validator.EntryCode(entryCode) {
		return nil, repo.ErrRegistrationNotFound
	}

	reg, err := l.store.TransitionStatusTx(ctx, entryCode, next)
	if err != nil {
		return nil, err
	}

	l.log.Info().
		Str("entry_code", reg.EntryCode).
		Str("status", string(reg.Status)).
		Msg("registration status changed")

	if l.pub != nil {
		if err := l.pub.PublishStatus(ctx, reg); err != nil {
			l.log.Warn().Err(err).Str("entry_code", reg.EntryCode).Msg("failed to publish status event")
		}
	}
	return reg, nil
}
