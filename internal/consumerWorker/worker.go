package consumerWorker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"expoDesk/internal/dto"
	"expoDesk/internal/model"
	"expoDesk/internal/rabbit"
	"expoDesk/internal/repo"
	"expoDesk/pkg/validator"
)

type CheckInner interface {
	CheckIn(ctx context.Context, entryCode string) (*model.Registration, error)
}

// Reader consumes gate-scanner messages and checks the scanned
// registrations in.
type Reader struct {
	RMQ      rabbit.Rabbiter
	checkins CheckInner
	log      *zerolog.Logger
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewReader(rmq rabbit.Rabbiter, checkins CheckInner, log *zerolog.Logger) *Reader {
	return &Reader{
		RMQ:      rmq,
		checkins: checkins,
		log:      log,
		done:     make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.log.Info().Msg("check-in reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			return r.handleScan(cctx, body)
		}

		if err := r.RMQ.Consume(handler); err != nil {
			r.log.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		r.log.Info().Msg("check-in reader stopped by context")
	}()
}

// handleScan returns an error only when the message should be redelivered.
// Malformed scans, unknown codes and repeated scans are acknowledged.
func (r *Reader) handleScan(ctx context.Context, body []byte) error {
	var msg dto.CheckInScanMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		r.log.Error().Err(err).Msgf("failed to unmarshal scan message: %s", string(body))
		return nil
	}

	if err := validator.Validate(ctx, msg); err != nil {
		r.log.Warn().Err(err).Str("entry_code", msg.EntryCode).Msg("dropping invalid scan message")
		return nil
	}

	reg, err := r.checkins.CheckIn(ctx, msg.EntryCode)
	switch {
	case err == nil:
		r.log.Info().
			Str("entry_code", reg.EntryCode).
			Str("gate", msg.Gate).
			Time("scanned_at", msg.ScannedAt).
			Msg("visitor checked in")
		return nil
	case errors.Is(err, repo.ErrRegistrationNotFound):
		r.log.Warn().Str("entry_code", msg.EntryCode).Str("gate", msg.Gate).Msg("scanned code is not registered")
		return nil
	case errors.Is(err, repo.ErrInvalidTransition):
		r.log.Warn().Err(err).Str("entry_code", msg.EntryCode).Str("gate", msg.Gate).Msg("scan rejected")
		return nil
	default:
		r.log.Error().Err(err).Str("entry_code", msg.EntryCode).Msg("failed to check in, will retry")
		return err
	}
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
