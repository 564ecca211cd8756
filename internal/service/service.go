package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"expoDesk/internal/auth"
	"expoDesk/internal/dto"
	"expoDesk/internal/model"
	"expoDesk/internal/registration"
	"expoDesk/internal/repo"
	"expoDesk/pkg/validator"
)

const defaultPageSize = 50

type Service interface {
	Register(eventType string) func(ctx *ginext.Context)
	RegisterByType(ctx *ginext.Context)
	Login(ctx *ginext.Context)
	ListRegistrations(ctx *ginext.Context)
	GetRegistration(ctx *ginext.Context)
	CheckIn(ctx *ginext.Context)
	Cancel(ctx *ginext.Context)
	Stats(ctx *ginext.Context)
	Health(ctx *ginext.Context)
}

type Submitter interface {
	Submit(ctx context.Context, req *registration.Request, eventType string) (*registration.Confirmation, error)
}

type Lifecycle interface {
	CheckIn(ctx context.Context, entryCode string) (*model.Registration, error)
	Cancel(ctx context.Context, entryCode string) (*model.Registration, error)
}

// Reader is the read side of the repository used by the admin API.
type Reader interface {
	GetRegistrationByCode(ctx context.Context, entryCode string) (*model.Registration, error)
	ListRegistrations(ctx context.Context, f model.RegistrationFilter) ([]model.Registration, error)
	CountByStatus(ctx context.Context, eventType string) (map[model.Status]int, error)
	Ping(ctx context.Context) error
}

type Authenticator interface {
	Login(username, password string) (string, time.Time, error)
}

type service struct {
	submitter Submitter
	lifecycle Lifecycle
	reader    Reader
	auth      Authenticator
	log       *zerolog.Logger
}

func NewService(submitter Submitter, lifecycle Lifecycle, reader Reader, authenticator Authenticator, logger *zerolog.Logger) Service {
	return &service{
		submitter: submitter,
		lifecycle: lifecycle,
		reader:    reader,
		auth:      authenticator,
		log:       logger,
	}
}

// Register returns a handler bound to a single event type, for the fixed
// form endpoints.
func (s *service) Register(eventType string) func(ctx *ginext.Context) {
	return func(ctx *ginext.Context) {
		s.submit(ctx, eventType)
	}
}

func (s *service) RegisterByType(ctx *ginext.Context) {
	s.submit(ctx, ctx.Param("eventType"))
}

func (s *service) submit(ctx *ginext.Context, eventType string) {
	var req registration.Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Warn().Err(err).Str("event_type", eventType).Msg("failed to parse registration request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	conf, err := s.submitter.Submit(ctx.Request.Context(), &req, eventType)
	if err != nil {
		var verr *registration.ValidationError
		var perr *registration.PersistenceError
		switch {
		case errors.Is(err, registration.ErrUnknownEventType):
			dto.EventTypeNotFoundError(ctx)
		case errors.As(err, &verr):
			s.log.Info().Str("event_type", eventType).Strs("missing", verr.Missing).Msg("registration rejected")
			dto.MissingFieldsError(ctx, verr.Error(), verr.Missing)
		case errors.As(err, &perr):
			s.log.Error().Err(perr.Err).Str("event_type", eventType).Msg("failed to store registration")
			dto.DatabaseFailure(ctx, repo.PublicMessage(perr.Err))
		default:
			s.log.Error().Err(err).Str("event_type", eventType).Msg("registration failed")
			dto.InternalServerError(ctx)
		}
		return
	}

	dto.RegistrationAcceptedResponse(ctx, conf.EntryCode, conf.Message)
}

func (s *service) Login(ctx *ginext.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	token, exp, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.log.Warn().Msg("admin login rejected")
			dto.UnauthorizedError(ctx, "Invalid username or password")
			return
		}
		s.log.Error().Err(err).Msg("failed to issue admin token")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.LoginResponse{AccessToken: token, ExpiresAt: exp})
}

func (s *service) ListRegistrations(ctx *ginext.Context) {
	var q dto.ListRegistrationsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid query parameters")
		return
	}

	if verr := validator.Validate(ctx, q); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	if q.Limit == 0 {
		q.Limit = defaultPageSize
	}

	regs, err := s.reader.ListRegistrations(ctx.Request.Context(), model.RegistrationFilter{
		EventType: q.EventType,
		Status:    model.Status(q.Status),
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list registrations")
		dto.InternalServerError(ctx)
		return
	}

	resp := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		resp = append(resp, dto.NewRegistrationResponse(&regs[i]))
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) GetRegistration(ctx *ginext.Context) {
	code := strings.TrimSpace(ctx.Param("code"))
	if !validator.EntryCode(code) {
		dto.RegistrationNotFoundError(ctx)
		return
	}

	reg, err := s.reader.GetRegistrationByCode(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Str("entry_code", code).Msg("failed to get registration")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.NewRegistrationResponse(reg))
}

func (s *service) CheckIn(ctx *ginext.Context) {
	s.transition(ctx, s.lifecycle.CheckIn)
}

func (s *service) Cancel(ctx *ginext.Context) {
	s.transition(ctx, s.lifecycle.Cancel)
}

func (s *service) transition(ctx *ginext.Context, apply func(context.Context, string) (*model.Registration, error)) {
	code := strings.TrimSpace(ctx.Param("code"))

	reg, err := apply(ctx.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrRegistrationNotFound):
			dto.RegistrationNotFoundError(ctx)
		case errors.Is(err, repo.ErrInvalidTransition):
			dto.InvalidTransitionError(ctx, err.Error())
		default:
			s.log.Error().Err(err).Str("entry_code", code).Msg("failed to change registration status")
			dto.InternalServerError(ctx)
		}
		return
	}

	dto.SuccessResponse(ctx, dto.NewRegistrationResponse(reg))
}

func (s *service) Stats(ctx *ginext.Context) {
	eventType := ctx.Query("event_type")

	counts, err := s.reader.CountByStatus(ctx.Request.Context(), eventType)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count registrations")
		dto.InternalServerError(ctx)
		return
	}

	resp := dto.RegistrationStatsResponse{
		EventType: eventType,
		ByStatus: map[string]int{
			string(model.StatusRegistered): 0,
			string(model.StatusCheckedIn):  0,
			string(model.StatusCancelled):  0,
		},
	}
	for status, n := range counts {
		resp.ByStatus[string(status)] = n
		resp.Total += n
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) Health(ctx *ginext.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.reader.Ping(pingCtx); err != nil {
		s.log.Error().Err(err).Msg("health check failed")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, map[string]string{"database": "up"})
}
