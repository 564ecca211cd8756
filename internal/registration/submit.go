package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"expoDesk/internal/model"
)

// Store persists a new registration. Implementations fill CreatedAt/UpdatedAt.
type Store interface {
	InsertRegistration(ctx context.Context, reg *model.Registration) error
}

// Publisher announces a registration after its status was durably written.
type Publisher interface {
	PublishStatus(ctx context.Context, reg *model.Registration) error
}

// PersistenceError means the store rejected or failed the insert.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persist registration: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type Confirmation struct {
	EntryCode string
	Message   string
	Record    *model.Registration
}

type Submitter struct {
	store     Store
	pub       Publisher
	catalogue Catalogue
	codes     *CodeGenerator
	log       *zerolog.Logger
}

// NewSubmitter builds a Submitter. pub may be nil.
func NewSubmitter(store Store, pub Publisher, catalogue Catalogue, log *zerolog.Logger) *Submitter {
	return &Submitter{
		store:     store,
		pub:       pub,
		catalogue: catalogue,
		codes:     NewCodeGenerator(),
		log:       log,
	}
}

// WithCodeGenerator replaces the entry code source.
func (s *Submitter) WithCodeGenerator(g *CodeGenerator) *Submitter {
	s.codes = g
	return s
}

// Submit validates req against the profile of eventType, mints an entry code
// and stores exactly one record. Rejected submissions return *ValidationError
// and touch neither the generator nor the store; store failures return
// *PersistenceError. Resubmitting always creates a new record.
func (s *Submitter) Submit(ctx context.Context, req *Request, eventType string) (*Confirmation, error) {
	et, err := s.catalogue.Lookup(eventType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, eventType)
	}

	if err := Validate(req, et.Required); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reg := &model.Registration{
		ID:               uuid.New().String(),
		EventType:        et.Key,
		EntryCode:        s.codes.Generate(et.Prefix),
		Status:           model.StatusRegistered,
		FirstName:        req.Value(FieldFirstName),
		LastName:         req.Value(FieldLastName),
		Company:          optional(req, FieldCompany),
		Division:         optional(req, FieldDivision),
		JobTitle:         optional(req, FieldJobTitle),
		Nationality:      optional(req, FieldNationality),
		Country:          optional(req, FieldCountry),
		Address:          optional(req, FieldAddress),
		CountryCode:      optional(req, FieldCountryCode),
		PhoneNumber:      optional(req, FieldPhoneNumber),
		Email:            optional(req, FieldEmail),
		BusinessType:     optional(req, FieldBusinessType),
		CompanySize:      optional(req, FieldCompanySize),
		YearsInBusiness:  optional(req, FieldYearsInBusiness),
		ProductsServices: optional(req, FieldProductsServices),
		TargetMarkets:    optional(req, FieldTargetMarkets),
		ExhibitionGoals:  optional(req, FieldExhibitionGoals),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.InsertRegistration(ctx, reg); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	s.log.Info().
		Str("event_type", reg.EventType).
		Str("entry_code", reg.EntryCode).
		Msg("registration accepted")

	if s.pub != nil {
		if err := s.pub.PublishStatus(ctx, reg); err != nil {
			s.log.Warn().Err(err).Str("entry_code", reg.EntryCode).Msg("failed to publish registration event")
		}
	}

	return &Confirmation{
		EntryCode: reg.EntryCode,
		Message:   et.ConfirmationMessage,
		Record:    reg,
	}, nil
}

func optional(req *Request, f Field) *string {
	v := req.Value(f)
	if v == "" {
		return nil
	}
	return &v
}
