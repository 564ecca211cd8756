package registration

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/go-playground/assert.v1"

	"expoDesk/internal/model"
	"expoDesk/internal/repo"
)

type fakeStore struct {
	mu      sync.Mutex
	err     error
	inserts []*model.Registration
}

func (f *fakeStore) InsertRegistration(_ context.Context, reg *model.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, reg)
	return f.err
}

type fakePublisher struct {
	err       error
	published []*model.Registration
}

func (f *fakePublisher) PublishStatus(_ context.Context, reg *model.Registration) error {
	f.published = append(f.published, reg)
	return f.err
}

func quietLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func scenarioA() *Request {
	return &Request{
		FirstName:    "John",
		LastName:     "Smith",
		Company:      "Acme",
		Nationality:  "Canada",
		Country:      "Canada",
		Address:      "1 Main St",
		CountryCode:  "+1",
		PhoneNumber:  "5551234567",
		BusinessType: "Retailer",
	}
}

func tradeExpoRequest() *Request {
	req := scenarioA()
	req.CompanySize = "11-50"
	req.YearsInBusiness = "5"
	req.ProductsServices = "Gemstones"
	req.ExhibitionGoals = "Find distributors"
	return req
}

var (
	gemCode   = regexp.MustCompile(`^GEM\d{6}[A-Z0-9]{4}$`)
	tradeCode = regexp.MustCompile(`^TRADE\d{6}[A-Z0-9]{4}$`)
)

func TestGenerateEntryCode(t *testing.T) {
	code := GenerateEntryCode("GEM")
	assert.Equal(t, strings.HasPrefix(code, "GEM"), true)
	assert.Equal(t, len(code), 13)
	assert.MatchRegex(t, code, gemCode)
}

func TestCodeGeneratorUsesClockAndRandom(t *testing.T) {
	draws := []int{10, 11, 0, 35}
	i := 0
	g := &CodeGenerator{
		Now: func() time.Time { return time.UnixMilli(1718000123456) },
		IntN: func(n int) int {
			v := draws[i%len(draws)]
			i++
			return v
		},
	}
	assert.Equal(t, g.Generate("TRADE"), "TRADE123456AB0Z")
}

func TestCodeGeneratorKeepsLeadingZeros(t *testing.T) {
	g := &CodeGenerator{
		Now:  func() time.Time { return time.UnixMilli(1718000000042) },
		IntN: func(int) int { return 0 },
	}
	assert.Equal(t, g.Generate("GEM"), "GEM0000420000")
}

func TestCodeGeneratorRarelyCollides(t *testing.T) {
	g := NewCodeGenerator()
	seen := make(map[string]bool)
	dupes := 0
	for i := 0; i < 200; i++ {
		c := g.Generate("GEM")
		if seen[c] {
			dupes++
		}
		seen[c] = true
	}
	if dupes > 2 {
		t.Fatalf("too many collisions: %d", dupes)
	}
}

func TestValidateVisitorMissingCompany(t *testing.T) {
	req := scenarioA()
	req.Company = ""

	err := Validate(req, Visitor.Required)
	var verr *ValidationError
	assert.Equal(t, errors.As(err, &verr), true)
	assert.Equal(t, verr.Missing, []string{"Company"})
	assert.Equal(t, verr.Error(), "Please fill in: Company")
}

func TestValidateKeepsDeclarationOrderAndTrims(t *testing.T) {
	req := &Request{FirstName: "  ", LastName: "Smith", Company: "Acme", Country: "\t"}

	err := Validate(req, Visitor.Required)
	var verr *ValidationError
	assert.Equal(t, errors.As(err, &verr), true)
	assert.Equal(t, verr.Missing, []string{
		"First Name", "Nationality", "Country", "Address", "Country Code", "Phone Number", "Business Type",
	})
}

func TestValidateTradeExpoMissingGoals(t *testing.T) {
	req := tradeExpoRequest()
	req.ExhibitionGoals = ""

	err := Validate(req, TradeExpo.Required)
	var verr *ValidationError
	assert.Equal(t, errors.As(err, &verr), true)
	assert.Equal(t, verr.Missing, []string{"Exhibition Goals"})

	assert.Equal(t, Validate(req, Visitor.Required), nil)
}

func TestTextAcceptsNumbers(t *testing.T) {
	var req Request
	body := `{"yearsInBusiness": 12, "companySize": "  50 ", "email": null}`
	assert.Equal(t, json.Unmarshal([]byte(body), &req), nil)
	assert.Equal(t, req.Value(FieldYearsInBusiness), "12")
	assert.Equal(t, req.Value(FieldCompanySize), "50")
	assert.Equal(t, req.Value(FieldEmail), "")

	assert.NotEqual(t, json.Unmarshal([]byte(`{"firstName": {"a": 1}}`), &req), nil)
}

func TestSubmitAccepted(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	s := NewSubmitter(store, pub, DefaultCatalogue(), quietLogger())

	conf, err := s.Submit(context.Background(), scenarioA(), Visitor.Key)
	assert.Equal(t, err, nil)
	assert.MatchRegex(t, conf.EntryCode, gemCode)
	assert.Equal(t, conf.Message, Visitor.ConfirmationMessage)

	assert.Equal(t, len(store.inserts), 1)
	rec := store.inserts[0]
	assert.Equal(t, rec.Status, model.StatusRegistered)
	assert.Equal(t, rec.EntryCode, conf.EntryCode)
	assert.Equal(t, rec.EventType, "visitor")
	assert.Equal(t, *rec.Company, "Acme")
	assert.Equal(t, rec.Email == nil, true)
	assert.Equal(t, rec.Division == nil, true)
	assert.Equal(t, len(pub.published), 1)
}

func TestSubmitTradeExpo(t *testing.T) {
	store := &fakeStore{}
	s := NewSubmitter(store, nil, DefaultCatalogue(), quietLogger())

	conf, err := s.Submit(context.Background(), tradeExpoRequest(), TradeExpo.Key)
	assert.Equal(t, err, nil)
	assert.MatchRegex(t, conf.EntryCode, tradeCode)
	assert.Equal(t, *store.inserts[0].YearsInBusiness, "5")
	assert.Equal(t, store.inserts[0].TargetMarkets == nil, true)
}

func TestSubmitRejectedDoesNotPersist(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	called := false
	s := NewSubmitter(store, pub, DefaultCatalogue(), quietLogger()).WithCodeGenerator(&CodeGenerator{
		Now:  func() time.Time { called = true; return time.Now() },
		IntN: func(int) int { called = true; return 0 },
	})

	req := scenarioA()
	req.Company = ""
	conf, err := s.Submit(context.Background(), req, Visitor.Key)

	var verr *ValidationError
	assert.Equal(t, errors.As(err, &verr), true)
	assert.Equal(t, verr.Missing, []string{"Company"})
	assert.Equal(t, conf == nil, true)
	assert.Equal(t, len(store.inserts), 0)
	assert.Equal(t, len(pub.published), 0)
	assert.Equal(t, called, false)
}

func TestSubmitTradeExpoMissingGoals(t *testing.T) {
	store := &fakeStore{}
	s := NewSubmitter(store, nil, DefaultCatalogue(), quietLogger())

	req := tradeExpoRequest()
	req.ExhibitionGoals = " "
	_, err := s.Submit(context.Background(), req, TradeExpo.Key)

	var verr *ValidationError
	assert.Equal(t, errors.As(err, &verr), true)
	assert.Equal(t, verr.Missing, []string{"Exhibition Goals"})
	assert.Equal(t, len(store.inserts), 0)
}

func TestSubmitStoreFailure(t *testing.T) {
	cause := errors.New("connection refused")
	store := &fakeStore{err: cause}
	pub := &fakePublisher{}
	s := NewSubmitter(store, pub, DefaultCatalogue(), quietLogger())

	conf, err := s.Submit(context.Background(), scenarioA(), Visitor.Key)

	var perr *PersistenceError
	assert.Equal(t, errors.As(err, &perr), true)
	assert.Equal(t, errors.Is(err, cause), true)
	assert.Equal(t, conf == nil, true)
	assert.Equal(t, len(store.inserts), 1)
	assert.Equal(t, len(pub.published), 0)
}

func TestSubmitPublishFailureStillAccepted(t *testing.T) {
	store := &fakeStore{}
	s := NewSubmitter(store, &fakePublisher{err: errors.New("channel closed")}, DefaultCatalogue(), quietLogger())

	conf, err := s.Submit(context.Background(), scenarioA(), Visitor.Key)
	assert.Equal(t, err, nil)
	assert.MatchRegex(t, conf.EntryCode, gemCode)
}

func TestSubmitIsNotIdempotent(t *testing.T) {
	store := &fakeStore{}
	ms := int64(1718000000000)
	s := NewSubmitter(store, nil, DefaultCatalogue(), quietLogger()).WithCodeGenerator(&CodeGenerator{
		Now:  func() time.Time { ms++; return time.UnixMilli(ms) },
		IntN: func(int) int { return 7 },
	})

	first, err := s.Submit(context.Background(), scenarioA(), Visitor.Key)
	assert.Equal(t, err, nil)
	second, err := s.Submit(context.Background(), scenarioA(), Visitor.Key)
	assert.Equal(t, err, nil)

	assert.Equal(t, len(store.inserts), 2)
	assert.NotEqual(t, first.EntryCode, second.EntryCode)
	assert.NotEqual(t, store.inserts[0].ID, store.inserts[1].ID)
}

func TestSubmitUnknownEventType(t *testing.T) {
	store := &fakeStore{}
	s := NewSubmitter(store, nil, DefaultCatalogue(), quietLogger())

	_, err := s.Submit(context.Background(), scenarioA(), "gala_dinner")
	assert.Equal(t, errors.Is(err, ErrUnknownEventType), true)
	assert.Equal(t, len(store.inserts), 0)
}

type fakeStatusStore struct {
	status map[string]model.Status
	calls  int
}

func (f *fakeStatusStore) TransitionStatusTx(_ context.Context, code string, next model.Status) (*model.Registration, error) {
	f.calls++
	cur, ok := f.status[code]
	if !ok {
		return nil, repo.ErrRegistrationNotFound
	}
	if !cur.CanTransitionTo(next) {
		return nil, &repo.TransitionError{From: cur, To: next}
	}
	f.status[code] = next
	return &model.Registration{EntryCode: code, Status: next}, nil
}

func TestLifecycle(t *testing.T) {
	store := &fakeStatusStore{status: map[string]model.Status{
		"GEM123456AB12":   model.StatusRegistered,
		"TRADE654321ZZ99": model.StatusRegistered,
	}}
	pub := &fakePublisher{}
	lc := NewLifecycle(store, pub, quietLogger())
	ctx := context.Background()

	reg, err := lc.CheckIn(ctx, "GEM123456AB12")
	assert.Equal(t, err, nil)
	assert.Equal(t, reg.Status, model.StatusCheckedIn)

	_, err = lc.Cancel(ctx, "GEM123456AB12")
	assert.Equal(t, errors.Is(err, repo.ErrInvalidTransition), true)

	reg, err = lc.Cancel(ctx, "TRADE654321ZZ99")
	assert.Equal(t, err, nil)
	assert.Equal(t, reg.Status, model.StatusCancelled)

	_, err = lc.CheckIn(ctx, "TRADE654321ZZ99")
	assert.Equal(t, errors.Is(err, repo.ErrInvalidTransition), true)

	_, err = lc.CheckIn(ctx, "GEM999999AAAA")
	assert.Equal(t, errors.Is(err, repo.ErrRegistrationNotFound), true)

	assert.Equal(t, len(pub.published), 2)
}

func TestLifecycleRejectsMalformedCode(t *testing.T) {
	store := &fakeStatusStore{status: map[string]model.Status{}}
	lc := NewLifecycle(store, nil, quietLogger())

	_, err := lc.CheckIn(context.Background(), "'; DROP TABLE registrations; --")
	assert.Equal(t, errors.Is(err, repo.ErrRegistrationNotFound), true)
	assert.Equal(t, store.calls, 0)
}
