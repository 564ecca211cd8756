package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"expoDesk/internal/model"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrDuplicateEntryCode   = errors.New("duplicate entry code")
)

// TransitionError reports a status change the lifecycle does not allow.
type TransitionError struct {
	From model.Status
	To   model.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move registration from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type Repository interface {
	InsertRegistration(ctx context.Context, reg *model.Registration) error
	GetRegistrationByCode(ctx context.Context, entryCode string) (*model.Registration, error)
	ListRegistrations(ctx context.Context, f model.RegistrationFilter) ([]model.Registration, error)
	CountByStatus(ctx context.Context, eventType string) (map[model.Status]int, error)
	TransitionStatusTx(ctx context.Context, entryCode string, next model.Status) (*model.Registration, error)
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
	Ping(ctx context.Context) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) Ping(ctx context.Context) error {
	return r.db.Master.PingContext(ctx)
}

// PublicMessage extracts the part of a store error that may be shown to a
// visitor: the server's primary message for Postgres errors, nothing else.
func PublicMessage(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Message
	}
	if errors.Is(err, ErrDuplicateEntryCode) {
		return ErrDuplicateEntryCode.Error()
	}
	return "failed to store registration"
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for i := len(files) - 1; i >= 0; i-- {
		sqlBytes, err := os.ReadFile(files[i])
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", files[i], err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", files[i], err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

const registrationColumns = `
	id, event_type, entry_code, status, first_name, last_name, company, division, job_title,
	nationality, country, address, country_code, phone_number, email, business_type,
	company_size, years_in_business, products_services, target_markets, exhibition_goals,
	checked_in_at, cancelled_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner, reg *model.Registration) error {
	return row.Scan(
		&reg.ID,
		&reg.EventType,
		&reg.EntryCode,
		&reg.Status,
		&reg.FirstName,
		&reg.LastName,
		&reg.Company,
		&reg.Division,
		&reg.JobTitle,
		&reg.Nationality,
		&reg.Country,
		&reg.Address,
		&reg.CountryCode,
		&reg.PhoneNumber,
		&reg.Email,
		&reg.BusinessType,
		&reg.CompanySize,
		&reg.YearsInBusiness,
		&reg.ProductsServices,
		&reg.TargetMarkets,
		&reg.ExhibitionGoals,
		&reg.CheckedInAt,
		&reg.CancelledAt,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
}

func (r *repository) InsertRegistration(ctx context.Context, reg *model.Registration) error {
	query := `
		INSERT INTO registrations (
			id, event_type, entry_code, status, first_name, last_name, company, division, job_title,
			nationality, country, address, country_code, phone_number, email, business_type,
			company_size, years_in_business, products_services, target_markets, exhibition_goals
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		reg.ID, reg.EventType, reg.EntryCode, reg.Status, reg.FirstName, reg.LastName,
		reg.Company, reg.Division, reg.JobTitle, reg.Nationality, reg.Country, reg.Address,
		reg.CountryCode, reg.PhoneNumber, reg.Email, reg.BusinessType, reg.CompanySize,
		reg.YearsInBusiness, reg.ProductsServices, reg.TargetMarkets, reg.ExhibitionGoals,
	).Scan(&reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "registrations_entry_code_key" {
			return fmt.Errorf("failed to insert registration: %w", ErrDuplicateEntryCode)
		}
		return fmt.Errorf("failed to insert registration: %w", err)
	}
	return nil
}

func (r *repository) GetRegistrationByCode(ctx context.Context, entryCode string) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE entry_code = $1`

	var reg model.Registration
	if err := scanRegistration(r.db.QueryRowContext(ctx, query, entryCode), &reg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return &reg, nil
}

func (r *repository) ListRegistrations(ctx context.Context, f model.RegistrationFilter) ([]model.Registration, error) {
	var (
		where []string
		args  []any
	)
	if f.EventType != "" {
		args = append(args, f.EventType)
		where = append(where, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + registrationColumns + ` FROM registrations`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		if err := scanRegistration(rows, &reg); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *repository) CountByStatus(ctx context.Context, eventType string) (map[model.Status]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM registrations
		WHERE ($1::text = '' OR event_type = $1)
		GROUP BY status
	`

	rows, err := r.db.QueryContext(ctx, query, eventType)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}
	defer rows.Close()

	counts := map[model.Status]int{
		model.StatusRegistered: 0,
		model.StatusCheckedIn:  0,
		model.StatusCancelled:  0,
	}
	for rows.Next() {
		var (
			status model.Status
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *repository) TransitionStatusTx(ctx context.Context, entryCode string, next model.Status) (*model.Registration, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var current model.Status
	err = tx.QueryRowContext(ctx, `
		SELECT status
		FROM registrations
		WHERE entry_code = $1
		FOR UPDATE
	`, entryCode).Scan(&current)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to lock registration: %w", err)
	}

	if !current.CanTransitionTo(next) {
		_ = tx.Rollback()
		return nil, &TransitionError{From: current, To: next}
	}

	stampColumn := "checked_in_at"
	if next == model.StatusCancelled {
		stampColumn = "cancelled_at"
	}
	query := `
		UPDATE registrations
		SET status = $1, ` + stampColumn + ` = NOW(), updated_at = NOW()
		WHERE entry_code = $2
		RETURNING ` + registrationColumns

	var reg model.Registration
	if err := scanRegistration(tx.QueryRowContext(ctx, query, next, entryCode), &reg); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to update registration status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &reg, nil
}
