package model

import "time"

type Status string

const (
	StatusRegistered Status = "registered"
	StatusCheckedIn  Status = "checked_in"
	StatusCancelled  Status = "cancelled"
)

// CanTransitionTo reports whether a registration in status s may move to next.
// checked_in and cancelled are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusRegistered {
		return false
	}
	return next == StatusCheckedIn || next == StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusRegistered, StatusCheckedIn, StatusCancelled:
		return true
	}
	return false
}

// Registration is one accepted submission. Optional fields are nil when the
// visitor left them out.
type Registration struct {
	ID               string     `db:"id" json:"id"`
	EventType        string     `db:"event_type" json:"event_type"`
	EntryCode        string     `db:"entry_code" json:"entry_code"`
	Status           Status     `db:"status" json:"status"`
	FirstName        string     `db:"first_name" json:"first_name"`
	LastName         string     `db:"last_name" json:"last_name"`
	Company          *string    `db:"company" json:"company,omitempty"`
	Division         *string    `db:"division" json:"division,omitempty"`
	JobTitle         *string    `db:"job_title" json:"job_title,omitempty"`
	Nationality      *string    `db:"nationality" json:"nationality,omitempty"`
	Country          *string    `db:"country" json:"country,omitempty"`
	Address          *string    `db:"address" json:"address,omitempty"`
	CountryCode      *string    `db:"country_code" json:"country_code,omitempty"`
	PhoneNumber      *string    `db:"phone_number" json:"phone_number,omitempty"`
	Email            *string    `db:"email" json:"email,omitempty"`
	BusinessType     *string    `db:"business_type" json:"business_type,omitempty"`
	CompanySize      *string    `db:"company_size" json:"company_size,omitempty"`
	YearsInBusiness  *string    `db:"years_in_business" json:"years_in_business,omitempty"`
	ProductsServices *string    `db:"products_services" json:"products_services,omitempty"`
	TargetMarkets    *string    `db:"target_markets" json:"target_markets,omitempty"`
	ExhibitionGoals  *string    `db:"exhibition_goals" json:"exhibition_goals,omitempty"`
	CheckedInAt      *time.Time `db:"checked_in_at" json:"checked_in_at,omitempty"`
	CancelledAt      *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// RegistrationFilter narrows admin listings. Empty fields match everything.
type RegistrationFilter struct {
	EventType string
	Status    Status
	Limit     int
	Offset    int
}
