package dto

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"

	"expoDesk/internal/model"
)

const (
	FieldIncorrect     = "FIELD_INCORRECT"
	FieldsMissing      = "FIELDS_MISSING"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	DatabaseError      = "DATABASE_ERROR"
	InternalError      = "Service is currently unavailable. Please try again later."

	EventTypeNotFound    = "EVENT_TYPE_NOT_FOUND"
	RegistrationNotFound = "REGISTRATION_NOT_FOUND"
	InvalidTransition    = "INVALID_STATUS_TRANSITION"
	Unauthorized         = "UNAUTHORIZED"
)

// RegistrationAccepted is the body returned to the registration form.
type RegistrationAccepted struct {
	Success   bool   `json:"success"`
	EntryCode string `json:"entryCode"`
	Message   string `json:"message"`
}

type RegistrationResponse struct {
	ID               string     `json:"id"`
	EventType        string     `json:"event_type"`
	EntryCode        string     `json:"entry_code"`
	Status           string     `json:"status"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Company          *string    `json:"company,omitempty"`
	Division         *string    `json:"division,omitempty"`
	JobTitle         *string    `json:"job_title,omitempty"`
	Nationality      *string    `json:"nationality,omitempty"`
	Country          *string    `json:"country,omitempty"`
	Address          *string    `json:"address,omitempty"`
	CountryCode      *string    `json:"country_code,omitempty"`
	PhoneNumber      *string    `json:"phone_number,omitempty"`
	Email            *string    `json:"email,omitempty"`
	BusinessType     *string    `json:"business_type,omitempty"`
	CompanySize      *string    `json:"company_size,omitempty"`
	YearsInBusiness  *string    `json:"years_in_business,omitempty"`
	ProductsServices *string    `json:"products_services,omitempty"`
	TargetMarkets    *string    `json:"target_markets,omitempty"`
	ExhibitionGoals  *string    `json:"exhibition_goals,omitempty"`
	CheckedInAt      *time.Time `json:"checked_in_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ListRegistrationsQuery struct {
	EventType string `form:"event_type" validate:"omitempty,eventtype"`
	Status    string `form:"status" validate:"omitempty,status"`
	Limit     int    `form:"limit" validate:"gte=0,lte=500"`
	Offset    int    `form:"offset" validate:"gte=0"`
}

type RegistrationStatsResponse struct {
	EventType string         `json:"event_type,omitempty"`
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RegistrationStatusMessage is published after every durable status write.
type RegistrationStatusMessage struct {
	RegistrationID string    `json:"registration_id"`
	EventType      string    `json:"event_type"`
	EntryCode      string    `json:"entry_code"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// CheckInScanMessage is sent by gate scanners.
type CheckInScanMessage struct {
	EntryCode string    `json:"entry_code" validate:"required,entrycode"`
	Gate      string    `json:"gate" validate:"max=64"`
	ScannedAt time.Time `json:"scanned_at"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code   string   `json:"code"`
	Desc   string   `json:"desc"`
	Fields []string `json:"fields,omitempty"`
}

func errorResponse(c *ginext.Context, status int, code, desc string) {
	c.JSON(status, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func BadResponseError(c *ginext.Context, code, desc string) {
	errorResponse(c, http.StatusBadRequest, code, desc)
}

func InternalServerError(c *ginext.Context) {
	errorResponse(c, http.StatusInternalServerError, ServiceUnavailable, InternalError)
}

func DatabaseFailure(c *ginext.Context, message string) {
	errorResponse(c, http.StatusInternalServerError, DatabaseError, "Database error: "+message)
}

func MissingFieldsError(c *ginext.Context, desc string, fields []string) {
	c.JSON(http.StatusBadRequest, Response{
		Status: "error",
		Error: &Error{
			Code:   FieldsMissing,
			Desc:   desc,
			Fields: fields,
		},
	})
}

func EventTypeNotFoundError(c *ginext.Context) {
	errorResponse(c, http.StatusNotFound, EventTypeNotFound, "Event type not found")
}

func RegistrationNotFoundError(c *ginext.Context) {
	errorResponse(c, http.StatusNotFound, RegistrationNotFound, "Registration not found")
}

func InvalidTransitionError(c *ginext.Context, desc string) {
	errorResponse(c, http.StatusConflict, InvalidTransition, desc)
}

func UnauthorizedError(c *ginext.Context, desc string) {
	errorResponse(c, http.StatusUnauthorized, Unauthorized, desc)
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Status: "ok",
		Data:   data,
	})
}

func RegistrationAcceptedResponse(c *ginext.Context, entryCode, message string) {
	c.JSON(http.StatusOK, RegistrationAccepted{
		Success:   true,
		EntryCode: entryCode,
		Message:   message,
	})
}

func NewRegistrationResponse(r *model.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:               r.ID,
		EventType:        r.EventType,
		EntryCode:        r.EntryCode,
		Status:           string(r.Status),
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Company:          r.Company,
		Division:         r.Division,
		JobTitle:         r.JobTitle,
		Nationality:      r.Nationality,
		Country:          r.Country,
		Address:          r.Address,
		CountryCode:      r.CountryCode,
		PhoneNumber:      r.PhoneNumber,
		Email:            r.Email,
		BusinessType:     r.BusinessType,
		CompanySize:      r.CompanySize,
		YearsInBusiness:  r.YearsInBusiness,
		ProductsServices: r.ProductsServices,
		TargetMarkets:    r.TargetMarkets,
		ExhibitionGoals:  r.ExhibitionGoals,
		CheckedInAt:      r.CheckedInAt,
		CancelledAt:      r.CancelledAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
