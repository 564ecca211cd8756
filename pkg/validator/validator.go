package validator

import (
	"context"
	"errors"
	"regexp"

	"github.com/go-playground/validator"

	"expoDesk/internal/model"
)

var (
	global         *validator.Validate
	entryCodeRegex = regexp.MustCompile(`^[A-Z]{2,8}[0-9]{6}[A-Z0-9]{4}$`)
	eventTypeRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{1,31}$`)
)

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxVal = "Field exceeds maximum value"
	ErrFieldBelowMinVal   = "Field is below minimum value"
	ErrUnknownValidation  = "Unknown validation error"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("entrycode", validateEntryCode)
	_ = v.RegisterValidation("eventtype", validateEventType)
	_ = v.RegisterValidation("status", validateStatus)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func validateEntryCode(fl validator.FieldLevel) bool {
	return entryCodeRegex.MatchString(fl.Field().String())
}

func validateEventType(fl validator.FieldLevel) bool {
	return eventTypeRegex.MatchString(fl.Field().String())
}

func validateStatus(fl validator.FieldLevel) bool {
	return model.Status(fl.Field().String()).Valid()
}

func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

// Present reports whether value passes the "required" rule.
func Present(value string) bool {
	return Validator().Var(value, "required") == nil
}

// EntryCode reports whether code has the shape of an issued entry code.
func EntryCode(code string) bool {
	return Validator().Var(code, "entrycode") == nil
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "entrycode", "eventtype", "status", "oneof":
		msg = ErrInvalidFormat
	case "required":
		msg = ErrFieldRequired
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "gt", "gte":
		msg = ErrFieldBelowMinVal
	default:
		msg = ErrUnknownValidation
	}
	return errors.New(msg + ": " + ve.Namespace())
}
