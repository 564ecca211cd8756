package registration

import (
	"strings"

	"expoDesk/pkg/validator"
)

// ValidationError lists the labels of required fields left empty, in the
// order the profile declares them.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Please fill in: " + strings.Join(e.Missing, ", ")
}

// Validate checks that every required field has a non-blank value.
func Validate(req *Request, required []Field) error {
	var missing []string
	for _, f := range required {
		if !validator.Present(req.Value(f)) {
			missing = append(missing, f.Label())
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
