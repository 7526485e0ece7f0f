package httpx

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Validatable is implemented by request payloads.
type Validatable interface {
	Validate() error
}

// ValidationDetails flattens ozzo-validation errors into field -> message.
// It returns nil when err is not a validation failure.
func ValidationDetails(err error) map[string]string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}

	details := make(map[string]string, len(errs))
	for field, fe := range errs {
		if fe != nil {
			details[field] = fe.Error()
		}
	}
	return details
}
