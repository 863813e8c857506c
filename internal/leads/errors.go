package leads

import (
	"errors"
	"strings"
)

var ErrInvalidPagination = errors.New("leads: page and limit must be positive integers")

// ValidationError carries every rule a submission broke.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}
