package model

import (
	"errors"
	"fmt"
)

// InputError reports a bundle that lacks fields a comparison requires. It is
// a caller mistake and is never degraded into a partial result.
type InputError struct {
	Side   Side
	Reason string
}

func (e *InputError) Error() string {
	if e.Side == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: product %s: %s", e.Side, e.Reason)
}

// IsInputError reports whether err (or any error it wraps) is an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
