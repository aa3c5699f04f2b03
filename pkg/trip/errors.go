package trip

import (
	"github.com/walteh/triplog/pkg/tripapi"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidState is returned when an operation needs an identity that is not known
	ErrInvalidState = errors.Base("invalid state")
	// ErrAlreadyActive is returned when the server reports a trip already in progress
	ErrAlreadyActive = errors.Base("trip already active")
	// ErrNotActive is returned when the server reports no trip in progress
	ErrNotActive = errors.Base("trip not active")
	// ErrRequestFailed covers transport failures and unexpected responses
	ErrRequestFailed = errors.Base("request failed")
)

// Warning messages shown to the user for conflict errors
const (
	AlreadyActiveMessage = "A trip is already in progress. Please end the current trip before starting a new one."
	NotActiveMessage     = "No active trip found. Please ensure a trip is in progress before trying to end it."
)

// UserMessage returns the blocking warning for err, if it deserves one
func UserMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrAlreadyActive):
		return AlreadyActiveMessage, true
	case errors.Is(err, ErrNotActive):
		return NotActiveMessage, true
	default:
		return "", false
	}
}

// classify maps a Trip API error onto the session error kinds
func classify(err error, conflict error) error {
	if errors.Is(err, tripapi.ErrConflict) {
		return errors.Errorf("%w: %s", conflict, err.Error())
	}
	return errors.Errorf("%w: %s", ErrRequestFailed, err.Error())
}
