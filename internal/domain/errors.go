package domain

import (
	"errors"
	"strings"
)

var (
	// ErrBankNotFound indicates the quiz configuration could not be located.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrProgressNotFound is returned when no saved progress exists for a profile.
	ErrProgressNotFound = errors.New("quiz progress not found")
	// ErrNoResult is returned when a result is requested before the session resolved.
	ErrNoResult = errors.New("session has no result yet")
	// ErrUnknownCategory indicates a category key missing from the bank.
	ErrUnknownCategory = errors.New("unknown category")
)

// ConfigurationError reports a malformed question bank.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid quiz configuration: " + e.Problems[0]
	}
	return "invalid quiz configuration: " + strings.Join(e.Problems, "; ")
}
