package routine

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a muscle group or level with no policy entry,
	// or an inconsistent policy table. It is never recovered locally.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidValue is returned when adapter input cannot be parsed into
	// one of the closed enumerations.
	ErrInvalidValue = errors.New("invalid value")
)

// ConfigurationError describes which entry is missing or inconsistent.
type ConfigurationError struct {
	Subject string
	Value   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration error: %s %q: %s", e.Subject, e.Value, e.Reason)
	}
	return fmt.Sprintf("configuration error: no %s entry for %q", e.Subject, e.Value)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func missingEntry(subject string, value any) error {
	return &ConfigurationError{Subject: subject, Value: fmt.Sprint(value)}
}

func invalidEntry(subject string, value any, reason string) error {
	return &ConfigurationError{Subject: subject, Value: fmt.Sprint(value), Reason: reason}
}
