package service

import (
	"fmt"
	"strings"
)

// ValidationError is returned when a submission is missing required fields
// or exceeds a length limit. It is the caller's fault and safe to show.
type ValidationError struct {
	// Missing lists required fields that were absent or blank.
	Missing []string
	// TooLong names the field that exceeded its length limit, if any.
	TooLong string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required fields: " + strings.Join(e.Missing, ", ")
	}
	return e.TooLong + " is too long"
}

// ConfigurationError is returned when required server configuration is
// absent. No store connection or email is attempted when it occurs.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing configuration: " + strings.Join(e.Missing, ", ")
}

// PersistenceError はストアへの接続・書き込みの失敗をラップする
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError wraps a failed notification email. It is logged by the
// service and never returned from Submit.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return "notification: " + e.Err.Error()
}

func (e *NotificationError) Unwrap() error { return e.Err }
