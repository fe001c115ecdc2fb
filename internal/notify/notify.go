// Package notify delivers operator notifications for new contact submissions.
package notify

import (
	"context"
	"time"

	"github.com/portfolio/backend/internal/model"
)

// Notifier alerts the site operator about a stored submission.
type Notifier interface {
	Notify(ctx context.Context, sub model.ContactSubmission) error
}

// SMTPConfig holds the settings of the outbound mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the sender address; defaults to Username.
	From string
	// To is the operator address; defaults to Username.
	To      string
	Timeout time.Duration
}
