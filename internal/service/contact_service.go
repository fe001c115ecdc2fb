package service

import (
	"context"

	"github.com/portfolio/backend/internal/model"
)

// SubmitInput is the raw contact form payload.
type SubmitInput struct {
	Name    string
	Email   string
	Message string
}

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit validates and stores one submission, then attempts a best-effort
	// notification. A returned receipt means the record is durably stored.
	Submit(ctx context.Context, in SubmitInput) (*model.SubmissionReceipt, error)

	// List returns stored submissions newest first together with the total count.
	List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.ContactSubmission, int, error)

	// Health verifies the store is configured and reachable.
	Health(ctx context.Context) error
}
