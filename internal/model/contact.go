package model

import "time"

// ContactSubmission represents a message submitted via the contact form.
// Records are append-only: once stored they are never updated by the server.
type ContactSubmission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// SubmissionReceipt is what the submitter is told after a successful POST.
type SubmissionReceipt struct {
	ID        string
	EmailSent bool
}

// SubmissionListOptions carries pagination parameters for listing submissions.
type SubmissionListOptions struct {
	Limit  int
	Offset int
}
