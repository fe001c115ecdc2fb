package repository

import (
	"context"

	"github.com/portfolio/backend/internal/model"
)

// DB は DB 接続の生存確認を行うインターフェース
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository defines the persistence interface for contact submissions.
type ContactRepository interface {
	// Save inserts a new record and populates msg.ID.
	Save(ctx context.Context, msg *model.ContactSubmission) error
	List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.ContactSubmission, error)
	Count(ctx context.Context) (int, error)
}

// Migrator applies the embedded schema migrations for a store's dialect.
type Migrator interface {
	// Migrate applies pending migrations and returns how many were applied.
	Migrate(ctx context.Context) (int, error)
	// PendingMigrations lists migrations that have not been applied yet.
	PendingMigrations(ctx context.Context) ([]string, error)
}

// Store は永続化ストアへの 1 本の接続。
// Connector から受け取った Store は呼び出し側が必ず Close する。
type Store interface {
	DB
	ContactRepository
	Migrator
	Dialect() string
	Close(ctx context.Context) error
}

// Connector opens a fresh Store connection. Connections are never shared
// between callers.
type Connector interface {
	Connect(ctx context.Context) (Store, error)
}
