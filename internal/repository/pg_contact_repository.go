package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/portfolio/backend/internal/model"
)

// PgContactRepository is the PostgreSQL implementation of Store.
// It owns exactly one connection, released by Close.
type PgContactRepository struct {
	conn *pgx.Conn
}

// Ensure PgContactRepository implements Store at compile time.
var _ Store = (*PgContactRepository)(nil)

// ConnectPostgres opens a single PostgreSQL connection and verifies it.
func ConnectPostgres(ctx context.Context, connString string) (*PgContactRepository, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PgContactRepository{conn: conn}, nil
}

func (r *PgContactRepository) Dialect() string { return DialectPostgres }

func (r *PgContactRepository) Ping(ctx context.Context) error {
	return r.conn.Ping(ctx)
}

func (r *PgContactRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

// Save inserts a new contact_submissions row. msg.ID is assigned only when
// the insert succeeds.
func (r *PgContactRepository) Save(ctx context.Context, msg *model.ContactSubmission) error {
	id := newID()
	_, err := r.conn.Exec(ctx,
		`INSERT INTO contact_submissions (id, name, email, message, submitted_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, msg.Name, msg.Email, msg.Message, msg.SubmittedAt.UTC(),
	)
	if err != nil {
		return err
	}
	msg.ID = id
	return nil
}

// List は新しい順に limit/offset でページングして返す
func (r *PgContactRepository) List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.ContactSubmission, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT id, name, email, message, submitted_at
		 FROM contact_submissions
		 ORDER BY submitted_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []*model.ContactSubmission
	for rows.Next() {
		var s model.ContactSubmission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Message, &s.SubmittedAt); err != nil {
			return nil, err
		}
		s.SubmittedAt = s.SubmittedAt.UTC()
		submissions = append(submissions, &s)
	}
	return submissions, rows.Err()
}

func (r *PgContactRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&n)
	return n, err
}

func (r *PgContactRepository) Migrate(ctx context.Context) (int, error) {
	return runMigrations(ctx, pgExecutor{r.conn}, DialectPostgres)
}

func (r *PgContactRepository) PendingMigrations(ctx context.Context) ([]string, error) {
	return pendingMigrations(ctx, pgExecutor{r.conn}, DialectPostgres)
}

type pgExecutor struct {
	conn *pgx.Conn
}

func (e pgExecutor) exec(ctx context.Context, query string, args ...any) error {
	_, err := e.conn.Exec(ctx, query, args...)
	return err
}

func (e pgExecutor) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	err := e.conn.QueryRow(ctx, query, args...).Scan(&ok)
	return ok, err
}
