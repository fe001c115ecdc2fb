package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/portfolio/backend/internal/model"
	_ "modernc.org/sqlite"
)

// SQLiteContactRepository is the SQLite implementation of Store, used for
// single-host deployments and tests.
type SQLiteContactRepository struct {
	db *sql.DB
}

// Ensure SQLiteContactRepository implements Store at compile time.
var _ Store = (*SQLiteContactRepository)(nil)

// sqliteTimeLayout は固定長の UTC。文字列順と時刻順が一致する。
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// ConnectSQLite opens the database at dsn with a single connection and verifies it.
func ConnectSQLite(ctx context.Context, dsn string) (*SQLiteContactRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLiteContactRepository{db: db}, nil
}

func (r *SQLiteContactRepository) Dialect() string { return DialectSQLite }

func (r *SQLiteContactRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteContactRepository) Close(_ context.Context) error {
	return r.db.Close()
}

// Save inserts a new contact_submissions row. msg.ID is assigned only when
// the insert succeeds.
func (r *SQLiteContactRepository) Save(ctx context.Context, msg *model.ContactSubmission) error {
	id := newID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (id, name, email, message, submitted_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, msg.Name, msg.Email, msg.Message, msg.SubmittedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return err
	}
	msg.ID = id
	return nil
}

// List は新しい順に limit/offset でページングして返す
func (r *SQLiteContactRepository) List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.ContactSubmission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, message, submitted_at
		 FROM contact_submissions
		 ORDER BY submitted_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []*model.ContactSubmission
	for rows.Next() {
		var (
			s  model.ContactSubmission
			ts string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Message, &ts); err != nil {
			return nil, err
		}
		if s.SubmittedAt, err = time.Parse(sqliteTimeLayout, ts); err != nil {
			return nil, fmt.Errorf("parse submitted_at of %s: %w", s.ID, err)
		}
		submissions = append(submissions, &s)
	}
	return submissions, rows.Err()
}

func (r *SQLiteContactRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&n)
	return n, err
}

func (r *SQLiteContactRepository) Migrate(ctx context.Context) (int, error) {
	return runMigrations(ctx, sqliteExecutor{r.db}, DialectSQLite)
}

func (r *SQLiteContactRepository) PendingMigrations(ctx context.Context) ([]string, error) {
	return pendingMigrations(ctx, sqliteExecutor{r.db}, DialectSQLite)
}

type sqliteExecutor struct {
	db *sql.DB
}

func (e sqliteExecutor) exec(ctx context.Context, query string, args ...any) error {
	_, err := e.db.ExecContext(ctx, query, args...)
	return err
}

func (e sqliteExecutor) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	err := e.db.QueryRowContext(ctx, query, args...).Scan(&ok)
	return ok, err
}
