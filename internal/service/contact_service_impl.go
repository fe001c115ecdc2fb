package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/notify"
	"github.com/portfolio/backend/internal/repository"
)

// ContactOptions tunes validation and the notification policy.
type ContactOptions struct {
	// MaxMessageLength is the message limit in runes; 0 disables the check.
	MaxMessageLength int
	// RequireNotifier turns a missing notifier into a ConfigurationError
	// instead of silently skipping the email.
	RequireNotifier bool
}

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	connector repository.Connector
	notifier  notify.Notifier
	opts      ContactOptions
	now       func() time.Time
}

// NewContactService creates a ContactService. connector is nil when no store
// is configured; notifier is nil when email is disabled.
func NewContactService(connector repository.Connector, notifier notify.Notifier, opts ContactOptions) ContactService {
	return &contactServiceImpl{
		connector: connector,
		notifier:  notifier,
		opts:      opts,
		now:       time.Now,
	}
}

// Submit は 検証 → 設定チェック → 保存 → 通知 の順に実行する
func (s *contactServiceImpl) Submit(ctx context.Context, in SubmitInput) (*model.SubmissionReceipt, error) {
	sub, err := s.validate(in)
	if err != nil {
		slog.Debug("contact submission rejected", "error", err)
		return nil, err
	}
	if err := s.checkConfig(); err != nil {
		slog.Error("contact submission rejected: server misconfigured", "error", err)
		return nil, err
	}

	sub.SubmittedAt = s.now().UTC()
	if err := s.persist(ctx, sub); err != nil {
		slog.Error("contact submission not stored", "error", err)
		return nil, err
	}
	slog.Info("contact submission stored", "id", sub.ID)

	return &model.SubmissionReceipt{ID: sub.ID, EmailSent: s.notify(ctx, *sub)}, nil
}

func (s *contactServiceImpl) validate(in SubmitInput) (*model.ContactSubmission, error) {
	sub := &model.ContactSubmission{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: in.Message,
	}
	var missing []string
	if sub.Name == "" {
		missing = append(missing, "name")
	}
	if sub.Email == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(sub.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}
	if s.opts.MaxMessageLength > 0 && utf8.RuneCountInString(sub.Message) > s.opts.MaxMessageLength {
		return nil, &ValidationError{TooLong: "message"}
	}
	return sub, nil
}

func (s *contactServiceImpl) checkConfig() error {
	var missing []string
	if s.connector == nil {
		missing = append(missing, "DATABASE_URL")
	}
	if s.opts.RequireNotifier && s.notifier == nil {
		missing = append(missing, "EMAIL_USER", "EMAIL_PASS")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// persist はこの呼び出し専用の接続を開き、必ず閉じる
func (s *contactServiceImpl) persist(ctx context.Context, sub *model.ContactSubmission) error {
	store, err := s.connector.Connect(ctx)
	if err != nil {
		return &PersistenceError{Op: "connect", Err: err}
	}
	defer closeStore(ctx, store)

	if err := store.Save(ctx, sub); err != nil {
		return &PersistenceError{Op: "insert", Err: err}
	}
	return nil
}

// notify はメール送信の成否を返す。失敗は呼び出し元に伝播させない
func (s *contactServiceImpl) notify(ctx context.Context, sub model.ContactSubmission) bool {
	if s.notifier == nil {
		slog.Warn("notification skipped: email not configured", "id", sub.ID)
		return false
	}
	// 保存済みなのでクライアント切断でメール送信をキャンセルしない
	if err := s.notifier.Notify(context.WithoutCancel(ctx), sub); err != nil {
		nerr := &NotificationError{Err: err}
		slog.Warn("notification failed", "id", sub.ID, "error", nerr)
		return false
	}
	slog.Info("notification sent", "id", sub.ID)
	return true
}

// List returns submissions newest first together with the total count.
func (s *contactServiceImpl) List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.ContactSubmission, int, error) {
	if s.connector == nil {
		return nil, 0, &ConfigurationError{Missing: []string{"DATABASE_URL"}}
	}
	store, err := s.connector.Connect(ctx)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "connect", Err: err}
	}
	defer closeStore(ctx, store)

	total, err := store.Count(ctx)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "count", Err: err}
	}
	subs, err := store.List(ctx, opts)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "list", Err: err}
	}
	return subs, total, nil
}

// Health verifies the store is configured and reachable.
func (s *contactServiceImpl) Health(ctx context.Context) error {
	if s.connector == nil {
		return &ConfigurationError{Missing: []string{"DATABASE_URL"}}
	}
	store, err := s.connector.Connect(ctx)
	if err != nil {
		return &PersistenceError{Op: "connect", Err: err}
	}
	defer closeStore(ctx, store)

	if err := store.Ping(ctx); err != nil {
		return &PersistenceError{Op: "ping", Err: err}
	}
	return nil
}

func closeStore(ctx context.Context, store repository.Store) {
	if err := store.Close(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("closing store connection failed", "dialect", store.Dialect(), "error", err)
	}
}
