package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// URLConnector opens one connection per Connect call to the store named by
// a connection string.
type URLConnector struct {
	dialect string
	dsn     string
}

// Ensure URLConnector implements Connector at compile time.
var _ Connector = (*URLConnector)(nil)

// NewConnector は接続文字列のスキームから永続化バックエンドを選択する。
// postgres:// / postgresql:// は pgx、sqlite: / sqlite:// / file: は modernc sqlite を使う。
// Connect が呼ばれるまで接続はしない。
func NewConnector(connString string) (*URLConnector, error) {
	connString = strings.TrimSpace(connString)
	if connString == "" {
		return nil, ErrEmptyConnString
	}
	dialect, dsn, err := parseConnString(connString)
	if err != nil {
		return nil, err
	}
	return &URLConnector{dialect: dialect, dsn: dsn}, nil
}

// Dialect returns the backend the connector opens.
func (c *URLConnector) Dialect() string { return c.dialect }

// Connect opens and verifies a new connection.
func (c *URLConnector) Connect(ctx context.Context) (Store, error) {
	switch c.dialect {
	case DialectPostgres:
		repo, err := ConnectPostgres(ctx, c.dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case DialectSQLite:
		repo, err := ConnectSQLite(ctx, c.dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStore, c.dialect)
	}
}

func parseConnString(s string) (dialect, dsn string, err error) {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DialectPostgres, s, nil
	case strings.HasPrefix(lower, "sqlite://"):
		dsn, err = sqliteDSN(s[len("sqlite://"):])
		return DialectSQLite, dsn, err
	case strings.HasPrefix(lower, "sqlite:"):
		dsn, err = sqliteDSN(s[len("sqlite:"):])
		return DialectSQLite, dsn, err
	case strings.HasPrefix(lower, "file:"):
		dsn, err = sqliteDSN(s)
		return DialectSQLite, dsn, err
	}
	scheme, _, ok := strings.Cut(s, ":")
	if !ok {
		scheme = s
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedStore, scheme)
}

// sqliteDSN は同時接続が書き込みロックを待つよう busy_timeout を付与する。
// 接続ごとに消えるインメモリ DB は拒否する。
func sqliteDSN(path string) (string, error) {
	if isEphemeralSQLite(path) {
		return "", fmt.Errorf("%w: %q", ErrEphemeralSQLite, path)
	}
	if strings.Contains(path, "_pragma=") {
		return path, nil
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)", nil
}

// isEphemeralSQLite は接続1本の間しか存在しない DB かどうかを判定する
func isEphemeralSQLite(path string) bool {
	name, query, _ := strings.Cut(path, "?")
	name = strings.TrimPrefix(strings.ToLower(name), "file:")
	return name == "" || name == ":memory:" || strings.Contains(strings.ToLower(query), "mode=memory")
}

// newID は新規レコード用の時刻順 ID を返す
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
