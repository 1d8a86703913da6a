// Package sqlite is the relational store shared with the REST routes:
// users, login sessions, channels and the online_sessions audit log.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationTable = "schema_migrations"

// Store provides SQLite-backed persistence.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens and migrates a SQLite store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// runMigrations executes embedded migrations at most once per file.
func (s *Store) runMigrations() error {
	if _, err := s.sqlDB.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (name TEXT PRIMARY KEY, applied_at INTEGER NOT NULL)`,
		migrationTable,
	)); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		var applied int
		if err := s.sqlDB.QueryRow(
			fmt.Sprintf(`SELECT COUNT(1) FROM %s WHERE name = ?`, migrationTable), file,
		).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationFS, "migrations/"+file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := upSection(string(content))

		tx, err := s.sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration transaction %s: %w", file, err)
		}
		if strings.TrimSpace(upSQL) != "" {
			if _, err := tx.Exec(upSQL); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("exec migration %s: %w", file, err)
			}
		}
		if _, err := tx.Exec(
			fmt.Sprintf(`INSERT INTO %s (name, applied_at) VALUES (?, ?)`, migrationTable),
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

// upSection returns the SQL in the -- +migrate Up section.
func upSection(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	rest := content[upIdx+len("-- +migrate Up"):]
	if downIdx := strings.Index(rest, "-- +migrate Down"); downIdx != -1 {
		return rest[:downIdx]
	}
	return rest
}

// LookupSession loads a login session by token.
func (s *Store) LookupSession(ctx context.Context, token string) (domain.Session, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = ?`, token)

	var sess domain.Session
	var userID, createdAt int64
	var expiresAt sql.NullInt64
	if err := row.Scan(&sess.Token, &userID, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, core.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	sess.UserID = domain.UserID(userID)
	sess.CreatedAt = time.UnixMilli(createdAt)
	if expiresAt.Valid {
		sess.ExpiresAt = time.UnixMilli(expiresAt.Int64)
	}
	return sess, nil
}

// LookupIdentity loads the public identity of a user.
func (s *Store) LookupIdentity(ctx context.Context, id domain.UserID) (domain.Identity, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, username, is_banned FROM users WHERE id = ?`, int64(id))

	var identity domain.Identity
	var userID, banned int64
	if err := row.Scan(&userID, &identity.Username, &banned); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Identity{}, core.ErrNotFound
		}
		return domain.Identity{}, fmt.Errorf("get user: %w", err)
	}
	identity.ID = domain.UserID(userID)
	identity.Banned = banned != 0
	return identity, nil
}

// ListChannels returns every channel name, sorted.
func (s *Store) ListChannels(ctx context.Context) ([]domain.RoomName, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name FROM channels ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var out []domain.RoomName
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		out = append(out, domain.RoomName(name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}
	return out, nil
}

// SeedDefaultChannels inserts defaults when the channel table is empty and
// reports whether it did.
func (s *Store) SeedDefaultChannels(ctx context.Context, defaults []domain.RoomName) (bool, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM channels`).Scan(&count); err != nil {
		return false, fmt.Errorf("count channels: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	for _, name := range defaults {
		if _, err := tx.ExecContext(ctx, `INSERT INTO channels (name) VALUES (?)`, string(name)); err != nil {
			return false, fmt.Errorf("insert channel %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}
	return true, nil
}

// CreateChannel adds a channel name.
func (s *Store) CreateChannel(ctx context.Context, name domain.RoomName) error {
	if !name.Valid() {
		return fmt.Errorf("invalid channel name %q", name)
	}
	if _, err := s.sqlDB.ExecContext(ctx, `INSERT INTO channels (name) VALUES (?)`, string(name)); err != nil {
		return fmt.Errorf("insert channel: %w", err)
	}
	return nil
}

// CreateUser inserts a user and returns its identity.
func (s *Store) CreateUser(ctx context.Context, username string, banned bool) (domain.Identity, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return domain.Identity{}, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (username, is_banned, created_at) VALUES (?, ?, ?)`,
		username, boolToInt(banned), s.now().UnixMilli())
	if err != nil {
		return domain.Identity{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("user id: %w", err)
	}
	return domain.Identity{ID: domain.UserID(id), Username: username, Banned: banned}, nil
}

// CreateSession stores a login session.
func (s *Store) CreateSession(ctx context.Context, sess domain.Session) error {
	if strings.TrimSpace(sess.Token) == "" {
		return fmt.Errorf("session token is required")
	}
	createdAt := sess.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	var expiresAt sql.NullInt64
	if !sess.ExpiresAt.IsZero() {
		expiresAt = sql.NullInt64{Int64: sess.ExpiresAt.UnixMilli(), Valid: true}
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		sess.Token, int64(sess.UserID), createdAt.UnixMilli(), expiresAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
