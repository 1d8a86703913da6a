package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/dkeye/huddle/internal/domain"
)

// OpenPresence records the start of an online session.
func (s *Store) OpenPresence(ctx context.Context, ps domain.PresenceSession) error {
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO online_sessions (user_id, connection_id, connected_at) VALUES (?, ?, ?)`,
		int64(ps.UserID), string(ps.ConnectionID), ps.ConnectedAt.UnixMilli()); err != nil {
		return fmt.Errorf("insert online session: %w", err)
	}
	return nil
}

// ClosePresence stamps the open row of cid. A row that is already closed is
// left alone.
func (s *Store) ClosePresence(ctx context.Context, cid domain.ConnectionID, at time.Time) error {
	if _, err := s.sqlDB.ExecContext(ctx,
		`UPDATE online_sessions SET disconnected_at = ? WHERE connection_id = ? AND disconnected_at IS NULL`,
		at.UnixMilli(), string(cid)); err != nil {
		return fmt.Errorf("close online session: %w", err)
	}
	return nil
}

// PresenceHistory returns the online sessions of a user, oldest first.
func (s *Store) PresenceHistory(ctx context.Context, userID domain.UserID) ([]domain.PresenceSession, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT user_id, connection_id, connected_at, disconnected_at FROM online_sessions WHERE user_id = ? ORDER BY id ASC`,
		int64(userID))
	if err != nil {
		return nil, fmt.Errorf("list online sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.PresenceSession
	for rows.Next() {
		var uid, connectedAt int64
		var cid string
		var disconnectedAt *int64
		if err := rows.Scan(&uid, &cid, &connectedAt, &disconnectedAt); err != nil {
			return nil, fmt.Errorf("scan online session: %w", err)
		}
		ps := domain.PresenceSession{
			UserID:       domain.UserID(uid),
			ConnectionID: domain.ConnectionID(cid),
			ConnectedAt:  time.UnixMilli(connectedAt),
		}
		if disconnectedAt != nil {
			t := time.UnixMilli(*disconnectedAt)
			ps.DisconnectedAt = &t
		}
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate online sessions: %w", err)
	}
	return out, nil
}
