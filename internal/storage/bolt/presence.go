// Package bolt keeps the presence audit log in an embedded bbolt file for
// deployments that do not want it in the relational database.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/huddle/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var presenceBucket = []byte("presence_sessions")

// ErrAlreadyOpen is returned when a connection already has an open row.
var ErrAlreadyOpen = errors.New("presence session already open")

type presenceEntry struct {
	UserID         int64  `json:"userId"`
	ConnectionID   string `json:"connectionId"`
	ConnectedAt    int64  `json:"connectedAt"`              // Unix millis
	DisconnectedAt *int64 `json:"disconnectedAt,omitempty"` // Unix millis
}

// PresenceLog is a bbolt-backed presence audit log keyed by connection id.
type PresenceLog struct {
	db *bolt.DB
}

// Open opens or creates the bbolt file at path.
func Open(path string) (*PresenceLog, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	p, err := NewPresenceLog(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

// NewPresenceLog creates the presence bucket in db if needed.
func NewPresenceLog(db *bolt.DB) (*PresenceLog, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(presenceBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create presence bucket: %w", err)
	}
	return &PresenceLog{db: db}, nil
}

func (p *PresenceLog) Close() error {
	return p.db.Close()
}

// OpenPresence stores a new open row for the connection.
func (p *PresenceLog) OpenPresence(_ context.Context, ps domain.PresenceSession) error {
	data, err := json.Marshal(presenceEntry{
		UserID:       int64(ps.UserID),
		ConnectionID: string(ps.ConnectionID),
		ConnectedAt:  ps.ConnectedAt.UnixMilli(),
	})
	if err != nil {
		return err
	}
	return p.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(presenceBucket)
		key := []byte(ps.ConnectionID)
		if existing := b.Get(key); existing != nil {
			var e presenceEntry
			if err := json.Unmarshal(existing, &e); err == nil && e.DisconnectedAt == nil {
				return ErrAlreadyOpen
			}
		}
		return b.Put(key, data)
	})
}

// ClosePresence stamps the disconnect time on an open row. Unknown or
// already-closed rows are left alone.
func (p *PresenceLog) ClosePresence(_ context.Context, cid domain.ConnectionID, at time.Time) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(presenceBucket)
		key := []byte(cid)
		raw := b.Get(key)
		if raw == nil {
			return nil
		}
		var e presenceEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return fmt.Errorf("decode presence entry: %w", err)
		}
		if e.DisconnectedAt != nil {
			return nil
		}
		ms := at.UnixMilli()
		e.DisconnectedAt = &ms
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// Get returns the row for cid.
func (p *PresenceLog) Get(cid domain.ConnectionID) (domain.PresenceSession, bool, error) {
	var ps domain.PresenceSession
	var found bool
	err := p.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(presenceBucket).Get([]byte(cid))
		if raw == nil {
			return nil
		}
		var e presenceEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return fmt.Errorf("decode presence entry: %w", err)
		}
		found = true
		ps = domain.PresenceSession{
			UserID:       domain.UserID(e.UserID),
			ConnectionID: domain.ConnectionID(e.ConnectionID),
			ConnectedAt:  time.UnixMilli(e.ConnectedAt),
		}
		if e.DisconnectedAt != nil {
			t := time.UnixMilli(*e.DisconnectedAt)
			ps.DisconnectedAt = &t
		}
		return nil
	})
	return ps, found, err
}
