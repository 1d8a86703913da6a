// Command seed creates a user and a login session in the huddle database and
// prints the session token. Intended for local development.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/dkeye/huddle/internal/domain"
	"github.com/dkeye/huddle/internal/storage/sqlite"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	dbPath := flags.String("database-path", "./data/huddle.db", "SQLite database file")
	username := flags.String("user", "", "username to create")
	ttl := flags.Duration("ttl", 7*24*time.Hour, "session lifetime, 0 for none")
	channels := flags.StringSlice("channel", nil, "extra channel to create (repeatable)")
	_ = flags.Parse(os.Args[1:])

	if *username == "" {
		log.Fatal().Msg("--user is required")
	}

	ctx := context.Background()
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatal().Err(err).Msg("create data dir")
	}
	store, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer store.Close()

	if _, err := store.SeedDefaultChannels(ctx, domain.DefaultRooms); err != nil {
		log.Fatal().Err(err).Msg("seed channels")
	}
	for _, ch := range *channels {
		if err := store.CreateChannel(ctx, domain.RoomName(ch)); err != nil {
			log.Fatal().Err(err).Str("channel", ch).Msg("create channel")
		}
	}

	identity, err := store.CreateUser(ctx, *username, false)
	if err != nil {
		log.Fatal().Err(err).Msg("create user")
	}
	sess := domain.Session{Token: uuid.NewString(), UserID: identity.ID, CreatedAt: time.Now()}
	if *ttl > 0 {
		sess.ExpiresAt = sess.CreatedAt.Add(*ttl)
	}
	if err := store.CreateSession(ctx, sess); err != nil {
		log.Fatal().Err(err).Msg("create session")
	}
	log.Info().Str("user", identity.Username).Int64("user_id", int64(identity.ID)).Msg("created")
	fmt.Println(sess.Token)
}
