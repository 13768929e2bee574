package main

import (
	"database/sql"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"server/internal/infra"
)

// Schema statements run in order and are safe to re-run. The two named
// uniqueness arbiters, users_external_id_key and users_handle_lower_idx,
// must keep their names: the store maps their violations onto the
// duplicate-identity and handle-taken errors.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id uuid PRIMARY KEY,
		external_id text NOT NULL,
		email text NOT NULL,
		handle text NOT NULL,
		profile_id uuid,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now(),
		CONSTRAINT users_external_id_key UNIQUE (external_id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_handle_lower_idx ON users ((lower(handle)))`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id uuid PRIMARY KEY,
		owner_user_id uuid NOT NULL REFERENCES users (id),
		display_name text NOT NULL,
		bio text NOT NULL DEFAULT '',
		avatar_url text,
		background_url text,
		social_url text,
		thank_you_message text,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now(),
		CONSTRAINT profiles_owner_user_id_key UNIQUE (owner_user_id)
	)`,

	`DO $$ BEGIN
		ALTER TABLE users ADD CONSTRAINT users_profile_id_fkey
			FOREIGN KEY (profile_id) REFERENCES profiles (id);
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$`,

	`CREATE TABLE IF NOT EXISTS payment_methods (
		id uuid PRIMARY KEY,
		owner_user_id uuid NOT NULL REFERENCES users (id),
		country text NOT NULL,
		first_name text NOT NULL,
		last_name text NOT NULL,
		card_number text NOT NULL,
		expiry text NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now(),
		CONSTRAINT payment_methods_owner_user_id_key UNIQUE (owner_user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS donations (
		id uuid PRIMARY KEY,
		donor_user_id uuid NOT NULL REFERENCES users (id),
		recipient_profile_id uuid NOT NULL REFERENCES profiles (id),
		amount bigint NOT NULL CHECK (amount > 0),
		message text,
		donor_contact_url text,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS donations_recipient_created_idx
		ON donations (recipient_profile_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS donations_donor_created_idx
		ON donations (donor_user_id, created_at DESC)`,
}

func main() {
	_ = godotenv.Load()

	logger := infra.NewLogger(os.Getenv("APP_ENV"))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			logger.Fatal().Err(err).Str("statement", stmt).Msg("migration failed")
		}
	}
	logger.Info().Msg("migration complete")
}
