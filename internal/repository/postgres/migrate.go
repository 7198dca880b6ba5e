package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id             BIGSERIAL PRIMARY KEY,
	username       TEXT NOT NULL UNIQUE,
	password_hash  TEXT NOT NULL,
	email          TEXT UNIQUE,
	role           TEXT NOT NULL DEFAULT 'user',
	oauth_provider TEXT,
	oauth_sub      TEXT UNIQUE,
	age            INT,
	height_cm      DOUBLE PRECISION,
	weight_kg      DOUBLE PRECISION,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS workouts (
	id      BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	date    DATE NOT NULL,
	note    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS workouts_user_date_idx ON workouts (user_id, date DESC);

CREATE TABLE IF NOT EXISTS workout_exercises (
	id         BIGSERIAL PRIMARY KEY,
	workout_id BIGINT NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	sets       INT NOT NULL,
	reps       INT NOT NULL,
	weight     DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS workout_exercises_workout_idx ON workout_exercises (workout_id);
`

// Migrate ensures tables exist. Call once at startup; the schema is fixed
// after that and never inspected at request time.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
