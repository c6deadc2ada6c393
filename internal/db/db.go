package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// Schema holds at most one row per notification id; a repost overwrites it.
const Schema = `
CREATE TABLE IF NOT EXISTS ride_notifications (
  id          integer PRIMARY KEY,
  channel_id  text        NOT NULL,
  kind        text        NOT NULL,
  title       text        NOT NULL,
  body        text        NOT NULL,
  progress    integer     NOT NULL,
  update_id   uuid        NOT NULL,
  session_id  uuid        NOT NULL,
  payload     jsonb       NOT NULL,
  posted_at   timestamptz NOT NULL
)`

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create ride_notifications: %w", err)
	}
	return nil
}
