package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"learnex_quiz/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

const (
	connectAttempts = 10
	connectBackoff  = 3 * time.Second
)

// Connect opens the pool and waits for PostgreSQL to accept connections.
func Connect(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DBConnStr)
	if err != nil {
		return nil, fmt.Errorf("database.Connect: open: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	for i := 1; i <= connectAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		log.Printf("Database not ready, waiting... (%d/%d)", i, connectAttempts)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("database.Connect: ping after %d attempts: %w", connectAttempts, err)
	}

	log.Println("Successfully connected to PostgreSQL database!")
	return db, nil
}
