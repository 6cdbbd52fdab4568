package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS votes CASCADE`,
		`DROP TABLE IF EXISTS options CASCADE`,
		`DROP TABLE IF EXISTS polls CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS polls (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(200) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMPTZ,
			is_active BOOLEAN NOT NULL DEFAULT true
		)`,

		`CREATE TABLE IF NOT EXISTS options (
			id BIGSERIAL PRIMARY KEY,
			poll_id BIGINT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
			text VARCHAR(200) NOT NULL,
			display_order INTEGER NOT NULL DEFAULT 0
		)`,

		// voter_identifier is the prefixed identity string (user_*, ip_*,
		// session_*). The unique constraint is the single source of truth for
		// one-vote-per-poll; the application treats violations as duplicates.
		`CREATE TABLE IF NOT EXISTS votes (
			id BIGSERIAL PRIMARY KEY,
			poll_id BIGINT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
			option_id BIGINT NOT NULL REFERENCES options(id) ON DELETE CASCADE,
			voter_identifier VARCHAR(255) NOT NULL,
			voted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT unique_vote_per_poll UNIQUE (poll_id, voter_identifier)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_options_poll_order ON options(poll_id, display_order)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_poll ON votes(poll_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_option ON votes(option_id)`,
		`CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	fmt.Println("  Created: polls, options, votes")

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	var pollID int64
	err := conn.QueryRow(ctx,
		`INSERT INTO polls (title, description, is_active)
		 VALUES ($1, $2, true)
		 RETURNING id`,
		"What is your favorite programming language?",
		"Pick the language you reach for first.",
	).Scan(&pollID)
	if err != nil {
		return fmt.Errorf("failed to insert seed poll: %w", err)
	}

	options := []string{"Python", "JavaScript", "Go"}
	for i, text := range options {
		if _, err := conn.Exec(ctx,
			`INSERT INTO options (poll_id, text, display_order) VALUES ($1, $2, $3)`,
			pollID, text, i,
		); err != nil {
			return fmt.Errorf("failed to insert seed option %q: %w", text, err)
		}
	}

	fmt.Printf("  Seeded poll %d with %d options\n", pollID, len(options))
	return nil
}
