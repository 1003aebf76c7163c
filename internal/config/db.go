package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN string
}

// LoadDBConfig loads database configuration from environment variables
func LoadDBConfig() (*DBConfig, error) {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return nil, fmt.Errorf("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	return &DBConfig{DSN: dsn}, nil
}

// ConnectDB opens a pool and retries until the database answers a ping
func ConnectDB(ctx context.Context, cfg *DBConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(ctx, cfg.DSN)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				log.Info().Msg("connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		log.Warn().Err(err).Int("attempt", i+1).Int("max_attempts", maxRetries).
			Dur("retry_in", retryInterval).Msg("database connection failed")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// schema creates the tables backing ledger snapshots, rule sets and analysts
const schema = `
	CREATE TABLE IF NOT EXISTS analysts (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('viewer', 'admin')) DEFAULT 'viewer',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS ledger_snapshots (
		id UUID PRIMARY KEY,
		filename TEXT NOT NULL,
		uploaded_by INT REFERENCES analysts(id) ON DELETE SET NULL,
		row_count INT NOT NULL DEFAULT 0,
		coerced_amounts INT NOT NULL DEFAULT 0,
		undated_rows INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS ledger_transactions (
		snapshot_id UUID NOT NULL REFERENCES ledger_snapshots(id) ON DELETE CASCADE,
		seq INT NOT NULL,
		account_code TEXT NOT NULL DEFAULT '',
		account_name TEXT NOT NULL,
		debit NUMERIC NOT NULL DEFAULT 0,
		credit NUMERIC NOT NULL DEFAULT 0,
		txn_date TIMESTAMP WITH TIME ZONE, -- NULL when the source date was unusable
		voucher TEXT NOT NULL DEFAULT '',
		narration TEXT NOT NULL DEFAULT '',
		counter_ledger TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (snapshot_id, seq)
	);

	CREATE TABLE IF NOT EXISTS rule_sets (
		version INT PRIMARY KEY,
		body JSONB NOT NULL,
		created_by INT REFERENCES analysts(id) ON DELETE SET NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_transactions_account ON ledger_transactions(snapshot_id, account_name);
	CREATE INDEX IF NOT EXISTS idx_ledger_snapshots_created_at ON ledger_snapshots(created_at);
`

// AutoMigrate creates tables if they don't exist
func AutoMigrate(ctx context.Context, db *pgxpool.Pool, log zerolog.Logger) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}
	log.Info().Msg("auto-migrate applied")
	return nil
}
