// Package store persists scan history in PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotConfigured is returned by callers that need a store when none is set up.
var ErrNotConfigured = errors.New("store: not configured")

// Record is one row of the scans table.
type Record struct {
	ScanID     uuid.UUID `json:"scan_id"`
	CreatedAt  time.Time `json:"created_at"`
	Message    string    `json:"message"`
	Verdict    string    `json:"verdict"`
	RuleName   string    `json:"rule_name,omitempty"`
	RiskLevel  string    `json:"risk_level"`
	ScamScore  int       `json:"scam_score"`
	Language   string    `json:"language"`
	ScamType   string    `json:"scam_type"`
	Categories []string  `json:"categories"`
	Keywords   []string  `json:"keywords"`
}

// Stats aggregates the scans table by engine risk level.
type Stats struct {
	TotalChecks int64 `json:"total_checks"`
	HighRisk    int64 `json:"high_risk"`
	Suspicious  int64 `json:"suspicious"`
	Safe        int64 `json:"safe"`
}

// BatchWriter persists records. *PGStore implements it.
type BatchWriter interface {
	SaveBatch(ctx context.Context, records []Record) error
}

// Reader serves scan history queries. *PGStore implements it.
type Reader interface {
	Stats(ctx context.Context) (Stats, error)
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// Config holds the connection settings.
type Config struct {
	DatabaseURL string
	MaxConns    int32
}

// PGStore wraps the PostgreSQL connection pool.
type PGStore struct {
	pool *pgxpool.Pool
}

// Open creates the connection pool and verifies it with a ping.
func Open(ctx context.Context, cfg Config) (*PGStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PGStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// HealthCheck pings the database.
func (s *PGStore) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	scan_id     UUID PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	message     TEXT NOT NULL,
	verdict     TEXT NOT NULL,
	rule_name   TEXT NOT NULL DEFAULT '',
	risk_level  TEXT NOT NULL,
	scam_score  INTEGER NOT NULL,
	language    TEXT NOT NULL,
	scam_type   TEXT NOT NULL,
	categories  TEXT[] NOT NULL DEFAULT '{}',
	keywords    TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS scans_created_at_idx ON scans (created_at DESC);
`

// EnsureSchema creates the scans table when it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("EnsureSchema: %w", err)
	}
	return nil
}

const insertScan = `
	INSERT INTO scans (
		scan_id, created_at, message, verdict, rule_name,
		risk_level, scam_score, language, scam_type, categories, keywords
	) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (scan_id) DO NOTHING`

// SaveBatch inserts records in one round trip.
func (s *PGStore) SaveBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(insertScan, insertArgs(r)...)
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("SaveBatch: %w", err)
	}
	return nil
}

func insertArgs(r Record) []any {
	categories := r.Categories
	if categories == nil {
		categories = []string{}
	}
	keywords := r.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return []any{
		r.ScanID.String(), r.CreatedAt, r.Message, r.Verdict, r.RuleName,
		r.RiskLevel, r.ScamScore, r.Language, r.ScamType, categories, keywords,
	}
}

// Stats counts all scans by engine risk level.
func (s *PGStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE risk_level = 'High Risk Scam'),
		       count(*) FILTER (WHERE risk_level = 'Suspicious'),
		       count(*) FILTER (WHERE risk_level = 'Safe')
		FROM scans`).Scan(&st.TotalChecks, &st.HighRisk, &st.Suspicious, &st.Safe)
	if err != nil {
		return Stats{}, fmt.Errorf("Stats: %w", err)
	}
	return st, nil
}

// MaxRecent caps the limit accepted by Recent.
const MaxRecent = 500

// Recent returns the newest scans first. limit is clamped to [1, MaxRecent].
func (s *PGStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	limit = ClampLimit(limit)
	rows, err := s.pool.Query(ctx, `
		SELECT scan_id::text, created_at, message, verdict, rule_name,
		       risk_level, scam_score, language, scam_type, categories, keywords
		FROM scans
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("Recent: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var (
			r  Record
			id string
		)
		if err := rows.Scan(&id, &r.CreatedAt, &r.Message, &r.Verdict, &r.RuleName,
			&r.RiskLevel, &r.ScamScore, &r.Language, &r.ScamType, &r.Categories, &r.Keywords); err != nil {
			return nil, fmt.Errorf("Recent: %w", err)
		}
		if r.ScanID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("Recent: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Recent: %w", err)
	}
	return records, nil
}

// ClampLimit bounds a history page size to [1, MaxRecent], defaulting to 20.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > MaxRecent:
		return MaxRecent
	default:
		return limit
	}
}
