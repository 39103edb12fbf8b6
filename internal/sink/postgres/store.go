// Package postgres provides the Postgres-backed listing sink.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pigiame-crawler/internal/crawler"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for listing rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// Store writes listing batches into Postgres, one multi-row insert per batch.
type Store struct {
	pool  execCloser
	table string
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "listings"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool, table: table}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(pool execCloser, table string) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "listings"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

const insertColumns = "ad_id, location, region, currency, price, ad_date_inserted, " +
	"condition, make, model, transmission, drive_type, mileage, mileage_unit, " +
	"build_year, car_features, created_at"

const columnsPerRow = 16

// WriteBatch inserts the batch in a single statement. An empty batch is a
// no-op.
func (s *Store) WriteBatch(ctx context.Context, records []crawler.ListingRecord) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("listing store is not configured")
	}
	if len(records) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", s.table, insertColumns)

	args := make([]any, 0, len(records)*columnsPerRow)
	for i, rec := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := 0; j < columnsPerRow; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*columnsPerRow+j+1)
		}
		sb.WriteByte(')')

		args = append(args,
			rec.AdID,
			textOrNil(rec.Location),
			textOrNil(rec.Region),
			textOrNil(rec.Currency),
			rec.Price,
			rec.AdDateInserted,
			rec.Condition,
			rec.Make,
			rec.Model,
			rec.Transmission,
			rec.DriveType,
			rec.Mileage,
			rec.MileageUnit,
			rec.BuildYear,
			rec.CarFeatures,
			rec.CreatedAt,
		)
	}

	if _, err := s.pool.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert %d listings: %w", len(records), err)
	}
	return nil
}

// textOrNil maps the empty string to NULL so a field missing from the page
// never shows up as a real-looking empty value.
func textOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
