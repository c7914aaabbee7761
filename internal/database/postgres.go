package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/jaarrekening/internal/config"
	"github.com/JonMunkholm/jaarrekening/internal/extract"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres creates the pool, verifies the connection and runs migrations
// when cfg.MigrateOnStart is set.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "driver", "postgres", "name", strings.TrimPrefix(u.Path, "/"))
	}

	if cfg.MigrateOnStart {
		migrationDB, err := sql.Open("pgx", cfg.URL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("open migration connection: %w", err)
		}
		err = runMigrations(migrationDB, "postgres")
		migrationDB.Close()
		if err != nil {
			pool.Close()
			return nil, err
		}
	}

	return NewPostgresStore(pool), nil
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) SaveYear(ctx context.Context, company string, rec *extract.YearRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %d: %w", rec.Year, err)
	}

	query := `
		INSERT INTO year_records (company, year, record, data_quality, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (company, year) DO UPDATE
		SET record = EXCLUDED.record, data_quality = EXCLUDED.data_quality, updated_at = now()
	`
	if _, err := s.pool.Exec(ctx, query, company, rec.Year, data, string(rec.DataQuality)); err != nil {
		return fmt.Errorf("save year %d: %w", rec.Year, err)
	}
	return nil
}

func (s *PostgresStore) GetYear(ctx context.Context, company string, year int) (*extract.YearRecord, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM year_records WHERE company = $1 AND year = $2`,
		company, year,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get year %d: %w", year, err)
	}
	return decodeRecord(data)
}

func (s *PostgresStore) ListYears(ctx context.Context, company string) ([]*extract.YearRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT record FROM year_records WHERE company = $1 ORDER BY year`,
		company,
	)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	defer rows.Close()

	var out []*extract.YearRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT company, array_agg(year ORDER BY year), max(updated_at)
		FROM year_records
		GROUP BY company
		ORDER BY company
	`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.Name, &c.Years, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteYear(ctx context.Context, company string, year int) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM year_records WHERE company = $1 AND year = $2`,
		company, year,
	)
	if err != nil {
		return fmt.Errorf("delete year %d: %w", year, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) RecordUpload(ctx context.Context, u Upload) error {
	query := `
		INSERT INTO uploads (
			id, company, year, file_name, size_bytes, data_quality,
			fields_populated, warnings, error, client_ip, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.pool.Exec(ctx, query,
		u.ID, u.Company, u.Year, u.FileName, u.SizeBytes, string(u.DataQuality),
		u.FieldsPopulated, u.Warnings, u.Error, u.ClientIP, u.UserAgent, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListUploads(ctx context.Context, company string, limit int) ([]Upload, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company, year, file_name, size_bytes, data_quality,
		       fields_populated, warnings, error, client_ip, user_agent, created_at
		FROM uploads
		WHERE $1 = '' OR company = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, company, uploadLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var out []Upload
	for rows.Next() {
		var (
			u       Upload
			quality string
		)
		if err := rows.Scan(
			&u.ID, &u.Company, &u.Year, &u.FileName, &u.SizeBytes, &quality,
			&u.FieldsPopulated, &u.Warnings, &u.Error, &u.ClientIP, &u.UserAgent, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		u.DataQuality = extract.Quality(quality)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *PostgresStore) PruneUploads(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM uploads WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("prune uploads: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func decodeRecord(data []byte) (*extract.YearRecord, error) {
	var rec extract.YearRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}
