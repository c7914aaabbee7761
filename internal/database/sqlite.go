package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// sqliteTime is a fixed-width UTC layout so text timestamps sort correctly.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. Use ":memory:"
// for a throwaway store.
func OpenSQLite(ctx context.Context, path string, migrate bool) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database at %s: %w", path, err)
	}
	// One connection: writers are serialised and ":memory:" stays shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	slog.Info("connected to database", "driver", "sqlite", "path", path)

	if migrate {
		if err := runMigrations(db, "sqlite"); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveYear(ctx context.Context, company string, rec *extract.YearRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %d: %w", rec.Year, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO year_records (company, year, record, data_quality, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (company, year) DO UPDATE
		SET record = excluded.record, data_quality = excluded.data_quality, updated_at = excluded.updated_at
	`, company, rec.Year, string(data), string(rec.DataQuality), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save year %d: %w", rec.Year, err)
	}
	return nil
}

func (s *SQLiteStore) GetYear(ctx context.Context, company string, year int) (*extract.YearRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM year_records WHERE company = ? AND year = ?`,
		company, year,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get year %d: %w", year, err)
	}
	return decodeRecord([]byte(data))
}

func (s *SQLiteStore) ListYears(ctx context.Context, company string) ([]*extract.YearRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM year_records WHERE company = ? ORDER BY year`,
		company,
	)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	defer rows.Close()

	var out []*extract.YearRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		rec, err := decodeRecord([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company, year, updated_at FROM year_records ORDER BY company, year`,
	)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var (
			name, updated string
			year          int
		)
		if err := rows.Scan(&name, &year, &updated); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		ts, err := parseTime(updated)
		if err != nil {
			return nil, err
		}
		if n := len(out); n == 0 || out[n-1].Name != name {
			out = append(out, Company{Name: name})
		}
		c := &out[len(out)-1]
		c.Years = append(c.Years, year)
		if ts.After(c.UpdatedAt) {
			c.UpdatedAt = ts
		}
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteYear(ctx context.Context, company string, year int) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM year_records WHERE company = ? AND year = ?`,
		company, year,
	)
	if err != nil {
		return fmt.Errorf("delete year %d: %w", year, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) RecordUpload(ctx context.Context, u Upload) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uploads (
			id, company, year, file_name, size_bytes, data_quality,
			fields_populated, warnings, error, client_ip, user_agent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		u.ID.String(), u.Company, u.Year, u.FileName, u.SizeBytes, string(u.DataQuality),
		u.FieldsPopulated, u.Warnings, u.Error, u.ClientIP, u.UserAgent, formatTime(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListUploads(ctx context.Context, company string, limit int) ([]Upload, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company, year, file_name, size_bytes, data_quality,
		       fields_populated, warnings, error, client_ip, user_agent, created_at
		FROM uploads
		WHERE ? = '' OR company = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, company, company, uploadLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var out []Upload
	for rows.Next() {
		var (
			u                  Upload
			id, quality, added string
		)
		if err := rows.Scan(
			&id, &u.Company, &u.Year, &u.FileName, &u.SizeBytes, &quality,
			&u.FieldsPopulated, &u.Warnings, &u.Error, &u.ClientIP, &u.UserAgent, &added,
		); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		if u.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse upload id %q: %w", id, err)
		}
		if u.CreatedAt, err = parseTime(added); err != nil {
			return nil, err
		}
		u.DataQuality = extract.Quality(quality)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PruneUploads(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE created_at < ?`, formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("prune uploads: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTime)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTime, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
