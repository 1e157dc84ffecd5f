package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"devroster/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps records in a sqlite database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite: empty path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	// WAL enables one writer + many readers; busy_timeout helps avoid "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS developers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nombre TEXT NOT NULL,
			edad REAL,
			habilidades TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', '1');`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("sqlite migrate: %w", err)
		}
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) List(ctx context.Context) ([]model.Developer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, nombre, edad, habilidades FROM developers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Developer{}
	for rows.Next() {
		d, err := scanDeveloper(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id model.ID) (model.Developer, error) {
	n, err := parseID(id)
	if err != nil {
		return model.Developer{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT id, nombre, edad, habilidades FROM developers WHERE id = ?`, n)
	d, err := scanDeveloper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Developer{}, ErrNotFound
	}
	return d, err
}

func (s *SQLiteStore) Create(ctx context.Context, d model.Developer) (model.Developer, error) {
	now := time.Now().UTC().UnixMilli()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO developers(nombre, edad, habilidades, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		d.Name, nullAge(d.Age), d.Skills, now, now)
	if err != nil {
		return model.Developer{}, err
	}
	n, err := res.LastInsertId()
	if err != nil {
		return model.Developer{}, err
	}
	d.ID = formatID(n)
	return d, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id model.ID, d model.Developer) (model.Developer, error) {
	n, err := parseID(id)
	if err != nil {
		return model.Developer{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE developers SET nombre = ?, edad = ?, habilidades = ?, updated_at_unixms = ? WHERE id = ?`,
		d.Name, nullAge(d.Age), d.Skills, time.Now().UTC().UnixMilli(), n)
	if err != nil {
		return model.Developer{}, err
	}
	if err := requireRow(res); err != nil {
		return model.Developer{}, err
	}
	d.ID = formatID(n)
	return d, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id model.ID) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM developers WHERE id = ?`, n)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanDeveloper(sc scanner) (model.Developer, error) {
	var (
		id   int64
		d    model.Developer
		edad sql.NullFloat64
	)
	if err := sc.Scan(&id, &d.Name, &edad, &d.Skills); err != nil {
		return model.Developer{}, err
	}
	d.ID = formatID(id)
	if edad.Valid {
		age := edad.Float64
		d.Age = &age
	}
	return d, nil
}

func nullAge(age *float64) sql.NullFloat64 {
	if age == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *age, Valid: true}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
