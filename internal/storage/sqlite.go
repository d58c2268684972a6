package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/Veraticus/mood2movie/internal/model"
	"github.com/Veraticus/mood2movie/internal/service"
)

// SQLiteStore keeps each user's library document in a single SQLite table.
// The document is the same JSON the file store writes.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

var _ service.LibraryStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath. Call Migrate
// before first use.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections, and :memory: needs
	// exactly one to keep its data.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save upserts the user's whole document.
func (s *SQLiteStore) Save(ctx context.Context, username string, library model.Library) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateLibrary(library); err != nil {
		return err
	}
	key, err := UserKey(username)
	if err != nil {
		return err
	}

	data, err := encodeLibrary(library)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_libraries (username, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, key, string(data), time.Now()); err != nil {
		return fmt.Errorf("failed to save library: %w", err)
	}

	slog.Debug("library saved", "user", key, "titles", len(library))
	return nil
}

// Load returns the user's document, or an empty library for unknown users.
func (s *SQLiteStore) Load(ctx context.Context, username string) (model.Library, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	key, err := UserKey(username)
	if err != nil {
		return nil, err
	}

	var document string
	err = s.db.QueryRowContext(ctx,
		`SELECT document FROM user_libraries WHERE username = ?`, key,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Library{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query library: %w", err)
	}

	library, err := decodeLibrary([]byte(document))
	if err != nil {
		return nil, fmt.Errorf("library for %s: %w", key, err)
	}
	return library, nil
}

// Users lists every stored key in alphabetical order.
func (s *SQLiteStore) Users(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT username FROM user_libraries ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := []string{}
	for rows.Next() {
		var user string
		if err := rows.Scan(&user); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}
