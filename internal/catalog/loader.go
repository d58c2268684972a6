package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/Veraticus/mood2movie/internal/common"
	"github.com/Veraticus/mood2movie/internal/model"
)

// ErrMissingColumn is returned when the source lacks a required column.
var ErrMissingColumn = errors.New("catalog is missing a required column")

var requiredColumns = []string{"title", "mood", "genre"}

// Loader reads the catalog file once and hands out the cached result for the
// rest of the process.
type Loader struct {
	catalog *Catalog
	err     error
	logger  *slog.Logger
	path    string
	once    sync.Once
}

// NewLoader creates a loader for the CSV file at path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{path: path, logger: logger}
}

// Load returns the catalog, reading the file on first use. A missing file
// yields an error wrapping common.ErrNotFound. The outcome, success or not,
// is cached.
func (l *Loader) Load() (*Catalog, error) {
	l.once.Do(func() {
		l.catalog, l.err = l.read()
		if l.err != nil {
			l.logger.Error("failed to load catalog", "path", l.path, "error", l.err)
			return
		}
		l.logger.Debug("catalog loaded", "path", l.path, "entries", l.catalog.Len())
	})
	return l.catalog, l.err
}

func (l *Loader) read() (*Catalog, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.NewUserError(
			fmt.Sprintf("Movie catalog %s was not found", l.path),
			fmt.Errorf("%w: %s", common.ErrNotFound, l.path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", l.path, err)
	}
	return New(entries), nil
}

// Parse reads CSV with a header row. Columns are matched by name ignoring
// case and surrounding whitespace; cell values are trimmed.
func Parse(r io.Reader) ([]model.CatalogEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	cell := func(record []string, name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var entries []model.CatalogEntry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		entries = append(entries, model.CatalogEntry{
			Title: cell(record, "title"),
			Mood:  cell(record, "mood"),
			Genre: cell(record, "genre"),
		})
	}
	return entries, nil
}
