// Package storage provides the data persistence layer for user libraries.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/Veraticus/mood2movie/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidRecord   = errors.New("invalid library record")
)

// UserKey case-folds username into the storage key. Usernames that differ
// only in case share one key.
func UserKey(username string) (string, error) {
	key := cases.Fold().String(strings.TrimSpace(username))
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	return key, nil
}

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateLibrary rejects records that could not have come from the manager.
func validateLibrary(library model.Library) error {
	for title, rec := range library {
		if strings.TrimSpace(title) == "" {
			return fmt.Errorf("%w: empty title", ErrInvalidRecord)
		}
		if !rec.Status.IsValid() {
			return fmt.Errorf("%w: %q has status %q", ErrInvalidRecord, title, rec.Status)
		}
	}
	return nil
}
