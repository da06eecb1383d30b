package speeddial

import (
	"errors"
	"fmt"

	"github.com/nikbrunner/speeddial/internal/model"
)

// Error classes. Specific errors wrap one of these so callers can branch on
// the class with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrEmptyName     = fmt.Errorf("%w: name is empty", ErrValidation)
	ErrEmptyURL      = fmt.Errorf("%w: %w", ErrValidation, model.ErrEmptyURL)
	ErrInvalidURL    = fmt.Errorf("%w: %w", ErrValidation, model.ErrInvalidURL)
	ErrGroupNotFound = fmt.Errorf("group %w", ErrNotFound)
	ErrSiteNotFound  = fmt.Errorf("site %w", ErrNotFound)
	ErrLastGroup     = errors.New("cannot remove the last group")
)

// PersistenceError reports a failed write of one storage key. The in-memory
// collection is left as it was before the operation.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func normalizeURL(raw string) (string, error) {
	u, err := model.NormalizeURL(raw)
	switch {
	case errors.Is(err, model.ErrEmptyURL):
		return "", ErrEmptyURL
	case err != nil:
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return u, nil
}
