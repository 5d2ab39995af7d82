package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrIncomplete   = errors.New("incomplete artifact set")
	ErrTemporary    = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// MissingArtifactsError carries the complete list of review artifacts the
// completeness validator could not find. Fatal paths print the whole list,
// not just the first gap.
type MissingArtifactsError struct {
	Missing []string
}

func (e *MissingArtifactsError) Error() string {
	return fmt.Sprintf("%d review artifact(s) missing", len(e.Missing))
}

func (e *MissingArtifactsError) Unwrap() error { return ErrIncomplete }
