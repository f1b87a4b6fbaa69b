package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInsufficientInput    = fmt.Errorf("insufficient transcript: %w", ErrInvalidInput)
	ErrUnsupportedFormat    = errors.New("unsupported transcript format")
	ErrTemporary            = errors.New("temporary failure")
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
