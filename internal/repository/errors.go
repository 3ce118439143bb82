// Package repository provides data access layer for the sentiment service.
package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Typed store failures. Callers match them with errors.Is.
var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("unique constraint violated")
	ErrForeignKey = errors.New("foreign key constraint violated")
)

// translate wraps err with the matching repository sentinel so both the
// sentinel and the original gorm error stay visible to errors.Is.
func translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w: %w", msg, ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w: %w", msg, ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w: %w", msg, ErrForeignKey, err)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
