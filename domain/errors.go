package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var (
	// ErrNotFound is returned by repositories when no document matches the identifier.
	ErrNotFound = errors.New("document not found")

	// ErrInvalid is wrapped by ValidationErrors so callers can test with errors.Is.
	ErrInvalid = errors.New("invalid document")

	// ErrConflict is returned when a write collides with a unique key, such as a category slug.
	ErrConflict = errors.New("document conflicts with an existing one")
)

// FieldError describes one rejected field of a payload.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationErrors collects every field problem found in a payload.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fmt.Sprintf("%s %s", fe.Field, fe.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is(err, ErrInvalid) match.
func (v ValidationErrors) Unwrap() error {
	return ErrInvalid
}

// validator accumulates field errors.
type validator struct {
	errs ValidationErrors
}

func (v *validator) add(field, reason string) {
	v.errs = append(v.errs, FieldError{Field: field, Reason: reason})
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

func (v *validator) maxLen(field, value string, limit int) {
	if len([]rune(value)) > limit {
		v.add(field, fmt.Sprintf("must be at most %d characters", limit))
	}
}

func (v *validator) email(field, value string) {
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.add(field, "must be a valid email address")
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}
