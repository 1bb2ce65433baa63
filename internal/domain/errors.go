package domain

import (
	"errors"
	"sort"
	"strings"

	"venuebooking/internal/pkg/timeslot"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrInvalidInterval  = timeslot.ErrInvalidInterval
	ErrConflict         = errors.New("time slot conflicts with an approved reservation")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrInvalidStatus    = errors.New("unknown reservation status")
	ErrConfiguration    = errors.New("configuration error")
	ErrPersistence      = errors.New("persistence error")
)

// ValidationError reports every offending field at once, keyed by the field's
// wire name.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = reason
	}
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// FieldNames returns the offending fields sorted by name.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.FieldNames() {
		parts = append(parts, name+" ("+e.Fields[name]+")")
	}
	return "validation error: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
