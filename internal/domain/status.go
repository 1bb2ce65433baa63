package domain

import (
	"fmt"
	"strings"
)

// StatusKind is the canonical lifecycle state behind a configured label.
type StatusKind string

const (
	StatusCreated   StatusKind = "created"
	StatusInReview  StatusKind = "in_review"
	StatusApproved  StatusKind = "approved"
	StatusRejected  StatusKind = "rejected"
	StatusCancelled StatusKind = "cancelled"
)

func ParseStatusKind(s string) (StatusKind, bool) {
	switch k := StatusKind(strings.ToLower(strings.TrimSpace(s))); k {
	case StatusCreated, StatusInReview, StatusApproved, StatusRejected, StatusCancelled:
		return k, true
	}
	return "", false
}

// Status is one entry of the status catalog: the label stored on the
// reservation row and the kind it stands for.
type Status struct {
	Label string     `json:"label"`
	Kind  StatusKind `json:"kind"`
}

// StatusCatalog is the set of known statuses, resolved once at startup.
type StatusCatalog struct {
	statuses []Status
	byLabel  map[string]Status
	initial  Status
	approved Status
}

// NewStatusCatalog fails with ErrConfiguration when the initial label is
// missing or unknown, or when there is not exactly one approved label.
func NewStatusCatalog(statuses []Status, initialLabel string) (*StatusCatalog, error) {
	if len(statuses) == 0 {
		return nil, fmt.Errorf("%w: status catalog is empty", ErrConfiguration)
	}

	c := &StatusCatalog{byLabel: make(map[string]Status, len(statuses))}
	approvedCount := 0
	for _, s := range statuses {
		label := strings.TrimSpace(s.Label)
		if label == "" {
			return nil, fmt.Errorf("%w: status with empty label", ErrConfiguration)
		}
		if _, ok := ParseStatusKind(string(s.Kind)); !ok {
			return nil, fmt.Errorf("%w: status %q has unknown kind %q", ErrConfiguration, label, s.Kind)
		}
		key := strings.ToLower(label)
		if _, dup := c.byLabel[key]; dup {
			return nil, fmt.Errorf("%w: duplicate status label %q", ErrConfiguration, label)
		}
		st := Status{Label: label, Kind: s.Kind}
		c.byLabel[key] = st
		c.statuses = append(c.statuses, st)
		if st.Kind == StatusApproved {
			approvedCount++
			c.approved = st
		}
	}
	if approvedCount != 1 {
		return nil, fmt.Errorf("%w: expected exactly one approved status, got %d", ErrConfiguration, approvedCount)
	}

	initialLabel = strings.TrimSpace(initialLabel)
	if initialLabel == "" {
		return nil, fmt.Errorf("%w: initial reservation status is not set", ErrConfiguration)
	}
	initial, ok := c.byLabel[strings.ToLower(initialLabel)]
	if !ok {
		return nil, fmt.Errorf("%w: initial reservation status %q is not in the catalog", ErrConfiguration, initialLabel)
	}
	c.initial = initial

	return c, nil
}

func (c *StatusCatalog) Initial() Status  { return c.initial }
func (c *StatusCatalog) Approved() Status { return c.approved }

func (c *StatusCatalog) All() []Status {
	return append([]Status(nil), c.statuses...)
}

// Resolve maps a status name to a catalog entry. Labels match case-insensitively.
// A canonical kind name resolves to the first label of that kind.
func (c *StatusCatalog) Resolve(name string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Status{}, ErrInvalidStatus
	}
	if s, ok := c.byLabel[key]; ok {
		return s, nil
	}
	if kind, ok := ParseStatusKind(key); ok {
		for _, s := range c.statuses {
			if s.Kind == kind {
				return s, nil
			}
		}
	}
	return Status{}, fmt.Errorf("%w: %q", ErrInvalidStatus, name)
}

func (c *StatusCatalog) IsApproved(label string) bool {
	return strings.EqualFold(label, c.approved.Label)
}

// KindOf returns the kind of a stored label, or "" when it is not cataloged.
func (c *StatusCatalog) KindOf(label string) StatusKind {
	if s, ok := c.byLabel[strings.ToLower(strings.TrimSpace(label))]; ok {
		return s.Kind
	}
	return ""
}
