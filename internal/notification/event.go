package notification

import (
	"time"

	"venuebooking/internal/domain"
)

type EventKind string

const (
	EventReservationCreated       EventKind = "reservation.created"
	EventReservationStatusChanged EventKind = "reservation.status_changed"
)

// Event is published after a reservation transaction commits.
type Event struct {
	Kind           EventKind
	Reservation    domain.Reservation
	VenueName      string
	PreviousStatus string
	PreviousKind   domain.StatusKind
	StatusKind     domain.StatusKind
	AdminNotes     string
	Notifications  []domain.Notification
	At             time.Time
}

// TouchesApproved reports whether the event moved a reservation into or out
// of the approved status.
func (e Event) TouchesApproved() bool {
	if e.Kind != EventReservationStatusChanged {
		return false
	}
	return e.StatusKind == domain.StatusApproved || e.PreviousKind == domain.StatusApproved
}
