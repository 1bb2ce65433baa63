package domain

import (
	"time"

	"venuebooking/internal/pkg/timeslot"
)

type Reservation struct {
	ID               int64          `json:"id"`
	Code             string         `json:"reservation_code"`
	RequesterID      int64          `json:"requester_id"`
	VenueID          int64          `json:"venue_id"`
	Date             timeslot.Date  `json:"reservation_date"`
	Start            timeslot.Clock `json:"start_time"`
	End              timeslot.Clock `json:"end_time"`
	PurposeID        int64          `json:"purpose_id"`
	ParticipantCount int            `json:"participant_count"`
	Status           string         `json:"status"`
	AdminID          *int64         `json:"admin_id,omitempty"`
	AdminNotes       *string        `json:"admin_notes,omitempty"`
	RespondedAt      *time.Time     `json:"responded_at,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	History []StatusChange `json:"history,omitempty"`
}

func (r *Reservation) Interval() timeslot.Interval {
	return timeslot.Interval{Start: r.Start, End: r.End}
}

// StatusChange is one append-only history entry.
type StatusChange struct {
	ID             int64     `json:"id"`
	ReservationID  int64     `json:"reservation_id"`
	PreviousStatus *string   `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ActorID        int64     `json:"actor_id"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
