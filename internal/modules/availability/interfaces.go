package availability

import (
	"context"

	"venuebooking/internal/pkg/timeslot"
)

// ReservationReader lists the intervals held by approved reservations.
type ReservationReader interface {
	ApprovedOn(ctx context.Context, venueID int64, date timeslot.Date) ([]timeslot.Interval, error)
	ApprovedBetween(ctx context.Context, venueID int64, from, to timeslot.Date) (map[string][]timeslot.Interval, error)
}

type VenueCatalog interface {
	Exists(ctx context.Context, venueID int64) (bool, error)
}
