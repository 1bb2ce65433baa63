package availability

import (
	"context"
	"fmt"

	"venuebooking/internal/domain"
	"venuebooking/internal/pkg/timeslot"
)

// MaxRangeDays bounds FreeDaysInRange.
const MaxRangeDays = 366

// Service answers free/busy questions for a venue. Only approved
// reservations block time. Results are snapshots; the approval transaction
// makes the authoritative check.
type Service struct {
	reservations ReservationReader
	venues       VenueCatalog
	catalog      timeslot.Catalog
	cache        *FreeHoursCache
}

// NewService accepts a nil cache.
func NewService(reservations ReservationReader, venues VenueCatalog, catalog timeslot.Catalog, cache *FreeHoursCache) *Service {
	return &Service{
		reservations: reservations,
		venues:       venues,
		catalog:      catalog,
		cache:        cache,
	}
}

func (s *Service) Catalog() timeslot.Catalog { return s.catalog }

// IsFree reports whether no approved reservation on the venue/date overlaps iv.
func (s *Service) IsFree(ctx context.Context, venueID int64, date timeslot.Date, iv timeslot.Interval) (bool, error) {
	if err := s.ensureVenue(ctx, venueID); err != nil {
		return false, err
	}
	busy, err := s.reservations.ApprovedOn(ctx, venueID, date)
	if err != nil {
		return false, err
	}
	return !iv.OverlapsAny(busy), nil
}

// FreeHoursOnDate returns the catalog slots left free on date, in catalog order.
func (s *Service) FreeHoursOnDate(ctx context.Context, venueID int64, date timeslot.Date) ([]timeslot.Interval, error) {
	if err := s.ensureVenue(ctx, venueID); err != nil {
		return nil, err
	}

	if free, ok := s.cache.Get(ctx, venueID, date); ok {
		return free, nil
	}

	busy, err := s.reservations.ApprovedOn(ctx, venueID, date)
	if err != nil {
		return nil, err
	}
	free := s.catalog.Free(busy)
	s.cache.Set(ctx, venueID, date, free)
	return free, nil
}

// FreeDaysInRange returns, in ascending order, the dates between from and to
// (inclusive) with at least one free slot. A reversed range is empty.
func (s *Service) FreeDaysInRange(ctx context.Context, venueID int64, from, to timeslot.Date) ([]timeslot.Date, error) {
	span := timeslot.Span(from, to)
	if span == 0 {
		return []timeslot.Date{}, nil
	}
	if span > MaxRangeDays {
		return nil, domain.NewValidationError(map[string]string{
			"to": fmt.Sprintf("range exceeds %d days", MaxRangeDays),
		})
	}
	days := timeslot.Days(from, to)
	if err := s.ensureVenue(ctx, venueID); err != nil {
		return nil, err
	}

	busyByDate, err := s.reservations.ApprovedBetween(ctx, venueID, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]timeslot.Date, 0, len(days))
	for _, d := range days {
		if s.catalog.AnyFree(busyByDate[d.String()]) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Service) ensureVenue(ctx context.Context, venueID int64) error {
	ok, err := s.venues.Exists(ctx, venueID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: venue %d", domain.ErrNotFound, venueID)
	}
	return nil
}
