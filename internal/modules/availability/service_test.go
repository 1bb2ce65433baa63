package availability

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"venuebooking/internal/domain"
	"venuebooking/internal/notification"
	"venuebooking/internal/pkg/timeslot"
)

type MockReservations struct {
	mock.Mock
}

func (m *MockReservations) ApprovedOn(ctx context.Context, venueID int64, date timeslot.Date) ([]timeslot.Interval, error) {
	args := m.Called(ctx, venueID, date)
	if v := args.Get(0); v != nil {
		return v.([]timeslot.Interval), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReservations) ApprovedBetween(ctx context.Context, venueID int64, from, to timeslot.Date) (map[string][]timeslot.Interval, error) {
	args := m.Called(ctx, venueID, from, to)
	if v := args.Get(0); v != nil {
		return v.(map[string][]timeslot.Interval), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockVenues struct {
	mock.Mock
}

func (m *MockVenues) Exists(ctx context.Context, venueID int64) (bool, error) {
	args := m.Called(ctx, venueID)
	return args.Bool(0), args.Error(1)
}

func slot(start, end string) timeslot.Interval {
	iv, err := timeslot.ParseInterval(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

func starts(slots []timeslot.Interval) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.String())
	}
	return out
}

func newTestCache(t *testing.T) (*FreeHoursCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFreeHoursCache(client, 30*time.Second), mr
}

func TestIsFree(t *testing.T) {
	ctx := context.Background()
	date := timeslot.MustDate("2025-06-06")
	reservations := new(MockReservations)
	venues := new(MockVenues)
	venues.On("Exists", ctx, int64(1)).Return(true, nil)
	reservations.On("ApprovedOn", ctx, int64(1), date).Return([]timeslot.Interval{slot("10:00", "12:00")}, nil)

	svc := NewService(reservations, venues, timeslot.DefaultCatalog(), nil)

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"abutting before", "08:00", "10:00", true},
		{"abutting after", "12:00", "14:00", true},
		{"overlapping start", "09:00", "11:00", false},
		{"contained", "10:30", "11:00", false},
		{"one minute over", "11:59", "13:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			free, err := svc.IsFree(ctx, 1, date, slot(tt.start, tt.end))
			require.NoError(t, err)
			assert.Equal(t, tt.want, free)
		})
	}
}

func TestIsFree_UnknownVenue(t *testing.T) {
	ctx := context.Background()
	venues := new(MockVenues)
	venues.On("Exists", ctx, int64(99)).Return(false, nil)

	svc := NewService(new(MockReservations), venues, timeslot.DefaultCatalog(), nil)
	_, err := svc.IsFree(ctx, 99, timeslot.MustDate("2025-06-06"), slot("08:00", "10:00"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFreeHoursOnDate(t *testing.T) {
	ctx := context.Background()
	date := timeslot.MustDate("2025-06-06")

	tests := []struct {
		name string
		busy []timeslot.Interval
		want []string
	}{
		{"empty day", nil, []string{"08:00", "10:00", "12:00", "14:00", "16:00", "18:00"}},
		{"straddling booking", []timeslot.Interval{slot("09:00", "11:00")}, []string{"12:00", "14:00", "16:00", "18:00"}},
		{"whole day", []timeslot.Interval{slot("08:00", "20:00")}, []string{}},
		{"after hours", []timeslot.Interval{slot("20:00", "22:00")}, []string{"08:00", "10:00", "12:00", "14:00", "16:00", "18:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservations := new(MockReservations)
			venues := new(MockVenues)
			venues.On("Exists", ctx, int64(1)).Return(true, nil)
			reservations.On("ApprovedOn", ctx, int64(1), date).Return(tt.busy, nil)

			svc := NewService(reservations, venues, timeslot.DefaultCatalog(), nil)
			free, err := svc.FreeHoursOnDate(ctx, 1, date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, starts(free))
		})
	}
}

func TestFreeHoursOnDate_UsesCache(t *testing.T) {
	ctx := context.Background()
	date := timeslot.MustDate("2025-06-06")
	cache, mr := newTestCache(t)

	reservations := new(MockReservations)
	venues := new(MockVenues)
	venues.On("Exists", ctx, int64(1)).Return(true, nil)
	reservations.On("ApprovedOn", ctx, int64(1), date).
		Return([]timeslot.Interval{slot("08:00", "10:00")}, nil).Once()

	svc := NewService(reservations, venues, timeslot.DefaultCatalog(), cache)

	first, err := svc.FreeHoursOnDate(ctx, 1, date)
	require.NoError(t, err)
	second, err := svc.FreeHoursOnDate(ctx, 1, date)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second, 5)
	assert.True(t, mr.Exists(cacheKey(1, date)))
	reservations.AssertNumberOfCalls(t, "ApprovedOn", 1)
}

func TestFreeHoursOnDate_CacheDownFallsThrough(t *testing.T) {
	ctx := context.Background()
	date := timeslot.MustDate("2025-06-06")
	cache, mr := newTestCache(t)
	mr.Close()

	reservations := new(MockReservations)
	venues := new(MockVenues)
	venues.On("Exists", ctx, int64(1)).Return(true, nil)
	reservations.On("ApprovedOn", ctx, int64(1), date).Return([]timeslot.Interval{}, nil)

	svc := NewService(reservations, venues, timeslot.DefaultCatalog(), cache)
	free, err := svc.FreeHoursOnDate(ctx, 1, date)
	require.NoError(t, err)
	assert.Len(t, free, 6)
}

func TestCache_InvalidatedOnApprovalEvents(t *testing.T) {
	ctx := context.Background()
	date := timeslot.MustDate("2025-06-06")
	cache, mr := newTestCache(t)

	cache.Set(ctx, 1, date, []timeslot.Interval{slot("08:00", "10:00")})
	require.True(t, mr.Exists(cacheKey(1, date)))

	res := domain.Reservation{VenueID: 1, Date: date}

	// Moving between non-approved statuses leaves the entry alone.
	err := cache.Handle(ctx, notification.Event{
		Kind:         notification.EventReservationStatusChanged,
		Reservation:  res,
		PreviousKind: domain.StatusCreated,
		StatusKind:   domain.StatusInReview,
	})
	require.NoError(t, err)
	assert.True(t, mr.Exists(cacheKey(1, date)))

	err = cache.Handle(ctx, notification.Event{
		Kind:         notification.EventReservationStatusChanged,
		Reservation:  res,
		PreviousKind: domain.StatusInReview,
		StatusKind:   domain.StatusApproved,
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey(1, date)))
}

func TestFreeDaysInRange(t *testing.T) {
	ctx := context.Background()
	from := timeslot.MustDate("2025-06-05")
	to := timeslot.MustDate("2025-06-08")

	reservations := new(MockReservations)
	venues := new(MockVenues)
	venues.On("Exists", ctx, int64(1)).Return(true, nil)
	reservations.On("ApprovedBetween", ctx, int64(1), from, to).Return(map[string][]timeslot.Interval{
		"2025-06-06": {slot("08:00", "20:00")},
		"2025-06-07": {slot("08:00", "18:00")},
	}, nil)

	svc := NewService(reservations, venues, timeslot.DefaultCatalog(), nil)
	days, err := svc.FreeDaysInRange(ctx, 1, from, to)
	require.NoError(t, err)

	got := make([]string, 0, len(days))
	for _, d := range days {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{"2025-06-05", "2025-06-07", "2025-06-08"}, got)
}

func TestFreeDaysInRange_ReversedIsEmpty(t *testing.T) {
	svc := NewService(new(MockReservations), new(MockVenues), timeslot.DefaultCatalog(), nil)

	days, err := svc.FreeDaysInRange(context.Background(), 1, timeslot.MustDate("2025-06-08"), timeslot.MustDate("2025-06-05"))
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestFreeDaysInRange_TooLong(t *testing.T) {
	svc := NewService(new(MockReservations), new(MockVenues), timeslot.DefaultCatalog(), nil)

	_, err := svc.FreeDaysInRange(context.Background(), 1, timeslot.MustDate("2025-01-01"), timeslot.MustDate("2026-06-01"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFreeDaysInRange_HugeRangeRejectedBeforeListing(t *testing.T) {
	reservations := new(MockReservations)
	venues := new(MockVenues)
	svc := NewService(reservations, venues, timeslot.DefaultCatalog(), nil)

	start := time.Now()
	_, err := svc.FreeDaysInRange(context.Background(), 1, timeslot.MustDate("0001-01-01"), timeslot.MustDate("9999-12-31"))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	venues.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	reservations.AssertNotCalled(t, "ApprovedBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFreeDaysInRange_FullYearAccepted(t *testing.T) {
	reservations := new(MockReservations)
	venues := new(MockVenues)
	ctx := context.Background()
	from, to := timeslot.MustDate("2024-01-01"), timeslot.MustDate("2024-12-31")

	venues.On("Exists", ctx, int64(1)).Return(true, nil)
	reservations.On("ApprovedBetween", ctx, int64(1), from, to).Return(map[string][]timeslot.Interval{}, nil)

	svc := NewService(reservations, venues, timeslot.DefaultCatalog(), nil)
	days, err := svc.FreeDaysInRange(ctx, 1, from, to)
	require.NoError(t, err)
	assert.Len(t, days, MaxRangeDays)
}
