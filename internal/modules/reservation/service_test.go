package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"venuebooking/internal/config"
	"venuebooking/internal/domain"
	"venuebooking/internal/notification"
	"venuebooking/internal/pkg/timeslot"
	"venuebooking/internal/repository"
)

// Mock collaborators
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateWithNotifications(ctx context.Context, res *domain.Reservation, historyNotes string, build repository.NotificationBuilder) ([]domain.Notification, error) {
	args := m.Called(ctx, res, historyNotes, build)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	res.ID = 42 // simulate DB insert
	var out []domain.Notification
	if build != nil {
		out = build(res)
	}
	return out, nil
}

func (m *MockStore) TransitionWithHistory(ctx context.Context, cmd repository.TransitionCommand) (*repository.TransitionResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	result := args.Get(0).(*repository.TransitionResult)
	if cmd.Notify != nil {
		n := cmd.Notify(result.Reservation, result.PreviousStatus)
		result.Notification = &n
	}
	return result, args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockStore) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockStore) History(ctx context.Context, reservationID int64) ([]domain.StatusChange, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusChange), args.Error(1)
}

type MockAvailability struct {
	mock.Mock
}

func (m *MockAvailability) IsFree(ctx context.Context, venueID int64, date timeslot.Date, iv timeslot.Interval) (bool, error) {
	args := m.Called(ctx, venueID, date, iv)
	return args.Bool(0), args.Error(1)
}

type MockVenues struct {
	mock.Mock
}

func (m *MockVenues) Name(ctx context.Context, venueID int64) (string, error) {
	args := m.Called(ctx, venueID)
	return args.String(0), args.Error(1)
}

type MockAdmins struct {
	mock.Mock
}

func (m *MockAdmins) ListActiveAdmins(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type recordingPublisher struct {
	events []notification.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev notification.Event) {
	p.events = append(p.events, ev)
}

type fixture struct {
	store        *MockStore
	availability *MockAvailability
	venues       *MockVenues
	admins       *MockAdmins
	events       *recordingPublisher
	svc          *Service
}

func testCatalog(t *testing.T) *domain.StatusCatalog {
	t.Helper()
	c, err := config.ParseStatusCatalog("creada:created,en_proceso:in_review,aprobada:approved,rechazada:rejected,cancelada:cancelled", "creada")
	require.NoError(t, err)
	return c
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		store:        new(MockStore),
		availability: new(MockAvailability),
		venues:       new(MockVenues),
		admins:       new(MockAdmins),
		events:       &recordingPublisher{},
	}
	f.svc = NewService(f.store, f.availability, f.venues, f.admins, testCatalog(t), f.events, 3)
	f.svc.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return f
}

func validRequest() CreateReservationRequest {
	return CreateReservationRequest{
		VenueID:          1,
		Date:             "2025-06-06",
		StartTime:        "08:00",
		EndTime:          "10:00",
		PurposeID:        2,
		ParticipantCount: 12,
		Notes:            "torneo",
	}
}

func TestCreate_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.newCode = func(d timeslot.Date) string { return formatCode(d, 1234) }

	date := timeslot.MustDate("2025-06-06")
	iv, _ := timeslot.ParseInterval("08:00", "10:00")
	f.availability.On("IsFree", ctx, int64(1), date, iv).Return(true, nil)
	f.venues.On("Name", ctx, int64(1)).Return("Coliseo", nil)
	f.admins.On("ListActiveAdmins", ctx).Return([]domain.User{{ID: 1}, {ID: 2}}, nil)
	f.store.On("CreateWithNotifications", ctx, mock.AnythingOfType("*domain.Reservation"), "torneo", mock.Anything).Return(nil, nil)

	res, err := f.svc.Create(ctx, 7, validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), res.ID)
	assert.Equal(t, "RES-20250606-1234", res.Code)
	assert.Equal(t, "creada", res.Status)
	assert.Equal(t, int64(7), res.RequesterID)

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0]
	assert.Equal(t, notification.EventReservationCreated, ev.Kind)
	assert.Equal(t, "Coliseo", ev.VenueName)
	require.Len(t, ev.Notifications, 3)
	assert.Equal(t, int64(7), ev.Notifications[0].UserID)
	assert.Equal(t, domain.CategorySuccess, ev.Notifications[0].Category)
	assert.Equal(t, "/solicitudes/42", ev.Notifications[0].Link)
	assert.Equal(t, "/admin/solicitudes/42", ev.Notifications[1].Link)
	assert.Equal(t, domain.CategoryInfo, ev.Notifications[2].Category)
}

func TestCreate_ReportsEveryMissingField(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), 7, CreateReservationRequest{})
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"end_time", "participant_count", "purpose_id", "reservation_date", "start_time", "venue_id"}, verr.FieldNames())
	f.store.AssertNotCalled(t, "CreateWithNotifications", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_MalformedClockIsValidationError(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.StartTime = "8am"
	req.Date = "06/06/2025"

	_, err := f.svc.Create(context.Background(), 7, req)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"reservation_date", "start_time"}, verr.FieldNames())
}

func TestCreate_InvalidInterval(t *testing.T) {
	f := newFixture(t)
	req := validRequest()
	req.StartTime, req.EndTime = "10:00", "10:00"

	_, err := f.svc.Create(context.Background(), 7, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func TestCreate_ConflictPersistsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.availability.On("IsFree", ctx, int64(1), mock.Anything, mock.Anything).Return(false, nil)

	_, err := f.svc.Create(ctx, 7, validRequest())
	assert.ErrorIs(t, err, domain.ErrConflict)
	f.store.AssertNotCalled(t, "CreateWithNotifications", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.events.events)
}

func TestCreate_UnknownVenue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.availability.On("IsFree", ctx, int64(1), mock.Anything, mock.Anything).Return(false, domain.ErrNotFound)

	_, err := f.svc.Create(ctx, 7, validRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_RetriesDuplicateCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	codes := []int{1111, 1111, 2222}
	var issued []string
	f.svc.newCode = func(d timeslot.Date) string {
		c := formatCode(d, codes[len(issued)])
		issued = append(issued, c)
		return c
	}

	f.availability.On("IsFree", ctx, int64(1), mock.Anything, mock.Anything).Return(true, nil)
	f.venues.On("Name", ctx, int64(1)).Return("Coliseo", nil)
	f.admins.On("ListActiveAdmins", ctx).Return([]domain.User{}, nil)
	f.store.On("CreateWithNotifications", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrDuplicateCode).Twice()
	f.store.On("CreateWithNotifications", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Once()

	res, err := f.svc.Create(ctx, 7, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "RES-20250606-2222", res.Code)
	assert.Len(t, issued, 3)
}

func TestCreate_GivesUpAfterAttempts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.availability.On("IsFree", ctx, int64(1), mock.Anything, mock.Anything).Return(true, nil)
	f.venues.On("Name", ctx, int64(1)).Return("Coliseo", nil)
	f.admins.On("ListActiveAdmins", ctx).Return([]domain.User{}, nil)
	f.store.On("CreateWithNotifications", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrDuplicateCode)

	_, err := f.svc.Create(ctx, 7, validRequest())
	assert.ErrorIs(t, err, domain.ErrPersistence)
	f.store.AssertNumberOfCalls(t, "CreateWithNotifications", 3)
	assert.Empty(t, f.events.events)
}

func TestTransition_RequiresReviewer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Transition(context.Background(), 1, 7, domain.RoleRequester, "aprobada", "")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	f.store.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTransition_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.On("GetByID", ctx, int64(5)).Return(nil, domain.ErrNotFound)

	_, err := f.svc.Transition(ctx, 5, 1, domain.RoleAdmin, "aprobada", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransition_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.On("GetByID", ctx, int64(5)).Return(&domain.Reservation{ID: 5}, nil)

	_, err := f.svc.Transition(ctx, 5, 1, domain.RoleSupervisor, "archivada", "")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	f.store.AssertNotCalled(t, "TransitionWithHistory", mock.Anything, mock.Anything)
}

func TestTransition_NotificationPerKind(t *testing.T) {
	tests := []struct {
		target   string
		title    string
		category domain.NotificationCategory
	}{
		{"aprobada", "Solicitud aprobada", domain.CategorySuccess},
		{"rechazada", "Solicitud rechazada", domain.CategoryError},
		{"en_proceso", "Solicitud en proceso", domain.CategoryInfo},
		{"cancelada", "Solicitud actualizada", domain.CategoryInfo},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			updated := &domain.Reservation{ID: 5, Code: "RES-20250606-1234", RequesterID: 7, VenueID: 1, Status: tt.target}
			f.store.On("GetByID", ctx, int64(5)).Return(updated, nil)
			f.store.On("TransitionWithHistory", ctx, mock.MatchedBy(func(cmd repository.TransitionCommand) bool {
				return cmd.ReservationID == 5 && cmd.ActorID == 1 && cmd.NewStatus == tt.target
			})).Return(&repository.TransitionResult{Reservation: updated, PreviousStatus: "aprobada"}, nil)
			f.venues.On("Name", ctx, int64(1)).Return("Coliseo", nil)

			res, err := f.svc.Transition(ctx, 5, 1, domain.RoleAdmin, tt.target, "revisado")
			require.NoError(t, err)
			assert.Equal(t, tt.target, res.Status)

			require.Len(t, f.events.events, 1)
			ev := f.events.events[0]
			assert.Equal(t, notification.EventReservationStatusChanged, ev.Kind)
			assert.Equal(t, domain.StatusApproved, ev.PreviousKind)
			require.Len(t, ev.Notifications, 1)
			n := ev.Notifications[0]
			assert.Equal(t, int64(7), n.UserID)
			assert.Equal(t, tt.title, n.Title)
			assert.Equal(t, tt.category, n.Category)
			assert.Contains(t, n.Message, "Notas: revisado")
		})
	}
}

func TestTransition_ResolvesKindName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	updated := &domain.Reservation{ID: 5, RequesterID: 7, VenueID: 1, Status: "aprobada"}
	f.store.On("GetByID", ctx, int64(5)).Return(updated, nil)
	f.store.On("TransitionWithHistory", ctx, mock.MatchedBy(func(cmd repository.TransitionCommand) bool {
		return cmd.NewStatus == "aprobada"
	})).Return(&repository.TransitionResult{Reservation: updated, PreviousStatus: "creada"}, nil)
	f.venues.On("Name", ctx, int64(1)).Return("", domain.ErrNotFound)

	_, err := f.svc.Transition(ctx, 5, 1, domain.RoleAdmin, "APPROVED", "")
	require.NoError(t, err)
	require.Len(t, f.events.events, 1)
	assert.True(t, f.events.events[0].TouchesApproved())
}

func TestTransition_ConflictIsReturned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.On("GetByID", ctx, int64(5)).Return(&domain.Reservation{ID: 5}, nil)
	f.store.On("TransitionWithHistory", ctx, mock.Anything).Return(nil, domain.ErrConflict)

	_, err := f.svc.Transition(ctx, 5, 1, domain.RoleAdmin, "aprobada", "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.events.events)
}

func TestGet_AccessRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	res := &domain.Reservation{ID: 5, RequesterID: 7}
	f.store.On("GetByID", ctx, int64(5)).Return(res, nil)
	f.store.On("History", ctx, int64(5)).Return([]domain.StatusChange{{ReservationID: 5, NewStatus: "creada"}}, nil)

	got, err := f.svc.Get(ctx, 5, 7, domain.RoleRequester)
	require.NoError(t, err)
	assert.Len(t, got.History, 1)

	_, err = f.svc.Get(ctx, 5, 1, domain.RoleSupervisor)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, 5, 8, domain.RoleRequester)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestGetByCode_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.On("GetByCode", ctx, "RES-20250606-0000").Return(nil, domain.ErrNotFound)

	_, err := f.svc.GetByCode(ctx, "RES-20250606-0000", 7, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatuses(t *testing.T) {
	f := newFixture(t)
	out := f.svc.Statuses()
	assert.Equal(t, "creada", out.Initial)
	assert.Equal(t, "aprobada", out.Approved)
	assert.Len(t, out.Statuses, 5)
}

func TestRandomCodeFormat(t *testing.T) {
	code := randomCode(timeslot.MustDate("2025-06-06"))
	assert.Regexp(t, `^RES-20250606-[1-9][0-9]{3}$`, code)
}
