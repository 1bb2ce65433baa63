package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"venuebooking/internal/domain"
	"venuebooking/internal/notification"
	"venuebooking/internal/pkg/timeslot"
	"venuebooking/internal/pkg/validator"
	"venuebooking/internal/repository"
)

const defaultCodeAttempts = 5

type Service struct {
	store        ReservationStore
	availability AvailabilityChecker
	venues       VenueDirectory
	admins       AdminDirectory
	statuses     *domain.StatusCatalog
	events       EventPublisher
	codeAttempts int

	newCode func(timeslot.Date) string
	now     func() time.Time
}

func NewService(
	store ReservationStore,
	availability AvailabilityChecker,
	venues VenueDirectory,
	admins AdminDirectory,
	statuses *domain.StatusCatalog,
	events EventPublisher,
	codeAttempts int,
) *Service {
	if codeAttempts <= 0 {
		codeAttempts = defaultCodeAttempts
	}
	return &Service{
		store:        store,
		availability: availability,
		venues:       venues,
		admins:       admins,
		statuses:     statuses,
		events:       events,
		codeAttempts: codeAttempts,
		newCode:      randomCode,
		now:          time.Now,
	}
}

// Create validates the request, checks the slot against approved reservations
// and stores it in the initial status together with the first history entry
// and the requester/admin notifications.
func (s *Service) Create(ctx context.Context, requesterID int64, req CreateReservationRequest) (*domain.Reservation, error) {
	verr := &domain.ValidationError{}
	if requesterID <= 0 {
		verr.Add("requester_id", "required")
	}
	var date timeslot.Date
	if req.Date != "" {
		d, err := timeslot.ParseDate(req.Date)
		if err != nil {
			verr.Add("reservation_date", "expected YYYY-MM-DD")
		}
		date = d
	}
	var start, end timeslot.Clock
	if req.StartTime != "" {
		c, err := timeslot.ParseClock(req.StartTime)
		if err != nil {
			verr.Add("start_time", "expected HH:MM")
		}
		start = c
	}
	if req.EndTime != "" {
		c, err := timeslot.ParseClock(req.EndTime)
		if err != nil {
			verr.Add("end_time", "expected HH:MM")
		}
		end = c
	}
	if err := validator.Check(&req, verr); err != nil {
		return nil, err
	}

	iv, err := timeslot.NewInterval(start, end)
	if err != nil {
		return nil, domain.ErrInvalidInterval
	}

	free, err := s.availability.IsFree(ctx, req.VenueID, date, iv)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, domain.ErrConflict
	}

	venueName, err := s.venues.Name(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}
	// Read before the transaction; the store may hold a single connection.
	admins, err := s.admins.ListActiveAdmins(ctx)
	if err != nil {
		return nil, err
	}

	initial := s.statuses.Initial()
	build := func(r *domain.Reservation) []domain.Notification {
		return createdNotifications(r, venueName, admins)
	}

	var (
		res    *domain.Reservation
		stored []domain.Notification
	)
	for attempt := 1; ; attempt++ {
		now := s.now()
		res = &domain.Reservation{
			Code:             s.newCode(date),
			RequesterID:      requesterID,
			VenueID:          req.VenueID,
			Date:             date,
			Start:            iv.Start,
			End:              iv.End,
			PurposeID:        req.PurposeID,
			ParticipantCount: req.ParticipantCount,
			Status:           initial.Label,
			Notes:            req.Notes,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		stored, err = s.store.CreateWithNotifications(ctx, res, req.Notes, build)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateCode) {
			return nil, err
		}
		if attempt >= s.codeAttempts {
			return nil, fmt.Errorf("%w: no free reservation code after %d attempts", domain.ErrPersistence, attempt)
		}
		log.Printf("reservation_code_collision code=%s attempt=%d", res.Code, attempt)
	}

	log.Printf("reservation_created id=%d code=%s venue_id=%d date=%s interval=%s requester_id=%d",
		res.ID, res.Code, res.VenueID, res.Date, iv, requesterID)

	s.events.Publish(ctx, notification.Event{
		Kind:          notification.EventReservationCreated,
		Reservation:   *res,
		VenueName:     venueName,
		StatusKind:    initial.Kind,
		Notifications: stored,
		At:            res.CreatedAt,
	})
	return res, nil
}

// Transition moves a reservation to newStatus on behalf of a reviewer.
// Moving into the approved status re-checks overlaps against the other
// approved reservations inside the store transaction.
func (s *Service) Transition(ctx context.Context, reservationID, actorID int64, role domain.Role, newStatus, notes string) (*domain.Reservation, error) {
	if !role.CanReview() {
		return nil, domain.ErrPermissionDenied
	}
	if _, err := s.store.GetByID(ctx, reservationID); err != nil {
		return nil, err
	}
	target, err := s.statuses.Resolve(newStatus)
	if err != nil {
		return nil, err
	}

	result, err := s.store.TransitionWithHistory(ctx, repository.TransitionCommand{
		ReservationID: reservationID,
		ActorID:       actorID,
		NewStatus:     target.Label,
		Notes:         notes,
		At:            s.now(),
		Notify: func(r *domain.Reservation, _ string) domain.Notification {
			return statusNotification(r, target.Kind, notes)
		},
	})
	if err != nil {
		return nil, err
	}
	res := result.Reservation

	log.Printf("reservation_transition id=%d code=%s from=%s to=%s actor_id=%d",
		res.ID, res.Code, result.PreviousStatus, res.Status, actorID)

	venueName, err := s.venues.Name(ctx, res.VenueID)
	if err != nil {
		log.Printf("dispatch_warning reservation_id=%d venue_id=%d error=%q", res.ID, res.VenueID, err.Error())
	}
	ev := notification.Event{
		Kind:           notification.EventReservationStatusChanged,
		Reservation:    *res,
		VenueName:      venueName,
		PreviousStatus: result.PreviousStatus,
		PreviousKind:   s.statuses.KindOf(result.PreviousStatus),
		StatusKind:     target.Kind,
		AdminNotes:     notes,
		At:             res.UpdatedAt,
	}
	if result.Notification != nil {
		ev.Notifications = []domain.Notification{*result.Notification}
	}
	s.events.Publish(ctx, ev)

	return res, nil
}

// Get returns a reservation with its history to its owner or a reviewer.
func (s *Service) Get(ctx context.Context, reservationID, userID int64, role domain.Role) (*domain.Reservation, error) {
	res, err := s.store.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return s.withHistory(ctx, res, userID, role)
}

func (s *Service) GetByCode(ctx context.Context, code string, userID int64, role domain.Role) (*domain.Reservation, error) {
	res, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.withHistory(ctx, res, userID, role)
}

func (s *Service) withHistory(ctx context.Context, res *domain.Reservation, userID int64, role domain.Role) (*domain.Reservation, error) {
	if res.RequesterID != userID && !role.CanReview() {
		return nil, domain.ErrPermissionDenied
	}
	history, err := s.store.History(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	res.History = history
	return res, nil
}

func (s *Service) Statuses() StatusesResponse {
	return StatusesResponse{
		Initial:  s.statuses.Initial().Label,
		Approved: s.statuses.Approved().Label,
		Statuses: s.statuses.All(),
	}
}
