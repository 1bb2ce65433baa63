package reservation

import (
	"context"

	"venuebooking/internal/domain"
	"venuebooking/internal/notification"
	"venuebooking/internal/pkg/timeslot"
	"venuebooking/internal/repository"
)

type ReservationStore interface {
	CreateWithNotifications(ctx context.Context, res *domain.Reservation, historyNotes string, build repository.NotificationBuilder) ([]domain.Notification, error)
	TransitionWithHistory(ctx context.Context, cmd repository.TransitionCommand) (*repository.TransitionResult, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByCode(ctx context.Context, code string) (*domain.Reservation, error)
	History(ctx context.Context, reservationID int64) ([]domain.StatusChange, error)
}

// AvailabilityChecker fails with domain.ErrNotFound for unknown venues.
type AvailabilityChecker interface {
	IsFree(ctx context.Context, venueID int64, date timeslot.Date, iv timeslot.Interval) (bool, error)
}

type VenueDirectory interface {
	Name(ctx context.Context, venueID int64) (string, error)
}

type AdminDirectory interface {
	ListActiveAdmins(ctx context.Context) ([]domain.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev notification.Event)
}
