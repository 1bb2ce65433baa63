package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"venuebooking/internal/database"
	"venuebooking/internal/domain"
	"venuebooking/internal/pkg/timeslot"
)

type ReservationRepository struct {
	db            *gorm.DB
	approvedLabel string
}

// NewReservationRepository binds the repository to the label that marks a
// reservation as approved. Only rows with that label take part in overlap
// checks.
func NewReservationRepository(db *gorm.DB, approvedLabel string) *ReservationRepository {
	return &ReservationRepository{db: db, approvedLabel: approvedLabel}
}

// NotificationBuilder derives the notifications to store once the reservation
// row has its id.
type NotificationBuilder func(r *domain.Reservation) []domain.Notification

// CreateWithNotifications inserts the reservation, its first history entry and
// the notifications in one transaction. The approved-overlap check is repeated
// inside the transaction.
func (r *ReservationRepository) CreateWithNotifications(
	ctx context.Context,
	res *domain.Reservation,
	historyNotes string,
	build NotificationBuilder,
) ([]domain.Notification, error) {
	var stored []domain.Notification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		busy, err := r.approvedIntervals(tx, res.VenueID, res.Date, 0)
		if err != nil {
			return err
		}
		if res.Interval().OverlapsAny(busy) {
			return domain.ErrConflict
		}

		m := toReservationModel(res)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		created, err := toDomainReservation(m)
		if err != nil {
			return err
		}

		h := statusHistoryModel{
			ReservationID: m.ID,
			NewStatus:     m.Status,
			ActorID:       m.RequesterID,
			Notes:         optString(historyNotes),
			CreatedAt:     m.CreatedAt,
		}
		if err := tx.Create(&h).Error; err != nil {
			return err
		}

		if build != nil {
			stored, err = insertNotifications(tx, build(created))
			if err != nil {
				return err
			}
		}

		*res = *created
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return stored, nil
}

type TransitionCommand struct {
	ReservationID int64
	ActorID       int64
	NewStatus     string
	Notes         string
	At            time.Time
	// Notify builds the requester notification from the updated reservation
	// and the status it had before.
	Notify func(r *domain.Reservation, previous string) domain.Notification
}

type TransitionResult struct {
	Reservation    *domain.Reservation
	PreviousStatus string
	Notification   *domain.Notification
}

// TransitionWithHistory updates the status, appends one history row and
// stores the requester notification in one transaction. Moving into the
// approved status locks the venue/date and fails with domain.ErrConflict when
// another approved reservation overlaps.
func (r *ReservationRepository) TransitionWithHistory(ctx context.Context, cmd TransitionCommand) (*TransitionResult, error) {
	at := cmd.At
	if at.IsZero() {
		at = time.Now()
	}

	var result TransitionResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m reservationModel
		q := tx
		if database.SupportsRowLocks(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&m, cmd.ReservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		previous := m.Status

		if cmd.NewStatus == r.approvedLabel {
			date, err := timeslot.ParseDate(m.ReservationDate)
			if err != nil {
				return err
			}
			if err := lockVenueDay(tx, m.VenueID, m.ReservationDate, at); err != nil {
				return err
			}
			busy, err := r.approvedIntervals(tx, m.VenueID, date, m.ID)
			if err != nil {
				return err
			}
			iv := timeslot.Interval{Start: timeslot.Clock(m.StartMinute), End: timeslot.Clock(m.EndMinute)}
			if iv.OverlapsAny(busy) {
				return domain.ErrConflict
			}
		}

		updates := map[string]any{
			"status":     cmd.NewStatus,
			"updated_at": at,
		}
		if cmd.Notes != "" {
			updates["admin_notes"] = cmd.Notes
		}
		// First review stamps both fields together.
		if m.AdminID == nil {
			updates["admin_id"] = cmd.ActorID
			updates["responded_at"] = at
		}
		if err := tx.Model(&reservationModel{}).Where("id = ?", m.ID).Updates(updates).Error; err != nil {
			return err
		}

		h := statusHistoryModel{
			ReservationID:  m.ID,
			PreviousStatus: optString(previous),
			NewStatus:      cmd.NewStatus,
			ActorID:        cmd.ActorID,
			Notes:          optString(cmd.Notes),
			CreatedAt:      at,
		}
		if err := tx.Create(&h).Error; err != nil {
			return err
		}

		var updated reservationModel
		if err := tx.First(&updated, m.ID).Error; err != nil {
			return err
		}
		res, err := toDomainReservation(updated)
		if err != nil {
			return err
		}
		result.Reservation = res
		result.PreviousStatus = previous

		if cmd.Notify != nil {
			stored, err := insertNotifications(tx, []domain.Notification{cmd.Notify(res, previous)})
			if err != nil {
				return err
			}
			result.Notification = &stored[0]
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &result, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainReservation(m)
}

func (r *ReservationRepository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	var m reservationModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainReservation(m)
}

// History returns the status changes of a reservation, newest first.
func (r *ReservationRepository) History(ctx context.Context, reservationID int64) ([]domain.StatusChange, error) {
	var rows []statusHistoryModel
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make([]domain.StatusChange, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainStatusChange(row))
	}
	return out, nil
}

// ApprovedOn returns the intervals of approved reservations for a venue/date.
func (r *ReservationRepository) ApprovedOn(ctx context.Context, venueID int64, date timeslot.Date) ([]timeslot.Interval, error) {
	out, err := r.approvedIntervals(r.db.WithContext(ctx), venueID, date, 0)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// ApprovedBetween groups approved intervals by date for an inclusive range.
func (r *ReservationRepository) ApprovedBetween(ctx context.Context, venueID int64, from, to timeslot.Date) (map[string][]timeslot.Interval, error) {
	var rows []reservationModel
	err := r.db.WithContext(ctx).
		Select("reservation_date", "start_minute", "end_minute").
		Where("venue_id = ? AND status = ? AND reservation_date BETWEEN ? AND ?",
			venueID, r.approvedLabel, from.String(), to.String()).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make(map[string][]timeslot.Interval)
	for _, row := range rows {
		out[row.ReservationDate] = append(out[row.ReservationDate], timeslot.Interval{
			Start: timeslot.Clock(row.StartMinute),
			End:   timeslot.Clock(row.EndMinute),
		})
	}
	return out, nil
}

// CountByStatus is used by tests and the seed summary.
func (r *ReservationRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&reservationModel{}).Where("status = ?", status).Count(&n).Error
	return n, translate(err)
}

func (r *ReservationRepository) approvedIntervals(tx *gorm.DB, venueID int64, date timeslot.Date, excludeID int64) ([]timeslot.Interval, error) {
	q := tx.Model(&reservationModel{}).
		Select("start_minute", "end_minute").
		Where("venue_id = ? AND reservation_date = ? AND status = ?", venueID, date.String(), r.approvedLabel)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var rows []reservationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]timeslot.Interval, 0, len(rows))
	for _, row := range rows {
		out = append(out, timeslot.Interval{Start: timeslot.Clock(row.StartMinute), End: timeslot.Clock(row.EndMinute)})
	}
	return out, nil
}

// lockVenueDay makes sure the lock row exists and holds it FOR UPDATE until the
// transaction ends. On SQLite the single connection already serialises writers.
func lockVenueDay(tx *gorm.DB, venueID int64, date string, at time.Time) error {
	if !database.SupportsRowLocks(tx) {
		return nil
	}

	row := venueDayLockModel{VenueID: venueID, ReservationDate: date, UpdatedAt: at}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("ensure venue day lock: %w", err)
	}

	var locked venueDayLockModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("venue_id = ? AND reservation_date = ?", venueID, date).
		First(&locked).Error
	if err != nil {
		return fmt.Errorf("lock venue day: %w", err)
	}
	return nil
}
