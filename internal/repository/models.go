package repository

import (
	"time"

	"venuebooking/internal/domain"
	"venuebooking/internal/pkg/timeslot"
)

type reservationModel struct {
	ID               int64      `gorm:"column:id;primaryKey"`
	Code             string     `gorm:"column:code;size:32;not null;uniqueIndex:idx_reservations_code"`
	RequesterID      int64      `gorm:"column:requester_id;not null;index:idx_reservations_requester"`
	VenueID          int64      `gorm:"column:venue_id;not null;index:idx_reservations_venue_date,priority:1"`
	ReservationDate  string     `gorm:"column:reservation_date;size:10;not null;index:idx_reservations_venue_date,priority:2"`
	StartMinute      int        `gorm:"column:start_minute;not null;check:chk_reservations_interval,start_minute < end_minute"`
	EndMinute        int        `gorm:"column:end_minute;not null"`
	PurposeID        int64      `gorm:"column:purpose_id"`
	ParticipantCount int        `gorm:"column:participant_count"`
	Status           string     `gorm:"column:status;size:64;not null;index:idx_reservations_status"`
	AdminID          *int64     `gorm:"column:admin_id"`
	AdminNotes       *string    `gorm:"column:admin_notes;type:text"`
	RespondedAt      *time.Time `gorm:"column:responded_at"`
	Notes            *string    `gorm:"column:notes;type:text"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

type statusHistoryModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	ReservationID  int64     `gorm:"column:reservation_id;not null;index:idx_status_history_reservation"`
	PreviousStatus *string   `gorm:"column:previous_status;size:64"`
	NewStatus      string    `gorm:"column:new_status;size:64;not null"`
	ActorID        int64     `gorm:"column:actor_id;not null"`
	Notes          *string   `gorm:"column:notes;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (statusHistoryModel) TableName() string { return "reservation_status_history" }

type notificationModel struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	UserID    int64      `gorm:"column:user_id;not null;index:idx_notifications_user_unread,priority:1"`
	Title     string     `gorm:"column:title;size:255;not null"`
	Message   string     `gorm:"column:message;type:text"`
	Category  string     `gorm:"column:category;size:16;not null"`
	Link      *string    `gorm:"column:link;size:255"`
	IsRead    bool       `gorm:"column:is_read;not null;index:idx_notifications_user_unread,priority:2"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex:idx_users_email"`
	PasswordHash string    `gorm:"column:password_hash;size:255"`
	Role         string    `gorm:"column:role;size:64;not null"`
	Name         string    `gorm:"column:name;size:255"`
	Active       bool      `gorm:"column:active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type venueModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;size:255;not null"`
	Location  string    `gorm:"column:location;size:255"`
	Capacity  int       `gorm:"column:capacity"`
	Active    bool      `gorm:"column:active;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (venueModel) TableName() string { return "venues" }

// venueDayLockModel is the row locked FOR UPDATE while approving on a venue/date.
type venueDayLockModel struct {
	VenueID         int64     `gorm:"column:venue_id;primaryKey;autoIncrement:false"`
	ReservationDate string    `gorm:"column:reservation_date;size:10;primaryKey"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (venueDayLockModel) TableName() string { return "venue_day_locks" }

func optString(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toReservationModel(r *domain.Reservation) reservationModel {
	return reservationModel{
		ID:               r.ID,
		Code:             r.Code,
		RequesterID:      r.RequesterID,
		VenueID:          r.VenueID,
		ReservationDate:  r.Date.String(),
		StartMinute:      r.Start.Minutes(),
		EndMinute:        r.End.Minutes(),
		PurposeID:        r.PurposeID,
		ParticipantCount: r.ParticipantCount,
		Status:           r.Status,
		AdminID:          r.AdminID,
		AdminNotes:       r.AdminNotes,
		RespondedAt:      r.RespondedAt,
		Notes:            optString(r.Notes),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toDomainReservation(m reservationModel) (*domain.Reservation, error) {
	date, err := timeslot.ParseDate(m.ReservationDate)
	if err != nil {
		return nil, err
	}
	return &domain.Reservation{
		ID:               m.ID,
		Code:             m.Code,
		RequesterID:      m.RequesterID,
		VenueID:          m.VenueID,
		Date:             date,
		Start:            timeslot.Clock(m.StartMinute),
		End:              timeslot.Clock(m.EndMinute),
		PurposeID:        m.PurposeID,
		ParticipantCount: m.ParticipantCount,
		Status:           m.Status,
		AdminID:          m.AdminID,
		AdminNotes:       m.AdminNotes,
		RespondedAt:      m.RespondedAt,
		Notes:            derefString(m.Notes),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}

func toDomainStatusChange(m statusHistoryModel) domain.StatusChange {
	return domain.StatusChange{
		ID:             m.ID,
		ReservationID:  m.ReservationID,
		PreviousStatus: m.PreviousStatus,
		NewStatus:      m.NewStatus,
		ActorID:        m.ActorID,
		Notes:          derefString(m.Notes),
		CreatedAt:      m.CreatedAt,
	}
}

func toNotificationModel(n domain.Notification) notificationModel {
	return notificationModel{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Category:  string(n.Category),
		Link:      optString(n.Link),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func toDomainNotification(m notificationModel) domain.Notification {
	return domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Message:   m.Message,
		Category:  domain.NotificationCategory(m.Category),
		Link:      derefString(m.Link),
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Name:         m.Name,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainVenue(m venueModel) *domain.Venue {
	return &domain.Venue{
		ID:        m.ID,
		Name:      m.Name,
		Location:  m.Location,
		Capacity:  m.Capacity,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}
