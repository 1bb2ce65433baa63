package reservation

import "venuebooking/internal/domain"

type CreateReservationRequest struct {
	VenueID          int64  `json:"venue_id" validate:"required,gt=0"`
	Date             string `json:"reservation_date" validate:"required"`
	StartTime        string `json:"start_time" validate:"required"`
	EndTime          string `json:"end_time" validate:"required"`
	PurposeID        int64  `json:"purpose_id" validate:"required,gt=0"`
	ParticipantCount int    `json:"participant_count" validate:"required,gt=0"`
	Notes            string `json:"notes" validate:"max=1000"`
}

type ChangeStatusRequest struct {
	Status     string `json:"status" validate:"required"`
	AdminNotes string `json:"admin_notes" validate:"max=1000"`
}

type CreateReservationResponse struct {
	ID     int64               `json:"id"`
	Code   string              `json:"reservation_code"`
	Status string              `json:"status"`
	Detail *domain.Reservation `json:"reservation"`
}

type StatusesResponse struct {
	Initial  string          `json:"initial"`
	Approved string          `json:"approved"`
	Statuses []domain.Status `json:"statuses"`
}
