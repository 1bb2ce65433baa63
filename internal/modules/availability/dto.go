package availability

import (
	"strconv"

	"venuebooking/internal/domain"
	"venuebooking/internal/pkg/timeslot"
)

type AvailabilityQuery struct {
	Date  string `form:"date" validate:"required"`
	Start string `form:"start" validate:"required"`
	End   string `form:"end" validate:"required"`
}

type FreeHoursQuery struct {
	Date string `form:"date" validate:"required"`
}

type FreeDaysQuery struct {
	From string `form:"from" validate:"required"`
	To   string `form:"to" validate:"required"`
}

type AvailabilityResponse struct {
	VenueID   int64             `json:"venue_id"`
	Date      timeslot.Date     `json:"date"`
	Interval  timeslot.Interval `json:"interval"`
	Available bool              `json:"available"`
}

type FreeHoursResponse struct {
	VenueID   int64               `json:"venue_id"`
	Date      timeslot.Date       `json:"date"`
	FreeHours []timeslot.Clock    `json:"free_hours"`
	Slots     []timeslot.Interval `json:"slots"`
}

type FreeDaysResponse struct {
	VenueID  int64           `json:"venue_id"`
	From     timeslot.Date   `json:"from"`
	To       timeslot.Date   `json:"to"`
	FreeDays []timeslot.Date `json:"free_days"`
}

func parseVenueID(raw string, verr *domain.ValidationError) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		verr.Add("id", "invalid venue id")
		return 0
	}
	return id
}

func parseDateField(field, raw string, verr *domain.ValidationError) timeslot.Date {
	if raw == "" {
		return timeslot.Date{}
	}
	d, err := timeslot.ParseDate(raw)
	if err != nil {
		verr.Add(field, "expected YYYY-MM-DD")
	}
	return d
}

func parseClockField(field, raw string, verr *domain.ValidationError) timeslot.Clock {
	if raw == "" {
		return 0
	}
	c, err := timeslot.ParseClock(raw)
	if err != nil {
		verr.Add(field, "expected HH:MM")
	}
	return c
}
