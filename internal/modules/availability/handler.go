package availability

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"venuebooking/internal/domain"
	"venuebooking/internal/pkg/response"
	"venuebooking/internal/pkg/timeslot"
	"venuebooking/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	venues := protected.Group("/venues/:id")
	{
		venues.GET("/availability", h.CheckAvailability)
		venues.GET("/free-hours", h.FreeHours)
		venues.GET("/free-days", h.FreeDays)
	}
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	var q AvailabilityQuery
	_ = c.ShouldBindQuery(&q)

	verr := &domain.ValidationError{}
	venueID := parseVenueID(c.Param("id"), verr)
	date := parseDateField("date", q.Date, verr)
	start := parseClockField("start", q.Start, verr)
	end := parseClockField("end", q.End, verr)
	if err := validator.Check(&q, verr); err != nil {
		response.DomainError(c, err)
		return
	}

	iv, err := timeslot.NewInterval(start, end)
	if err != nil {
		response.DomainError(c, domain.ErrInvalidInterval)
		return
	}

	free, err := h.service.IsFree(c.Request.Context(), venueID, date, iv)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, AvailabilityResponse{
		VenueID:   venueID,
		Date:      date,
		Interval:  iv,
		Available: free,
	})
}

func (h *Handler) FreeHours(c *gin.Context) {
	var q FreeHoursQuery
	_ = c.ShouldBindQuery(&q)

	verr := &domain.ValidationError{}
	venueID := parseVenueID(c.Param("id"), verr)
	date := parseDateField("date", q.Date, verr)
	if err := validator.Check(&q, verr); err != nil {
		response.DomainError(c, err)
		return
	}

	slots, err := h.service.FreeHoursOnDate(c.Request.Context(), venueID, date)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	hours := make([]timeslot.Clock, 0, len(slots))
	for _, s := range slots {
		hours = append(hours, s.Start)
	}
	response.Success(c, http.StatusOK, FreeHoursResponse{
		VenueID:   venueID,
		Date:      date,
		FreeHours: hours,
		Slots:     slots,
	})
}

func (h *Handler) FreeDays(c *gin.Context) {
	var q FreeDaysQuery
	_ = c.ShouldBindQuery(&q)

	verr := &domain.ValidationError{}
	venueID := parseVenueID(c.Param("id"), verr)
	from := parseDateField("from", q.From, verr)
	to := parseDateField("to", q.To, verr)
	if err := validator.Check(&q, verr); err != nil {
		response.DomainError(c, err)
		return
	}

	days, err := h.service.FreeDaysInRange(c.Request.Context(), venueID, from, to)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, FreeDaysResponse{
		VenueID:  venueID,
		From:     from,
		To:       to,
		FreeDays: days,
	})
}
