package reservation

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"venuebooking/internal/domain"
	"venuebooking/internal/middleware"
	"venuebooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/reservation-statuses", h.ListStatuses)

	g := protected.Group("/reservations")
	{
		g.POST("", h.Create)
		g.GET("/:id", h.Get)
		g.GET("/code/:code", h.GetByCode)
		g.PATCH("/:id/status", middleware.ReviewersOnly(), h.ChangeStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body")
		return
	}

	res, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, CreateReservationResponse{
		ID:     res.ID,
		Code:   res.Code,
		Status: res.Status,
		Detail: res,
	})
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body")
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		response.DomainError(c, domain.NewValidationError(map[string]string{"status": "required"}))
		return
	}

	res, err := h.service.Transition(c.Request.Context(), id, userID, middleware.CurrentRole(c), req.Status, req.AdminNotes)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	res, err := h.service.Get(c.Request.Context(), id, c.GetInt64("user_id"), middleware.CurrentRole(c))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetByCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	res, err := h.service.GetByCode(c.Request.Context(), code, c.GetInt64("user_id"), middleware.CurrentRole(c))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) ListStatuses(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Statuses())
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid reservation ID")
		return 0, false
	}
	return id, true
}
