package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-pairing-api/internal/dto"
	"github.com/noah-isme/tutor-pairing-api/internal/models"
	"github.com/noah-isme/tutor-pairing-api/pkg/response"
)

type scheduleService interface {
	GetOwn(ctx context.Context, actor *models.JWTClaims) (*models.UserSchedule, error)
	GetForUser(ctx context.Context, actor *models.JWTClaims, userID string) (*models.UserSchedule, error)
	SaveOwn(ctx context.Context, actor *models.JWTClaims, req dto.UpdateScheduleRequest) (*models.UserSchedule, error)
	DeleteOwn(ctx context.Context, actor *models.JWTClaims) error
}

// ScheduleHandler exposes weekly schedule endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// GetOwn godoc
// @Summary Get my weekly schedule
// @Description Reserved intervals include the counterpart's name, email and type.
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /schedules/me [get]
func (h *ScheduleHandler) GetOwn(c *gin.Context) {
	schedule, err := h.service.GetOwn(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// SaveOwn godoc
// @Summary Replace my available intervals
// @Description Reserved intervals are preserved; overlapping availability is trimmed around them.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.UpdateScheduleRequest true "Weekly schedule"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/me [put]
func (h *ScheduleHandler) SaveOwn(c *gin.Context) {
	var req dto.UpdateScheduleRequest
	if !bindJSON(c, &req, "invalid schedule payload") {
		return
	}
	schedule, err := h.service.SaveOwn(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// DeleteOwn godoc
// @Summary Delete my weekly schedule
// @Tags Schedules
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules/me [delete]
func (h *ScheduleHandler) DeleteOwn(c *gin.Context) {
	if err := h.service.DeleteOwn(c.Request.Context(), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetForUser godoc
// @Summary Get a user's weekly schedule
// @Tags Schedules
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{userId} [get]
func (h *ScheduleHandler) GetForUser(c *gin.Context) {
	userID, ok := requireParam(c, "userId")
	if !ok {
		return
	}
	schedule, err := h.service.GetForUser(c.Request.Context(), claimsFromContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}
