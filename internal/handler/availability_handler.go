package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-pairing-api/internal/dto"
	"github.com/noah-isme/tutor-pairing-api/internal/middleware"
	"github.com/noah-isme/tutor-pairing-api/internal/service"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
	"github.com/noah-isme/tutor-pairing-api/pkg/response"
)

type availabilityService interface {
	Common(ctx context.Context, userA, userB string, opts service.AvailabilityOptions) (*service.CommonAvailabilityResult, bool, error)
}

// AvailabilityHandler serves common availability between two users.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler constructs AvailabilityHandler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Common godoc
// @Summary Common availability of two users
// @Description mode=slots (default) returns whole one-hour slots; mode=raw returns overlaps of at least min_minutes.
// @Tags Availability
// @Produce json
// @Param user_a query string true "First user ID"
// @Param user_b query string true "Second user ID"
// @Param mode query string false "slots or raw"
// @Param min_minutes query int false "Minimum overlap in raw mode"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /availability/common [get]
func (h *AvailabilityHandler) Common(c *gin.Context) {
	var query dto.CommonAvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability query"))
		return
	}
	result, hit, err := h.service.Common(c.Request.Context(), query.UserA, query.UserB, service.AvailabilityOptions{
		Mode:       query.Mode,
		MinMinutes: query.MinMinutes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}
