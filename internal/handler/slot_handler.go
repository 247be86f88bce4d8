package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-pairing-api/internal/dto"
	"github.com/noah-isme/tutor-pairing-api/internal/models"
	"github.com/noah-isme/tutor-pairing-api/pkg/response"
)

type slotAssignmentService interface {
	AssignSlot(ctx context.Context, req dto.SlotAssignmentRequest, actor *models.JWTClaims) (*models.SlotAssignmentResult, error)
	ReleaseSlot(ctx context.Context, req dto.SlotAssignmentRequest, actor *models.JWTClaims) (*models.SlotAssignmentResult, error)
}

// SlotHandler reserves and releases slots shared by two users.
type SlotHandler struct {
	service slotAssignmentService
}

// NewSlotHandler constructs SlotHandler.
func NewSlotHandler(service slotAssignmentService) *SlotHandler {
	return &SlotHandler{service: service}
}

// Assign godoc
// @Summary Reserve a slot for two users
// @Description Writes both schedules independently. 207 means only one side was saved; the body lists both outcomes.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.SlotAssignmentRequest true "Slot"
// @Success 200 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules/assignments [post]
func (h *SlotHandler) Assign(c *gin.Context) {
	h.handle(c, h.service.AssignSlot)
}

// Release godoc
// @Summary Release a slot reserved between two users
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.SlotAssignmentRequest true "Slot"
// @Success 200 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/assignments [delete]
func (h *SlotHandler) Release(c *gin.Context) {
	h.handle(c, h.service.ReleaseSlot)
}

func (h *SlotHandler) handle(c *gin.Context, op func(context.Context, dto.SlotAssignmentRequest, *models.JWTClaims) (*models.SlotAssignmentResult, error)) {
	var req dto.SlotAssignmentRequest
	if !bindJSON(c, &req, "invalid slot payload") {
		return
	}
	result, err := op(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		if result != nil {
			response.WithError(c, result, err)
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
