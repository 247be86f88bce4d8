package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-pairing-api/internal/dto"
	"github.com/noah-isme/tutor-pairing-api/internal/models"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
	"github.com/noah-isme/tutor-pairing-api/pkg/response"
)

type profileVectorService interface {
	Vector(ctx context.Context, userID string, opts models.PairingOptions) (*dto.ProfileVectorResponse, error)
}

// ProfileHandler shows the questionnaire results used for matching.
type ProfileHandler struct {
	service  profileVectorService
	defaults models.PairingOptions
}

// NewProfileHandler constructs ProfileHandler; defaults are the matcher's configured options.
func NewProfileHandler(service profileVectorService, defaults models.PairingOptions) *ProfileHandler {
	return &ProfileHandler{service: service, defaults: defaults}
}

// Vector godoc
// @Summary Profile results and vector of a participant
// @Tags Profiles
// @Produce json
// @Param userId path string true "User ID"
// @Param bfi query bool false "Include BFI"
// @Param bfi_weight query number false "BFI weight"
// @Param vark query bool false "Include VARK"
// @Param vark_weight query number false "VARK weight"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /profiles/{userId}/vector [get]
func (h *ProfileHandler) Vector(c *gin.Context) {
	userID, ok := requireParam(c, "userId")
	if !ok {
		return
	}
	var query dto.ProfileVectorQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile options"))
		return
	}
	resp, err := h.service.Vector(c.Request.Context(), userID, query.Options().Resolve(h.defaults))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
