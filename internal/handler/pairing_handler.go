package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-pairing-api/internal/dto"
	"github.com/noah-isme/tutor-pairing-api/internal/models"
	"github.com/noah-isme/tutor-pairing-api/internal/service"
	"github.com/noah-isme/tutor-pairing-api/pkg/response"
)

type pairingService interface {
	SuggestPairings(ctx context.Context, req dto.SuggestPairingsRequest) (*dto.SuggestPairingsResponse, error)
	ExportSuggestions(ctx context.Context, format string, req dto.SuggestPairingsRequest) (*service.ExportedDocument, error)
	Confirm(ctx context.Context, programID string, req dto.ConfirmPairingsRequest, actor *models.JWTClaims) (*models.ConfirmPairingsResult, error)
	ListPairings(ctx context.Context, programID string) ([]models.ProgramPairing, error)
}

// PairingHandler exposes the tutor/student matcher.
type PairingHandler struct {
	service pairingService
}

// NewPairingHandler constructs PairingHandler.
func NewPairingHandler(service pairingService) *PairingHandler {
	return &PairingHandler{service: service}
}

// Suggest godoc
// @Summary Suggest tutor/student pairings
// @Description Greedy matching by cosine similarity of VARK/BFI vectors. Each tutor is used at most once per run.
// @Tags Pairings
// @Accept json
// @Produce json
// @Param payload body dto.SuggestPairingsRequest true "Participants and options"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /pairings/suggestions [post]
func (h *PairingHandler) Suggest(c *gin.Context) {
	var req dto.SuggestPairingsRequest
	if !bindJSON(c, &req, "invalid suggestion payload") {
		return
	}
	resp, err := h.service.SuggestPairings(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Export godoc
// @Summary Export pairing suggestions
// @Tags Pairings
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Param payload body dto.SuggestPairingsRequest true "Participants and options"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /pairings/suggestions/export [post]
func (h *PairingHandler) Export(c *gin.Context) {
	var req dto.SuggestPairingsRequest
	if !bindJSON(c, &req, "invalid suggestion payload") {
		return
	}
	doc, err := h.service.ExportSuggestions(c.Request.Context(), c.DefaultQuery("format", "csv"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// Confirm godoc
// @Summary Confirm accepted suggestions for a program
// @Description Matched suggestions are persisted; pairs already in the program are skipped.
// @Tags Pairings
// @Accept json
// @Produce json
// @Param programId path string true "Program ID"
// @Param payload body dto.ConfirmPairingsRequest true "Accepted suggestions"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /programs/{programId}/pairings/confirm [post]
func (h *PairingHandler) Confirm(c *gin.Context) {
	programID, ok := requireParam(c, "programId")
	if !ok {
		return
	}
	var req dto.ConfirmPairingsRequest
	if !bindJSON(c, &req, "invalid confirmation payload") {
		return
	}
	result, err := h.service.Confirm(c.Request.Context(), programID, req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List confirmed pairings of a program
// @Tags Pairings
// @Produce json
// @Param programId path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /programs/{programId}/pairings [get]
func (h *PairingHandler) List(c *gin.Context) {
	programID, ok := requireParam(c, "programId")
	if !ok {
		return
	}
	pairings, err := h.service.ListPairings(c.Request.Context(), programID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pairings, map[string]interface{}{"total": len(pairings)})
}
