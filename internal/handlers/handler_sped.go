package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/middleware"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/utils/textenc"
)

// spedHandler handles SPED Fiscal file generation requests.
type spedHandler struct {
	spedService portssvc.SpedSvcFacade
}

func newSpedHandler(ss portssvc.SpedSvcFacade) *spedHandler {
	return &spedHandler{spedService: ss}
}

// registerSpedRoutes registers SPED Fiscal routes under an organization.
func registerSpedRoutes(rg *gin.RouterGroup, spedService portssvc.SpedSvcFacade) {
	h := newSpedHandler(spedService)
	rg.POST("/sped-fiscal", h.generateSped)
}

// generateSped godoc
// @Summary Generate a SPED Fiscal file
// @Description Validates the request, builds the EFD-ICMS/IPI text file for the reference month and streams it back ISO-8859-1 encoded.
// @Tags sped
// @Accept  json
// @Produce  text/plain
// @Param   orgID path string true "Organization ID"
// @Param   request body dto.GenerateSpedRequest true "Reference period and finality"
// @Success 200 {string} string "SPED Fiscal file content"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 422 {object} dto.SpedValidationErrorResponse "Request failed SPED validation"
// @Security BearerAuth
// @Router /organizations/{orgID}/sped-fiscal [post]
func (h *spedHandler) generateSped(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.GenerateSpedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for generateSped", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	spedReq := domain.SpedRequest{
		OrganizationID: orgID,
		ReferenceMonth: req.ReferenceMonth,
		ReferenceYear:  req.ReferenceYear,
		Finality:       req.Finality,
	}

	problems, err := h.spedService.Validate(c.Request.Context(), spedReq)
	if err != nil {
		logger.Error("SPED validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate SPED request"})
		return
	}
	if len(problems) > 0 {
		logger.Warn("SPED request rejected", slog.Int("problems", len(problems)))
		c.JSON(http.StatusUnprocessableEntity, dto.SpedValidationErrorResponse{Errors: problems})
		return
	}

	content, err := h.spedService.Generate(c.Request.Context(), spedReq)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to generate SPED file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate SPED file"})
		return
	}

	// The SPED layout mandates ISO-8859-1 text.
	encoded, err := textenc.EncodeLatin1(content)
	if err != nil {
		logger.Error("Failed to encode SPED file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode SPED file"})
		return
	}

	filename := fmt.Sprintf("sped_fiscal_%02d%04d.txt", req.ReferenceMonth, req.ReferenceYear)
	logger.Info("SPED file generated",
		slog.String("filename", filename),
		slog.Int("bytes", len(encoded)))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=ISO-8859-1", encoded)
}
