package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/middleware"
)

// taxCreditHandler handles HTTP requests for the PIS/COFINS recovery batch.
type taxCreditHandler struct {
	taxCreditService portssvc.TaxCreditSvcFacade
}

func newTaxCreditHandler(ts portssvc.TaxCreditSvcFacade) *taxCreditHandler {
	return &taxCreditHandler{taxCreditService: ts}
}

// registerTaxCreditRoutes registers tax credit routes under an organization.
func registerTaxCreditRoutes(rg *gin.RouterGroup, taxCreditService portssvc.TaxCreditSvcFacade) {
	h := newTaxCreditHandler(taxCreditService)

	credits := rg.Group("/tax-credits")
	{
		credits.POST("/process", h.processTaxCredits)
		credits.GET("/pending", h.listPendingDocuments)
	}
}

// processTaxCredits godoc
// @Summary Run the PIS/COFINS credit recovery batch
// @Description Calculates and registers recoverable credits for every pending classified document. Per-document failures are reported in the result, not as an HTTP error.
// @Tags tax-credits
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Success 200 {object} dto.ProcessTaxCreditsResult
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Batch could not start"
// @Security BearerAuth
// @Router /organizations/{orgID}/tax-credits/process [post]
func (h *taxCreditHandler) processTaxCredits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.taxCreditService.ProcessTaxCredits(c.Request.Context(), orgID, userID)
	if err != nil {
		logger.Error("Tax credit batch failed to start", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process tax credits"})
		return
	}

	logger.Info("Tax credit batch finished",
		slog.Int("processed", result.Processed),
		slog.Int("failures", len(result.Errors)),
		slog.String("total_credit", result.TotalCredit.String()))
	c.JSON(http.StatusOK, result)
}

// listPendingDocuments godoc
// @Summary List documents pending credit processing
// @Description Lists the ids of classified documents without a registered tax credit entry.
// @Tags tax-credits
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Success 200 {object} dto.PendingDocumentsResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/tax-credits/pending [get]
func (h *taxCreditHandler) listPendingDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	ids, err := h.taxCreditService.ListPendingDocuments(c.Request.Context(), orgID)
	if err != nil {
		logger.Error("Failed to list pending documents", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending documents"})
		return
	}

	c.JSON(http.StatusOK, dto.PendingDocumentsResponse{DocumentIDs: ids})
}
