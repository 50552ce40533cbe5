package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/middleware"
)

// isJournalRejection reports whether the journal service rejected the input
// itself, as opposed to an infrastructure failure.
func isJournalRejection(err error) bool {
	return errors.Is(err, services.ErrEntryUnbalanced) ||
		errors.Is(err, services.ErrEntryMinLines) ||
		errors.Is(err, services.ErrEntryMinAccounts) ||
		errors.Is(err, services.ErrAccountNotFound) ||
		errors.Is(err, services.ErrSyntheticAccount) ||
		errors.Is(err, services.ErrDescriptionMissing) ||
		errors.Is(err, services.ErrNoPostableItems)
}

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers journal entry routes under an organization.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
		entries.POST("/:entryID/cancel", h.cancelEntry)
	}
}

// createEntry godoc
// @Summary Create a manual journal entry
// @Description Validates and persists a balanced journal entry with its lines.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   entry body dto.CreateJournalEntryRequest true "Entry and lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Unbalanced or invalid entry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /organizations/{orgID}/journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), orgID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) || isJournalRejection(err) {
			logger.Warn("Rejected journal entry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create journal entry", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal entry"})
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry, nil))
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Description Retrieves a journal entry and its ordered lines, with side totals.
// @Tags journal-entries
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /organizations/{orgID}/journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	entryID := c.Param("entryID")

	entry, lines, err := h.journalService.GetEntryWithLines(c.Request.Context(), orgID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
			return
		}
		logger.Error("Failed to get journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry, lines))
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Creates the mirror entry of a POSTED entry and marks the original REVERSED.
// @Tags journal-entries
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   entryID path string true "Entry ID"
// @Success 201 {object} dto.JournalEntryResponse "The reversing entry"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 422 {object} map[string]string "Entry not in a reversible state"
// @Security BearerAuth
// @Router /organizations/{orgID}/journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversing, err := h.journalService.ReverseEntry(c.Request.Context(), orgID, entryID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Entry cannot be reversed", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reverse journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse journal entry"})
		}
		return
	}

	logger.Info("Journal entry reversed", slog.String("entry_id", entryID), slog.String("reversing_entry_id", reversing.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversing, nil))
}

// cancelEntry godoc
// @Summary Cancel a journal entry
// @Description Marks a POSTED journal entry CANCELLED.
// @Tags journal-entries
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   entryID path string true "Entry ID"
// @Success 204 "Cancelled"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 422 {object} map[string]string "Entry not in a cancellable state"
// @Security BearerAuth
// @Router /organizations/{orgID}/journal-entries/{entryID}/cancel [post]
func (h *journalHandler) cancelEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.journalService.CancelEntry(c.Request.Context(), orgID, entryID, userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Entry cannot be cancelled", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to cancel journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel journal entry"})
		}
		return
	}

	logger.Info("Journal entry cancelled", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}
