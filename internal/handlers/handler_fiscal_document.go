package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/middleware"
)

// maxXMLUploadBytes caps a single NFe/CTe XML upload.
const maxXMLUploadBytes = 5 << 20

// fiscalDocumentHandler handles HTTP requests related to fiscal documents.
type fiscalDocumentHandler struct {
	documentService portssvc.FiscalDocumentSvcFacade
	journalService  portssvc.JournalSvcFacade
}

func newFiscalDocumentHandler(ds portssvc.FiscalDocumentSvcFacade, js portssvc.JournalSvcFacade) *fiscalDocumentHandler {
	return &fiscalDocumentHandler{documentService: ds, journalService: js}
}

// registerFiscalDocumentRoutes registers document routes under an organization.
func registerFiscalDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.FiscalDocumentSvcFacade, journalService portssvc.JournalSvcFacade) {
	h := newFiscalDocumentHandler(documentService, journalService)

	docs := rg.Group("/fiscal-documents")
	{
		docs.POST("", h.createDocument)
		docs.GET("", h.listDocuments)
		docs.POST("/import", h.importXML)
		docs.POST("/:documentID/journal-entries", h.generateJournal)
	}
}

// importXML godoc
// @Summary Import a fiscal document from XML
// @Description Parses an uploaded NFe (model 55) or CTe (model 57) XML and persists it as a fiscal document.
// @Tags fiscal-documents
// @Accept  application/xml
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Success 201 {object} dto.FiscalDocumentResponse
// @Failure 400 {object} map[string]string "Malformed XML"
// @Failure 409 {object} map[string]string "Document already imported"
// @Security BearerAuth
// @Router /organizations/{orgID}/fiscal-documents/import [post]
func (h *fiscalDocumentHandler) importXML(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxXMLUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	if len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty XML payload"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.ImportXML(c.Request.Context(), orgID, payload, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Rejected XML import", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to import XML", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import document"})
		}
		return
	}

	logger.Info("Fiscal document imported", slog.String("document_id", doc.DocumentID), slog.String("access_key", doc.AccessKey))
	c.JSON(http.StatusCreated, dto.ToFiscalDocumentResponse(doc))
}

// createDocument godoc
// @Summary Create a fiscal document manually
// @Description Persists a manually entered fiscal document with its items.
// @Tags fiscal-documents
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   document body dto.CreateFiscalDocumentRequest true "Document details"
// @Success 201 {object} dto.FiscalDocumentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /organizations/{orgID}/fiscal-documents [post]
func (h *fiscalDocumentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.CreateFiscalDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), orgID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create document", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		}
		return
	}

	logger.Info("Fiscal document created", slog.String("document_id", doc.DocumentID))
	c.JSON(http.StatusCreated, dto.ToFiscalDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List fiscal documents
// @Description Retrieves a token-paginated page of fiscal documents, newest first.
// @Tags fiscal-documents
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListFiscalDocumentsResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/fiscal-documents [get]
func (h *fiscalDocumentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	limit, _ := strconv.Atoi(c.Query("limit"))
	var nextToken *string
	if t := c.Query("nextToken"); t != "" {
		nextToken = &t
	}

	docs, token, err := h.documentService.ListDocuments(c.Request.Context(), orgID, limit, nextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list documents", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, dto.ListFiscalDocumentsResponse{
		Documents: dto.ToFiscalDocumentResponses(docs),
		NextToken: token,
	})
}

// generateJournal godoc
// @Summary Generate a journal entry from a fiscal document
// @Description Builds a balanced journal entry from the classified items of a document: one debit per item plus one counterpart credit.
// @Tags fiscal-documents
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   documentID path string true "Document ID"
// @Param   request body dto.GenerateJournalRequest true "Counterpart account and total"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Unbalanced lines or synthetic account"
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /organizations/{orgID}/fiscal-documents/{documentID}/journal-entries [post]
func (h *fiscalDocumentHandler) generateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	documentID := c.Param("documentID")

	var req dto.GenerateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for generateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, generated, err := h.journalService.GenerateFromDocument(c.Request.Context(), orgID, documentID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation),
			errors.Is(err, apperrors.ErrCurrencyMismatch),
			isJournalRejection(err):
			logger.Warn("Rejected journal generation", slog.String("document_id", documentID), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to generate journal entry", slog.String("error", err.Error()), slog.String("document_id", documentID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate journal entry"})
		}
		return
	}

	logger.Info("Journal entry generated from document",
		slog.String("document_id", documentID),
		slog.String("entry_id", entry.EntryID),
		slog.Int("lines", len(generated.Lines)))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry, generated.Lines))
}
