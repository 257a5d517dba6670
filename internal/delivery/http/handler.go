package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/deds0099/nexaapp/internal/usecase"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is the allowance for form framing on top of the image limit.
const multipartOverhead = 1 << 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scanService *usecase.ScanService
	dietService *usecase.DietService
	maxUpload   int64
}

// NewHandler creates a new HTTP handler. Services may be nil, in which case
// their endpoints answer 503.
func NewHandler(scanService *usecase.ScanService, dietService *usecase.DietService, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = usecase.DefaultMaxUploadBytes
	}
	return &Handler{
		scanService: scanService,
		dietService: dietService,
		maxUpload:   maxUpload,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nexanutri-backend",
		"version": "1.0.0",
	})
}

// AnalyzeScan handles food photo uploads (multipart field "file")
func (h *Handler) AnalyzeScan(c *gin.Context) {
	if h.scanService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Food scanner not configured"})
		return
	}

	bodyLimit := h.maxUpload + multipartOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || c.Request.ContentLength > bodyLimit {
			respondError(c, domain.ErrImageTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file in form field 'file'"})
		return
	}
	if fileHeader.Size > h.maxUpload {
		respondError(c, domain.ErrImageTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	// one extra byte tells an oversized stream apart from one exactly at the limit
	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}

	result, err := h.scanService.Analyze(c.Request.Context(), domain.ImageUpload{
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateDiet handles diet generation requests for the authenticated user
func (h *Handler) GenerateDiet(c *gin.Context) {
	if h.dietService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Diet generator not configured"})
		return
	}

	var profile domain.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.dietService.Generate(c.Request.Context(), userIDFrom(c), profile)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListDiets returns the authenticated user's saved diets, newest first
func (h *Handler) ListDiets(c *gin.Context) {
	if h.dietService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Diet history not configured"})
		return
	}

	diets, err := h.dietService.History(c.Request.Context(), userIDFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"diets": diets})
}

// GetDiet returns one saved diet
func (h *Handler) GetDiet(c *gin.Context) {
	if h.dietService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Diet history not configured"})
		return
	}

	diet, err := h.dietService.Get(c.Request.Context(), userIDFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, diet)
}

// DeleteDiet removes one saved diet
func (h *Handler) DeleteDiet(c *gin.Context) {
	if h.dietService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Diet history not configured"})
		return
	}

	if err := h.dietService.Delete(c.Request.Context(), userIDFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	var malformed *domain.MalformedResponseError
	if errors.As(err, &malformed) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": malformed.Error(),
			"raw":   rawOrNull(malformed.Raw),
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidImage):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrImageTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrDietNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrQuotaExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrModelOverloaded),
		errors.Is(err, domain.ErrMissingAPIKey),
		errors.Is(err, domain.ErrInvalidAPIKey):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrTransportFailure), errors.Is(err, domain.ErrGenerationFailed):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// rawOrNull keeps the payload verbatim when it is valid JSON
func rawOrNull(raw json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(raw)) == 0 || !json.Valid(raw) {
		return json.RawMessage("null")
	}
	return raw
}
