package extraction

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ModelSwitch derives a vision client bound to a different model
// (wired to the openrouter client's WithModel). May be nil.
type ModelSwitch func(model string) VisionClient

type Handler struct {
	service     *Service
	switchModel ModelSwitch
}

func NewHandler(service *Service, switchModel ModelSwitch) *Handler {
	return &Handler{service: service, switchModel: switchModel}
}

// Extract runs the synchronous pipeline: POST /menu/extract with a
// multipart menu_image and an optional model override.
func (h *Handler) Extract(c *gin.Context) {
	data, mime, _, err := readImageFile(c, "menu_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	svc := h.service
	if model := c.PostForm("model"); model != "" && h.switchModel != nil {
		svc = h.service.WithVision(h.switchModel(model))
	}

	result, err := svc.Extract(c.Request.Context(), data, mime)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
		"message": "Menu extracted and categorized successfully.",
	})
}

type previewRequest struct {
	Rows  []json.RawMessage `json:"rows" binding:"required"`
	Limit int               `json:"limit"`
}

// Preview returns the first N rows of a previously extracted payload.
func (h *Handler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "rows is required"})
		return
	}

	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if limit > len(req.Rows) {
		limit = len(req.Rows)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"preview_data": req.Rows[:limit],
		"total_rows":   len(req.Rows),
	})
}

// Upload queues an image for background extraction.
func (h *Handler) Upload(c *gin.Context) {
	userID := c.GetString("userID")

	data, mime, filename, err := readImageFile(c, "menu_image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, url, err := h.service.Upload(c.Request.Context(), userID, data, filename, mime)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrImageTooLarge) || errors.Is(err, ErrInvalidImageMime) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        id,
		"image_url": url,
		"status":    StatusUploaded,
		"message":   "Menu uploaded. Extraction will start automatically.",
	})
}

// GetStatus reports job state for polling.
func (h *Handler) GetStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	job, err := h.service.Status(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, job)
}

// Retry re-queues a failed job.
func (h *Handler) Retry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	if err := h.service.Retry(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": StatusUploaded})
}

func readImageFile(c *gin.Context, field string) ([]byte, string, string, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil, "", "", errors.New(field + " is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		return nil, "", "", errors.New("failed to read uploaded file")
	}
	if len(data) > MaxImageBytes {
		return nil, "", "", ErrImageTooLarge
	}

	return data, header.Header.Get("Content-Type"), header.Filename, nil
}
