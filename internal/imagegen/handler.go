package imagegen

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type generateRequest struct {
	ItemName string `json:"item_name" binding:"required"`
	Cuisine  string `json:"cuisine"`
	Notes    string `json:"notes"`
}

// Generate handles POST /images/generate
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_name is required"})
		return
	}

	img, err := h.service.Generate(c.Request.Context(), req.ItemName, req.Cuisine, req.Notes)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "image generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    img,
		"message": "Image generated successfully.",
	})
}
