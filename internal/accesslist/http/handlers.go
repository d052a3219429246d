package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nebula-db/nebula-backend/internal/accesslist"
)

// Handler exposes project access-list management
type Handler struct {
	service *accesslist.Service
}

func New(service *accesslist.Service) *Handler {
	return &Handler{service: service}
}

// AllowIP adds an address to a project's access list. An empty or missing
// body allows the server's own public IP.
func (h *Handler) AllowIP(c *gin.Context) {
	projectID := c.Param("projectId")

	var req struct {
		IPAddress string `json:"ipAddress"`
	}
	// body is optional
	_ = c.ShouldBindJSON(&req)

	ip, err := h.service.AllowIP(c.Request.Context(), projectID, req.IPAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to update access list",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "ipAddress": ip})
}

// Register registers the access-list routes
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/api/access-list/:projectId", h.AllowIP)
}
