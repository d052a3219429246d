package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nebula-db/nebula-backend/internal/inspection"
)

// Handler exposes the read-only aggregation endpoints consumed by the dashboard
type Handler struct {
	service *inspection.Service
}

func New(service *inspection.Service) *Handler {
	return &Handler{service: service}
}

// UserClusters returns every cluster across all projects, flattened
func (h *Handler) UserClusters(c *gin.Context) {
	clusters, err := h.service.ListAllClusters(c.Request.Context())
	if err != nil {
		writeInspectionError(c, "failed to fetch clusters", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"clusters": clusters,
		"count":    len(clusters),
	})
}

// Projects returns all projects in the organization
func (h *Handler) Projects(c *gin.Context) {
	projects, err := h.service.ListProjects(c.Request.Context())
	if err != nil {
		writeInspectionError(c, "failed to fetch projects", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
		"count":    len(projects),
	})
}

// ProjectClusters returns the clusters of one project
func (h *Handler) ProjectClusters(c *gin.Context) {
	projectID := c.Param("projectId")

	clusters, err := h.service.ListProjectClusters(c.Request.Context(), projectID)
	if err != nil {
		writeInspectionError(c, "failed to fetch project clusters", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"clusters": clusters,
		"count":    len(clusters),
	})
}

// ClusterDetails returns one cluster's metadata, with the connection string
// included when Atlas has exposed it
func (h *Handler) ClusterDetails(c *gin.Context) {
	projectID := c.Param("projectId")
	clusterName := c.Param("clusterName")

	detail, err := h.service.GetClusterDetail(c.Request.Context(), projectID, clusterName)
	if err != nil {
		writeInspectionError(c, "failed to fetch cluster details", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"cluster":          detail.Cluster,
		"connectionString": detail.ConnectionString,
	})
}

func writeInspectionError(c *gin.Context, summary string, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   summary,
		"message": err.Error(),
	})
}
