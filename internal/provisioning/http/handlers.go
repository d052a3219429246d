package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nebula-db/nebula-backend/internal/atlas"
	"github.com/nebula-db/nebula-backend/internal/provisioning"
)

// Handler exposes the provisioning workflow over HTTP
type Handler struct {
	service *provisioning.Service
}

func New(service *provisioning.Service) *Handler {
	return &Handler{service: service}
}

// CreateProject runs the full provisioning workflow for one project
func (h *Handler) CreateProject(c *gin.Context) {
	var req provisioning.ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if req.ProjectName == "" || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "projectName, username and password are required"})
		return
	}

	result, err := h.service.Provision(c.Request.Context(), req)
	if err != nil {
		writeProvisionError(c, err)
		return
	}

	body := gin.H{
		"success":          true,
		"projectId":        result.ProjectID,
		"projectName":      result.ProjectName,
		"clusterName":      result.ClusterName,
		"connectionString": result.ConnectionString,
		"databaseUsername": result.DatabaseUsername,
		"originalInput":    result.OriginalInput,
	}
	if result.Warning != "" {
		body["warning"] = result.Warning
	}
	c.JSON(http.StatusCreated, body)
}

// DeleteProject tears down the cluster backing a project
func (h *Handler) DeleteProject(c *gin.Context) {
	projectID := c.Param("projectId")
	projectName := c.Param("projectName")

	if err := h.service.DeleteCluster(c.Request.Context(), projectID, projectName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "cluster " + projectName + " deleted"})
}

// AddUserToOrg invites an email into the organization. Never a hard failure:
// a bad email or a remote rejection comes back as a warning payload.
func (h *Handler) AddUserToOrg(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusOK, provisioning.InviteOutcome{
			Warning: "no email provided, skipping user invitation",
		})
		return
	}

	outcome := h.service.InviteToOrg(c.Request.Context(), req.Email)
	status := http.StatusOK
	if outcome.Warning == "" {
		status = http.StatusCreated
	}
	c.JSON(status, outcome)
}

// writeProvisionError maps a workflow failure onto the response contract.
// Atlas rejections keep the remote status and errorCode so the UI can tell a
// weak-password rejection from a connectivity failure.
func writeProvisionError(c *gin.Context, err error) {
	var apiErr *atlas.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.HTTPStatus
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{
			"success":   false,
			"error":     err.Error(),
			"errorType": apiErr.ErrorCode,
			"details":   apiErr,
		})
		return
	}

	var unreachable *atlas.UnreachableError
	if errors.As(err, &unreachable) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "could not reach MongoDB Atlas, please try again later",
			"errorType": "ATLAS_UNREACHABLE",
		})
		return
	}

	var pollErr *provisioning.PollTimeoutError
	if errors.As(err, &pollErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     pollErr.Error(),
			"errorType": "CONNECTION_STRING_UNAVAILABLE",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success":   false,
		"error":     err.Error(),
		"errorType": "INTERNAL",
	})
}
