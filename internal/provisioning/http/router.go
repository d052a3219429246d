package http

import "github.com/gin-gonic/gin"

// Register registers the provisioning routes
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/create-project", h.CreateProject)
	r.DELETE("/delete-project/:projectId/:projectName", h.DeleteProject)
	r.POST("/add-user-to-org", h.AddUserToOrg)
}
