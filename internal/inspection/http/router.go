package http

import "github.com/gin-gonic/gin"

// Register registers the aggregation routes
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/user-clusters", h.UserClusters)
	api.GET("/projects", h.Projects)
	api.GET("/project-clusters/:projectId", h.ProjectClusters)
	api.GET("/cluster-details/:projectId/:clusterName", h.ClusterDetails)
}
