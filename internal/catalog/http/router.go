package http

import "github.com/gin-gonic/gin"

// Register attaches catalog routes to the given router group. writeGuards run
// in front of the two write endpoints only.
func (h *Handler) Register(rg *gin.RouterGroup, writeGuards ...gin.HandlerFunc) {
	rg.GET("/services", h.listServices)
	rg.GET("/services/:slug", h.getService)

	projects := rg.Group("/projects")
	projects.GET("/service/:slug", h.listProjectsForService)
	projects.GET("/:projectId", h.getProject)
	// Gin needs one wildcard name per position, so the nested route reads
	// the service slug from :projectId and the project from :nestedId.
	projects.GET("/:projectId/:nestedId", h.getProjectInService)

	writes := projects.Group("", writeGuards...)
	writes.POST("/delete-by-slug", h.deleteBySlug)
	writes.POST("/sync-images", h.syncImages)
}
