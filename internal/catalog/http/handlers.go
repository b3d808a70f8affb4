package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/airavata-tech/portfolio-api/internal/catalog/domain"
	"github.com/airavata-tech/portfolio-api/internal/catalog/service"
)

func (h *Handler) listServices(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.ListServices(c.Request.Context()))
}

func (h *Handler) getService(c *gin.Context) {
	svc, err := h.catalog.GetService(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.String(http.StatusNotFound, "Service not found")
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *Handler) listProjectsForService(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.ListProjectsForService(c.Request.Context(), c.Param("slug")))
}

func (h *Handler) getProject(c *gin.Context) {
	p, err := h.catalog.GetProject(c.Request.Context(), strings.TrimSpace(c.Param("projectId")))
	if err != nil {
		c.String(http.StatusNotFound, "Project not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) getProjectInService(c *gin.Context) {
	p, err := h.catalog.GetProjectInService(c.Request.Context(),
		strings.TrimSpace(c.Param("projectId")),
		strings.TrimSpace(c.Param("nestedId")),
	)
	if err != nil {
		c.String(http.StatusNotFound, "Project not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteBySlug(c *gin.Context) {
	var req deleteBySlugReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	n, err := h.catalog.DeleteBySlug(c.Request.Context(), strings.TrimSpace(req.Slug))
	if err != nil {
		writeWriteError(c, err, "Failed to delete project")
		return
	}

	c.JSON(http.StatusOK, deleteBySlugResp{Success: true, DeletedCount: n})
}

func (h *Handler) syncImages(c *gin.Context) {
	var req syncImagesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	res, err := h.catalog.SyncImages(c.Request.Context(), domain.SyncInput{
		Slug:        req.Slug,
		Image:       req.Image,
		Gallery:     req.Gallery,
		Name:        req.Name,
		ServiceSlug: req.ServiceSlug,
		Category:    req.Category,
	})
	if err != nil {
		writeWriteError(c, err, "Failed to sync images")
		return
	}

	c.JSON(http.StatusOK, syncImagesResp{Success: true, Result: res})
}

func writeWriteError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoStore):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
