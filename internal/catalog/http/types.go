package http

import (
	"context"

	"github.com/airavata-tech/portfolio-api/internal/catalog/domain"
)

// Catalog is what the handlers need from the catalog service.
type Catalog interface {
	ListServices(ctx context.Context) []domain.Service
	GetService(ctx context.Context, slug string) (*domain.Service, error)
	ListProjectsForService(ctx context.Context, slug string) []domain.Project
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	GetProjectInService(ctx context.Context, serviceSlug, id string) (*domain.Project, error)
	SyncImages(ctx context.Context, in domain.SyncInput) (*domain.SyncResult, error)
	DeleteBySlug(ctx context.Context, slug string) (int64, error)
}

// Handler bundles the dependencies for catalog HTTP endpoints.
type Handler struct {
	catalog Catalog
}

func New(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

type deleteBySlugReq struct {
	Slug string `json:"slug"`
}

type deleteBySlugResp struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deletedCount"`
}

type syncImagesReq struct {
	Slug        string   `json:"slug"`
	Image       string   `json:"image"`
	Gallery     []string `json:"gallery"`
	Name        string   `json:"name,omitempty"`
	ServiceSlug string   `json:"serviceSlug,omitempty"`
	Category    string   `json:"category,omitempty"`
}

type syncImagesResp struct {
	Success bool               `json:"success"`
	Result  *domain.SyncResult `json:"result"`
}
