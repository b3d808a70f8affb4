package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/airavata-tech/portfolio-api/internal/catalog/domain"
	"github.com/airavata-tech/portfolio-api/internal/catalog/fallback"
	"github.com/airavata-tech/portfolio-api/internal/catalog/repository"
	"github.com/airavata-tech/portfolio-api/internal/logging"
)

// ErrNoStore is returned by writes when the process runs without a store.
var ErrNoStore = errors.New("document store not configured")

// CatalogService answers catalog reads from the document store and falls
// back to the static table on any store error or empty result. Writes go to
// the store only.
type CatalogService struct {
	store    repository.Store
	fallback *fallback.Table
	timeout  time.Duration
	log      *zap.Logger
}

// NewCatalogService wires the service. store may be nil, in which case every
// read is served from the fallback table.
func NewCatalogService(store repository.Store, table *fallback.Table, timeout time.Duration, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{
		store:    store,
		fallback: table,
		timeout:  timeout,
		log:      log.Named("catalog"),
	}
}

// ListServices never fails; a broken or empty store yields the fallback list.
func (s *CatalogService) ListServices(ctx context.Context) []domain.Service {
	const op = "list_services"

	if s.store != nil {
		cctx, cancel := s.callContext(ctx)
		items, err := s.store.ListServices(cctx)
		cancel()

		switch {
		case err != nil:
			s.storeFailed(ctx, op, err)
		case len(items) > 0:
			s.logger(ctx).Debug("services fetched from store", zap.Int("count", len(items)))
			return items
		default:
			s.usedFallback(ctx, op, reasonEmpty)
		}
	} else {
		s.usedFallback(ctx, op, reasonDisabled)
	}

	return s.fallback.Services()
}

func (s *CatalogService) GetService(ctx context.Context, slug string) (*domain.Service, error) {
	const op = "get_service"

	if s.store != nil {
		cctx, cancel := s.callContext(ctx)
		svc, err := s.store.FindServiceBySlug(cctx, slug)
		cancel()

		switch {
		case err == nil:
			return svc, nil
		case errors.Is(err, domain.ErrNotFound):
			s.usedFallback(ctx, op, reasonEmpty)
		default:
			s.storeFailed(ctx, op, err)
		}
	} else {
		s.usedFallback(ctx, op, reasonDisabled)
	}

	svc, ok := s.fallback.ServiceBySlug(slug)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &svc, nil
}

// ListProjectsForService returns the normalized projects of a service. An
// unset slug or an unknown service yields an empty list, never an error.
func (s *CatalogService) ListProjectsForService(ctx context.Context, slug string) []domain.Project {
	const op = "list_projects"

	if domain.IsUnsetSlug(slug) {
		s.logger(ctx).Info("project list requested without a usable slug", zap.String("slug", slug))
		return []domain.Project{}
	}

	if s.store != nil {
		docs, err := s.findProjectsForService(ctx, slug)
		switch {
		case err != nil:
			s.storeFailed(ctx, op, err)
		case len(docs) > 0:
			s.logger(ctx).Debug("projects fetched from store",
				zap.String("slug", slug), zap.Int("count", len(docs)))
			return domain.NormalizeProjects(docs)
		default:
			s.usedFallback(ctx, op, reasonEmpty)
		}
	} else {
		s.usedFallback(ctx, op, reasonDisabled)
	}

	return domain.NormalizeProjects(s.fallback.ProjectsForService(slug))
}

func (s *CatalogService) findProjectsForService(ctx context.Context, slug string) ([]domain.ProjectDocument, error) {
	cctx, cancel := s.callContext(ctx)
	defer cancel()

	filter := domain.ProjectFilter{ServiceSlug: slug}

	svc, err := s.store.FindServiceBySlug(cctx, slug)
	switch {
	case err == nil:
		filter.ServiceID = svc.ID
		filter.ServiceName = svc.Title
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("resolve service %q: %w", slug, err)
	}

	return s.store.FindProjects(cctx, filter)
}

// GetProject resolves a project by store id, slug or slug-derived name.
func (s *CatalogService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	const op = "get_project"

	if s.store != nil {
		cctx, cancel := s.callContext(ctx)
		doc, err := s.store.FindProject(cctx, id)
		cancel()

		switch {
		case err == nil:
			p := domain.NormalizeProject(*doc)
			return &p, nil
		case errors.Is(err, domain.ErrNotFound):
			s.usedFallback(ctx, op, reasonEmpty)
		default:
			s.storeFailed(ctx, op, err)
		}
	} else {
		s.usedFallback(ctx, op, reasonDisabled)
	}

	doc, ok := s.fallback.Project(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := domain.NormalizeProject(doc)
	return &p, nil
}

// GetProjectInService serves the nested route. The service slug is not used
// to narrow the match: a project's link to its service is advisory.
func (s *CatalogService) GetProjectInService(ctx context.Context, serviceSlug, id string) (*domain.Project, error) {
	s.logger(ctx).Debug("project requested under service",
		zap.String("service_slug", serviceSlug), zap.String("project_id", id))
	return s.GetProject(ctx, id)
}

// SyncImages upserts a project by slug. Validation failures wrap
// domain.ErrInvalidInput.
func (s *CatalogService) SyncImages(ctx context.Context, in domain.SyncInput) (*domain.SyncResult, error) {
	const op = "sync_images"

	in, err := in.Resolve()
	if err != nil {
		WritesTotal.WithLabelValues(op, "invalid").Inc()
		return nil, err
	}
	if s.store == nil {
		WritesTotal.WithLabelValues(op, "no_store").Inc()
		return nil, ErrNoStore
	}

	cctx, cancel := s.callContext(ctx)
	defer cancel()

	res, err := s.store.UpsertProjectBySlug(cctx, in)
	if err != nil {
		StoreErrorsTotal.WithLabelValues(op).Inc()
		WritesTotal.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("sync images for %q: %w", in.Slug, err)
	}

	WritesTotal.WithLabelValues(op, "ok").Inc()
	s.logger(ctx).Info("project images synced",
		zap.String("slug", in.Slug),
		zap.Int64("matched", res.MatchedCount),
		zap.Int64("upserted", res.UpsertedCount))
	return res, nil
}

// DeleteBySlug removes every project addressed by slug and reports how many
// went away. Zero is not an error.
func (s *CatalogService) DeleteBySlug(ctx context.Context, slug string) (int64, error) {
	const op = "delete_by_slug"

	if domain.IsUnsetSlug(slug) {
		WritesTotal.WithLabelValues(op, "invalid").Inc()
		return 0, fmt.Errorf("%w: slug is required", domain.ErrInvalidInput)
	}
	if s.store == nil {
		WritesTotal.WithLabelValues(op, "no_store").Inc()
		return 0, ErrNoStore
	}

	cctx, cancel := s.callContext(ctx)
	defer cancel()

	n, err := s.store.DeleteProjectsBySlug(cctx, slug)
	if err != nil {
		StoreErrorsTotal.WithLabelValues(op).Inc()
		WritesTotal.WithLabelValues(op, "error").Inc()
		return 0, fmt.Errorf("delete projects %q: %w", slug, err)
	}

	WritesTotal.WithLabelValues(op, "ok").Inc()
	s.logger(ctx).Info("projects deleted", zap.String("slug", slug), zap.Int64("deleted", n))
	return n, nil
}

// Seed copies the fallback table into the store. Projects are keyed by their
// slug (or fallback id) and linked to services by slug, since the store
// assigns its own service ids.
func (s *CatalogService) Seed(ctx context.Context) (services, projects int, err error) {
	if s.store == nil {
		return 0, 0, ErrNoStore
	}

	bySID := map[string]domain.Service{}
	for _, svc := range s.fallback.Services() {
		bySID[svc.ID] = svc
		if err := s.store.PutService(ctx, svc); err != nil {
			return services, projects, fmt.Errorf("seed service %q: %w", svc.Slug, err)
		}
		services++
	}

	for _, p := range s.fallback.Projects() {
		if p.Slug == "" {
			p.Slug = p.ID.String()
		}
		if svc, ok := bySID[p.ServiceID.String()]; ok {
			if p.ServiceSlug == "" {
				p.ServiceSlug = svc.Slug
			}
			if p.Category == "" {
				p.Category = svc.Slug
			}
			if p.ServiceName == "" {
				p.ServiceName = svc.Title
			}
		}
		p.ServiceID = ""
		if err := s.store.PutProject(ctx, p); err != nil {
			return services, projects, fmt.Errorf("seed project %q: %w", p.Slug, err)
		}
		projects++
	}

	return services, projects, nil
}

// Ping reports store health; nil store is healthy by definition.
func (s *CatalogService) Ping(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Ping(ctx)
}

// HasStore reports whether a document store is configured.
func (s *CatalogService) HasStore() bool {
	return s.store != nil
}

func (s *CatalogService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *CatalogService) logger(ctx context.Context) *zap.Logger {
	return logging.FromContext(ctx, s.log)
}

func (s *CatalogService) storeFailed(ctx context.Context, op string, err error) {
	StoreErrorsTotal.WithLabelValues(op).Inc()
	FallbackTotal.WithLabelValues(op, reasonStoreError).Inc()
	s.logger(ctx).Warn("document store error, using static fallback",
		zap.String("operation", op), zap.Error(err))
}

func (s *CatalogService) usedFallback(ctx context.Context, op, reason string) {
	FallbackTotal.WithLabelValues(op, reason).Inc()
	s.logger(ctx).Debug("serving static fallback",
		zap.String("operation", op), zap.String("reason", reason))
}
