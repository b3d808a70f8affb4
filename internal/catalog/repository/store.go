// Package repository implements the catalog document store over MongoDB,
// Postgres jsonb or Redis. All backends share the lookup semantics below.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/airavata-tech/portfolio-api/internal/catalog/domain"
)

// Store is the document store contract. Lookups that miss return
// domain.ErrNotFound; lists that miss return an empty slice.
type Store interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	FindServiceBySlug(ctx context.Context, slug string) (*domain.Service, error)

	// FindProjects returns every project matching any condition of the filter,
	// in store-default order.
	FindProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.ProjectDocument, error)

	// FindProject resolves a store-native id directly; anything else is
	// matched against slug or the slug-derived name, case-insensitively.
	FindProject(ctx context.Context, idOrSlug string) (*domain.ProjectDocument, error)

	UpsertProjectBySlug(ctx context.Context, in domain.SyncInput) (*domain.SyncResult, error)
	DeleteProjectsBySlug(ctx context.Context, slug string) (int64, error)

	// PutService and PutProject write whole records keyed by slug; used by seeding.
	PutService(ctx context.Context, s domain.Service) error
	PutProject(ctx context.Context, p domain.ProjectDocument) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// errMalformed marks a stored project that no longer decodes. List queries
// log and skip such records so one bad document cannot hide the others.
var errMalformed = errors.New("malformed project document")

// Option configures a store.
type Option func(*storeOptions)

type storeOptions struct {
	log *zap.Logger
}

// WithLogger sets the logger used to report skipped documents.
func WithLogger(l *zap.Logger) Option {
	return func(o *storeOptions) {
		if l != nil {
			o.log = l
		}
	}
}

func applyOptions(opts []Option) storeOptions {
	o := storeOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// logSkipped reports a skipped document. id may be empty when err already
// names the document.
func logSkipped(log *zap.Logger, backend, id string, err error) {
	fields := []zap.Field{zap.String("backend", backend), zap.Error(err)}
	if id != "" {
		fields = append(fields, zap.String("id", id))
	}
	log.Warn("skipping malformed project document", fields...)
}
