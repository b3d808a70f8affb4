package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/airavata-tech/portfolio-api/internal/catalog/domain"
)

// PostgresStore keeps services as rows and projects as jsonb documents.
// Schema lives in internal/storage/postgres/migrations.
type PostgresStore struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewPostgresStore(db *pgxpool.Pool, opts ...Option) *PostgresStore {
	o := applyOptions(opts)
	return &PostgresStore{db: db, log: o.log}
}

func (s *PostgresStore) ListServices(ctx context.Context) ([]domain.Service, error) {
	const q = `
SELECT id::text, title, tagline, icon, slug
FROM services
ORDER BY created_at, id;
`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Service, 0, 8)
	for rows.Next() {
		var svc domain.Service
		if err := rows.Scan(&svc.ID, &svc.Title, &svc.Tagline, &svc.Icon, &svc.Slug); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindServiceBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	const q = `
SELECT id::text, title, tagline, icon, slug
FROM services
WHERE slug = $1;
`
	var svc domain.Service
	err := s.db.QueryRow(ctx, q, slug).Scan(&svc.ID, &svc.Title, &svc.Tagline, &svc.Icon, &svc.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query service: %w", err)
	}
	return &svc, nil
}

func (s *PostgresStore) FindProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.ProjectDocument, error) {
	q, args := projectsForServiceQuery(f)
	return s.queryProjects(ctx, 0, q, args...)
}

// FindProject returns the first matching row whose document decodes.
func (s *PostgresStore) FindProject(ctx context.Context, idOrSlug string) (*domain.ProjectDocument, error) {
	q, args := projectLookupQuery(idOrSlug)
	out, err := s.queryProjects(ctx, 1, q, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound
	}
	return &out[0], nil
}

// queryProjects scans rows one at a time, skipping documents that do not
// decode. limit > 0 stops after that many good rows.
func (s *PostgresStore) queryProjects(ctx context.Context, limit int, q string, args ...any) ([]domain.ProjectDocument, error) {
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ProjectDocument, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if errors.Is(err, errMalformed) {
			logSkipped(s.log, "postgres", "", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read projects: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpsertProjectBySlug(ctx context.Context, in domain.SyncInput) (*domain.SyncResult, error) {
	const q = `
WITH prev AS (
  SELECT doc FROM projects WHERE slug = $2
)
INSERT INTO projects (doc)
VALUES ($1::jsonb)
ON CONFLICT (slug) DO UPDATE
  SET doc = projects.doc || EXCLUDED.doc,
      updated_at = now()
RETURNING id::text,
          (xmax = 0) AS inserted,
          (SELECT doc FROM prev) IS DISTINCT FROM projects.doc AS changed;
`
	fields, err := json.Marshal(domain.SyncFields(in))
	if err != nil {
		return nil, fmt.Errorf("encode sync fields: %w", err)
	}

	var (
		id       string
		inserted bool
		changed  bool
	)
	if err := s.db.QueryRow(ctx, q, string(fields), in.Slug).Scan(&id, &inserted, &changed); err != nil {
		return nil, fmt.Errorf("upsert project: %w", err)
	}

	if inserted {
		return &domain.SyncResult{UpsertedCount: 1, UpsertedID: id}, nil
	}
	res := &domain.SyncResult{MatchedCount: 1}
	if changed {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (s *PostgresStore) DeleteProjectsBySlug(ctx context.Context, slug string) (int64, error) {
	const q = `
DELETE FROM projects
WHERE slug = $1 OR lower(doc->>'name') = lower($2);
`
	ct, err := s.db.Exec(ctx, q, slug, domain.NameFromSlug(slug))
	if err != nil {
		return 0, fmt.Errorf("delete projects: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (s *PostgresStore) PutService(ctx context.Context, svc domain.Service) error {
	if svc.Slug == "" {
		return fmt.Errorf("%w: service slug is required", domain.ErrInvalidInput)
	}
	const q = `
INSERT INTO services (slug, title, tagline, icon)
VALUES ($1, $2, $3, $4)
ON CONFLICT (slug) DO UPDATE
  SET title = EXCLUDED.title,
      tagline = EXCLUDED.tagline,
      icon = EXCLUDED.icon,
      updated_at = now();
`
	if _, err := s.db.Exec(ctx, q, svc.Slug, svc.Title, svc.Tagline, svc.Icon); err != nil {
		return fmt.Errorf("put service: %w", err)
	}
	return nil
}

func (s *PostgresStore) PutProject(ctx context.Context, p domain.ProjectDocument) error {
	if p.Slug == "" {
		return fmt.Errorf("%w: project slug is required", domain.ErrInvalidInput)
	}
	p.ID = ""
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}

	const q = `
INSERT INTO projects (doc)
VALUES ($1::jsonb)
ON CONFLICT (slug) DO UPDATE
  SET doc = EXCLUDED.doc,
      updated_at = now();
`
	if _, err := s.db.Exec(ctx, q, string(doc)); err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close(_ context.Context) error {
	s.db.Close()
	return nil
}

func scanProject(row pgx.Row) (*domain.ProjectDocument, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}

	var p domain.ProjectDocument
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errMalformed, id, err)
	}
	p.ID = domain.Ref(id)
	return &p, nil
}

// projectsForServiceQuery mirrors projectsForServiceFilter for jsonb documents.
func projectsForServiceQuery(f domain.ProjectFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ServiceID != "" {
		conds = append(conds, "doc->>'serviceId' = "+arg(f.ServiceID))
	}
	slug := arg(f.ServiceSlug)
	conds = append(conds,
		"doc->>'serviceSlug' = "+slug,
		"doc->>'category' = "+slug,
	)
	if f.ServiceName != "" {
		conds = append(conds, "doc->>'serviceName' = "+arg(f.ServiceName))
	}

	q := "SELECT id::text, doc FROM projects\nWHERE " +
		strings.Join(conds, "\n   OR ") +
		"\nORDER BY created_at, id;"
	return q, args
}

func projectLookupQuery(idOrSlug string) (string, []any) {
	if _, err := uuid.Parse(idOrSlug); err == nil {
		return "SELECT id::text, doc FROM projects WHERE id = $1::uuid;", []any{idOrSlug}
	}
	return `SELECT id::text, doc FROM projects
WHERE slug = $1 OR lower(doc->>'name') = lower($2)
ORDER BY created_at, id;`, []any{idOrSlug, domain.NameFromSlug(idOrSlug)}
}
