package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/airavata-tech/portfolio-api/internal/catalog/domain"
)

const (
	redisPrefix          = "portfolio:"
	redisSeqKey          = redisPrefix + "seq"           // insertion counter, orders the sets below
	redisServiceOrderKey = redisPrefix + "services"      // zset of service ids
	redisProjectOrderKey = redisPrefix + "projects"      // zset of project ids
	redisServiceKey      = redisPrefix + "service:"      // service:{id} -> json
	redisServiceSlugKey  = redisPrefix + "service:slug:" // service:slug:{slug} -> id
	redisProjectKey      = redisPrefix + "project:"      // project:{id} -> json
	redisProjectSlugKey  = redisPrefix + "project:slug:" // project:slug:{slug} -> id
)

// RedisStore keeps each document as a JSON string. Ids are UUIDs; order is
// insertion order. Filters are evaluated in process.
type RedisStore struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisStore(client *redis.Client, opts ...Option) *RedisStore {
	o := applyOptions(opts)
	return &RedisStore{client: client, log: o.log}
}

func (s *RedisStore) ListServices(ctx context.Context) ([]domain.Service, error) {
	ids, err := s.client.ZRange(ctx, redisServiceOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list service ids: %w", err)
	}

	out := make([]domain.Service, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	vals, err := s.client.MGet(ctx, prefixed(redisServiceKey, ids)...).Result()
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var svc domain.Service
		if err := json.Unmarshal([]byte(raw), &svc); err != nil {
			return nil, fmt.Errorf("decode service %s: %w", ids[i], err)
		}
		out = append(out, svc)
	}
	return out, nil
}

func (s *RedisStore) FindServiceBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	id, err := s.client.Get(ctx, redisServiceSlugKey+slug).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve service slug: %w", err)
	}

	raw, err := s.client.Get(ctx, redisServiceKey+id).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}

	var svc domain.Service
	if err := json.Unmarshal([]byte(raw), &svc); err != nil {
		return nil, fmt.Errorf("decode service: %w", err)
	}
	return &svc, nil
}

func (s *RedisStore) FindProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.ProjectDocument, error) {
	all, err := s.allProjects(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ProjectDocument, 0, len(all))
	for _, p := range all {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *RedisStore) FindProject(ctx context.Context, idOrSlug string) (*domain.ProjectDocument, error) {
	if _, err := uuid.Parse(idOrSlug); err == nil {
		p, err := s.getProject(ctx, idOrSlug)
		if errors.Is(err, errMalformed) {
			logSkipped(s.log, "redis", idOrSlug, err)
			return nil, domain.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	all, err := s.allProjects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if domain.MatchesSlugOrName(all[i], idOrSlug) {
			return &all[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *RedisStore) UpsertProjectBySlug(ctx context.Context, in domain.SyncInput) (*domain.SyncResult, error) {
	existing, err := s.projectBySlug(ctx, in.Slug)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		before, err := json.Marshal(existing)
		if err != nil {
			return nil, fmt.Errorf("encode project: %w", err)
		}
		domain.ApplySync(existing, in)
		after, err := json.Marshal(existing)
		if err != nil {
			return nil, fmt.Errorf("encode project: %w", err)
		}

		res := &domain.SyncResult{MatchedCount: 1}
		if !bytes.Equal(before, after) {
			if err := s.client.Set(ctx, redisProjectKey+existing.ID.String(), after, 0).Err(); err != nil {
				return nil, fmt.Errorf("update project: %w", err)
			}
			res.ModifiedCount = 1
		}
		return res, nil
	}

	doc := domain.ProjectDocument{ID: domain.Ref(uuid.NewString())}
	domain.ApplySync(&doc, in)
	if err := s.insertProject(ctx, doc); err != nil {
		return nil, err
	}
	return &domain.SyncResult{UpsertedCount: 1, UpsertedID: doc.ID.String()}, nil
}

func (s *RedisStore) DeleteProjectsBySlug(ctx context.Context, slug string) (int64, error) {
	all, err := s.allProjects(ctx)
	if err != nil {
		return 0, err
	}

	var victims []domain.ProjectDocument
	for _, p := range all {
		if domain.MatchesSlugOrName(p, slug) {
			victims = append(victims, p)
		}
	}
	if len(victims) == 0 {
		return 0, nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range victims {
			id := p.ID.String()
			pipe.Del(ctx, redisProjectKey+id)
			pipe.ZRem(ctx, redisProjectOrderKey, id)
			if p.Slug != "" {
				pipe.Del(ctx, redisProjectSlugKey+p.Slug)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete projects: %w", err)
	}
	return int64(len(victims)), nil
}

func (s *RedisStore) PutService(ctx context.Context, svc domain.Service) error {
	if svc.Slug == "" {
		return fmt.Errorf("%w: service slug is required", domain.ErrInvalidInput)
	}

	id, err := s.client.Get(ctx, redisServiceSlugKey+svc.Slug).Result()
	isNew := err == redis.Nil
	if err != nil && !isNew {
		return fmt.Errorf("resolve service slug: %w", err)
	}
	if isNew {
		id = uuid.NewString()
	}
	svc.ID = id

	data, err := json.Marshal(svc)
	if err != nil {
		return fmt.Errorf("encode service: %w", err)
	}

	var seq int64
	if isNew {
		if seq, err = s.client.Incr(ctx, redisSeqKey).Result(); err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisServiceKey+id, data, 0)
		if isNew {
			pipe.Set(ctx, redisServiceSlugKey+svc.Slug, id, 0)
			pipe.ZAdd(ctx, redisServiceOrderKey, redis.Z{Score: float64(seq), Member: id})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put service: %w", err)
	}
	return nil
}

func (s *RedisStore) PutProject(ctx context.Context, p domain.ProjectDocument) error {
	if p.Slug == "" {
		return fmt.Errorf("%w: project slug is required", domain.ErrInvalidInput)
	}

	existing, err := s.projectBySlug(ctx, p.Slug)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing != nil {
		p.ID = existing.ID
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode project: %w", err)
		}
		if err := s.client.Set(ctx, redisProjectKey+p.ID.String(), data, 0).Err(); err != nil {
			return fmt.Errorf("put project: %w", err)
		}
		return nil
	}

	p.ID = domain.Ref(uuid.NewString())
	return s.insertProject(ctx, p)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close(_ context.Context) error {
	return s.client.Close()
}

func (s *RedisStore) insertProject(ctx context.Context, p domain.ProjectDocument) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}

	seq, err := s.client.Incr(ctx, redisSeqKey).Result()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	id := p.ID.String()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisProjectKey+id, data, 0)
		pipe.ZAdd(ctx, redisProjectOrderKey, redis.Z{Score: float64(seq), Member: id})
		if p.Slug != "" {
			pipe.Set(ctx, redisProjectSlugKey+p.Slug, id, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *RedisStore) getProject(ctx context.Context, id string) (*domain.ProjectDocument, error) {
	raw, err := s.client.Get(ctx, redisProjectKey+id).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	var p domain.ProjectDocument
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errMalformed, id, err)
	}
	p.ID = domain.Ref(id)
	return &p, nil
}

// projectBySlug follows the slug index; a dangling index entry counts as a miss.
func (s *RedisStore) projectBySlug(ctx context.Context, slug string) (*domain.ProjectDocument, error) {
	id, err := s.client.Get(ctx, redisProjectSlugKey+slug).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve project slug: %w", err)
	}
	return s.getProject(ctx, id)
}

func (s *RedisStore) allProjects(ctx context.Context) ([]domain.ProjectDocument, error) {
	ids, err := s.client.ZRange(ctx, redisProjectOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list project ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	vals, err := s.client.MGet(ctx, prefixed(redisProjectKey, ids)...).Result()
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}

	out := make([]domain.ProjectDocument, 0, len(ids))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var p domain.ProjectDocument
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			logSkipped(s.log, "redis", ids[i], err)
			continue
		}
		p.ID = domain.Ref(ids[i])
		out = append(out, p)
	}
	return out, nil
}

func prefixed(prefix string, ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = prefix + id
	}
	return keys
}
