package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/airavata-tech/portfolio-api/internal/catalog/domain"
)

const (
	servicesCollection = "services"
	projectsCollection = "projects"
)

// MongoStore reads the "services" and "projects" collections. Project
// documents are loosely shaped; decoding goes through domain.ProjectDocument.
type MongoStore struct {
	client   *mongo.Client
	services *mongo.Collection
	projects *mongo.Collection
	log      *zap.Logger
}

type mongoService struct {
	ID             primitive.ObjectID `bson:"_id"`
	domain.Service `bson:",inline"`
}

func NewMongoStore(client *mongo.Client, database string, opts ...Option) *MongoStore {
	o := applyOptions(opts)
	db := client.Database(database)
	return &MongoStore{
		client:   client,
		services: db.Collection(servicesCollection),
		projects: db.Collection(projectsCollection),
		log:      o.log,
	}
}

func (s *MongoStore) ListServices(ctx context.Context) ([]domain.Service, error) {
	cur, err := s.services.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find services: %w", err)
	}

	var rows []mongoService
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}

	out := make([]domain.Service, 0, len(rows))
	for _, r := range rows {
		svc := r.Service
		svc.ID = r.ID.Hex()
		out = append(out, svc)
	}
	return out, nil
}

func (s *MongoStore) FindServiceBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	var row mongoService
	err := s.services.FindOne(ctx, bson.D{{Key: "slug", Value: slug}}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find service: %w", err)
	}

	svc := row.Service
	svc.ID = row.ID.Hex()
	return &svc, nil
}

func (s *MongoStore) FindProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.ProjectDocument, error) {
	cur, err := s.projects.Find(ctx, projectsForServiceFilter(f))
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	return s.decodeProjects(ctx, cur, 0)
}

// FindProject returns the first matching document that decodes.
func (s *MongoStore) FindProject(ctx context.Context, idOrSlug string) (*domain.ProjectDocument, error) {
	cur, err := s.projects.Find(ctx, projectLookupFilter(idOrSlug))
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}

	out, err := s.decodeProjects(ctx, cur, 1)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound
	}
	return &out[0], nil
}

// decodeProjects drains cur one document at a time, skipping documents that
// do not decode. limit > 0 stops after that many good documents.
func (s *MongoStore) decodeProjects(ctx context.Context, cur *mongo.Cursor, limit int) ([]domain.ProjectDocument, error) {
	defer cur.Close(ctx)

	out := []domain.ProjectDocument{}
	for cur.Next(ctx) {
		var p domain.ProjectDocument
		if err := cur.Decode(&p); err != nil {
			logSkipped(s.log, "mongo", cur.Current.Lookup("_id").String(), err)
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("read projects: %w", err)
	}
	return out, nil
}

func (s *MongoStore) UpsertProjectBySlug(ctx context.Context, in domain.SyncInput) (*domain.SyncResult, error) {
	res, err := s.projects.UpdateOne(ctx,
		bson.D{{Key: "slug", Value: in.Slug}},
		bson.D{{Key: "$set", Value: bson.M(domain.SyncFields(in))}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert project: %w", err)
	}

	out := &domain.SyncResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	switch id := res.UpsertedID.(type) {
	case primitive.ObjectID:
		out.UpsertedID = id.Hex()
	case string:
		out.UpsertedID = id
	}
	return out, nil
}

func (s *MongoStore) DeleteProjectsBySlug(ctx context.Context, slug string) (int64, error) {
	res, err := s.projects.DeleteMany(ctx, slugOrNameFilter(slug))
	if err != nil {
		return 0, fmt.Errorf("delete projects: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) PutService(ctx context.Context, svc domain.Service) error {
	if svc.Slug == "" {
		return fmt.Errorf("%w: service slug is required", domain.ErrInvalidInput)
	}
	_, err := s.services.UpdateOne(ctx,
		bson.D{{Key: "slug", Value: svc.Slug}},
		bson.D{{Key: "$set", Value: svc}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put service: %w", err)
	}
	return nil
}

func (s *MongoStore) PutProject(ctx context.Context, p domain.ProjectDocument) error {
	if p.Slug == "" {
		return fmt.Errorf("%w: project slug is required", domain.ErrInvalidInput)
	}
	p.ID = ""
	_, err := s.projects.UpdateOne(ctx,
		bson.D{{Key: "slug", Value: p.Slug}},
		bson.D{{Key: "$set", Value: p}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put project: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// projectsForServiceFilter ORs every field that has historically tied a
// project to its service. serviceId may be stored as ObjectID or as string.
func projectsForServiceFilter(f domain.ProjectFilter) bson.D {
	or := bson.A{}
	if f.ServiceID != "" {
		if oid, err := primitive.ObjectIDFromHex(f.ServiceID); err == nil {
			or = append(or, bson.D{{Key: "serviceId", Value: oid}})
		}
		or = append(or, bson.D{{Key: "serviceId", Value: f.ServiceID}})
	}
	or = append(or,
		bson.D{{Key: "serviceSlug", Value: f.ServiceSlug}},
		bson.D{{Key: "category", Value: f.ServiceSlug}},
	)
	if f.ServiceName != "" {
		or = append(or, bson.D{{Key: "serviceName", Value: f.ServiceName}})
	}
	return bson.D{{Key: "$or", Value: or}}
}

func projectLookupFilter(idOrSlug string) bson.D {
	if oid, err := primitive.ObjectIDFromHex(idOrSlug); err == nil {
		return bson.D{{Key: "_id", Value: oid}}
	}
	return slugOrNameFilter(idOrSlug)
}

func slugOrNameFilter(slug string) bson.D {
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "slug", Value: slug}},
		bson.D{{Key: "name", Value: nameRegex(slug)}},
	}}}
}

// nameRegex matches the slug-derived name exactly, ignoring case. The slug is
// quoted so user input cannot widen the match.
func nameRegex(slug string) primitive.Regex {
	return primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(domain.NameFromSlug(slug)) + "$",
		Options: "i",
	}
}
