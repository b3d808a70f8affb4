package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airavata-tech/portfolio-api/internal/catalog/domain"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store, mr
}

func TestRedisStore_Services(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	empty, err := store.ListServices(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.PutService(ctx, domain.Service{Title: "Web", Slug: "website-development"}))
	require.NoError(t, store.PutService(ctx, domain.Service{Title: "Mobile", Slug: "mobile-application-development"}))
	require.NoError(t, store.PutService(ctx, domain.Service{Title: "Web v2", Slug: "website-development"}))

	list, err := store.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Web v2", list[0].Title, "re-put keeps position and id")
	assert.Equal(t, "Mobile", list[1].Title)
	_, err = uuid.Parse(list[0].ID)
	assert.NoError(t, err)

	svc, err := store.FindServiceBySlug(ctx, "mobile-application-development")
	require.NoError(t, err)
	assert.Equal(t, list[1].ID, svc.ID)

	_, err = store.FindServiceBySlug(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.PutService(ctx, domain.Service{Title: "x"}), domain.ErrInvalidInput)
}

func TestRedisStore_FindProjects(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutProject(ctx, domain.ProjectDocument{Slug: "a", Name: "A", ServiceID: "svc-1"}))
	require.NoError(t, store.PutProject(ctx, domain.ProjectDocument{Slug: "b", Name: "B", Category: "website-development"}))
	require.NoError(t, store.PutProject(ctx, domain.ProjectDocument{Slug: "c", Name: "C", ServiceSlug: "digital-marketing"}))

	got, err := store.FindProjects(ctx, domain.ProjectFilter{ServiceID: "svc-1", ServiceSlug: "website-development"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "B", got[1].Name)

	got, err = store.FindProjects(ctx, domain.ProjectFilter{ServiceSlug: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStore_FindProject(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutProject(ctx, domain.ProjectDocument{Slug: "bb-menu", Name: "Barrel Born Digital Menu"}))

	bySlug, err := store.FindProject(ctx, "bb-menu")
	require.NoError(t, err)

	byName, err := store.FindProject(ctx, "barrel-born-digital-menu")
	require.NoError(t, err)
	assert.Equal(t, bySlug.ID, byName.ID)

	byID, err := store.FindProject(ctx, bySlug.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "bb-menu", byID.Slug)

	_, err = store.FindProject(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.FindProject(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStore_UpsertProjectBySlug(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	in, err := domain.SyncInput{Slug: "new-site", Image: "one.png", Gallery: []string{"one.png"}}.Resolve()
	require.NoError(t, err)

	res, err := store.UpsertProjectBySlug(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpsertedCount)
	assert.NotEmpty(t, res.UpsertedID)

	in.Image = "two.png"
	in.Gallery = []string{"two.png", "three.png"}
	res, err = store.UpsertProjectBySlug(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(1), res.ModifiedCount)
	assert.Zero(t, res.UpsertedCount)

	res, err = store.UpsertProjectBySlug(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Zero(t, res.ModifiedCount, "identical write changes nothing")

	p, err := store.FindProject(ctx, "new-site")
	require.NoError(t, err)
	norm := domain.NormalizeProject(*p)
	assert.Equal(t, "two.png", norm.ImageURL)
	assert.Equal(t, []string{"two.png", "three.png"}, norm.GalleryImages)
	assert.Equal(t, "New Site", norm.Name)
	assert.Equal(t, domain.DefaultServiceSlug, norm.ServiceSlug)
}

func TestRedisStore_DeleteProjectsBySlug(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutProject(ctx, domain.ProjectDocument{Slug: "barrel-born-digital-menu", Name: "Menu"}))
	require.NoError(t, store.PutProject(ctx, domain.ProjectDocument{Slug: "legacy", Name: "barrel born digital MENU"}))
	require.NoError(t, store.PutProject(ctx, domain.ProjectDocument{Slug: "keep", Name: "Keep"}))

	n, err := store.DeleteProjectsBySlug(ctx, "barrel-born-digital-menu")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = store.DeleteProjectsBySlug(ctx, "barrel-born-digital-menu")
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.False(t, mr.Exists(redisProjectSlugKey+"legacy"))

	rest, err := store.FindProjects(ctx, domain.ProjectFilter{ServiceSlug: ""})
	require.NoError(t, err)
	assert.Empty(t, rest)

	_, err = store.FindProject(ctx, "keep")
	assert.NoError(t, err)
}

func TestRedisStore_PingFailure(t *testing.T) {
	store, mr := setupRedisStore(t)
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}

// putRawProject stores a document exactly as given, bypassing the encoder.
func putRawProject(t *testing.T, mr *miniredis.Miniredis, score float64, raw string) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, mr.Set(redisProjectKey+id, raw))
	_, err := mr.ZAdd(redisProjectOrderKey, score, id)
	require.NoError(t, err)
	return id
}

func TestRedisStore_LegacyShapesDecode(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutProject(ctx, domain.ProjectDocument{
		Slug: "good", Name: "Good", Category: "digital-marketing",
	}))
	putRawProject(t, mr, 100, `{"slug":"legacy","name":"Legacy Site","serviceId":4,"technologies":"React","category":"digital-marketing"}`)

	got, err := store.FindProjects(ctx, domain.ProjectFilter{ServiceID: "4", ServiceSlug: "digital-marketing"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "good", got[0].Slug)
	assert.Equal(t, domain.Ref("4"), got[1].ServiceID)
	assert.Equal(t, []string{"React"}, domain.NormalizeProject(got[1]).Technologies)

	legacy, err := store.FindProject(ctx, "legacy-site")
	require.NoError(t, err)
	assert.Equal(t, "legacy", legacy.Slug)
}

func TestRedisStore_SkipsUndecodableDocuments(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	putRawProject(t, mr, 1, `not json`)
	badID := putRawProject(t, mr, 2, `{"slug":["not","a","string"],"category":"digital-marketing"}`)
	require.NoError(t, store.PutProject(ctx, domain.ProjectDocument{
		Slug: "good", Name: "Good", Category: "digital-marketing",
	}))

	got, err := store.FindProjects(ctx, domain.ProjectFilter{ServiceSlug: "digital-marketing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].Slug)

	p, err := store.FindProject(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "Good", p.Name)

	_, err = store.FindProject(ctx, badID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
