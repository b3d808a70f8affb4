package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsUnsetSlug(t *testing.T) {
	assert.True(t, IsUnsetSlug(""))
	assert.True(t, IsUnsetSlug("  "))
	assert.True(t, IsUnsetSlug("undefined"))
	assert.False(t, IsUnsetSlug("website-development"))
}

func TestDisplayNameFromSlug(t *testing.T) {
	assert.Equal(t, "Barrel Born Digital Menu", DisplayNameFromSlug("barrel-born-digital-menu"))
	assert.Equal(t, "Train With Winston", DisplayNameFromSlug("train-with-winston"))
	assert.Equal(t, "Site 2go", DisplayNameFromSlug("site-2go"))
}

func TestMatchesSlugOrName(t *testing.T) {
	doc := ProjectDocument{Name: "Barrel Born Digital Menu"}
	assert.True(t, MatchesSlugOrName(doc, "barrel-born-digital-menu"))
	assert.False(t, MatchesSlugOrName(doc, "barrel-born"))

	doc = ProjectDocument{Slug: "x-1", Name: "Other"}
	assert.True(t, MatchesSlugOrName(doc, "x-1"))
	assert.False(t, MatchesSlugOrName(doc, ""))
}

func TestProjectFilter_Matches(t *testing.T) {
	f := ProjectFilter{ServiceID: "svc1", ServiceSlug: "mobile-application-development", ServiceName: "Mobile"}

	assert.True(t, f.Matches(ProjectDocument{ServiceID: "svc1"}))
	assert.True(t, f.Matches(ProjectDocument{ServiceSlug: "mobile-application-development"}))
	assert.True(t, f.Matches(ProjectDocument{Category: "mobile-application-development"}))
	assert.True(t, f.Matches(ProjectDocument{ServiceName: "Mobile"}))
	assert.False(t, f.Matches(ProjectDocument{ServiceSlug: "digital-marketing"}))

	slugOnly := ProjectFilter{ServiceSlug: "digital-marketing"}
	assert.False(t, slugOnly.Matches(ProjectDocument{}))
}

func TestSyncInput_Resolve(t *testing.T) {
	for _, slug := range []string{"", "  ", "undefined", "null"} {
		_, err := SyncInput{Slug: slug, Image: "a.png"}.Resolve()
		require.Error(t, err, slug)
		assert.True(t, errors.Is(err, ErrInvalidInput), slug)
	}

	in, err := SyncInput{Slug: " barrel-born-digital-menu "}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "barrel-born-digital-menu", in.Slug)
	assert.Equal(t, "Barrel Born Digital Menu", in.Name)
	assert.Equal(t, DefaultServiceSlug, in.ServiceSlug)
	assert.Equal(t, DefaultServiceSlug, in.Category)

	in, err = SyncInput{Slug: "x", Name: "Given", ServiceSlug: "digital-marketing", Category: "seo"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "Given", in.Name)
	assert.Equal(t, "digital-marketing", in.ServiceSlug)
	assert.Equal(t, "seo", in.Category)
}

func TestApplySync_LatestImageWins(t *testing.T) {
	doc := ProjectDocument{ImageURL: "old.png", GalleryImages: []string{"old.png"}, ClientName: "Kept"}
	ApplySync(&doc, SyncInput{Slug: "s", Image: "new.png", Gallery: []string{"n1.png"}, Name: "S"})

	p := NormalizeProject(doc)
	assert.Equal(t, "new.png", p.ImageURL)
	assert.Equal(t, []string{"n1.png"}, p.GalleryImages)
	assert.Equal(t, "Kept", p.ClientName)
}

func TestRef_UnmarshalBSONValue(t *testing.T) {
	oid := primitive.NewObjectID()

	raw, err := bson.Marshal(bson.M{"_id": oid, "serviceId": "3"})
	require.NoError(t, err)

	var doc ProjectDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, oid.Hex(), doc.ID.String())
	assert.Equal(t, "3", doc.ServiceID.String())

	raw, err = bson.Marshal(bson.M{"serviceId": oid})
	require.NoError(t, err)
	doc = ProjectDocument{}
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, oid.Hex(), doc.ServiceID.String())
}
