package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"
)

func TestRef_NumericBSON(t *testing.T) {
	cases := []struct {
		name string
		val  any
		want string
	}{
		{"double", 4.0, "4"},
		{"fractional double", 2.5, "2.5"},
		{"int32", int32(7), "7"},
		{"int64", int64(9000000000), "9000000000"},
		{"null", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := bson.Marshal(bson.M{"serviceId": tc.val})
			require.NoError(t, err)

			var doc ProjectDocument
			require.NoError(t, bson.Unmarshal(raw, &doc))
			assert.Equal(t, tc.want, doc.ServiceID.String())
		})
	}
}

func TestRef_UnmarshalJSON(t *testing.T) {
	cases := map[string]string{
		`{"serviceId":"3"}`:                                 "3",
		`{"serviceId":4}`:                                   "4",
		`{"serviceId":4.0}`:                                 "4",
		`{"serviceId":null}`:                                "",
		`{"serviceId":{"$oid":"65a1f0c2e4b0a1b2c3d4e5f6"}}`: "65a1f0c2e4b0a1b2c3d4e5f6",
	}
	for in, want := range cases {
		var doc ProjectDocument
		require.NoError(t, json.Unmarshal([]byte(in), &doc), in)
		assert.Equal(t, want, doc.ServiceID.String(), in)
	}

	var doc ProjectDocument
	assert.Error(t, json.Unmarshal([]byte(`{"serviceId":true}`), &doc))
}

func TestStringList_BSONShapes(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"technologies": "React",
		"techStack":    bson.A{"Go", int32(2), 3.5},
		"gallery":      "",
		"features":     nil,
		"outcomes":     bson.A{"one", bson.M{"x": 1}},
	})
	require.NoError(t, err)

	var doc ProjectDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, StringList{"React"}, doc.Technologies)
	assert.Equal(t, StringList{"Go", "2", "3.5"}, doc.TechStack)
	assert.Nil(t, doc.Gallery)
	assert.Nil(t, doc.Features)
	assert.Equal(t, StringList{"one"}, doc.Outcomes, "non-scalar elements are dropped")

	p := NormalizeProject(doc)
	assert.Equal(t, []string{"React"}, p.Technologies)

	raw, err = bson.Marshal(bson.M{"images": true})
	require.NoError(t, err)
	assert.Error(t, bson.Unmarshal(raw, &doc))
}

func TestStringList_RoundTripsBSON(t *testing.T) {
	raw, err := bson.Marshal(ProjectDocument{Slug: "s", GalleryImages: StringList{"a.png", "b.png"}})
	require.NoError(t, err)

	var doc ProjectDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, StringList{"a.png", "b.png"}, doc.GalleryImages)
}

func TestStringList_JSONShapes(t *testing.T) {
	var doc ProjectDocument
	require.NoError(t, json.Unmarshal([]byte(`{
		"technologies": "React",
		"techStack": ["Go", 2],
		"images": null,
		"gallery": ""
	}`), &doc))

	assert.Equal(t, StringList{"React"}, doc.Technologies)
	assert.Equal(t, StringList{"Go", "2"}, doc.TechStack)
	assert.Nil(t, doc.Images)
	assert.Nil(t, doc.Gallery)

	assert.Error(t, json.Unmarshal([]byte(`{"images": {"a": 1}}`), &doc))
}

func TestStringList_YAMLScalar(t *testing.T) {
	var doc ProjectDocument
	require.NoError(t, yaml.Unmarshal([]byte("slug: s\ntechnologies: React\nfeatures: [a, b]\n"), &doc))
	assert.Equal(t, StringList{"React"}, doc.Technologies)
	assert.Equal(t, StringList{"a", "b"}, doc.Features)
}
