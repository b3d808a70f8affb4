package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	for _, name := range []string{"migrate", "seed", "sync-images", "delete-by-slug"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestSyncImagesFlags(t *testing.T) {
	f := syncImagesCmd.Flags()
	require.NoError(t, f.Parse([]string{
		"--slug", "train-with-winston",
		"--image", "/a.jpg",
		"--gallery", "/1.jpg,/2.jpg",
	}))

	assert.Equal(t, "train-with-winston", syncIn.Slug)
	assert.Equal(t, "/a.jpg", syncIn.Image)
	assert.Equal(t, []string{"/1.jpg", "/2.jpg"}, syncIn.Gallery)
}

func TestDeleteBySlugArgs(t *testing.T) {
	assert.Error(t, deleteBySlugCmd.Args(deleteBySlugCmd, nil))
	assert.NoError(t, deleteBySlugCmd.Args(deleteBySlugCmd, []string{"x"}))
}
