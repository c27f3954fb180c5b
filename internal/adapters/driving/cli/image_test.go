package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

func TestImageCmd_AddListDelete(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "image", "add", "-t", "7", "--description", "Main reading room",
		"--tag", "library", "--tag", "campus", "/img/reading_room.jpg")
	require.NoError(t, err)
	assert.Contains(t, out, "Added image reading room (img-1).")

	require.Len(t, ts.image.images, 1)
	img := ts.image.images[0]
	assert.Equal(t, domain.TenantID("7"), img.TenantID)
	assert.Equal(t, "library, campus", img.Tags)
	assert.Equal(t, "Main reading room", img.Description)

	out, err = execute(t, "image", "list", "-t", "7", "--tag", "library")
	require.NoError(t, err)
	assert.Contains(t, out, "img-1")
	assert.Contains(t, out, "/img/reading_room.jpg")
	assert.Contains(t, out, "tags: library, campus")

	out, err = execute(t, "image", "delete", "-t", "7", "img-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted image img-1.")
	assert.Empty(t, ts.image.images)
}

func TestImageCmd_ListEmpty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "image", "list", "-t", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "No images found.")
}

func TestImageCmd_DeleteMissing(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "image", "delete", "-t", "7", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image ghost not found")
}
