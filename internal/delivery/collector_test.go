package delivery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mementiq-backend/internal/delivery"
	"mementiq-backend/internal/frameio"
	"mementiq-backend/internal/models"
)

func TestCollect_NormalizesFolderEntries(t *testing.T) {
	head := &frameio.Asset{
		ID:         "head-1",
		Type:       "file",
		Filetype:   "video/quicktime",
		InsertedAt: ts("2024-01-05T00:00:00Z"),
		UpdatedAt:  ts("2024-01-06T00:00:00Z"),
	}
	lister := &fakeLister{assetsByFolder: map[string][]frameio.Asset{
		"folder-1": {
			{ID: "stack-1", Name: "Final Cut", Type: "version_stack", HeadVersion: head},
			{ID: "file-1", Name: "teaser.mp4", Type: "file", Filetype: "video/mp4",
				InsertedAt: ts("2024-01-02T00:00:00Z")},
			{ID: "img-1", Name: "poster.jpg", Type: "file", Filetype: "image/jpeg"},
			{ID: "sub-1", Name: "b-roll", Type: "folder"},
			{ID: "stack-2", Name: "Stills", Type: "version_stack",
				HeadVersion: &frameio.Asset{ID: "head-2", Type: "file", Filetype: "image/png"}},
			{ID: "stack-3", Name: "Broken", Type: "version_stack"},
		},
	}}

	collector := delivery.NewCollector(lister)
	candidates, err := collector.Collect("folder-1")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// The stack is represented by its head version's identity.
	assert.Equal(t, models.Candidate{
		AssetID:   "head-1",
		AssetType: "version_stack",
		Name:      "Final Cut",
		MediaType: "video/quicktime",
		CreatedAt: head.InsertedAt,
		UpdatedAt: head.UpdatedAt,
	}, candidates[0])

	assert.Equal(t, "file-1", candidates[1].AssetID)
	assert.Equal(t, "file", candidates[1].AssetType)
}

func TestCollect_EmptyFolder(t *testing.T) {
	collector := delivery.NewCollector(&fakeLister{})

	candidates, err := collector.Collect("folder-1")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestCollect_PropagatesListError(t *testing.T) {
	collector := delivery.NewCollector(&fakeLister{err: assert.AnError})

	_, err := collector.Collect("folder-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
