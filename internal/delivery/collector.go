package delivery

import (
	"fmt"
	"strings"

	"mementiq-backend/internal/frameio"
	"mementiq-backend/internal/models"
)

// AssetLister is the slice of the asset store the collector needs.
type AssetLister interface {
	ListFolderAssets(folderRef string) ([]frameio.Asset, error)
}

// Collector lists a project's media folder and normalizes its entries
// into video candidates. It has no side effects.
type Collector struct {
	assets AssetLister
}

func NewCollector(assets AssetLister) *Collector {
	return &Collector{assets: assets}
}

func (c *Collector) Collect(folderRef string) ([]models.Candidate, error) {
	assets, err := c.assets.ListFolderAssets(folderRef)
	if err != nil {
		return nil, fmt.Errorf("failed to collect candidates: %w", err)
	}

	var candidates []models.Candidate
	for _, a := range assets {
		if cand, ok := normalize(a); ok {
			candidates = append(candidates, cand)
		}
	}

	return candidates, nil
}

// normalize maps a folder entry to a video candidate. A version stack is
// represented by its head version's id and timestamps; the stack record
// itself carries neither.
func normalize(a frameio.Asset) (models.Candidate, bool) {
	switch a.Type {
	case "version_stack":
		head := a.HeadVersion
		if head == nil || !isVideo(head.Filetype) {
			return models.Candidate{}, false
		}
		return models.Candidate{
			AssetID:   head.ID,
			AssetType: "version_stack",
			Name:      a.Name,
			MediaType: head.Filetype,
			CreatedAt: head.InsertedAt,
			UpdatedAt: head.UpdatedAt,
		}, true
	case "file":
		if !isVideo(a.Filetype) {
			return models.Candidate{}, false
		}
		return models.Candidate{
			AssetID:   a.ID,
			AssetType: "file",
			Name:      a.Name,
			MediaType: a.Filetype,
			CreatedAt: a.InsertedAt,
			UpdatedAt: a.UpdatedAt,
		}, true
	default:
		return models.Candidate{}, false
	}
}

func isVideo(mediaType string) bool {
	return strings.HasPrefix(mediaType, "video/")
}
