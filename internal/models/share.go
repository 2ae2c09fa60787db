package models

import (
	"time"

	"github.com/google/uuid"
)

// AssetShare caches the public link minted for a single asset. The
// resolver consults it after the project-level cache and before asking
// the external store.
type AssetShare struct {
	AssetID   string
	ProjectID uuid.UUID
	ShareID   string
	ShareURL  string
	UpdatedAt time.Time
}

// ShareAssetMapping correlates a minted share with the asset and project
// it was created for, so an external push notification can be mapped
// back to a project. Rows are written once and never mutated.
type ShareAssetMapping struct {
	ShareID         string
	ProjectID       uuid.UUID
	AssetID         string
	AssetType       string
	ParentFolderRef string
	CreatedAt       time.Time
}

// Candidate is a normalized video asset from the project's media folder.
// For a version stack the head version supplies the id and timestamps;
// the stack itself has no usable ones.
type Candidate struct {
	AssetID   string
	AssetType string // "file" or "version_stack"
	Name      string
	MediaType string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivityTime is the timestamp a candidate is ranked by: the later of
// created and updated, falling back to created when updated is unset.
func (c Candidate) ActivityTime() time.Time {
	if c.UpdatedAt.IsZero() {
		return c.CreatedAt
	}
	if c.UpdatedAt.After(c.CreatedAt) {
		return c.UpdatedAt
	}
	return c.CreatedAt
}
