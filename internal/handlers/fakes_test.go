package handlers_test

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"mementiq-backend/internal/frameio"
	"mementiq-backend/internal/models"
	"mementiq-backend/internal/shares"
)

type stubScanner struct {
	report *models.ScanReport
	err    error
	called chan struct{}
}

func (s *stubScanner) Scan() (*models.ScanReport, error) {
	if s.called != nil {
		s.called <- struct{}{}
	}
	return s.report, s.err
}

type fakeProjects struct {
	projects map[uuid.UUID]*models.Project
}

func (f *fakeProjects) GetProject(projectID uuid.UUID) (*models.Project, error) {
	p, ok := f.projects[projectID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

type fakeLister struct {
	assets []frameio.Asset
	err    error
}

func (f *fakeLister) ListFolderAssets(folderRef string) ([]frameio.Asset, error) {
	return f.assets, f.err
}

type fakeLinkResolver struct {
	lastAsset    models.Candidate
	lastComments bool
	res          *shares.Resolution
	err          error
}

func (f *fakeLinkResolver) Resolve(p *models.Project, asset models.Candidate, commentsEnabled bool) (*shares.Resolution, error) {
	f.lastAsset = asset
	f.lastComments = commentsEnabled
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

type fakeMappings struct {
	mapping *models.ShareAssetMapping
}

func (f *fakeMappings) GetMappingByAssetID(assetID string) (*models.ShareAssetMapping, error) {
	if f.mapping == nil {
		return nil, errors.New("no mapping")
	}
	return f.mapping, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
