package delivery_test

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"mementiq-backend/internal/frameio"
	"mementiq-backend/internal/models"
	"mementiq-backend/internal/shares"
)

type fakeLister struct {
	assetsByFolder map[string][]frameio.Asset
	err            error
	errFolders     map[string]error
}

func (f *fakeLister) ListFolderAssets(folderRef string) ([]frameio.Asset, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err, ok := f.errFolders[folderRef]; ok {
		return nil, err
	}
	return f.assetsByFolder[folderRef], nil
}

// fakeStore is an in-memory project store covering every store interface
// the pipeline touches.
type fakeStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*models.Project
	log      []models.StatusLogEntry

	active      int32
	overlapSeen bool
	listDelay   time.Duration
}

func newFakeStore(projects ...*models.Project) *fakeStore {
	s := &fakeStore{projects: make(map[uuid.UUID]*models.Project)}
	for _, p := range projects {
		s.projects[p.ID] = p
	}
	return s
}

func (s *fakeStore) ListProjectsByStatuses(statuses ...string) ([]models.Project, error) {
	if !atomic.CompareAndSwapInt32(&s.active, 0, 1) {
		s.overlapSeen = true
	}
	defer atomic.StoreInt32(&s.active, 0)
	if s.listDelay > 0 {
		time.Sleep(s.listDelay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Project
	for _, p := range s.projects {
		for _, status := range statuses {
			if p.Status == status {
				out = append(out, *p)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeStore) AppendStatusLog(projectID uuid.UUID, oldStatus, newStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, models.StatusLogEntry{
		ID:        int64(len(s.log) + 1),
		ProjectID: projectID,
		OldStatus: nullString(oldStatus),
		NewStatus: newStatus,
		ChangedAt: time.Now(),
	})
	return nil
}

func (s *fakeStore) UpdateProjectStatus(projectID uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("project %s: %w", projectID, models.ErrNotFound)
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}

func (s *fakeStore) LatestStatusChange(projectID uuid.UUID, newStatus string) (*models.StatusLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.log) - 1; i >= 0; i-- {
		if s.log[i].ProjectID == projectID && s.log[i].NewStatus == newStatus {
			entry := s.log[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) logEntries(projectID uuid.UUID) []models.StatusLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.StatusLogEntry
	for _, e := range s.log {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

type fakeBoard struct {
	mu    sync.Mutex
	moves []string
	err   error
}

func (f *fakeBoard) MoveCardToApproval(cardID string, revision bool, revisionCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.moves = append(f.moves, cardID)
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	viewURLs []string
	err      error
}

func (f *fakeNotifier) SendDeliveryEmail(p *models.Project, viewURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.viewURLs = append(f.viewURLs, viewURL)
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (f *fakeEvents) PublishProjectEvent(projectID uuid.UUID, event string, payload map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeResolver struct {
	mu    sync.Mutex
	calls int
	res   *shares.Resolution
	err   error
}

func (f *fakeResolver) Resolve(p *models.Project, asset models.Candidate, commentsEnabled bool) (*shares.Resolution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.res != nil {
		return f.res, nil
	}
	return &shares.Resolution{
		URL:     "https://f.io/new123",
		ShareID: "share-new",
		Source:  shares.SourceCreated,
		Policy:  models.EffectOK("comment_policy"),
	}, nil
}

type fakeLinks struct{}

func (fakeLinks) PlayerURL(assetID string) string {
	return "https://app.frame.io/player/" + assetID
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
