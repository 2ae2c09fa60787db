package delivery

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"mementiq-backend/internal/models"
)

// Scanner drives delivery detection over all eligible projects. One scan
// runs at a time: manual triggers serialize and each caller receives the
// report of the scan it triggered, while scheduled ticks skip instead of
// queueing when a scan is already running.
type Scanner struct {
	store       ProjectStore
	collector   *Collector
	selector    *Selector
	transitions *TransitionManager
	interval    time.Duration

	scanMu sync.Mutex

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewScanner(
	store ProjectStore,
	collector *Collector,
	selector *Selector,
	transitions *TransitionManager,
	interval time.Duration,
) *Scanner {
	return &Scanner{
		store:       store,
		collector:   collector,
		selector:    selector,
		transitions: transitions,
		interval:    interval,
	}
}

// Start launches the periodic scan loop. Safe to call once; subsequent
// calls while running are no-ops.
func (s *Scanner) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop cancels the scan loop and waits for it to exit. A scan already in
// flight runs its current project list to completion.
func (s *Scanner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scanner) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scanner) tick() {
	if !s.scanMu.TryLock() {
		log.Printf("Scan already in progress, skipping scheduled run")
		return
	}
	defer s.scanMu.Unlock()

	report, err := s.scanLocked()
	if err != nil {
		log.Printf("Scheduled scan failed: %v", err)
		return
	}
	log.Printf("Scheduled scan complete: checked %d, updated %d", report.Checked, report.Updated)
}

// Scan runs one full scan. Concurrent manual callers serialize behind
// the in-flight scan and then run their own.
func (s *Scanner) Scan() (*models.ScanReport, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	return s.scanLocked()
}

func (s *Scanner) scanLocked() (*models.ScanReport, error) {
	start := time.Now()

	projects, err := s.store.ListProjectsByStatuses(
		models.StatusEditInProgress,
		models.StatusRevisionInProgress,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list target projects: %w", err)
	}

	report := &models.ScanReport{
		Checked:   len(projects),
		StartedAt: start,
	}

	for i := range projects {
		result := s.scanProject(&projects[i])
		if result.StatusUpdated {
			report.Updated++
		}
		report.Results = append(report.Results, result)
	}

	report.Duration = time.Since(start).String()
	return report, nil
}

// scanProject processes one project. Errors are captured into the result
// so a failing project never aborts the rest of the batch.
func (s *Scanner) scanProject(p *models.Project) models.ProjectScanResult {
	result := models.ProjectScanResult{
		ProjectID: p.ID.String(),
		Title:     p.Title,
	}

	if !p.MediaFolderRef.Valid || p.MediaFolderRef.String == "" {
		result.Error = fmt.Errorf("project has no media folder: %w", models.ErrNotFound).Error()
		return result
	}

	cutoff, proceed, err := s.selector.CutoffFor(p)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if !proceed {
		// Revision guard: no recorded entry into "revision in progress",
		// so detection is suppressed rather than risking a false positive.
		log.Printf("Project %s is in revision with no revision history, skipping", p.ID)
		result.Skipped = true
		result.SkipReason = "no revision history"
		return result
	}

	candidates, err := s.collector.Collect(p.MediaFolderRef.String)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	winner, found := s.selector.SelectWinner(candidates, cutoff)
	if !found {
		return result
	}

	outcome, err := s.transitions.Deliver(p, winner)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.StatusUpdated = true
	result.NewStatus = outcome.NewStatus
	result.WinnerAssetID = winner.AssetID
	result.ShareURL = outcome.ShareURL
	result.SideEffects = outcome.SideEffects
	return result
}
