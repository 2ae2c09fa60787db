package delivery

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"mementiq-backend/internal/models"
)

// StatusHistory is the slice of the project store the selector needs to
// reconstruct when the current review cycle started.
type StatusHistory interface {
	LatestStatusChange(projectID uuid.UUID, newStatus string) (*models.StatusLogEntry, error)
}

// Selector decides which candidate, if any, counts as the new delivery
// for the current review cycle.
type Selector struct {
	history StatusHistory
}

func NewSelector(history StatusHistory) *Selector {
	return &Selector{history: history}
}

// CutoffFor computes the "new since" boundary for a project. A nil
// cutoff with proceed=true means every candidate qualifies (initial
// delivery bootstrap). proceed=false is the silent revision guard: the
// project is in revision but has no recorded revision entry, so
// detection is suppressed rather than risking a false positive.
func (s *Selector) CutoffFor(p *models.Project) (*time.Time, bool, error) {
	switch p.Status {
	case models.StatusRevisionInProgress:
		entry, err := s.history.LatestStatusChange(p.ID, models.StatusRevisionInProgress)
		if err != nil {
			return nil, false, fmt.Errorf("failed to compute cutoff: %w", err)
		}
		if entry == nil {
			return nil, false, nil
		}
		cutoff := entry.ChangedAt
		return &cutoff, true, nil
	case models.StatusEditInProgress:
		if p.SubmittedAt.Valid {
			cutoff := p.SubmittedAt.Time
			return &cutoff, true, nil
		}
		return nil, true, nil
	default:
		return nil, true, nil
	}
}

// SelectWinner filters candidates against the cutoff and picks the one
// with the latest activity time. A candidate qualifies only when its
// activity time is strictly after the cutoff. Ties resolve to the first
// candidate in input order.
func (s *Selector) SelectWinner(candidates []models.Candidate, cutoff *time.Time) (models.Candidate, bool) {
	var qualifying []models.Candidate
	for _, c := range candidates {
		if cutoff == nil || c.ActivityTime().After(*cutoff) {
			qualifying = append(qualifying, c)
		}
	}

	if len(qualifying) == 0 {
		return models.Candidate{}, false
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].ActivityTime().After(qualifying[j].ActivityTime())
	})

	return qualifying[0], true
}
