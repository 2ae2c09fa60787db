package delivery

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"mementiq-backend/internal/models"
	"mementiq-backend/internal/shares"
)

// ProjectStore is the slice of the project store the pipeline mutates.
type ProjectStore interface {
	ListProjectsByStatuses(statuses ...string) ([]models.Project, error)
	AppendStatusLog(projectID uuid.UUID, oldStatus, newStatus string) error
	UpdateProjectStatus(projectID uuid.UUID, status string) error
}

// BoardAutomation moves the project's kanban card after a delivery.
type BoardAutomation interface {
	MoveCardToApproval(cardID string, revision bool, revisionCount int) error
}

// Notifier sends the delivery email to the client.
type Notifier interface {
	SendDeliveryEmail(p *models.Project, viewURL string) error
}

// EventPublisher pushes realtime project events to the front end.
type EventPublisher interface {
	PublishProjectEvent(projectID uuid.UUID, event string, payload map[string]interface{}) error
}

// ShareResolver produces the public link for the winning asset.
type ShareResolver interface {
	Resolve(p *models.Project, asset models.Candidate, commentsEnabled bool) (*shares.Resolution, error)
}

// DirectLinker supplies the non-public fallback view URL used when
// share resolution fails.
type DirectLinker interface {
	PlayerURL(assetID string) string
}

// DeliveryOutcome reports a committed transition plus the per-side-effect
// results of the best-effort follow-ups.
type DeliveryOutcome struct {
	NewStatus   string
	ShareURL    string
	SideEffects []models.SideEffect
}

// TransitionManager commits the "video is ready" state change and fires
// its side effects. The status commit is the durable fact; everything
// after it is best-effort and never rolls the commit back.
type TransitionManager struct {
	store    ProjectStore
	board    BoardAutomation
	notifier Notifier
	events   EventPublisher
	resolver ShareResolver
	links    DirectLinker
}

func NewTransitionManager(
	store ProjectStore,
	board BoardAutomation,
	notifier Notifier,
	events EventPublisher,
	resolver ShareResolver,
	links DirectLinker,
) *TransitionManager {
	return &TransitionManager{
		store:    store,
		board:    board,
		notifier: notifier,
		events:   events,
		resolver: resolver,
		links:    links,
	}
}

// Deliver flips the project to "video is ready" for the winning asset.
// Steps: append the status log entry, persist the new status, then the
// best-effort tail (card move, share resolution, delivery email,
// realtime event). Only the first two steps can fail the call.
func (t *TransitionManager) Deliver(p *models.Project, winner models.Candidate) (*DeliveryOutcome, error) {
	revision := p.Status == models.StatusRevisionInProgress

	if err := t.store.AppendStatusLog(p.ID, p.Status, models.StatusVideoReady); err != nil {
		return nil, fmt.Errorf("failed to log status change for project %s: %w", p.ID, err)
	}
	if err := t.store.UpdateProjectStatus(p.ID, models.StatusVideoReady); err != nil {
		return nil, fmt.Errorf("failed to update status for project %s: %w", p.ID, err)
	}

	outcome := &DeliveryOutcome{NewStatus: models.StatusVideoReady}

	// Card move.
	if p.TrelloCardID.Valid && p.TrelloCardID.String != "" {
		if err := t.board.MoveCardToApproval(p.TrelloCardID.String, revision, p.RevisionCount); err != nil {
			log.Printf("Failed to move board card for project %s: %v", p.ID, err)
			outcome.SideEffects = append(outcome.SideEffects, models.EffectFailed("board_card_move", err))
		} else {
			outcome.SideEffects = append(outcome.SideEffects, models.EffectOK("board_card_move"))
		}
	} else {
		outcome.SideEffects = append(outcome.SideEffects,
			models.SideEffect{Name: "board_card_move", OK: false, Reason: "no board card linked"})
	}

	// Share resolution. On failure the notification falls back to the
	// direct (possibly non-public) view URL.
	viewURL := t.links.PlayerURL(winner.AssetID)
	res, err := t.resolver.Resolve(p, winner, true)
	if err != nil {
		log.Printf("Failed to resolve share for project %s: %v", p.ID, err)
		outcome.SideEffects = append(outcome.SideEffects, models.EffectFailed("share_resolution", err))
	} else {
		viewURL = res.URL
		outcome.ShareURL = res.URL
		outcome.SideEffects = append(outcome.SideEffects, models.EffectOK("share_resolution"), res.Policy)
	}

	// Delivery email.
	if err := t.notifier.SendDeliveryEmail(p, viewURL); err != nil {
		log.Printf("Failed to send delivery email for project %s: %v", p.ID, err)
		outcome.SideEffects = append(outcome.SideEffects, models.EffectFailed("delivery_email", err))
	} else {
		outcome.SideEffects = append(outcome.SideEffects, models.EffectOK("delivery_email"))
	}

	// Realtime event for open dashboards.
	if err := t.events.PublishProjectEvent(p.ID, "delivery_detected",
		map[string]interface{}{
			"project_id": p.ID.String(),
			"status":     models.StatusVideoReady,
			"asset_id":   winner.AssetID,
			"revision":   revision,
		}); err != nil {
		log.Printf("Failed to publish delivery event for project %s: %v", p.ID, err)
		outcome.SideEffects = append(outcome.SideEffects, models.EffectFailed("realtime_event", err))
	} else {
		outcome.SideEffects = append(outcome.SideEffects, models.EffectOK("realtime_event"))
	}

	return outcome, nil
}
