package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Project statuses. The delivery scanner only targets projects in
// StatusEditInProgress or StatusRevisionInProgress; earlier statuses are
// entered and exited by the client-facing flows.
const (
	StatusDraft                        = "draft"
	StatusAwaitingInstructions         = "awaiting instructions"
	StatusEditInProgress               = "edit in progress"
	StatusAwaitingRevisionInstructions = "awaiting revision instructions"
	StatusRevisionInProgress           = "revision in progress"
	StatusVideoReady                   = "video is ready"
)

type Project struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Title            string
	ClientEmail      string
	Status           string
	SubmittedAt      sql.NullTime
	MediaFolderRef   sql.NullString
	DeliveryShareURL sql.NullString
	DeliveryShareID  sql.NullString
	RevisionCount    int
	TrelloCardID     sql.NullString
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StatusLogEntry is an append-only record of a project status change.
// The selector uses the most recent "revision in progress" entry to
// reconstruct when the current review cycle started.
type StatusLogEntry struct {
	ID        int64
	ProjectID uuid.UUID
	OldStatus sql.NullString
	NewStatus string
	ChangedAt time.Time
}
