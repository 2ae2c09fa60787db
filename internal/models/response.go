package models

import "time"

// ProjectScanResult is the per-project entry in a scan report. A failed
// project captures its error here; the scan continues with the rest.
type ProjectScanResult struct {
	ProjectID     string       `json:"project_id"`
	Title         string       `json:"title"`
	StatusUpdated bool         `json:"status_updated"`
	NewStatus     string       `json:"new_status,omitempty"`
	WinnerAssetID string       `json:"winner_asset_id,omitempty"`
	ShareURL      string       `json:"share_url,omitempty"`
	Skipped       bool         `json:"skipped,omitempty"`
	SkipReason    string       `json:"skip_reason,omitempty"`
	SideEffects   []SideEffect `json:"side_effects,omitempty"`
	Error         string       `json:"error,omitempty"`
}

type ScanReport struct {
	Checked   int                 `json:"checked"`
	Updated   int                 `json:"updated"`
	Results   []ProjectScanResult `json:"results"`
	StartedAt time.Time           `json:"started_at"`
	Duration  string              `json:"duration"`
}

type ShareLinkResponse struct {
	ProjectID string `json:"project_id"`
	URL       string `json:"url"`
	ShareID   string `json:"share_id"`
	Source    string `json:"source"`
}

type DeliveryStatusResponse struct {
	ProjectID     string    `json:"project_id"`
	Status        string    `json:"status"`
	RevisionCount int       `json:"revision_count"`
	ShareURL      string    `json:"share_url,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
