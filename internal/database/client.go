package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"mementiq-backend/internal/models"
)

type Client struct {
	db *sql.DB
}

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

const projectColumns = `id, user_id, title, client_email, status, submitted_at, media_folder_ref,
		delivery_share_url, delivery_share_id, revision_count, trello_card_id, created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.ClientEmail, &p.Status, &p.SubmittedAt,
		&p.MediaFolderRef, &p.DeliveryShareURL, &p.DeliveryShareID,
		&p.RevisionCount, &p.TrelloCardID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetProject(projectID uuid.UUID) (*models.Project, error) {
	project, err := scanProject(c.db.QueryRow(`
		SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1
	`, projectID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", projectID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

func (c *Client) ListProjectsByStatuses(statuses ...string) ([]models.Project, error) {
	rows, err := c.db.Query(`
		SELECT `+projectColumns+`
		FROM projects
		WHERE status = ANY($1)
		ORDER BY created_at ASC
	`, pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}

	return projects, rows.Err()
}

func (c *Client) UpdateProjectStatus(projectID uuid.UUID, status string) error {
	_, err := c.db.Exec(`
		UPDATE projects
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, projectID)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	return nil
}

// AppendStatusLog writes one immutable status change row.
func (c *Client) AppendStatusLog(projectID uuid.UUID, oldStatus, newStatus string) error {
	old := sql.NullString{String: oldStatus, Valid: oldStatus != ""}
	_, err := c.db.Exec(`
		INSERT INTO status_log (project_id, old_status, new_status, changed_at)
		VALUES ($1, $2, $3, NOW())
	`, projectID, old, newStatus)
	if err != nil {
		return fmt.Errorf("failed to append status log: %w", err)
	}
	return nil
}

// LatestStatusChange returns the most recent log entry that moved the
// project into newStatus, or nil when no such entry exists.
func (c *Client) LatestStatusChange(projectID uuid.UUID, newStatus string) (*models.StatusLogEntry, error) {
	var entry models.StatusLogEntry
	err := c.db.QueryRow(`
		SELECT id, project_id, old_status, new_status, changed_at
		FROM status_log
		WHERE project_id = $1 AND new_status = $2
		ORDER BY changed_at DESC
		LIMIT 1
	`, projectID, newStatus).Scan(
		&entry.ID, &entry.ProjectID, &entry.OldStatus, &entry.NewStatus, &entry.ChangedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get status log entry: %w", err)
	}

	return &entry, nil
}

// SaveProjectShare caches the resolved public link on the project record.
func (c *Client) SaveProjectShare(projectID uuid.UUID, shareID, url string) error {
	_, err := c.db.Exec(`
		UPDATE projects
		SET delivery_share_url = $1, delivery_share_id = $2, updated_at = NOW()
		WHERE id = $3
	`, url, shareID, projectID)
	if err != nil {
		return fmt.Errorf("failed to save project share: %w", err)
	}
	return nil
}

// GetAssetShare returns the cached share for an asset, or nil when none
// has been recorded.
func (c *Client) GetAssetShare(assetID string) (*models.AssetShare, error) {
	var share models.AssetShare
	err := c.db.QueryRow(`
		SELECT asset_id, project_id, share_id, share_url, updated_at
		FROM asset_shares
		WHERE asset_id = $1
	`, assetID).Scan(
		&share.AssetID, &share.ProjectID, &share.ShareID, &share.ShareURL, &share.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset share: %w", err)
	}

	return &share, nil
}

func (c *Client) SaveAssetShare(share *models.AssetShare) error {
	_, err := c.db.Exec(`
		INSERT INTO asset_shares (asset_id, project_id, share_id, share_url, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (asset_id) DO UPDATE
		SET share_id = EXCLUDED.share_id, share_url = EXCLUDED.share_url, updated_at = NOW()
	`, share.AssetID, share.ProjectID, share.ShareID, share.ShareURL)
	if err != nil {
		return fmt.Errorf("failed to save asset share: %w", err)
	}
	return nil
}

// CreateShareAssetMapping records the share/asset/project correlation
// used to map external push notifications back to a project.
func (c *Client) CreateShareAssetMapping(m *models.ShareAssetMapping) error {
	_, err := c.db.Exec(`
		INSERT INTO share_asset_mappings (share_id, project_id, asset_id, asset_type, parent_folder_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT DO NOTHING
	`, m.ShareID, m.ProjectID, m.AssetID, m.AssetType, m.ParentFolderRef)
	if err != nil {
		return fmt.Errorf("failed to create share asset mapping: %w", err)
	}
	return nil
}

// GetMappingByAssetID resolves an asset id back to its project, or nil
// when the asset was never mapped.
func (c *Client) GetMappingByAssetID(assetID string) (*models.ShareAssetMapping, error) {
	var m models.ShareAssetMapping
	err := c.db.QueryRow(`
		SELECT share_id, project_id, asset_id, asset_type, parent_folder_ref, created_at
		FROM share_asset_mappings
		WHERE asset_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, assetID).Scan(
		&m.ShareID, &m.ProjectID, &m.AssetID, &m.AssetType, &m.ParentFolderRef, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share asset mapping: %w", err)
	}

	return &m, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}
