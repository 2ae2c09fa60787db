package frameio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mementiq-backend/internal/models"
)

type Client struct {
	baseURL    string
	apiKey     string
	accountID  string
	httpClient *http.Client
}

// Asset represents an entry in a Frame.io folder. A version_stack has no
// usable timestamps of its own; HeadVersion carries the authoritative
// id, media type and timestamps for the current version.
type Asset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"` // "file", "version_stack" or "folder"
	Filetype    string    `json:"filetype"`
	InsertedAt  time.Time `json:"inserted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ParentID    string    `json:"parent_id,omitempty"`
	HeadVersion *Asset    `json:"head_version,omitempty"`
}

// Share is a public review link for one or more assets.
type Share struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ShortURL        string   `json:"short_url"`
	AssetIDs        []string `json:"asset_ids,omitempty"`
	CommentsEnabled bool     `json:"enable_comments"`
	ProjectFolderID string   `json:"project_folder_id,omitempty"`
}

// shareIn is the request body for creating or updating a share.
type shareIn struct {
	Name            string   `json:"name,omitempty"`
	AssetIDs        []string `json:"asset_ids,omitempty"`
	CommentsEnabled *bool    `json:"enable_comments,omitempty"`
}

func NewClient(baseURL, apiKey, accountID string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		accountID: accountID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListFolderAssets lists all entries in a folder, following pagination.
func (c *Client) ListFolderAssets(folderRef string) ([]Asset, error) {
	var all []Asset
	page := 1
	for {
		params := url.Values{}
		params.Add("page", fmt.Sprintf("%d", page))
		params.Add("page_size", "50")
		endpointURL := c.baseURL + "/assets/" + folderRef + "/children?" + params.Encode()

		body, err := c.get(endpointURL, "list folder assets")
		if err != nil {
			return nil, err
		}

		var assets []Asset
		if err := json.Unmarshal(body, &assets); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
		}

		all = append(all, assets...)
		if len(assets) < 50 {
			return all, nil
		}
		page++
	}
}

// FindExistingShare looks for a share already targeting the given asset
// within the project's folder. Returns nil when none exists.
func (c *Client) FindExistingShare(folderRef, assetID string) (*Share, error) {
	endpointURL := c.baseURL + "/accounts/" + c.accountID + "/shares"

	body, err := c.get(endpointURL, "list shares")
	if err != nil {
		return nil, err
	}

	var shares []Share
	if err := json.Unmarshal(body, &shares); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	for i := range shares {
		s := &shares[i]
		if s.ProjectFolderID != "" && s.ProjectFolderID != folderRef {
			continue
		}
		for _, id := range s.AssetIDs {
			if id == assetID {
				return s, nil
			}
		}
	}
	return nil, nil
}

// CreateShare mints a new public share for one asset.
func (c *Client) CreateShare(assetID, title string, commentsEnabled bool) (*Share, error) {
	reqBody := shareIn{
		Name:            title,
		AssetIDs:        []string{assetID},
		CommentsEnabled: &commentsEnabled,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpointURL := c.baseURL + "/accounts/" + c.accountID + "/shares"
	req, err := http.NewRequest("POST", endpointURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.statusError("create share", resp.StatusCode, body)
	}

	var result Share
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	return &result, nil
}

// GetShareCommentSetting fetches the current comment visibility of a share.
func (c *Client) GetShareCommentSetting(shareID string) (bool, error) {
	body, err := c.get(c.baseURL+"/shares/"+shareID, "get share")
	if err != nil {
		return false, err
	}

	var result Share
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	return result.CommentsEnabled, nil
}

// SetShareCommentSetting patches a share's comment visibility.
func (c *Client) SetShareCommentSetting(shareID string, enabled bool) error {
	reqBody := shareIn{CommentsEnabled: &enabled}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("PATCH", c.baseURL+"/shares/"+shareID, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return c.statusError("update share", resp.StatusCode, body)
	}

	return nil
}

// PlayerURL returns the direct (possibly non-public) view URL for an
// asset, used as the notification fallback when share resolution fails.
func (c *Client) PlayerURL(assetID string) string {
	return "https://app.frame.io/player/" + assetID
}

func (c *Client) get(endpointURL, op string) ([]byte, error) {
	req, err := http.NewRequest("GET", endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(op, resp.StatusCode, body)
	}

	return body, nil
}

// statusError classifies an API failure into the pipeline's error
// taxonomy so the scanner can report it per project.
func (c *Client) statusError(op string, status int, body []byte) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("failed to %s: status %d, body: %s: %w", op, status, string(body), models.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("failed to %s: status %d, body: %s: %w", op, status, string(body), models.ErrAccessDenied)
	default:
		return fmt.Errorf("failed to %s: status %d, body: %s: %w", op, status, string(body), models.ErrExternalService)
	}
}

// RetryWithBackoff executes a function with exponential backoff retry logic
func (c *Client) RetryWithBackoff(fn func() error, maxRetries int) error {
	backoffs := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i < len(backoffs) {
			time.Sleep(backoffs[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
