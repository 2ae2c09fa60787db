package trello

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client moves project cards on the production board. Card moves are
// best-effort; a failed move never blocks a delivery.
type Client struct {
	baseURL        string
	apiKey         string
	apiToken       string
	approvalListID string
	httpClient     *http.Client
}

func NewClient(baseURL, apiKey, apiToken, approvalListID string) *Client {
	return &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		apiKey:         apiKey,
		apiToken:       apiToken,
		approvalListID: approvalListID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// MoveCardToApproval moves the project's card to the "waiting on
// approval" lane and tags revision deliveries with their count.
func (c *Client) MoveCardToApproval(cardID string, revision bool, revisionCount int) error {
	if cardID == "" {
		return fmt.Errorf("no board card for project")
	}
	if c.approvalListID == "" {
		return fmt.Errorf("approval list not configured")
	}

	params := url.Values{}
	params.Add("key", c.apiKey)
	params.Add("token", c.apiToken)
	params.Add("idList", c.approvalListID)

	endpointURL := c.baseURL + "/cards/" + cardID + "?" + params.Encode()
	req, err := http.NewRequest("PUT", endpointURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to move card: status %d, body: %s", resp.StatusCode, string(body))
	}

	if revision {
		return c.addComment(cardID, fmt.Sprintf("Revision delivery #%d is ready for approval", revisionCount))
	}
	return c.addComment(cardID, "Video delivery is ready for approval")
}

func (c *Client) addComment(cardID, text string) error {
	params := url.Values{}
	params.Add("key", c.apiKey)
	params.Add("token", c.apiToken)
	params.Add("text", text)

	endpointURL := c.baseURL + "/cards/" + cardID + "/actions/comments?" + params.Encode()
	req, err := http.NewRequest("POST", endpointURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to comment on card: status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}
