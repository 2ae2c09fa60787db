package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mementiq-backend/internal/models"
)

// Client sends transactional mail through a SendGrid-compatible REST
// API. All sends are best-effort from the caller's point of view.
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	templateID string
	httpClient *http.Client
}

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To           []mailAddress          `json:"to"`
	TemplateData map[string]interface{} `json:"dynamic_template_data,omitempty"`
}

type sendIn struct {
	From             mailAddress       `json:"from"`
	Personalizations []personalization `json:"personalizations"`
	TemplateID       string            `json:"template_id"`
}

func NewClient(baseURL, apiKey, from, templateID string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		from:       from,
		templateID: templateID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SendDeliveryEmail notifies the client that their video is ready,
// linking the resolved share URL (or the direct view URL fallback).
func (c *Client) SendDeliveryEmail(p *models.Project, viewURL string) error {
	if p.ClientEmail == "" {
		return fmt.Errorf("project %s has no client email", p.ID)
	}

	reqBody := sendIn{
		From: mailAddress{Email: c.from, Name: "Mementiq"},
		Personalizations: []personalization{{
			To: []mailAddress{{Email: p.ClientEmail}},
			TemplateData: map[string]interface{}{
				"project_title":  p.Title,
				"view_url":       viewURL,
				"revision_count": p.RevisionCount,
			},
		}},
		TemplateID: c.templateID,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/mail/send", bytes.NewBuffer(jsonData))
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

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to send delivery email: status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}
