package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"mementiq-backend/internal/config"
	"mementiq-backend/internal/models"
)

// AssetMappingStore maps pushed asset events back to a project via the
// share/asset correlation rows written by the resolver.
type AssetMappingStore interface {
	GetMappingByAssetID(assetID string) (*models.ShareAssetMapping, error)
}

type WebhookHandler struct {
	config   *config.Config
	mappings AssetMappingStore
	scanner  ScanTrigger
}

func NewWebhookHandler(cfg *config.Config, mappings AssetMappingStore, scanner ScanTrigger) *WebhookHandler {
	return &WebhookHandler{
		config:   cfg,
		mappings: mappings,
		scanner:  scanner,
	}
}

// FrameioWebhookEvent represents a Frame.io webhook event payload.
type FrameioWebhookEvent struct {
	Type     string `json:"type"` // e.g. "asset.ready", "asset.versioned"
	Resource struct {
		Type     string `json:"type"`
		ID       string `json:"id"`
		ParentID string `json:"parent_id,omitempty"`
	} `json:"resource"`
}

// HandleWebhook godoc
// @Summary     Frame.io webhook endpoint
// @Description Receives asset lifecycle callbacks from the asset store. Asset events kick an asynchronous delivery scan; the periodic scanner remains the source of truth.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       Authorization header string true "Webhook token"
// @Success     200 {object} map[string]string "status"
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /webhooks/frameio [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing authorization token"})
		return
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	token = strings.TrimSpace(token)

	if h.config.FrameioWebhookToken != "" && token != h.config.FrameioWebhookToken {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid authorization token"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read request body",
			Message: err.Error(),
		})
		return
	}

	var event FrameioWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse event",
			Message: err.Error(),
		})
		return
	}

	if strings.HasPrefix(event.Type, "asset.") {
		if mapping, err := h.mappings.GetMappingByAssetID(event.Resource.ID); err == nil && mapping != nil {
			log.Printf("Webhook %s for asset %s maps to project %s", event.Type, event.Resource.ID, mapping.ProjectID)
		}

		// Push events only accelerate detection; the scan re-derives
		// everything from the store.
		go func() {
			if _, err := h.scanner.Scan(); err != nil {
				log.Printf("Webhook-triggered scan failed: %v", err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
