package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"mementiq-backend/internal/config"
	"mementiq-backend/internal/handlers"
	"mementiq-backend/internal/models"
)

func webhookRouter(scanner *stubScanner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{FrameioWebhookToken: "hook-secret"}
	router := gin.New()
	h := handlers.NewWebhookHandler(cfg, &fakeMappings{}, scanner)
	router.POST("/webhooks/frameio", h.HandleWebhook)
	return router
}

func TestHandleWebhook_MissingToken(t *testing.T) {
	router := webhookRouter(&stubScanner{})

	req, _ := http.NewRequest("POST", "/webhooks/frameio", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleWebhook_InvalidToken(t *testing.T) {
	router := webhookRouter(&stubScanner{})

	req, _ := http.NewRequest("POST", "/webhooks/frameio", bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleWebhook_AssetEventTriggersScan(t *testing.T) {
	scanner := &stubScanner{
		report: &models.ScanReport{},
		called: make(chan struct{}, 1),
	}
	router := webhookRouter(scanner)

	body := bytes.NewBufferString(`{"type":"asset.ready","resource":{"type":"file","id":"asset-1"}}`)
	req, _ := http.NewRequest("POST", "/webhooks/frameio", body)
	req.Header.Set("Authorization", "Bearer hook-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	select {
	case <-scanner.called:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an asynchronous scan after an asset event")
	}
}

func TestHandleWebhook_NonAssetEventIgnored(t *testing.T) {
	scanner := &stubScanner{
		report: &models.ScanReport{},
		called: make(chan struct{}, 1),
	}
	router := webhookRouter(scanner)

	body := bytes.NewBufferString(`{"type":"comment.created","resource":{"type":"comment","id":"c-1"}}`)
	req, _ := http.NewRequest("POST", "/webhooks/frameio", body)
	req.Header.Set("Authorization", "Bearer hook-secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	select {
	case <-scanner.called:
		t.Fatal("non-asset events must not trigger a scan")
	case <-time.After(100 * time.Millisecond):
	}
}
