package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mementiq-backend/internal/delivery"
	"mementiq-backend/internal/frameio"
	"mementiq-backend/internal/handlers"
	"mementiq-backend/internal/middleware"
	"mementiq-backend/internal/models"
	"mementiq-backend/internal/shares"
)

var (
	userID    = uuid.New()
	projectID = uuid.New()
)

func setUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id.String())
		c.Next()
	}
}

func shareRouter(t *testing.T, asUser uuid.UUID) (*gin.Engine, *fakeLinkResolver) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := &fakeProjects{projects: map[uuid.UUID]*models.Project{
		projectID: {
			ID:             projectID,
			UserID:         userID,
			Title:          "Wedding Film",
			Status:         models.StatusVideoReady,
			MediaFolderRef: nullString("folder-1"),
		},
	}}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	collector := delivery.NewCollector(&fakeLister{assets: []frameio.Asset{
		{ID: "old", Type: "file", Filetype: "video/mp4", InsertedAt: base},
		{ID: "new", Type: "file", Filetype: "video/mp4", InsertedAt: base.Add(time.Hour)},
		{ID: "doc", Type: "file", Filetype: "application/pdf", InsertedAt: base.Add(2 * time.Hour)},
	}})

	resolver := &fakeLinkResolver{res: &shares.Resolution{
		URL:     "https://f.io/abc123",
		ShareID: "share-1",
		Source:  shares.SourceFound,
	}}

	router := gin.New()
	router.Use(setUser(asUser))
	h := handlers.NewSharesHandler(db, collector, delivery.NewSelector(nil), resolver)
	router.POST("/projects/:project_id/share-link", h.ResolveShareLink)
	return router, resolver
}

func TestResolveShareLink_PicksLatestVideo(t *testing.T) {
	router, resolver := shareRouter(t, userID)

	req, _ := http.NewRequest("POST", "/projects/"+projectID.String()+"/share-link", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://f.io/abc123")
	assert.Contains(t, w.Body.String(), `"source":"found"`)
	// The newest video wins; the non-video asset is ignored.
	assert.Equal(t, "new", resolver.lastAsset.AssetID)
	assert.True(t, resolver.lastComments)
}

func TestResolveShareLink_PinnedAssetAndCommentPolicy(t *testing.T) {
	router, resolver := shareRouter(t, userID)

	body := bytes.NewBufferString(`{"asset_id":"old","comments_enabled":false}`)
	req, _ := http.NewRequest("POST", "/projects/"+projectID.String()+"/share-link", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "old", resolver.lastAsset.AssetID)
	assert.False(t, resolver.lastComments)
}

func TestResolveShareLink_UnknownAsset(t *testing.T) {
	router, _ := shareRouter(t, userID)

	body := bytes.NewBufferString(`{"asset_id":"missing"}`)
	req, _ := http.NewRequest("POST", "/projects/"+projectID.String()+"/share-link", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveShareLink_OtherUsersProject(t *testing.T) {
	router, _ := shareRouter(t, uuid.New())

	req, _ := http.NewRequest("POST", "/projects/"+projectID.String()+"/share-link", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Ownership mismatch reads the same as a missing project.
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveShareLink_UnknownProject(t *testing.T) {
	router, _ := shareRouter(t, userID)

	req, _ := http.NewRequest("POST", "/projects/"+uuid.New().String()+"/share-link", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
