package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mementiq-backend/internal/handlers"
	"mementiq-backend/internal/models"
)

func TestGetDeliveryStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := &fakeProjects{projects: map[uuid.UUID]*models.Project{
		projectID: {
			ID:               projectID,
			UserID:           userID,
			Title:            "Wedding Film",
			Status:           models.StatusVideoReady,
			RevisionCount:    2,
			DeliveryShareURL: nullString("https://f.io/abc123"),
		},
	}}

	router := gin.New()
	router.Use(setUser(userID))
	router.GET("/projects/:project_id/delivery-status", handlers.NewStatusHandler(db).GetDeliveryStatus)

	req, _ := http.NewRequest("GET", "/projects/"+projectID.String()+"/delivery-status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"video is ready"`)
	assert.Contains(t, w.Body.String(), `"revision_count":2`)
	assert.Contains(t, w.Body.String(), "https://f.io/abc123")
}

func TestGetDeliveryStatus_MissingUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := &fakeProjects{projects: map[uuid.UUID]*models.Project{}}

	router := gin.New()
	router.GET("/projects/:project_id/delivery-status", handlers.NewStatusHandler(db).GetDeliveryStatus)

	req, _ := http.NewRequest("GET", "/projects/"+projectID.String()+"/delivery-status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
