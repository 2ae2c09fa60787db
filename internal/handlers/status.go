package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"mementiq-backend/internal/models"
)

type StatusHandler struct {
	db ProjectGetter
}

func NewStatusHandler(db ProjectGetter) *StatusHandler {
	return &StatusHandler{
		db: db,
	}
}

// GetDeliveryStatus godoc
// @Summary     Get project delivery status
// @Description Returns the project's status, revision count and cached share link.
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Success     200 {object} models.DeliveryStatusResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id}/delivery-status [get]
func (h *StatusHandler) GetDeliveryStatus(c *gin.Context) {
	project, ok := authorizedProject(c, h.db)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.DeliveryStatusResponse{
		ProjectID:     project.ID.String(),
		Status:        project.Status,
		RevisionCount: project.RevisionCount,
		ShareURL:      project.DeliveryShareURL.String,
		UpdatedAt:     project.UpdatedAt,
	})
}
