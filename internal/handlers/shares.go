package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"mementiq-backend/internal/delivery"
	"mementiq-backend/internal/middleware"
	"mementiq-backend/internal/models"
	"mementiq-backend/internal/shares"
)

// ProjectGetter is the slice of the project store the handlers read.
type ProjectGetter interface {
	GetProject(projectID uuid.UUID) (*models.Project, error)
}

// LinkResolver resolves the public link for a project's asset.
type LinkResolver interface {
	Resolve(p *models.Project, asset models.Candidate, commentsEnabled bool) (*shares.Resolution, error)
}

type SharesHandler struct {
	db        ProjectGetter
	collector *delivery.Collector
	selector  *delivery.Selector
	resolver  LinkResolver
}

func NewSharesHandler(db ProjectGetter, collector *delivery.Collector, selector *delivery.Selector, resolver LinkResolver) *SharesHandler {
	return &SharesHandler{
		db:        db,
		collector: collector,
		selector:  selector,
		resolver:  resolver,
	}
}

// ResolveShareLink godoc
// @Summary     Resolve the public share link for a project
// @Description Returns the durable public viewing link for the project's delivered video, minting a new share only when no usable one exists. Callable independently of the delivery scanner.
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID"
// @Param       request body models.ResolveShareRequest false "Resolution options"
// @Success     200 {object} models.ShareLinkResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id}/share-link [post]
func (h *SharesHandler) ResolveShareLink(c *gin.Context) {
	project, ok := authorizedProject(c, h.db)
	if !ok {
		return
	}

	var req models.ResolveShareRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid request body",
				Message: err.Error(),
			})
			return
		}
	}

	if !project.MediaFolderRef.Valid || project.MediaFolderRef.String == "" {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "project has no media folder"})
		return
	}

	candidates, err := h.collector.Collect(project.MediaFolderRef.String)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "failed to list project assets",
			Message: err.Error(),
		})
		return
	}

	asset, found := h.pickAsset(candidates, req.AssetID)
	if !found {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "no delivered video found for project"})
		return
	}

	commentsEnabled := true
	if req.CommentsEnabled != nil {
		commentsEnabled = *req.CommentsEnabled
	}

	res, err := h.resolver.Resolve(project, asset, commentsEnabled)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to resolve share link",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.ShareLinkResponse{
		ProjectID: project.ID.String(),
		URL:       res.URL,
		ShareID:   res.ShareID,
		Source:    string(res.Source),
	})
}

// pickAsset selects the requested asset, or the most recent video when
// no asset id was given (no cutoff applies on this path).
func (h *SharesHandler) pickAsset(candidates []models.Candidate, assetID string) (models.Candidate, bool) {
	if assetID != "" {
		for _, cand := range candidates {
			if cand.AssetID == assetID {
				return cand, true
			}
		}
		return models.Candidate{}, false
	}
	return h.selector.SelectWinner(candidates, nil)
}

// authorizedProject loads the path project and checks it belongs to the
// authenticated user.
func authorizedProject(c *gin.Context, db ProjectGetter) (*models.Project, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return nil, false
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return nil, false
	}

	project, err := db.GetProject(projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "project not found",
			Message: err.Error(),
		})
		return nil, false
	}

	if project.UserID != userID {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "project not found"})
		return nil, false
	}

	return project, true
}
