package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"mementiq-backend/internal/models"
)

// ScanTrigger is the part of the scanner the handler drives.
type ScanTrigger interface {
	Scan() (*models.ScanReport, error)
}

type ScanHandler struct {
	scanner ScanTrigger
}

func NewScanHandler(scanner ScanTrigger) *ScanHandler {
	return &ScanHandler{
		scanner: scanner,
	}
}

// TriggerScan godoc
// @Summary     Trigger a delivery scan
// @Description Runs a delivery detection scan over all projects in editing or revision and returns the per-project results. If a scan is already running the request waits and then runs its own.
// @Tags        deliveries
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ScanReport
// @Failure     500 {object} models.ErrorResponse
// @Router      /deliveries/scan [post]
func (h *ScanHandler) TriggerScan(c *gin.Context) {
	report, err := h.scanner.Scan()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "scan failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, report)
}
