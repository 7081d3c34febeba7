package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportWorkouts godoc
// @Summary Export the caller's workouts
// @Description Stores the workouts as a JSON file and returns a temporary download link.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ExportResult
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/export [get]
func (h *ExportHandler) ExportWorkouts(c *gin.Context) {
	session, err := getSessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	result, err := h.exportService.ExportWorkouts(c.Request.Context(), session.UserID)
	if err != nil {
		log.Errorf("export workouts of %s: %s", session.UserID.Hex(), err)
		if errors.Is(err, service.ErrDownloadURLError) {
			abortWithError(c, http.StatusInternalServerError, "Could not generate download URL.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to export workouts.")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
