package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/haulplan/eld-backend/internal/hos"
	"github.com/haulplan/eld-backend/internal/models"
)

// HOSHandler handles HTTP requests for hours-of-service calculations
type HOSHandler struct {
	logger *logrus.Logger
}

// NewHOSHandler creates a new HOS handler
func NewHOSHandler(logger *logrus.Logger) *HOSHandler {
	return &HOSHandler{
		logger: logger,
	}
}

// RollingHours handles POST /api/v1/hos/rolling-hours
// @Summary Compute rolling weekly-cycle usage
// @Description Summarize trailing-window on-duty hours from submitted history
// @Tags HOS
// @Accept json
// @Produce json
// @Param history body models.RollingHoursRequest true "Daily on-duty history"
// @Success 200 {object} models.RollingHoursSummary
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/hos/rolling-hours [post]
func (h *HOSHandler) RollingHours(c *gin.Context) {
	var req models.RollingHoursRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid rolling hours request - JSON parsing failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request format",
			"error":   err.Error(),
		})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	mode := models.Weekly70h8d
	if req.WeeklyMode != "" {
		mode = models.WeeklyMode(req.WeeklyMode)
	}

	summary, err := hos.RollingHours(req.History, mode)
	if err != nil {
		if errors.Is(err, models.ErrNoValidLogs) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": err.Error(),
			})
			return
		}

		h.logger.WithError(err).Error("Failed to compute rolling hours")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to compute rolling hours",
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}
