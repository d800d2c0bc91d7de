package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/haulplan/eld-backend/internal/models"
	"github.com/haulplan/eld-backend/internal/services"
)

// TripHandler handles HTTP requests for trip planning
type TripHandler struct {
	service *services.TripService
	logger  *logrus.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(service *services.TripService, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		logger:  logger,
	}
}

// PlanTrip handles POST /api/v1/trips/plan
// @Summary Plan an HOS-compliant trip
// @Description Compute a full duty schedule, daily logs and compliance audit for a trip
// @Tags Trips
// @Accept json
// @Produce json
// @Param trip body models.PlanTripRequest true "Trip parameters"
// @Success 200 {object} models.TripPlan
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/trips/plan [post]
func (h *TripHandler) PlanTrip(c *gin.Context) {
	var req models.PlanTripRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid plan request - JSON parsing failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request format",
			"error":   err.Error(),
		})
		return
	}

	plan, err := h.service.PlanTrip(c.Request.Context(), &req)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			h.logger.WithError(err).Warn("Validation error in plan request")
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": err.Error(),
			})
			return
		}
		if errors.Is(err, models.ErrInsufficientInput) {
			h.logger.WithError(err).Warn("Plan request missing route input")
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": err.Error(),
			})
			return
		}

		h.logger.WithError(err).Error("Failed to plan trip")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to plan trip. Please try again later.",
			"error":   err.Error(),
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"trip_id":     plan.TripID,
		"total_miles": plan.TotalDistanceMiles,
		"compliant":   plan.Compliance.Compliant,
	}).Info("Trip plan request completed")

	c.JSON(http.StatusOK, plan)
}

// ListTrips handles GET /api/v1/trips
// @Summary List stored trips
// @Description Get recent trip plans, newest first
// @Tags Trips
// @Accept json
// @Produce json
// @Param limit query int false "Maximum number of trips" default(20)
// @Param offset query int false "Number of trips to skip" default(0)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/trips [get]
func (h *TripHandler) ListTrips(c *gin.Context) {
	// Get limit from query params (default: 20)
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset > 0 {
			offset = parsedOffset
		}
	}

	trips, err := h.service.ListTrips(limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list trips")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve trips",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"trips":  trips,
		"count":  len(trips),
	})
}

// GetTrip handles GET /api/v1/trips/:id
// @Summary Get a stored trip plan
// @Description Get the full plan document for a stored trip
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} models.Trip
// @Failure 404 {object} map[string]interface{} "Trip not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/trips/{id} [get]
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID := c.Param("id")

	trip, err := h.service.GetTrip(tripID)
	if err != nil {
		if errors.Is(err, models.ErrTripNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Trip not found",
			})
			return
		}

		h.logger.WithError(err).Error("Failed to get trip")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve trip",
		})
		return
	}

	c.JSON(http.StatusOK, trip)
}

// DeleteTrip handles DELETE /api/v1/trips/:id
// @Summary Delete a stored trip
// @Description Remove a stored trip plan
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Trip not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/trips/{id} [delete]
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	tripID := c.Param("id")

	if err := h.service.DeleteTrip(tripID); err != nil {
		if errors.Is(err, models.ErrTripNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Trip not found",
			})
			return
		}

		h.logger.WithError(err).Error("Failed to delete trip")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete trip",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Trip deleted successfully",
	})
}

// GetELDLogs handles GET /api/v1/trips/:id/eld-pdf
// @Summary Download ELD log sheets
// @Description Render the trip's daily logs as an FMCSA-format PDF
// @Tags Trips
// @Accept json
// @Produce application/pdf
// @Param id path string true "Trip ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{} "Trip not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/trips/{id}/eld-pdf [get]
func (h *TripHandler) GetELDLogs(c *gin.Context) {
	tripID := c.Param("id")

	data, filename, err := h.service.GenerateELDLogs(tripID)
	if err != nil {
		if errors.Is(err, models.ErrTripNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Trip not found",
			})
			return
		}

		h.logger.WithError(err).Error("Failed to generate ELD logs")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to generate ELD log sheets",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
