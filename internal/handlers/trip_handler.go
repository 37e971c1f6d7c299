package handlers

import (
	"net/http"
	"strconv"

	"github.com/flickmobile/navigation-backend/internal/database"
	"github.com/flickmobile/navigation-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TripHandler handles the trip history endpoints
type TripHandler struct {
	tripRepo *database.TripLogRepository
	logger   *logrus.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripRepo *database.TripLogRepository, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		tripRepo: tripRepo,
		logger:   logger,
	}
}

// List handles GET /trips?limit=20
func (h *TripHandler) List(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	trips, err := h.tripRepo.ListRecent(deviceCtx.DeviceID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list trips")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list trips",
			"code":    "TRIP_LIST_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}

// Stats handles GET /trips/stats
func (h *TripHandler) Stats(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	stats, err := h.tripRepo.GetStats(deviceCtx.DeviceID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get trip stats")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get trip stats",
			"code":    "TRIP_STATS_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
