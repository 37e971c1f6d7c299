package handlers

import (
	"errors"
	"net/http"

	"github.com/flickmobile/navigation-backend/internal/middleware"
	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/flickmobile/navigation-backend/internal/services"
	"github.com/flickmobile/navigation-backend/pkg/routing"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NavigationHandler handles the navigation session endpoints
type NavigationHandler struct {
	navigationSvc *services.NavigationService
	logger        *logrus.Logger
}

// NewNavigationHandler creates a new navigation handler
func NewNavigationHandler(navigationSvc *services.NavigationService, logger *logrus.Logger) *NavigationHandler {
	return &NavigationHandler{
		navigationSvc: navigationSvc,
		logger:        logger,
	}
}

// Start handles POST /navigation/start
func (h *NavigationHandler) Start(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	var req models.StartNavigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "\"to\" coordinate is required",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	if err := req.To.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_COORDINATE",
		})
		return
	}
	if req.From != nil {
		if err := req.From.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": err.Error(),
				"code":    "INVALID_COORDINATE",
			})
			return
		}
	}

	state, err := h.navigationSvc.StartNavigation(c.Request.Context(), deviceCtx.DeviceID, &req)
	if err != nil {
		h.respondStartError(c, err)
		return
	}

	c.JSON(http.StatusCreated, state)
}

// Position handles POST /navigation/position — one guidance tick
func (h *NavigationHandler) Position(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	var req models.PositionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "lat and lon are required",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	coord := models.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := coord.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_COORDINATE",
		})
		return
	}

	resp, err := h.navigationSvc.UpdatePosition(deviceCtx.DeviceID, req.Latitude, req.Longitude)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSession) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "No active navigation session",
				"code":    "NO_ACTIVE_SESSION",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to process position update")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to process position update",
			"code":    "POSITION_UPDATE_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// State handles GET /navigation/state — inactive is a valid 200 response
func (h *NavigationHandler) State(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	c.JSON(http.StatusOK, h.navigationSvc.GetState(deviceCtx.DeviceID))
}

// Stop handles POST /navigation/stop — idempotent
func (h *NavigationHandler) Stop(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	h.navigationSvc.StopNavigation(deviceCtx.DeviceID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Navigation stopped",
	})
}

// Voice handles PUT /navigation/voice
func (h *NavigationHandler) Voice(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	var req models.VoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "enabled is required",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	if err := h.navigationSvc.SetVoiceEnabled(deviceCtx.DeviceID, *req.Enabled); err != nil {
		h.logger.WithError(err).Error("Failed to set voice preference")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to set voice preference",
			"code":    "VOICE_UPDATE_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"voice_enabled": *req.Enabled,
	})
}

// respondStartError maps route fetch and session errors to HTTP responses
func (h *NavigationHandler) respondStartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoKnownPosition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "unprocessable",
			"message": "No known position for this device; include \"from\" or send a position update first",
			"code":    "NO_KNOWN_POSITION",
		})

	case errors.Is(err, services.ErrRouteSuperseded):
		// A newer start for this device won the race; this response is moot
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": "Request superseded by a newer navigation start",
			"code":    "ROUTE_SUPERSEDED",
		})

	case errors.Is(err, routing.ErrNoRoute), errors.Is(err, routing.ErrEmptyRoute):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "unprocessable",
			"message": "No route found between the given points",
			"code":    "EMPTY_ROUTE",
		})

	default:
		h.logger.WithError(err).Error("Route fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "bad_gateway",
			"message": "Routing service is unavailable",
			"code":    "ROUTING_UNAVAILABLE",
		})
	}
}

// respondMissingDeviceContext reports a missing auth context. Only reachable
// when a route is registered without the auth middleware.
func respondMissingDeviceContext(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": "Device context not found",
		"code":    "MISSING_DEVICE_CONTEXT",
	})
}
