package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flickmobile/navigation-backend/internal/guidance"
	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/flickmobile/navigation-backend/pkg/routing"
	"github.com/flickmobile/navigation-backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RouteHandler handles route preview requests
type RouteHandler struct {
	provider       routing.Provider
	coordValidator *validator.CoordinateValidator
	logger         *logrus.Logger
	requestTimeout time.Duration
	defaultProfile string
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(provider routing.Provider, logger *logrus.Logger, requestTimeout time.Duration, defaultProfile string) *RouteHandler {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	if defaultProfile == "" {
		defaultProfile = "driving"
	}
	return &RouteHandler{
		provider:       provider,
		coordValidator: validator.NewCoordinateValidator(),
		logger:         logger,
		requestTimeout: requestTimeout,
		defaultProfile: defaultProfile,
	}
}

// Preview handles GET /routes/preview?from=lat,lon&to=lat,lon&profile=driving.
// Returns the formatted step list without starting a session.
func (h *RouteHandler) Preview(c *gin.Context) {
	fromLat, fromLon, err := h.coordValidator.Validate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "from: " + err.Error(),
			"code":    "INVALID_COORDINATE",
		})
		return
	}

	toLat, toLon, err := h.coordValidator.Validate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "to: " + err.Error(),
			"code":    "INVALID_COORDINATE",
		})
		return
	}

	profile := c.DefaultQuery("profile", h.defaultProfile)

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	route, err := h.provider.GetRoute(
		ctx,
		routing.Point{Latitude: fromLat, Longitude: fromLon},
		routing.Point{Latitude: toLat, Longitude: toLon},
		profile,
	)
	if err != nil {
		if errors.Is(err, routing.ErrNoRoute) || errors.Is(err, routing.ErrEmptyRoute) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "unprocessable",
				"message": "No route found between the given points",
				"code":    "EMPTY_ROUTE",
			})
			return
		}
		h.logger.WithError(err).Error("Route preview fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "bad_gateway",
			"message": "Routing service is unavailable",
			"code":    "ROUTING_UNAVAILABLE",
		})
		return
	}

	steps := route.Steps()
	previewSteps := make([]models.RoutePreviewStep, 0, len(steps))
	for _, step := range steps {
		previewSteps = append(previewSteps, models.RoutePreviewStep{
			Instruction: guidance.SpokenInstruction(step),
			ShortLabel:  guidance.ShortLabel(step),
			Road:        step.RoadName,
			DistanceM:   step.DistanceM,
			Maneuver:    string(step.Maneuver),
			Location: models.Coordinate{
				Latitude:  step.Location.Latitude,
				Longitude: step.Location.Longitude,
			},
		})
	}

	c.JSON(http.StatusOK, models.RoutePreviewResponse{
		Provider: h.provider.Name(),
		Profile:  profile,
		Route: models.RouteSummary{
			DistanceM: route.DistanceM,
			DurationS: route.DurationS,
		},
		Steps: previewSteps,
	})
}
