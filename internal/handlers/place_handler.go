package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/flickmobile/navigation-backend/internal/database"
	"github.com/flickmobile/navigation-backend/internal/middleware"
	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/flickmobile/navigation-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PlaceHandler handles place search, favorites, and search history
type PlaceHandler struct {
	geocodeSvc   *services.GeocodeService
	favoriteRepo *database.FavoriteRepository
	historyRepo  *database.SearchHistoryRepository
	logger       *logrus.Logger
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(
	geocodeSvc *services.GeocodeService,
	favoriteRepo *database.FavoriteRepository,
	historyRepo *database.SearchHistoryRepository,
	logger *logrus.Logger,
) *PlaceHandler {
	return &PlaceHandler{
		geocodeSvc:   geocodeSvc,
		favoriteRepo: favoriteRepo,
		historyRepo:  historyRepo,
		logger:       logger,
	}
}

// Search handles GET /places/search?q=query&limit=5
func (h *PlaceHandler) Search(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	places, err := h.geocodeSvc.Search(c.Request.Context(), deviceCtx.DeviceID, query, limit)
	if err != nil {
		var validationErr *models.ValidationError
		var rateLimitErr *services.RateLimitError

		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": validationErr.Message,
				"code":    "INVALID_REQUEST",
			})

		case errors.As(err, &rateLimitErr):
			c.Header("Retry-After", strconv.Itoa(int(time.Until(rateLimitErr.RetryAfter).Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limited",
				"message":     rateLimitErr.Message,
				"code":        "SEARCH_RATE_LIMITED",
				"retry_after": rateLimitErr.RetryAfter,
			})

		default:
			h.logger.WithError(err).Error("Place search failed")
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "bad_gateway",
				"message": "Geocoding service is unavailable",
				"code":    "GEOCODING_UNAVAILABLE",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"places": places,
		"count":  len(places),
	})
}

// ListFavorites handles GET /places/favorites
func (h *PlaceHandler) ListFavorites(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	favorites, err := h.favoriteRepo.ListFavorites(deviceCtx.DeviceID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list favorites")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list favorite places",
			"code":    "FAVORITE_LIST_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// CreateFavorite handles POST /places/favorites
func (h *PlaceHandler) CreateFavorite(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	var req models.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "name is required",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	favorite, err := h.favoriteRepo.CreateFavorite(deviceCtx.DeviceID, &req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create favorite")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to save favorite place",
			"code":    "FAVORITE_CREATE_FAILED",
		})
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

// UpdateFavorite handles PUT /places/favorites/:id
func (h *PlaceHandler) UpdateFavorite(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	favoriteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid favorite ID",
			"code":    "INVALID_FAVORITE_ID",
		})
		return
	}

	var req models.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "name is required",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	if err := h.favoriteRepo.UpdateFavorite(favoriteID, deviceCtx.DeviceID, &req); err != nil {
		if errors.Is(err, database.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Favorite place not found",
				"code":    "FAVORITE_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to update favorite")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to update favorite place",
			"code":    "FAVORITE_UPDATE_FAILED",
		})
		return
	}

	favorite, err := h.favoriteRepo.GetFavoriteByID(favoriteID, deviceCtx.DeviceID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to reload favorite after update")
		c.JSON(http.StatusOK, gin.H{"message": "Favorite updated"})
		return
	}

	c.JSON(http.StatusOK, favorite)
}

// DeleteFavorite handles DELETE /places/favorites/:id
func (h *PlaceHandler) DeleteFavorite(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	favoriteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid favorite ID",
			"code":    "INVALID_FAVORITE_ID",
		})
		return
	}

	if err := h.favoriteRepo.DeleteFavorite(favoriteID, deviceCtx.DeviceID); err != nil {
		if errors.Is(err, database.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Favorite place not found",
				"code":    "FAVORITE_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to delete favorite")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to delete favorite place",
			"code":    "FAVORITE_DELETE_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Favorite deleted",
	})
}

// History handles GET /places/history?limit=20
func (h *PlaceHandler) History(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.historyRepo.ListRecent(deviceCtx.DeviceID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list search history")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list search history",
			"code":    "HISTORY_LIST_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": entries,
		"count":   len(entries),
	})
}

// ClearHistory handles DELETE /places/history
func (h *PlaceHandler) ClearHistory(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		respondMissingDeviceContext(c)
		return
	}

	deleted, err := h.historyRepo.DeleteForDevice(deviceCtx.DeviceID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to clear search history")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to clear search history",
			"code":    "HISTORY_CLEAR_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Search history cleared",
		"deleted": deleted,
	})
}
