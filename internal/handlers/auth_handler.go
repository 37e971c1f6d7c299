package handlers

import (
	"errors"
	"net/http"

	"github.com/flickmobile/navigation-backend/internal/database"
	"github.com/flickmobile/navigation-backend/internal/middleware"
	"github.com/flickmobile/navigation-backend/internal/models"
	"github.com/flickmobile/navigation-backend/internal/utils"
	"github.com/flickmobile/navigation-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles device pairing and token lifecycle
type AuthHandler struct {
	deviceRepo      *database.DeviceRepository
	tokenRepo       *database.RefreshTokenRepository
	jwtService      *jwt.Service
	logger          *logrus.Logger
	pairingCodeHash []byte
	voiceDefault    bool
}

// NewAuthHandler creates a new auth handler. The plaintext pairing code is
// hashed once at boot and only the hash is kept in memory.
func NewAuthHandler(
	deviceRepo *database.DeviceRepository,
	tokenRepo *database.RefreshTokenRepository,
	jwtService *jwt.Service,
	logger *logrus.Logger,
	pairingCode string,
	voiceDefault bool,
) (*AuthHandler, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pairingCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &AuthHandler{
		deviceRepo:      deviceRepo,
		tokenRepo:       tokenRepo,
		jwtService:      jwtService,
		logger:          logger,
		pairingCodeHash: hash,
		voiceDefault:    voiceDefault,
	}, nil
}

// Pair handles POST /auth/pair — registers a new shell device
func (h *AuthHandler) Pair(c *gin.Context) {
	var req models.PairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "device_name and pairing_code are required",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	// Step 1: verify the pairing code
	if err := bcrypt.CompareHashAndPassword(h.pairingCodeHash, []byte(req.PairingCode)); err != nil {
		h.logger.WithFields(logrus.Fields{
			"device_name": req.DeviceName,
			"ip":          utils.GetRealIP(c),
		}).Warn("Pairing attempt with wrong code")

		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Invalid pairing code",
			"code":    "INVALID_PAIRING_CODE",
		})
		return
	}

	// Step 2: derive the platform from the User-Agent when not given
	userAgent := utils.GetUserAgent(c)
	platform := req.Platform
	if platform == "" {
		ua := user_agent.New(userAgent)
		platform = ua.OS()
		if platform == "" {
			platform = "unknown"
		}
	}

	// Step 3: register the device
	device, err := h.deviceRepo.CreateDevice(req.DeviceName, platform, userAgent, utils.GetRealIP(c), h.voiceDefault)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create device")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to register device",
			"code":    "DEVICE_CREATE_FAILED",
		})
		return
	}

	// Step 4: issue the token pair
	resp, err := h.issueTokens(device)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue tokens after pairing")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to issue tokens",
			"code":    "TOKEN_ISSUE_FAILED",
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"device_id":   device.ID,
		"device_name": device.Name,
		"platform":    device.Platform,
	}).Info("Device paired")

	c.JSON(http.StatusCreated, resp)
}

// RefreshToken handles POST /auth/refresh-token — rotates the token pair
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "refresh_token is required",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	// Step 1: validate the token signature and type
	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_token",
			"message": "Invalid or expired refresh token",
			"code":    "INVALID_REFRESH_TOKEN",
		})
		return
	}

	// Step 2: the token must still be on record and unrevoked
	stored, err := h.tokenRepo.GetRefreshToken(req.RefreshToken)
	if err != nil {
		h.logger.WithError(err).Error("Failed to look up refresh token")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to validate refresh token",
			"code":    "TOKEN_LOOKUP_FAILED",
		})
		return
	}
	if stored == nil || stored.Revoked {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid_token",
			"message": "Refresh token has been revoked",
			"code":    "TOKEN_REVOKED",
		})
		return
	}

	// Step 3: the device must still be paired
	device, err := h.deviceRepo.GetDeviceByID(claims.DeviceID)
	if err != nil || device.Revoked {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Device is no longer paired",
			"code":    "DEVICE_REVOKED",
		})
		return
	}

	// Step 4: rotate — revoke the old token before issuing a new pair
	if err := h.tokenRepo.RevokeToken(req.RefreshToken); err != nil {
		h.logger.WithError(err).Warn("Failed to revoke rotated refresh token")
	}

	resp, err := h.issueTokens(device)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue rotated tokens")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to issue tokens",
			"code":    "TOKEN_ISSUE_FAILED",
		})
		return
	}
	resp.Device = nil // refresh responses carry tokens only

	go func() {
		if err := h.deviceRepo.UpdateLastSeen(device.ID); err != nil {
			h.logger.WithError(err).Warn("Failed to update device last seen")
		}
	}()

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout — revokes all of the device's refresh tokens
func (h *AuthHandler) Logout(c *gin.Context) {
	deviceCtx, ok := middleware.GetDeviceContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Device context not found",
			"code":    "MISSING_DEVICE_CONTEXT",
		})
		return
	}

	if err := h.tokenRepo.RevokeDeviceTokens(deviceCtx.DeviceID); err != nil {
		h.logger.WithError(err).Error("Failed to revoke device tokens")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to logout",
			"code":    "LOGOUT_FAILED",
		})
		return
	}

	h.logger.WithField("device_id", deviceCtx.DeviceID).Info("Device logged out")

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// ListDevices handles GET /auth/devices — admin view of paired devices
func (h *AuthHandler) ListDevices(c *gin.Context) {
	devices, err := h.deviceRepo.ListDevices()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list devices")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list devices",
			"code":    "DEVICE_LIST_FAILED",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"devices": devices,
		"count":   len(devices),
	})
}

// RevokeDevice handles DELETE /auth/devices/:id — unpairs a device
func (h *AuthHandler) RevokeDevice(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid device ID",
			"code":    "INVALID_DEVICE_ID",
		})
		return
	}

	if err := h.deviceRepo.RevokeDevice(deviceID); err != nil {
		if errors.Is(err, database.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "Device not found",
				"code":    "DEVICE_NOT_FOUND",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to revoke device")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to revoke device",
			"code":    "DEVICE_REVOKE_FAILED",
		})
		return
	}

	if err := h.tokenRepo.RevokeDeviceTokens(deviceID); err != nil {
		h.logger.WithError(err).Warn("Failed to revoke tokens for revoked device")
	}

	h.logger.WithField("device_id", deviceID).Info("Device revoked")

	c.JSON(http.StatusOK, gin.H{
		"message": "Device revoked",
	})
}

// issueTokens generates and stores a token pair for a device
func (h *AuthHandler) issueTokens(device *models.Device) (*models.AuthResponse, error) {
	accessToken, err := h.jwtService.GenerateAccessToken(device.ID, device.Name, []string{jwt.RoleShell})
	if err != nil {
		return nil, err
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(device.ID, device.Name)
	if err != nil {
		return nil, err
	}

	expiresAt, err := h.jwtService.GetTokenExpiry(refreshToken)
	if err != nil {
		return nil, err
	}

	if err := h.tokenRepo.StoreRefreshToken(device.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Device:       device,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(h.jwtService.AccessTokenExpiry().Seconds()),
	}, nil
}
