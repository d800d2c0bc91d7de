package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/haulplan/eld-backend/pkg/jwt"
)

// defaultClientID is used when a token request omits client_id.
const defaultClientID = "api-client"

// fullScopes is granted to every client that presents a valid API key.
var fullScopes = []string{"trips:read", "trips:write", "trips:admin"}

// AuthHandler exchanges pre-shared API keys for short-lived access tokens.
type AuthHandler struct {
	jwtService *jwt.Service
	apiKeyHash string
	logger     *logrus.Logger
}

// NewAuthHandler creates a new auth handler. apiKeyHash is the bcrypt hash
// of the accepted API key.
func NewAuthHandler(jwtService *jwt.Service, apiKeyHash string, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		jwtService: jwtService,
		apiKeyHash: apiKeyHash,
		logger:     logger,
	}
}

// TokenRequest is the body for POST /api/v1/auth/token.
type TokenRequest struct {
	APIKey   string `json:"api_key" binding:"required"`
	ClientID string `json:"client_id"`
}

// IssueToken exchanges an API key for a bearer token
// @Summary Issue access token
// @Description Validates the presented API key and returns a signed JWT granting all trip scopes
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "API key and optional client identifier"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request format",
			"error":   err.Error(),
		})
		return
	}

	if h.apiKeyHash == "" {
		h.logger.Error("Token request received but no API key hash is configured")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Authentication is not configured",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.apiKeyHash), []byte(req.APIKey)); err != nil {
		h.logger.Warnf("AUTH FAILED: Invalid API key - ClientID: %s, IP: %s", req.ClientID, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Invalid API key",
		})
		return
	}

	clientID := req.ClientID
	if clientID == "" {
		clientID = defaultClientID
	}

	token, err := h.jwtService.GenerateToken(clientID, fullScopes)
	if err != nil {
		h.logger.Errorf("Failed to generate access token for %s: %v", clientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to issue token. Please try again later.",
		})
		return
	}

	expiresAt, err := h.jwtService.GetTokenExpiry(token)
	if err != nil {
		h.logger.Errorf("Failed to read expiry of issued token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to issue token. Please try again later.",
		})
		return
	}

	h.logger.Infof("Issued access token for client %s (expires %s)", clientID, expiresAt.Format(time.RFC3339))

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(time.Until(expiresAt).Seconds()),
		"scopes":       fullScopes,
	})
}
