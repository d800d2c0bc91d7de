package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/haulplan/eld-backend/pkg/jwt"
)

// ClientContextKey is the key used to store client information in Gin context
const ClientContextKey = "client"

// ClientContext represents the authenticated API client's information
type ClientContext struct {
	ClientID string   `json:"client_id"`
	Scopes   []string `json:"scopes"`
	TokenID  string   `json:"token_id"`
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logrus.Warnf("AUTH FAILED: Missing authorization header - Path: %s, IP: %s", c.Request.URL.Path, c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required",
				"code":    "MISSING_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		// Check Bearer token format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			logrus.Warnf("AUTH FAILED: Invalid auth format - Path: %s, IP: %s", c.Request.URL.Path, c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])

		// Check if token is empty
		if tokenString == "" {
			logrus.Warnf("AUTH FAILED: Empty token - Path: %s, IP: %s", c.Request.URL.Path, c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Token cannot be empty",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		// Validate token
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			// Check if token is expired
			if jwtService.IsTokenExpired(tokenString) {
				logrus.Warnf("AUTH FAILED: Token expired - Path: %s, IP: %s, Error: %v", c.Request.URL.Path, c.ClientIP(), err)
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "token_expired",
					"message": "Access token has expired. Please request a new token.",
					"code":    "TOKEN_EXPIRED",
				})
			} else {
				logrus.Warnf("AUTH FAILED: Invalid token - Path: %s, IP: %s, Error: %v", c.Request.URL.Path, c.ClientIP(), err)
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "invalid_token",
					"message": "Invalid access token",
					"code":    "INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		// Create client context
		clientContext := ClientContext{
			ClientID: claims.ClientID,
			Scopes:   claims.Scopes,
			TokenID:  claims.ID,
		}

		// Set client context in Gin context
		c.Set(ClientContextKey, clientContext)

		// Continue to next handler
		c.Next()
	}
}

// RequireScope creates a middleware that checks if the client has a required scope
func RequireScope(scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get client context
		clientCtx, exists := GetClientContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Client context not found. Auth middleware may not be applied.",
				"code":    "MISSING_CLIENT_CONTEXT",
			})
			c.Abort()
			return
		}

		// Check if client has any of the required scopes
		hasScope := false
		for _, requiredScope := range scopes {
			for _, clientScope := range clientCtx.Scopes {
				if clientScope == requiredScope {
					hasScope = true
					break
				}
			}
			if hasScope {
				break
			}
		}

		if !hasScope {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "You don't have permission to access this resource",
				"code":    "INSUFFICIENT_SCOPE",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetClientContext retrieves the client context from Gin context
func GetClientContext(c *gin.Context) (ClientContext, bool) {
	value, exists := c.Get(ClientContextKey)
	if !exists {
		return ClientContext{}, false
	}

	clientCtx, ok := value.(ClientContext)
	if !ok {
		return ClientContext{}, false
	}

	return clientCtx, true
}

// MustGetClientContext retrieves the client context or panics (use only after AuthMiddleware)
func MustGetClientContext(c *gin.Context) ClientContext {
	clientCtx, exists := GetClientContext(c)
	if !exists {
		panic("client context not found - ensure AuthMiddleware is applied")
	}
	return clientCtx
}
