package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"semillero.org/semillerodigital/internal/entity"
	userRepo "semillero.org/semillerodigital/internal/modules/user/repository"
	"semillero.org/semillerodigital/pkg/token"
)

type AuthMiddleware struct {
	userRepo userRepo.UserRepository
	tokens   *token.Service
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, tokens *token.Service) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RequireAuth validates the bearer token, loads the referenced user and
// attaches both the claims and the full record to the request context. Each
// failure mode gets its own 401 body so the SPA can react accordingly.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (used by the websocket client)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Acceso denegado",
				"message": "No se proporcionó token de autorización",
			})
			return
		}

		claims, err := m.tokens.Verify(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrExpiredToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "Token expirado",
					"message": "El token ha expirado, por favor inicia sesión nuevamente",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Token inválido",
				"message": "El token proporcionado no es válido",
			})
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Token inválido",
				"message": "Usuario no encontrado",
			})
			return
		}

		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Cuenta desactivada",
				"message": "Tu cuenta ha sido desactivada",
			})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", user.Role)
		c.Set("user", user)
		c.Next()
	}
}

// RequireRoles checks the caller's role against an allow-list.
func (m *AuthMiddleware) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("user_role")
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Acceso denegado",
				"message": "Debes estar autenticado para acceder a este recurso",
			})
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "Permisos insuficientes",
			"message": "Se requiere uno de los siguientes roles: " + strings.Join(roles, ", "),
		})
	}
}

// RequireGoogleToken ensures the authenticated user still holds a usable
// Google access token. Expiry is answered with requiresReauth so the client
// re-runs the OAuth flow instead of logging the user out.
func (m *AuthMiddleware) RequireGoogleToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		userValue, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Acceso denegado",
				"message": "Debes estar autenticado para acceder a este recurso",
			})
			return
		}

		user := userValue.(*entity.User)

		if user.GoogleTokens.AccessToken == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":              "Google OAuth requerido",
				"message":            "Para acceder a Google Classroom, debes autenticarte con Google OAuth",
				"requiresGoogleAuth": true,
			})
			return
		}

		if user.IsGoogleTokenExpired() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":          "Token de Google expirado",
				"message":        "Tu sesión con Google ha expirado, por favor reautentícate",
				"requiresReauth": true,
			})
			return
		}

		c.Next()
	}
}
