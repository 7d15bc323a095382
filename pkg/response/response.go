package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"semillero.org/semillerodigital/pkg/apperror"
)

// GetUserID retrieves the authenticated user ID from the context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// Error writes a standardized error response. Google-session expiry gets the
// requiresReauth flag so the SPA can re-run the OAuth flow.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
		if gin.Mode() == gin.ReleaseMode {
			c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
			return
		}
	}

	// An AppError's message is the user-facing text; the wrapped cause only
	// drives status mapping and errors.Is checks.
	message := err.Error()
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	body := gin.H{"error": message}
	if apperror.RequiresReauth(err) {
		body["requiresReauth"] = true
	}

	c.JSON(code, body)
}
