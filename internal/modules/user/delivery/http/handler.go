package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"semillero.org/semillerodigital/internal/modules/user/dto"
	"semillero.org/semillerodigital/internal/modules/user/service"
	"semillero.org/semillerodigital/pkg/response"
	"semillero.org/semillerodigital/pkg/validator"
)

type AuthHandler struct {
	authService service.AuthService
	frontendURL string
}

func NewAuthHandler(authService service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		frontendURL: frontendURL,
	}
}

// GoogleAuthURL returns the consent URL the SPA should redirect to.
func (h *AuthHandler) GoogleAuthURL(c *gin.Context) {
	c.JSON(http.StatusOK, dto.AuthURLResponse{AuthURL: h.authService.GoogleAuthURL()})
}

// GoogleCallbackRedirect handles the browser redirect from Google. It does
// not exchange the code itself: it forwards it to the frontend, which posts
// it back through GoogleCallback.
func (h *AuthHandler) GoogleCallbackRedirect(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		c.Redirect(http.StatusFound, h.frontendURL+"/login?error="+url.QueryEscape(errParam))
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, h.frontendURL+"/login?error=no_code")
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL+"/login?code="+url.QueryEscape(code))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	var input dto.GoogleCallbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Código de autorización requerido"})
		return
	}

	res, err := h.authService.GoogleCallback(c.Request.Context(), input.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.authService.Me(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) RefreshGoogleToken(c *gin.Context) {
	res, err := h.authService.RefreshGoogleToken(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Sesión cerrada correctamente"})
}
