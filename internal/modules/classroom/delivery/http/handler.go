package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"semillero.org/semillerodigital/internal/entity"
	"semillero.org/semillerodigital/internal/modules/classroom/service"
	"semillero.org/semillerodigital/pkg/response"
)

type ClassroomHandler struct {
	classroomService service.ClassroomService
}

func NewClassroomHandler(classroomService service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{
		classroomService: classroomService,
	}
}

func currentUser(c *gin.Context) (*entity.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Acceso denegado"})
		return nil, false
	}
	return value.(*entity.User), true
}

// ListCourses syncs and returns the caller's Classroom courses. The Google
// token checks live here rather than in RequireGoogleToken so a missing
// token yields the requiresGoogleAuth hint instead of a plain 401.
func (h *ClassroomHandler) ListCourses(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.GoogleTokens.AccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":              "Google OAuth requerido",
			"message":            "Para acceder a Google Classroom, debes autenticarte con Google OAuth",
			"requiresGoogleAuth": true,
		})
		return
	}

	if user.IsGoogleTokenExpired() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":          "Token de Google expirado",
			"message":        "Tu sesión con Google ha expirado, por favor reautentícate",
			"requiresReauth": true,
		})
		return
	}

	res, err := h.classroomService.ListCourses(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ClassroomHandler) ListStudents(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	res, err := h.classroomService.ListStudents(c.Request.Context(), user, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ClassroomHandler) ListCoursework(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	res, err := h.classroomService.ListCoursework(c.Request.Context(), user, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ClassroomHandler) ListAnnouncements(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	res, err := h.classroomService.ListAnnouncements(c.Request.Context(), user, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
