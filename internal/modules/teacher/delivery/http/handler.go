package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"semillero.org/semillerodigital/internal/modules/teacher/service"
	"semillero.org/semillerodigital/pkg/response"
)

type TeacherHandler struct {
	teacherService service.TeacherService
}

func NewTeacherHandler(teacherService service.TeacherService) *TeacherHandler {
	return &TeacherHandler{
		teacherService: teacherService,
	}
}

func (h *TeacherHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.teacherService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"teachers": teachers,
		"total":    len(teachers),
	})
}
