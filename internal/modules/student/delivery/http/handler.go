package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"semillero.org/semillerodigital/internal/entity"
	"semillero.org/semillerodigital/internal/modules/student/dto"
	"semillero.org/semillerodigital/internal/modules/student/service"
	"semillero.org/semillerodigital/pkg/response"
	"semillero.org/semillerodigital/pkg/validator"
)

type StudentHandler struct {
	studentService service.StudentService
}

func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
	}
}

func (h *StudentHandler) ListStudents(c *gin.Context) {
	var query dto.ListStudentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.studentService.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	user := c.MustGet("user").(*entity.User)

	profile, err := h.studentService.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	user := c.MustGet("user").(*entity.User)

	var input dto.UpdateStudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.studentService.Update(c.Request.Context(), user, c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
