package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"semillero.org/semillerodigital/internal/modules/coordinator/dto"
	"semillero.org/semillerodigital/internal/modules/coordinator/service"
	"semillero.org/semillerodigital/pkg/response"
	"semillero.org/semillerodigital/pkg/validator"
)

type CoordinatorHandler struct {
	coordinatorService service.CoordinatorService
}

func NewCoordinatorHandler(coordinatorService service.CoordinatorService) *CoordinatorHandler {
	return &CoordinatorHandler{
		coordinatorService: coordinatorService,
	}
}

func (h *CoordinatorHandler) Dashboard(c *gin.Context) {
	res, err := h.coordinatorService.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// AttendanceReport keeps the original placeholder shape until the Google
// Calendar integration lands.
func (h *CoordinatorHandler) AttendanceReport(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ReportResponse{
		Message: "Reporte de asistencia - Funcionalidad en desarrollo",
		Parameters: map[string]string{
			"cohort":    c.Query("cohort"),
			"startDate": c.Query("startDate"),
			"endDate":   c.Query("endDate"),
		},
		Note: "Esta funcionalidad se implementará conectando con Google Calendar API",
	})
}

func (h *CoordinatorHandler) ProgressReport(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ReportResponse{
		Message: "Reporte de progreso - Funcionalidad en desarrollo",
		Parameters: map[string]string{
			"cohort":   c.Query("cohort"),
			"courseId": c.Query("courseId"),
		},
		Note: "Esta funcionalidad se implementará analizando entregas de Google Classroom",
	})
}

func (h *CoordinatorHandler) UpdateUserRole(c *gin.Context) {
	var input dto.UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Rol inválido",
			"message": "El rol debe ser: student, teacher o coordinator",
		})
		return
	}

	res, err := h.coordinatorService.UpdateUserRole(c.Request.Context(), c.Param("userId"), input.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CoordinatorHandler) ListUsers(c *gin.Context) {
	var query dto.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.coordinatorService.ListUsers(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
