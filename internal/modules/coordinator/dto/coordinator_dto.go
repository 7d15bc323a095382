package dto

import (
	"time"

	"github.com/google/uuid"

	"semillero.org/semillerodigital/internal/entity"
	userRepo "semillero.org/semillerodigital/internal/modules/user/repository"
	commonDto "semillero.org/semillerodigital/pkg/dto"
)

type DashboardMetrics struct {
	TotalStudents       int64 `json:"totalStudents"`
	TotalTeachers       int64 `json:"totalTeachers"`
	TotalCourses        int64 `json:"totalCourses"`
	ActiveUsersLastWeek int   `json:"activeUsersLastWeek"`
}

type DashboardDistribution struct {
	StudentsByCohort  []userRepo.RoleCount `json:"studentsByCohort"`
	StudentsByProgram []userRepo.RoleCount `json:"studentsByProgram"`
}

type RecentActivityEntry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Cohort    *string   `json:"cohort,omitempty"`
	LastLogin time.Time `json:"lastLogin"`
}

type DashboardResponse struct {
	Metrics        DashboardMetrics      `json:"metrics"`
	Distribution   DashboardDistribution `json:"distribution"`
	RecentActivity []RecentActivityEntry `json:"recentActivity"`
}

type UpdateRoleInput struct {
	Role string `json:"role" binding:"required,oneof=student teacher coordinator"`
}

type UpdateRoleResponse struct {
	Message string               `json:"message"`
	User    entity.PublicProfile `json:"user"`
}

type ListUsersQuery struct {
	Role   string `form:"role" binding:"omitempty,oneof=student teacher coordinator admin"`
	Cohort string `form:"cohort"`
	commonDto.PageQuery
}

type ListUsersResponse struct {
	Users      []entity.PublicProfile   `json:"users"`
	Pagination commonDto.PaginationMeta `json:"pagination"`
}

// ReportResponse is the placeholder payload for the report endpoints that
// still await their Google Calendar / submissions data sources.
type ReportResponse struct {
	Message    string            `json:"message"`
	Parameters map[string]string `json:"parameters"`
	Note       string            `json:"note"`
}
