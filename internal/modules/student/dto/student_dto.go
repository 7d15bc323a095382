package dto

import (
	"semillero.org/semillerodigital/internal/entity"
	commonDto "semillero.org/semillerodigital/pkg/dto"
)

type ListStudentsQuery struct {
	Cohort  string `form:"cohort"`
	Program string `form:"program"`
	commonDto.PageQuery
}

// UpdateStudentInput whitelists the fields a profile edit may touch.
type UpdateStudentInput struct {
	Preferences *entity.Preferences  `json:"preferences"`
	Metadata    *entity.UserMetadata `json:"metadata"`
}

type ListStudentsResponse struct {
	Students   []entity.PublicProfile   `json:"students"`
	Pagination commonDto.PaginationMeta `json:"pagination"`
}

type UpdateStudentResponse struct {
	Message string               `json:"message"`
	Student entity.PublicProfile `json:"student"`
}
