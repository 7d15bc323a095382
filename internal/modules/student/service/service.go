package service

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"semillero.org/semillerodigital/internal/entity"
	"semillero.org/semillerodigital/internal/modules/student/dto"
	userRepo "semillero.org/semillerodigital/internal/modules/user/repository"
	"semillero.org/semillerodigital/pkg/apperror"
	commonDto "semillero.org/semillerodigital/pkg/dto"
)

type StudentService interface {
	List(ctx context.Context, query dto.ListStudentsQuery) (*dto.ListStudentsResponse, error)
	Get(ctx context.Context, requester *entity.User, id string) (*entity.PublicProfile, error)
	Update(ctx context.Context, requester *entity.User, id string, input dto.UpdateStudentInput) (*dto.UpdateStudentResponse, error)
}

type studentService struct {
	users userRepo.UserRepository
}

func NewStudentService(users userRepo.UserRepository) StudentService {
	return &studentService{users: users}
}

func (s *studentService) List(ctx context.Context, query dto.ListStudentsQuery) (*dto.ListStudentsResponse, error) {
	students, total, err := s.users.FindStudents(ctx, userRepo.StudentFilter{
		Cohort:  query.Cohort,
		Program: query.Program,
		Limit:   query.Limit,
		Offset:  query.Offset(),
	})
	if err != nil {
		return nil, err
	}

	profiles := make([]entity.PublicProfile, 0, len(students))
	for _, student := range students {
		profiles = append(profiles, student.PublicProfile())
	}

	return &dto.ListStudentsResponse{
		Students:   profiles,
		Pagination: commonDto.NewPaginationMeta(query.Page, query.Limit, total),
	}, nil
}

func (s *studentService) Get(ctx context.Context, requester *entity.User, id string) (*entity.PublicProfile, error) {
	// Students may only read themselves.
	if requester.Role == entity.RoleStudent && requester.ID.String() != id {
		return nil, apperror.New(http.StatusForbidden, "Solo puedes ver tu propia información", apperror.ErrForbidden)
	}

	student, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Estudiante no encontrado", apperror.ErrNotFound)
		}
		return nil, err
	}

	profile := student.PublicProfile()
	return &profile, nil
}

func (s *studentService) Update(ctx context.Context, requester *entity.User, id string, input dto.UpdateStudentInput) (*dto.UpdateStudentResponse, error) {
	if requester.Role == entity.RoleStudent && requester.ID.String() != id {
		return nil, apperror.New(http.StatusForbidden, "Solo puedes actualizar tu propia información", apperror.ErrForbidden)
	}

	student, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Estudiante no encontrado", apperror.ErrNotFound)
		}
		return nil, err
	}

	if input.Preferences != nil {
		student.Preferences = *input.Preferences
	}
	if input.Metadata != nil {
		student.Metadata = *input.Metadata
	}

	if err := s.users.Update(ctx, student); err != nil {
		return nil, err
	}

	return &dto.UpdateStudentResponse{
		Message: "Información actualizada correctamente",
		Student: student.PublicProfile(),
	}, nil
}
