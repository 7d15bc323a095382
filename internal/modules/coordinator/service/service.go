package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"semillero.org/semillerodigital/internal/entity"
	courseRepo "semillero.org/semillerodigital/internal/modules/classroom/repository"
	"semillero.org/semillerodigital/internal/modules/coordinator/dto"
	notifService "semillero.org/semillerodigital/internal/modules/notification/service"
	userRepo "semillero.org/semillerodigital/internal/modules/user/repository"
	"semillero.org/semillerodigital/pkg/apperror"
	commonDto "semillero.org/semillerodigital/pkg/dto"
)

const recentActivityWindow = 7 * 24 * time.Hour

type CoordinatorService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	UpdateUserRole(ctx context.Context, userID, role string) (*dto.UpdateRoleResponse, error)
	ListUsers(ctx context.Context, query dto.ListUsersQuery) (*dto.ListUsersResponse, error)
}

type coordinatorService struct {
	users         userRepo.UserRepository
	courses       courseRepo.CourseRepository
	notifications notifService.NotificationService
}

func NewCoordinatorService(users userRepo.UserRepository, courses courseRepo.CourseRepository, notifications notifService.NotificationService) CoordinatorService {
	return &coordinatorService{
		users:         users,
		courses:       courses,
		notifications: notifications,
	}
}

// Dashboard runs the fixed aggregate counts behind the coordinator view.
// Everything is computed per request; there is no cached derived state.
func (s *coordinatorService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	totalStudents, err := s.users.CountActiveByRole(ctx, entity.RoleStudent)
	if err != nil {
		return nil, err
	}

	totalTeachers, err := s.users.CountActiveByRole(ctx, entity.RoleTeacher)
	if err != nil {
		return nil, err
	}

	totalCourses, err := s.courses.CountByState(ctx, entity.CourseStateActive)
	if err != nil {
		return nil, err
	}

	byCohort, err := s.users.CountStudentsByCohort(ctx)
	if err != nil {
		return nil, err
	}

	byProgram, err := s.users.CountStudentsBySpecialization(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.users.FindRecentLogins(ctx, time.Now().Add(-recentActivityWindow), 10)
	if err != nil {
		return nil, err
	}

	activity := make([]dto.RecentActivityEntry, 0, len(recent))
	for _, user := range recent {
		activity = append(activity, dto.RecentActivityEntry{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      user.Role,
			Cohort:    user.Metadata.Cohort,
			LastLogin: user.LastLogin,
		})
	}

	return &dto.DashboardResponse{
		Metrics: dto.DashboardMetrics{
			TotalStudents:       totalStudents,
			TotalTeachers:       totalTeachers,
			TotalCourses:        totalCourses,
			ActiveUsersLastWeek: len(activity),
		},
		Distribution: dto.DashboardDistribution{
			StudentsByCohort:  byCohort,
			StudentsByProgram: byProgram,
		},
		RecentActivity: activity,
	}, nil
}

func (s *coordinatorService) UpdateUserRole(ctx context.Context, userID, role string) (*dto.UpdateRoleResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Usuario no encontrado", apperror.ErrNotFound)
		}
		return nil, err
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.notifications.Notify(ctx, user.ID, entity.NotificationRoleChanged,
		"Tu rol ha sido actualizado a "+role); err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("failed to record role change notification")
	}

	return &dto.UpdateRoleResponse{
		Message: "Rol actualizado correctamente",
		User:    user.PublicProfile(),
	}, nil
}

func (s *coordinatorService) ListUsers(ctx context.Context, query dto.ListUsersQuery) (*dto.ListUsersResponse, error) {
	users, total, err := s.users.FindUsers(ctx, userRepo.UserFilter{
		Role:   query.Role,
		Cohort: query.Cohort,
		Limit:  query.Limit,
		Offset: query.Offset(),
	})
	if err != nil {
		return nil, err
	}

	profiles := make([]entity.PublicProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.PublicProfile())
	}

	return &dto.ListUsersResponse{
		Users:      profiles,
		Pagination: commonDto.NewPaginationMeta(query.Page, query.Limit, total),
	}, nil
}
