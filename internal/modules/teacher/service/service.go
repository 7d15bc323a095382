package service

import (
	"context"

	"semillero.org/semillerodigital/internal/entity"
	userRepo "semillero.org/semillerodigital/internal/modules/user/repository"
)

type TeacherService interface {
	List(ctx context.Context) ([]entity.PublicProfile, error)
}

type teacherService struct {
	users userRepo.UserRepository
}

func NewTeacherService(users userRepo.UserRepository) TeacherService {
	return &teacherService{users: users}
}

// List returns active teachers and coordinators, sorted by name.
func (s *teacherService) List(ctx context.Context) ([]entity.PublicProfile, error) {
	teachers, err := s.users.FindTeachers(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]entity.PublicProfile, 0, len(teachers))
	for _, teacher := range teachers {
		profiles = append(profiles, teacher.PublicProfile())
	}

	return profiles, nil
}
