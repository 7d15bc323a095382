package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"semillero.org/semillerodigital/internal/entity"
	"semillero.org/semillerodigital/internal/modules/student/dto"
	userRepo "semillero.org/semillerodigital/internal/modules/user/repository"
	"semillero.org/semillerodigital/pkg/apperror"
	commonDto "semillero.org/semillerodigital/pkg/dto"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*entity.User, error) {
	args := m.Called(ctx, googleID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindStudents(ctx context.Context, filter userRepo.StudentFilter) ([]*entity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindTeachers(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, filter userRepo.UserFilter) ([]*entity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) CountActiveByRole(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountStudentsByCohort(ctx context.Context) ([]userRepo.RoleCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]userRepo.RoleCount), args.Error(1)
}

func (m *MockUserRepository) CountStudentsBySpecialization(ctx context.Context) ([]userRepo.RoleCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]userRepo.RoleCount), args.Error(1)
}

func (m *MockUserRepository) FindRecentLogins(ctx context.Context, since time.Time, limit int) ([]*entity.User, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func TestStudentService_List(t *testing.T) {
	students := []*entity.User{
		{ID: uuid.New(), Email: "a@example.com", Role: entity.RoleStudent, IsActive: true},
		{ID: uuid.New(), Email: "b@example.com", Role: entity.RoleStudent, IsActive: true},
	}

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindStudents", mock.Anything, userRepo.StudentFilter{
		Cohort:  "2024-B",
		Program: "Desarrollo Web",
		Limit:   20,
		Offset:  0,
	}).Return(students, int64(2), nil)

	svc := NewStudentService(mockRepo)
	res, err := svc.List(context.Background(), dto.ListStudentsQuery{
		Cohort:    "2024-B",
		Program:   "Desarrollo Web",
		PageQuery: commonDto.PageQuery{Page: 1, Limit: 20},
	})

	assert.NoError(t, err)
	assert.Len(t, res.Students, 2)
	assert.Equal(t, int64(2), res.Pagination.TotalItems)
	mockRepo.AssertExpectations(t)
}

func TestStudentService_Get(t *testing.T) {
	selfID := uuid.New()
	otherID := uuid.New()

	self := &entity.User{ID: selfID, Email: "yo@example.com", Role: entity.RoleStudent, IsActive: true}
	teacher := &entity.User{ID: uuid.New(), Email: "profe@example.com", Role: entity.RoleTeacher, IsActive: true}

	tests := []struct {
		name           string
		requester      *entity.User
		targetID       string
		setupMock      func(*MockUserRepository)
		expectedStatus int
	}{
		{
			name:      "student reads own profile",
			requester: self,
			targetID:  selfID.String(),
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, selfID.String()).Return(self, nil)
			},
		},
		{
			name:           "student cannot read others",
			requester:      self,
			targetID:       otherID.String(),
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "teacher reads any student",
			requester: teacher,
			targetID:  selfID.String(),
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, selfID.String()).Return(self, nil)
			},
		},
		{
			name:      "unknown student",
			requester: teacher,
			targetID:  otherID.String(),
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, otherID.String()).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewStudentService(mockRepo)
			profile, err := svc.Get(context.Background(), tt.requester, tt.targetID)

			if tt.expectedStatus != 0 {
				assert.Nil(t, profile)
				var appErr *apperror.AppError
				assert.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.expectedStatus, appErr.Code)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, profile)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestStudentService_Update(t *testing.T) {
	selfID := uuid.New()
	cohort := "2024-B"

	t.Run("whitelisted fields are applied", func(t *testing.T) {
		self := &entity.User{ID: selfID, Email: "yo@example.com", Role: entity.RoleStudent, IsActive: true}

		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, selfID.String()).Return(self, nil)
		mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
			return u.Metadata.Cohort != nil && *u.Metadata.Cohort == cohort &&
				u.Preferences.Language == "en"
		})).Return(nil)

		svc := NewStudentService(mockRepo)
		res, err := svc.Update(context.Background(), self, selfID.String(), dto.UpdateStudentInput{
			Preferences: &entity.Preferences{Language: "en", EmailNotifications: true},
			Metadata:    &entity.UserMetadata{Cohort: &cohort},
		})

		assert.NoError(t, err)
		assert.Equal(t, "Información actualizada correctamente", res.Message)
		mockRepo.AssertExpectations(t)
	})

	t.Run("student cannot update another profile", func(t *testing.T) {
		self := &entity.User{ID: selfID, Role: entity.RoleStudent, IsActive: true}

		svc := NewStudentService(new(MockUserRepository))
		res, err := svc.Update(context.Background(), self, uuid.New().String(), dto.UpdateStudentInput{})

		assert.Nil(t, res)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusForbidden, appErr.Code)
	})
}
