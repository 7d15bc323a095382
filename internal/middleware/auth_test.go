package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"semillero.org/semillerodigital/internal/entity"
	userRepo "semillero.org/semillerodigital/internal/modules/user/repository"
	"semillero.org/semillerodigital/pkg/token"
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

func setupAuthRouter(repo userRepo.UserRepository, tokens *token.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authMiddleware := NewAuthMiddleware(repo, tokens)
	router.GET("/protected", authMiddleware.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString("user_role")})
	})

	return router
}

func TestRequireAuth(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	expiredTokens := token.NewService("test-secret", -time.Minute)

	activeUser := &entity.User{ID: uuid.New(), Email: "ana@example.com", Role: entity.RoleStudent, IsActive: true}
	inactiveUser := &entity.User{ID: uuid.New(), Email: "baja@example.com", Role: entity.RoleStudent, IsActive: false}

	validToken, _, _ := tokens.Issue(activeUser)
	expiredToken, _, _ := expiredTokens.Issue(activeUser)
	inactiveToken, _, _ := tokens.Issue(inactiveUser)
	orphanUser := &entity.User{ID: uuid.New(), Email: "ghost@example.com", Role: entity.RoleStudent, IsActive: true}
	orphanToken, _, _ := tokens.Issue(orphanUser)

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(*MockUserRepository)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing token",
			authHeader:     "",
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Acceso denegado",
		},
		{
			name:           "expired token",
			authHeader:     "Bearer " + expiredToken,
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Token expirado",
		},
		{
			name:           "malformed token",
			authHeader:     "Bearer garbage",
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Token inválido",
		},
		{
			name:       "user no longer exists",
			authHeader: "Bearer " + orphanToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, orphanUser.ID.String()).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Token inválido",
		},
		{
			name:       "deactivated account",
			authHeader: "Bearer " + inactiveToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, inactiveUser.ID.String()).Return(inactiveUser, nil)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Cuenta desactivada",
		},
		{
			name:       "valid token",
			authHeader: "Bearer " + validToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, activeUser.ID.String()).Return(activeUser, nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			router := setupAuthRouter(mockRepo, tokens)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedError != "" {
				var body map[string]interface{}
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body["error"])
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRequireAuth_QueryParamFallback(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	user := &entity.User{ID: uuid.New(), Email: "ws@example.com", Role: entity.RoleStudent, IsActive: true}
	signed, _, _ := tokens.Issue(user)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, user.ID.String()).Return(user, nil)

	router := setupAuthRouter(mockRepo, tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+signed, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		userRole       string
		allowed        []string
		expectedStatus int
	}{
		{"coordinator allowed", entity.RoleCoordinator, []string{entity.RoleCoordinator, entity.RoleAdmin}, http.StatusOK},
		{"admin allowed", entity.RoleAdmin, []string{entity.RoleCoordinator, entity.RoleAdmin}, http.StatusOK},
		{"student rejected", entity.RoleStudent, []string{entity.RoleCoordinator, entity.RoleAdmin}, http.StatusForbidden},
		{"teacher rejected from coordinator routes", entity.RoleTeacher, []string{entity.RoleCoordinator}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(new(MockUserRepository), token.NewService("s", time.Hour))

			router := gin.New()
			router.GET("/x", func(c *gin.Context) {
				c.Set("user_role", tt.userRole)
			}, m.RequireRoles(tt.allowed...), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusForbidden {
				var body map[string]interface{}
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "Permisos insuficientes", body["error"])
			}
		})
	}
}

func TestRequireGoogleToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name           string
		user           *entity.User
		expectedStatus int
		expectedFlag   string
	}{
		{
			name:           "no google tokens",
			user:           &entity.User{ID: uuid.New(), IsActive: true},
			expectedStatus: http.StatusBadRequest,
			expectedFlag:   "requiresGoogleAuth",
		},
		{
			name: "expired google token",
			user: &entity.User{
				ID:           uuid.New(),
				IsActive:     true,
				GoogleTokens: entity.GoogleTokens{AccessToken: "tok", ExpiryDate: &past},
			},
			expectedStatus: http.StatusUnauthorized,
			expectedFlag:   "requiresReauth",
		},
		{
			name: "valid google token",
			user: &entity.User{
				ID:           uuid.New(),
				IsActive:     true,
				GoogleTokens: entity.GoogleTokens{AccessToken: "tok", ExpiryDate: &future},
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(new(MockUserRepository), token.NewService("s", time.Hour))

			router := gin.New()
			router.GET("/x", func(c *gin.Context) {
				c.Set("user", tt.user)
			}, m.RequireGoogleToken(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedFlag != "" {
				var body map[string]interface{}
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, true, body[tt.expectedFlag])
			}
		})
	}
}
