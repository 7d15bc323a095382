package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"semillero.org/semillerodigital/internal/entity"
)

// StudentFilter narrows student listings. Nil fields are ignored.
type StudentFilter struct {
	Cohort  string
	Program string
	Limit   int
	Offset  int
}

// UserFilter narrows the coordinator user listing.
type UserFilter struct {
	Role   string
	Cohort string
	Limit  int
	Offset int
}

// RoleCount is one bucket of a group-by aggregation over users.
type RoleCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	FindStudents(ctx context.Context, filter StudentFilter) ([]*entity.User, int64, error)
	FindTeachers(ctx context.Context) ([]*entity.User, error)
	FindUsers(ctx context.Context, filter UserFilter) ([]*entity.User, int64, error)
	CountActiveByRole(ctx context.Context, role string) (int64, error)
	CountStudentsByCohort(ctx context.Context) ([]RoleCount, error)
	CountStudentsBySpecialization(ctx context.Context) ([]RoleCount, error)
	FindRecentLogins(ctx context.Context, since time.Time, limit int) ([]*entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Where("google_id = ?", googleID).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByGoogleIDOrEmail matches a returning OAuth user. First match wins, so
// an account created locally with the same email gets linked to the Google
// identity on its first OAuth login.
func (r *userRepository) FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Where("google_id = ? OR email = ?", googleID, email).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindStudents(ctx context.Context, filter StudentFilter) ([]*entity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("role = ? AND is_active = ?", entity.RoleStudent, true)

	if filter.Cohort != "" {
		query = query.Where("meta_cohort = ?", filter.Cohort)
	}
	if filter.Program != "" {
		query = query.Where("meta_specialization = ?", filter.Program)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []*entity.User
	if err := query.
		Order("meta_enrollment_date DESC NULLS LAST").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *userRepository) FindTeachers(ctx context.Context) ([]*entity.User, error) {
	var teachers []*entity.User
	if err := r.db.WithContext(ctx).
		Where("role IN ? AND is_active = ?", []string{entity.RoleTeacher, entity.RoleCoordinator}, true).
		Order("name ASC").
		Find(&teachers).Error; err != nil {
		return nil, err
	}

	return teachers, nil
}

func (r *userRepository) FindUsers(ctx context.Context, filter UserFilter) ([]*entity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("is_active = ?", true)

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Cohort != "" {
		query = query.Where("meta_cohort = ?", filter.Cohort)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*entity.User
	if err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) CountActiveByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("role = ? AND is_active = ?", role, true).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *userRepository) CountStudentsByCohort(ctx context.Context) ([]RoleCount, error) {
	var counts []RoleCount
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Select("meta_cohort AS key, COUNT(*) AS count").
		Where("role = ? AND is_active = ? AND meta_cohort IS NOT NULL", entity.RoleStudent, true).
		Group("meta_cohort").
		Order("meta_cohort ASC").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *userRepository) CountStudentsBySpecialization(ctx context.Context) ([]RoleCount, error) {
	var counts []RoleCount
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Select("meta_specialization AS key, COUNT(*) AS count").
		Where("role = ? AND is_active = ? AND meta_specialization IS NOT NULL", entity.RoleStudent, true).
		Group("meta_specialization").
		Order("count DESC").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *userRepository) FindRecentLogins(ctx context.Context, since time.Time, limit int) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND last_login >= ?", true, since).
		Order("last_login DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}
