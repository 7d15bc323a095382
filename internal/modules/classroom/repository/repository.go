package repository

import (
	"context"

	"gorm.io/gorm"

	"semillero.org/semillerodigital/internal/entity"
)

type CourseRepository interface {
	FindByGoogleID(ctx context.Context, googleClassroomID string) (*entity.Course, error)
	Create(ctx context.Context, course *entity.Course) error
	Update(ctx context.Context, course *entity.Course) error
	FindAll(ctx context.Context) ([]*entity.Course, error)
	CountByState(ctx context.Context, state string) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) FindByGoogleID(ctx context.Context, googleClassroomID string) (*entity.Course, error) {
	var course entity.Course
	if err := r.db.WithContext(ctx).
		Where("google_classroom_id = ?", googleClassroomID).
		First(&course).Error; err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *entity.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *entity.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) FindAll(ctx context.Context) ([]*entity.Course, error) {
	var courses []*entity.Course
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) CountByState(ctx context.Context, state string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Course{}).
		Where("course_state = ?", state).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
