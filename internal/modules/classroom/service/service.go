package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"semillero.org/semillerodigital/internal/entity"
	"semillero.org/semillerodigital/internal/modules/classroom/dto"
	"semillero.org/semillerodigital/internal/modules/classroom/repository"
	notifService "semillero.org/semillerodigital/internal/modules/notification/service"
	userRepo "semillero.org/semillerodigital/internal/modules/user/repository"
	"semillero.org/semillerodigital/pkg/apperror"
)

// ClassroomAPI abstracts the Google Classroom backend. The production
// implementation wraps google.golang.org/api/classroom/v1; tests substitute
// a fake.
type ClassroomAPI interface {
	ListCourses(ctx context.Context, accessToken string, asTeacher bool) ([]dto.Course, error)
	ListStudents(ctx context.Context, accessToken, courseID string) ([]dto.RosterStudent, error)
	ListCourseWork(ctx context.Context, accessToken, courseID string) ([]dto.CourseWork, error)
	ListSubmissions(ctx context.Context, accessToken, courseID, courseWorkID string) ([]dto.Submission, error)
	ListAnnouncements(ctx context.Context, accessToken, courseID string) ([]dto.Announcement, error)
}

type ClassroomService interface {
	ListCourses(ctx context.Context, user *entity.User) (*dto.CourseListResponse, error)
	ListStudents(ctx context.Context, user *entity.User, courseID string) (*dto.StudentsResponse, error)
	ListCoursework(ctx context.Context, user *entity.User, courseID string) (*dto.CourseworkResponse, error)
	ListAnnouncements(ctx context.Context, user *entity.User, courseID string) (*dto.AnnouncementsResponse, error)
}

type classroomService struct {
	api           ClassroomAPI
	courseRepo    repository.CourseRepository
	userRepo      userRepo.UserRepository
	notifications notifService.NotificationService
}

func NewClassroomService(api ClassroomAPI, courseRepo repository.CourseRepository, users userRepo.UserRepository, notifications notifService.NotificationService) ClassroomService {
	return &classroomService{
		api:           api,
		courseRepo:    courseRepo,
		userRepo:      users,
		notifications: notifications,
	}
}

// ListCourses fetches the caller's courses from Google Classroom and mirrors
// them locally. The top-level fetch is fatal; per-course upsert failures are
// reported in the errors list so one broken course cannot hide the rest.
func (s *classroomService) ListCourses(ctx context.Context, user *entity.User) (*dto.CourseListResponse, error) {
	asTeacher := user.Role == entity.RoleTeacher || user.Role == entity.RoleCoordinator

	courses, err := s.api.ListCourses(ctx, user.GoogleTokens.AccessToken, asTeacher)
	if err != nil {
		return nil, classifyGoogleError(err, "No se pudieron obtener los cursos")
	}

	syncDate := time.Now()
	synced := make([]entity.BasicInfo, 0, len(courses))
	var syncErrors []string

	for _, course := range courses {
		local, created, err := s.upsertCourse(ctx, course, syncDate)
		if err != nil {
			log.Warn().Err(err).Str("course", course.ID).Msg("course upsert failed")
			syncErrors = append(syncErrors, fmt.Sprintf("curso %s: %v", course.ID, err))
			continue
		}

		if created {
			msg := fmt.Sprintf("El curso %q se sincronizó por primera vez", local.Name)
			if err := s.notifications.Notify(ctx, user.ID, entity.NotificationCourseSynced, msg); err != nil {
				log.Warn().Err(err).Msg("failed to record sync notification")
			}
		}

		synced = append(synced, local.BasicInfo())
	}

	return &dto.CourseListResponse{
		Courses:  synced,
		Total:    len(synced),
		SyncDate: syncDate,
		Errors:   syncErrors,
	}, nil
}

// upsertCourse creates the local mirror on first sight and overwrites the
// mutable display fields afterwards. lastSyncDate is stamped on every call,
// changed or not.
func (s *classroomService) upsertCourse(ctx context.Context, course dto.Course, syncDate time.Time) (*entity.Course, bool, error) {
	local, err := s.courseRepo.FindByGoogleID(ctx, course.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}

		local = &entity.Course{
			GoogleClassroomID: course.ID,
			Name:              course.Name,
			Section:           course.Section,
			Description:       course.Description,
			Room:              course.Room,
			OwnerID:           course.OwnerID,
			CreationTime:      course.CreationTime,
			UpdateTime:        course.UpdateTime,
			EnrollmentCode:    course.EnrollmentCode,
			CourseState:       course.CourseState,
			AlternateLink:     course.AlternateLink,
			TeacherFolder:     course.TeacherFolder,
			CalendarID:        course.CalendarID,
		}
		local.Stats.LastSyncDate = &syncDate

		if err := s.courseRepo.Create(ctx, local); err != nil {
			return nil, false, err
		}
		return local, true, nil
	}

	local.Name = course.Name
	local.Section = course.Section
	local.Description = course.Description
	local.UpdateTime = course.UpdateTime
	local.CourseState = course.CourseState
	local.Stats.LastSyncDate = &syncDate

	if err := s.courseRepo.Update(ctx, local); err != nil {
		return nil, false, err
	}
	return local, false, nil
}

func (s *classroomService) ListStudents(ctx context.Context, user *entity.User, courseID string) (*dto.StudentsResponse, error) {
	if user.Role == entity.RoleStudent {
		return nil, apperror.New(http.StatusForbidden, "Los estudiantes no pueden ver la lista de otros estudiantes", apperror.ErrForbidden)
	}

	roster, err := s.api.ListStudents(ctx, user.GoogleTokens.AccessToken, courseID)
	if err != nil {
		return nil, classifyGoogleError(err, "No se pudieron obtener los estudiantes del curso")
	}

	enriched := make([]dto.EnrichedStudent, 0, len(roster))
	for _, student := range roster {
		entry := dto.EnrichedStudent{
			GoogleID: student.UserID,
			Profile:  student,
		}

		if localUser, err := s.userRepo.FindByGoogleID(ctx, student.UserID); err == nil {
			profile := localUser.PublicProfile()
			entry.LocalData = &profile
		}

		enriched = append(enriched, entry)
	}

	return &dto.StudentsResponse{
		CourseID: courseID,
		Students: enriched,
		Total:    len(enriched),
	}, nil
}

func (s *classroomService) ListCoursework(ctx context.Context, user *entity.User, courseID string) (*dto.CourseworkResponse, error) {
	coursework, err := s.api.ListCourseWork(ctx, user.GoogleTokens.AccessToken, courseID)
	if err != nil {
		return nil, classifyGoogleError(err, "No se pudieron obtener las tareas del curso")
	}

	res := &dto.CourseworkResponse{
		CourseID:   courseID,
		Coursework: coursework,
		Total:      len(coursework),
	}

	// Students also see their own submissions. Per-work fetch failures go to
	// the errors list instead of aborting the request.
	if user.Role == entity.RoleStudent {
		for _, work := range coursework {
			submissions, err := s.api.ListSubmissions(ctx, user.GoogleTokens.AccessToken, courseID, work.ID)
			if err != nil {
				log.Warn().Err(err).Str("coursework", work.ID).Msg("submission fetch failed")
				res.Errors = append(res.Errors, fmt.Sprintf("tarea %s: %v", work.ID, err))
				continue
			}
			res.Submissions = append(res.Submissions, submissions...)
		}
	}

	return res, nil
}

func (s *classroomService) ListAnnouncements(ctx context.Context, user *entity.User, courseID string) (*dto.AnnouncementsResponse, error) {
	announcements, err := s.api.ListAnnouncements(ctx, user.GoogleTokens.AccessToken, courseID)
	if err != nil {
		return nil, classifyGoogleError(err, "No se pudieron obtener los anuncios del curso")
	}

	return &dto.AnnouncementsResponse{
		CourseID:      courseID,
		Announcements: announcements,
		Total:         len(announcements),
	}, nil
}

// classifyGoogleError keeps the reauth discriminator intact and turns
// everything else into a 500 with a stable message.
func classifyGoogleError(err error, message string) error {
	if apperror.RequiresReauth(err) {
		return err
	}
	return apperror.New(http.StatusInternalServerError, message, err)
}
