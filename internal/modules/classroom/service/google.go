package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"semillero.org/semillerodigital/internal/entity"
	"semillero.org/semillerodigital/internal/modules/classroom/dto"
	"semillero.org/semillerodigital/pkg/apperror"
	"semillero.org/semillerodigital/pkg/googleauth"
)

// googleClassroomAPI talks to the real Google Classroom API. Every call
// builds its own service from the caller's access token, so no credentials
// are shared between requests.
type googleClassroomAPI struct{}

func NewGoogleClassroomAPI() ClassroomAPI {
	return &googleClassroomAPI{}
}

func (a *googleClassroomAPI) newService(ctx context.Context, accessToken string) (*classroom.Service, error) {
	svc, err := classroom.NewService(ctx, option.WithTokenSource(googleauth.StaticTokenSource(accessToken)))
	if err != nil {
		return nil, fmt.Errorf("error creando cliente de Classroom: %w", err)
	}
	return svc, nil
}

func (a *googleClassroomAPI) ListCourses(ctx context.Context, accessToken string, asTeacher bool) ([]dto.Course, error) {
	svc, err := a.newService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	call := svc.Courses.List().CourseStates(entity.CourseStateActive).Context(ctx)
	if asTeacher {
		call = call.TeacherId("me")
	} else {
		call = call.StudentId("me")
	}

	res, err := call.Do()
	if err != nil {
		return nil, wrapGoogleError(err)
	}

	courses := make([]dto.Course, 0, len(res.Courses))
	for _, c := range res.Courses {
		courses = append(courses, toCourse(c))
	}
	return courses, nil
}

func (a *googleClassroomAPI) ListStudents(ctx context.Context, accessToken, courseID string) ([]dto.RosterStudent, error) {
	svc, err := a.newService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	res, err := svc.Courses.Students.List(courseID).Context(ctx).Do()
	if err != nil {
		return nil, wrapGoogleError(err)
	}

	students := make([]dto.RosterStudent, 0, len(res.Students))
	for _, s := range res.Students {
		student := dto.RosterStudent{UserID: s.UserId}
		if s.Profile != nil {
			if s.Profile.Name != nil {
				student.FullName = s.Profile.Name.FullName
			}
			student.EmailAddress = s.Profile.EmailAddress
			student.PhotoURL = s.Profile.PhotoUrl
		}
		students = append(students, student)
	}
	return students, nil
}

func (a *googleClassroomAPI) ListCourseWork(ctx context.Context, accessToken, courseID string) ([]dto.CourseWork, error) {
	svc, err := a.newService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	res, err := svc.Courses.CourseWork.List(courseID).
		CourseWorkStates("PUBLISHED").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapGoogleError(err)
	}

	coursework := make([]dto.CourseWork, 0, len(res.CourseWork))
	for _, w := range res.CourseWork {
		work := dto.CourseWork{
			ID:            w.Id,
			Title:         w.Title,
			Description:   w.Description,
			State:         w.State,
			WorkType:      w.WorkType,
			MaxPoints:     w.MaxPoints,
			AlternateLink: w.AlternateLink,
			CreationTime:  parseTime(w.CreationTime),
			UpdateTime:    parseTime(w.UpdateTime),
		}
		if due := dueDate(w); !due.IsZero() {
			work.DueDate = &due
		}
		coursework = append(coursework, work)
	}
	return coursework, nil
}

func (a *googleClassroomAPI) ListSubmissions(ctx context.Context, accessToken, courseID, courseWorkID string) ([]dto.Submission, error) {
	svc, err := a.newService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	res, err := svc.Courses.CourseWork.StudentSubmissions.List(courseID, courseWorkID).
		UserId("me").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapGoogleError(err)
	}

	submissions := make([]dto.Submission, 0, len(res.StudentSubmissions))
	for _, s := range res.StudentSubmissions {
		submission := dto.Submission{
			ID:            s.Id,
			CourseWorkID:  s.CourseWorkId,
			UserID:        s.UserId,
			State:         s.State,
			Late:          s.Late,
			AlternateLink: s.AlternateLink,
			UpdateTime:    parseTime(s.UpdateTime),
		}
		if s.AssignedGrade != 0 {
			grade := s.AssignedGrade
			submission.AssignedGrade = &grade
		}
		submissions = append(submissions, submission)
	}
	return submissions, nil
}

func (a *googleClassroomAPI) ListAnnouncements(ctx context.Context, accessToken, courseID string) ([]dto.Announcement, error) {
	svc, err := a.newService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	res, err := svc.Courses.Announcements.List(courseID).
		AnnouncementStates("PUBLISHED").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapGoogleError(err)
	}

	announcements := make([]dto.Announcement, 0, len(res.Announcements))
	for _, an := range res.Announcements {
		announcements = append(announcements, dto.Announcement{
			ID:            an.Id,
			Text:          an.Text,
			State:         an.State,
			AlternateLink: an.AlternateLink,
			CreatorUserID: an.CreatorUserId,
			CreationTime:  parseTime(an.CreationTime),
			UpdateTime:    parseTime(an.UpdateTime),
		})
	}
	return announcements, nil
}

func toCourse(c *classroom.Course) dto.Course {
	course := dto.Course{
		ID:             c.Id,
		Name:           c.Name,
		Section:        c.Section,
		Description:    c.Description,
		Room:           c.Room,
		OwnerID:        c.OwnerId,
		CreationTime:   parseTime(c.CreationTime),
		UpdateTime:     parseTime(c.UpdateTime),
		EnrollmentCode: c.EnrollmentCode,
		CourseState:    c.CourseState,
		AlternateLink:  c.AlternateLink,
		CalendarID:     c.CalendarId,
	}
	if c.TeacherFolder != nil {
		course.TeacherFolder = entity.TeacherFolder{
			ID:            c.TeacherFolder.Id,
			Title:         c.TeacherFolder.Title,
			AlternateLink: c.TeacherFolder.AlternateLink,
		}
	}
	return course
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func dueDate(w *classroom.CourseWork) time.Time {
	if w.DueDate == nil {
		return time.Time{}
	}

	hours, minutes := 23, 59
	if w.DueTime != nil {
		hours = int(w.DueTime.Hours)
		minutes = int(w.DueTime.Minutes)
	}

	return time.Date(int(w.DueDate.Year), time.Month(w.DueDate.Month), int(w.DueDate.Day),
		hours, minutes, 0, 0, time.UTC)
}

// wrapGoogleError maps a Google 401 to the reauth-discriminated error; other
// failures keep their original cause.
func wrapGoogleError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 401 {
		return apperror.ErrGoogleTokenExpired
	}
	return err
}
