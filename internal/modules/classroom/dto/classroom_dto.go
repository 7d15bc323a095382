package dto

import (
	"time"

	"semillero.org/semillerodigital/internal/entity"
)

// Course is the shape a Google Classroom course arrives in, already decoded
// from the vendor API.
type Course struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Section        string               `json:"section,omitempty"`
	Description    string               `json:"description,omitempty"`
	Room           string               `json:"room,omitempty"`
	OwnerID        string               `json:"owner_id"`
	CreationTime   time.Time            `json:"creation_time"`
	UpdateTime     time.Time            `json:"update_time"`
	EnrollmentCode string               `json:"enrollment_code,omitempty"`
	CourseState    string               `json:"course_state"`
	AlternateLink  string               `json:"alternate_link,omitempty"`
	TeacherFolder  entity.TeacherFolder `json:"teacher_folder"`
	CalendarID     string               `json:"calendar_id,omitempty"`
}

type RosterStudent struct {
	UserID       string `json:"user_id"`
	FullName     string `json:"full_name"`
	EmailAddress string `json:"email_address,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

type CourseWork struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	State         string     `json:"state"`
	WorkType      string     `json:"work_type,omitempty"`
	MaxPoints     float64    `json:"max_points,omitempty"`
	AlternateLink string     `json:"alternate_link,omitempty"`
	CreationTime  time.Time  `json:"creation_time"`
	UpdateTime    time.Time  `json:"update_time"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

type Submission struct {
	ID            string    `json:"id"`
	CourseWorkID  string    `json:"course_work_id"`
	UserID        string    `json:"user_id"`
	State         string    `json:"state"`
	Late          bool      `json:"late"`
	AssignedGrade *float64  `json:"assigned_grade,omitempty"`
	AlternateLink string    `json:"alternate_link,omitempty"`
	UpdateTime    time.Time `json:"update_time"`
}

type Announcement struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	State         string    `json:"state"`
	AlternateLink string    `json:"alternate_link,omitempty"`
	CreatorUserID string    `json:"creator_user_id"`
	CreationTime  time.Time `json:"creation_time"`
	UpdateTime    time.Time `json:"update_time"`
}

type CourseListResponse struct {
	Courses  []entity.BasicInfo `json:"courses"`
	Total    int                `json:"total"`
	SyncDate time.Time          `json:"syncDate"`
	Errors   []string           `json:"errors,omitempty"`
}

// EnrichedStudent pairs a Classroom roster entry with the matching local
// profile, when one exists.
type EnrichedStudent struct {
	GoogleID  string                `json:"googleId"`
	Profile   RosterStudent         `json:"profile"`
	LocalData *entity.PublicProfile `json:"localData"`
}

type StudentsResponse struct {
	CourseID string            `json:"courseId"`
	Students []EnrichedStudent `json:"students"`
	Total    int               `json:"total"`
}

type CourseworkResponse struct {
	CourseID    string       `json:"courseId"`
	Coursework  []CourseWork `json:"coursework"`
	Submissions []Submission `json:"submissions,omitempty"`
	Total       int          `json:"total"`
	Errors      []string     `json:"errors,omitempty"`
}

type AnnouncementsResponse struct {
	CourseID      string         `json:"courseId"`
	Announcements []Announcement `json:"announcements"`
	Total         int            `json:"total"`
}
