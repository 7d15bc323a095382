package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CourseStateActive      = "ACTIVE"
	CourseStateArchived    = "ARCHIVED"
	CourseStateProvisioned = "PROVISIONED"
	CourseStateDeclined    = "DECLINED"
	CourseStateSuspended   = "SUSPENDED"
)

type TeacherFolder struct {
	ID            string `gorm:"size:255" json:"id,omitempty"`
	Title         string `gorm:"size:255" json:"title,omitempty"`
	AlternateLink string `gorm:"type:text" json:"alternate_link,omitempty"`
}

// SemilleroMetadata is the locally-managed overlay on a mirrored course:
// cohort/program assignment and tags that Google Classroom knows nothing about.
type SemilleroMetadata struct {
	Cohort       *string    `gorm:"size:50;index" json:"cohort,omitempty"`
	Program      *string    `gorm:"size:100;index" json:"program,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsMainCourse bool       `gorm:"default:false" json:"is_main_course"`
	Tags         []string   `gorm:"serializer:json" json:"tags,omitempty"`
}

type CourseStats struct {
	TotalStudents      int        `gorm:"default:0" json:"total_students"`
	TotalTeachers      int        `gorm:"default:0" json:"total_teachers"`
	TotalAssignments   int        `gorm:"default:0" json:"total_assignments"`
	TotalAnnouncements int        `gorm:"default:0" json:"total_announcements"`
	LastSyncDate       *time.Time `json:"last_sync_date,omitempty"`
}

// Course is the local mirror of a Google Classroom course, keyed by the
// upstream course id. It is refreshed only on explicit sync calls.
type Course struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	GoogleClassroomID string            `gorm:"size:100;uniqueIndex;not null" json:"google_classroom_id"`
	Name              string            `gorm:"size:255;not null" json:"name"`
	Section           string            `gorm:"size:255" json:"section,omitempty"`
	Description       string            `gorm:"type:text" json:"description,omitempty"`
	Room              string            `gorm:"size:100" json:"room,omitempty"`
	OwnerID           string            `gorm:"size:100;index" json:"owner_id"`
	CreationTime      time.Time         `json:"creation_time"`
	UpdateTime        time.Time         `json:"update_time"`
	EnrollmentCode    string            `gorm:"size:50" json:"enrollment_code,omitempty"`
	CourseState       string            `gorm:"size:20;default:ACTIVE;index" json:"course_state"`
	AlternateLink     string            `gorm:"type:text" json:"alternate_link,omitempty"`
	TeacherFolder     TeacherFolder     `gorm:"embedded;embeddedPrefix:teacher_folder_" json:"teacher_folder"`
	CalendarID        string            `gorm:"size:255" json:"calendar_id,omitempty"`
	SemilleroMetadata SemilleroMetadata `gorm:"embedded;embeddedPrefix:semillero_" json:"semillero_metadata"`
	Stats             CourseStats       `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BasicInfo is the course shape returned by listing endpoints.
type BasicInfo struct {
	ID                uuid.UUID         `json:"id"`
	GoogleClassroomID string            `json:"google_classroom_id"`
	Name              string            `json:"name"`
	Section           string            `json:"section,omitempty"`
	Description       string            `json:"description,omitempty"`
	CourseState       string            `json:"course_state"`
	AlternateLink     string            `json:"alternate_link,omitempty"`
	SemilleroMetadata SemilleroMetadata `json:"semillero_metadata"`
	Stats             CourseStats       `json:"stats"`
}

func (c *Course) BasicInfo() BasicInfo {
	return BasicInfo{
		ID:                c.ID,
		GoogleClassroomID: c.GoogleClassroomID,
		Name:              c.Name,
		Section:           c.Section,
		Description:       c.Description,
		CourseState:       c.CourseState,
		AlternateLink:     c.AlternateLink,
		SemilleroMetadata: c.SemilleroMetadata,
		Stats:             c.Stats,
	}
}
