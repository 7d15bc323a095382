package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent     = "student"
	RoleTeacher     = "teacher"
	RoleCoordinator = "coordinator"
	RoleAdmin       = "admin"
)

const (
	AuthMethodGoogle = "google"
	AuthMethodLocal  = "local"
	AuthMethodBoth   = "both"
)

// GoogleTokens holds the OAuth credentials issued by Google for a user.
// They are persisted so Classroom calls can be made on the user's behalf
// and are never serialized in API responses.
type GoogleTokens struct {
	AccessToken  string     `gorm:"type:text" json:"-"`
	RefreshToken string     `gorm:"type:text" json:"-"`
	ExpiryDate   *time.Time `json:"-"`
}

type Preferences struct {
	EmailNotifications bool   `gorm:"default:true" json:"email_notifications"`
	PushNotifications  bool   `gorm:"default:true" json:"push_notifications"`
	Language           string `gorm:"size:10;default:es" json:"language"`
	Timezone           string `gorm:"size:64;default:America/Argentina/Buenos_Aires" json:"timezone"`
}

type UserMetadata struct {
	Cohort         *string    `gorm:"size:50;index" json:"cohort,omitempty"`
	EnrollmentDate *time.Time `json:"enrollment_date,omitempty"`
	GraduationDate *time.Time `json:"graduation_date,omitempty"`
	Specialization *string    `gorm:"size:100" json:"specialization,omitempty"`
}

type User struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string       `gorm:"size:100;uniqueIndex;not null" json:"email"`
	GoogleID     *string      `gorm:"size:100;uniqueIndex" json:"google_id,omitempty"`
	PasswordHash *string      `gorm:"size:255" json:"-"`
	AuthMethod   string       `gorm:"size:10;not null;default:google" json:"auth_method"`
	Name         string       `gorm:"size:100;not null" json:"name"`
	Picture      string       `gorm:"type:text" json:"picture"`
	Role         string       `gorm:"size:20;not null;default:student;index" json:"role"`
	IsActive     bool         `gorm:"default:true" json:"is_active"`
	LastLogin    time.Time    `json:"last_login"`
	GoogleTokens GoogleTokens `gorm:"embedded;embeddedPrefix:google_token_" json:"-"`
	Preferences  Preferences  `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	Metadata     UserMetadata `gorm:"embedded;embeddedPrefix:meta_" json:"metadata"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.LastLogin.IsZero() {
		u.LastLogin = time.Now()
	}
	return nil
}

// IsGoogleTokenExpired reports whether the stored Google access token can no
// longer be used. A missing expiry counts as expired.
func (u *User) IsGoogleTokenExpired() bool {
	if u.GoogleTokens.ExpiryDate == nil {
		return true
	}
	return !time.Now().Before(*u.GoogleTokens.ExpiryDate)
}

// PublicProfile is the user representation exposed over the API. Google
// tokens and the password hash stay out of it.
type PublicProfile struct {
	ID        uuid.UUID    `json:"id"`
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	Picture   string       `json:"picture"`
	Role      string       `json:"role"`
	IsActive  bool         `json:"is_active"`
	LastLogin time.Time    `json:"last_login"`
	Metadata  UserMetadata `json:"metadata"`
}

func (u *User) PublicProfile() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		Metadata:  u.Metadata,
	}
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleCoordinator, RoleAdmin:
		return true
	}
	return false
}
