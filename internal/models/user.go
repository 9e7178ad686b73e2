package models

import (
	"time"
)

// User roles. Students apply to gigs, businesses post them.
const (
	RoleStudent  = "student"
	RoleBusiness = "business"
)

// User represents the users table
// DB: users
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"column:email;size:255;not null;uniqueIndex:users_email_key" json:"email"`
	Password  string    `gorm:"column:password;size:255;not null" json:"-"`
	Name      string    `gorm:"column:name;size:100;not null" json:"name"`
	Role      string    `gorm:"column:role;size:20;not null;index:idx_users_role" json:"role"`
	Lat       *float64  `gorm:"column:lat;type:double precision" json:"lat,omitempty"`
	Lng       *float64  `gorm:"column:lng;type:double precision" json:"lng,omitempty"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	// Relations
	Skills  []Skill  `gorm:"foreignKey:UserID" json:"skills,omitempty"`
	Devices []Device `gorm:"foreignKey:UserID" json:"devices,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// SkillNames flattens the user's skills into plain strings for matching.
func (u *User) SkillNames() []string {
	names := make([]string, 0, len(u.Skills))
	for _, s := range u.Skills {
		names = append(names, s.Name)
	}
	return names
}

// HasCoordinates reports whether the user granted a geolocation.
func (u *User) HasCoordinates() bool {
	return u.Lat != nil && u.Lng != nil
}

// Skill represents a declared user skill (free text, compared
// case-insensitively at match time)
// DB: user_skills
type Skill struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_skill_user_name" json:"user_id"`
	Name      string    `gorm:"column:name;size:100;not null;uniqueIndex:idx_skill_user_name" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Skill) TableName() string {
	return "user_skills"
}

// EmailVerification represents email verification records
// DB: email_verifications
type EmailVerification struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Email             string     `gorm:"column:email;size:255;not null;index:idx_emailver_email" json:"email"`
	Code              string     `gorm:"column:code;size:10;not null" json:"-"`
	VerificationToken *string    `gorm:"column:verification_token;size:255;uniqueIndex:email_verifications_token_key" json:"-"`
	IsVerified        bool       `gorm:"column:is_verified;not null" json:"is_verified"`
	ExpiresAt         time.Time  `gorm:"column:expires_at;not null" json:"expires_at"`
	LastSentAt        *time.Time `gorm:"column:last_sent_at" json:"last_sent_at,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
}

func (EmailVerification) TableName() string {
	return "email_verifications"
}
