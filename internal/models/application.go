package models

import (
	"time"
)

// Application links a student to a gig they applied for. One application
// per (gig, student) pair, enforced by the composite unique index on top
// of the service-level duplicate check.
// DB: applications
type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"column:reference;size:36;not null;uniqueIndex:applications_reference_key" json:"reference"`
	GigID     uint      `gorm:"column:gig_id;not null;uniqueIndex:idx_app_gig_student;index:idx_app_gig" json:"gig_id"`
	StudentID uint      `gorm:"column:student_id;not null;uniqueIndex:idx_app_gig_student;index:idx_app_student" json:"student_id"`
	Status    string    `gorm:"column:status;size:20;not null;default:'pending';index:idx_app_status" json:"status"`
	Note      string    `gorm:"column:note;type:text" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	// Relations
	Gig     *Gig  `gorm:"foreignKey:GigID" json:"gig,omitempty"`
	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}
