package models

import (
	"time"

	"gorm.io/gorm"
)

// Gig represents a posted work opportunity
// DB: gigs
type Gig struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"column:title;type:text;not null" json:"title"`
	Description string         `gorm:"column:description;type:text;not null" json:"description"`
	Budget      int            `gorm:"column:budget;not null" json:"budget"`
	Location    string         `gorm:"column:location;size:100;not null;index:idx_gigs_location" json:"location"`
	Lat         *float64       `gorm:"column:lat;type:double precision" json:"lat,omitempty"`
	Lng         *float64       `gorm:"column:lng;type:double precision" json:"lng,omitempty"`
	PostedBy    uint           `gorm:"column:posted_by;not null;index:idx_gigs_posted_by" json:"posted_by"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null;autoCreateTime;index:idx_gigs_created,sort:desc" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index:idx_gigs_deleted" json:"-"`

	// Relations
	Poster       *User         `gorm:"foreignKey:PostedBy" json:"poster,omitempty"`
	Applications []Application `gorm:"foreignKey:GigID" json:"applications,omitempty"`
}

func (Gig) TableName() string {
	return "gigs"
}

// HasCoordinates reports whether the gig's location resolved to a known
// city. Gigs without coordinates never match by distance.
func (g *Gig) HasCoordinates() bool {
	return g.Lat != nil && g.Lng != nil
}
