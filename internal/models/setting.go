package models

import (
	"time"
)

// Platform setting keys.
const (
	SettingMatchRadiusKm         = "match_radius_km"
	SettingMaxActiveApplications = "max_active_applications"
)

// Setting represents a key/value platform setting
// DB: settings
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:key;size:100;not null;uniqueIndex:settings_key_key" json:"key"`
	Value     string    `gorm:"column:value;size:255;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
