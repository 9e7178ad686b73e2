package services

import (
	"strconv"

	"github.com/campusgig/server/internal/config"
	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/models"
)

// SettingService reads platform settings with config fallbacks.
type SettingService struct {
	db  *database.DB
	cfg *config.Config
}

func NewSettingService(db *database.DB, cfg *config.Config) *SettingService {
	return &SettingService{db: db, cfg: cfg}
}

func (s *SettingService) value(key string) (string, bool) {
	var setting models.Setting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return "", false
	}
	return setting.Value, true
}

// MatchRadiusKm returns the radius used by the matched-gigs feed.
func (s *SettingService) MatchRadiusKm() float64 {
	if v, ok := s.value(models.SettingMatchRadiusKm); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return s.cfg.MatchRadiusKm
}

// MaxActiveApplications returns the per-student cap on non-terminal
// applications. Zero means unlimited.
func (s *SettingService) MaxActiveApplications() int {
	if v, ok := s.value(models.SettingMaxActiveApplications); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return s.cfg.MaxActiveApplications
}
