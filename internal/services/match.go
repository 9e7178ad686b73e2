package services

import (
	"context"

	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/matching"
	"github.com/campusgig/server/internal/models"
	"github.com/campusgig/server/pkg/geo"
	"golang.org/x/sync/errgroup"
)

type MatchService struct {
	db       *database.DB
	settings *SettingService
}

func NewMatchService(db *database.DB, settings *SettingService) *MatchService {
	return &MatchService{db: db, settings: settings}
}

type MatchResponse struct {
	Items   []models.Gig `json:"items"`
	Count   int          `json:"count"`
	Message string       `json:"message,omitempty"`
}

// GetMatches builds the personalized feed for a student: gigs matching any
// declared skill, unioned with gigs near the student's location. A profile
// with neither criterion yields an empty feed with an explanatory message,
// not an error.
func (s *MatchService) GetMatches(ctx context.Context, userID uint) (*MatchResponse, error) {
	var user models.User
	if err := s.db.Preload("Skills").First(&user, userID).Error; err != nil {
		return nil, err
	}

	skills := user.SkillNames()
	hasSkills := len(skills) > 0
	hasCoords := user.HasCoordinates()

	if !hasSkills && !hasCoords {
		return &MatchResponse{
			Items:   []models.Gig{},
			Count:   0,
			Message: "Add skills or enable location on your profile to get matched gigs.",
		}, nil
	}

	var gigs []models.Gig
	if err := s.db.Where("posted_by <> ?", userID).
		Order("created_at DESC").
		Find(&gigs).Error; err != nil {
		return nil, err
	}

	radius := s.settings.MatchRadiusKm()

	// Skill and distance matching are independent pure computations, so
	// they run concurrently.
	var skillMatches, distanceMatches []models.Gig
	g, _ := errgroup.WithContext(ctx)
	if hasSkills {
		g.Go(func() error {
			skillMatches = matching.MatchBySkill(gigs, skills)
			return nil
		})
	}
	if hasCoords {
		origin := geo.Point{Lat: *user.Lat, Lng: *user.Lng}
		g.Go(func() error {
			distanceMatches = matching.MatchByDistance(gigs, origin, radius)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := matching.Combine(skillMatches, distanceMatches)
	return &MatchResponse{
		Items: items,
		Count: len(items),
	}, nil
}
