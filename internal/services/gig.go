package services

import (
	"errors"
	"strings"

	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/matching"
	"github.com/campusgig/server/internal/models"
	"github.com/campusgig/server/pkg/geo"
	"gorm.io/gorm"
)

var (
	ErrGigNotFound = errors.New("gig not found")
	ErrNotGigOwner = errors.New("only the posting business can do this")
)

type GigService struct {
	db *database.DB
}

func NewGigService(db *database.DB) *GigService {
	return &GigService{db: db}
}

type CreateGigRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Budget      int    `json:"budget"`
	Location    string `json:"location"`
}

type UpdateGigRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Budget      *int    `json:"budget,omitempty"`
	Location    *string `json:"location,omitempty"`
}

type GigFilter struct {
	Page      int
	Limit     int
	Query     string
	MinBudget *int
	MaxBudget *int
	Location  string
	Skills    []string
	Lat       float64
	Lng       float64
	RadiusKm  float64
	Sort      string
}

type GigListResponse struct {
	Items      []models.Gig `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}

// Create posts a new gig for a business user. The city is geocoded against
// the known-city table; unknown cities leave the gig without coordinates.
func (s *GigService) Create(userID uint, req *CreateGigRequest) (*models.Gig, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("title is required")
	}
	if req.Budget <= 0 {
		return nil, errors.New("budget must be positive")
	}
	if strings.TrimSpace(req.Location) == "" {
		return nil, errors.New("location is required")
	}

	gig := models.Gig{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Budget:      req.Budget,
		Location:    strings.TrimSpace(req.Location),
		PostedBy:    userID,
	}
	if p, ok := geo.ResolveCity(gig.Location); ok {
		gig.Lat = &p.Lat
		gig.Lng = &p.Lng
	}

	if err := s.db.Create(&gig).Error; err != nil {
		return nil, err
	}
	return &gig, nil
}

// GetByID retrieves a gig with its poster.
func (s *GigService) GetByID(id uint) (*models.Gig, error) {
	var gig models.Gig
	err := s.db.Preload("Poster").First(&gig, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGigNotFound
		}
		return nil, err
	}
	return &gig, nil
}

// Update edits the mutable fields of an owned gig. A location change
// re-geocodes; a change to an unknown city drops the coordinates.
func (s *GigService) Update(userID, gigID uint, req *UpdateGigRequest) (*models.Gig, error) {
	var gig models.Gig
	if err := s.db.First(&gig, gigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGigNotFound
		}
		return nil, err
	}
	if gig.PostedBy != userID {
		return nil, ErrNotGigOwner
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, errors.New("title is required")
		}
		gig.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		gig.Description = *req.Description
	}
	if req.Budget != nil {
		if *req.Budget <= 0 {
			return nil, errors.New("budget must be positive")
		}
		gig.Budget = *req.Budget
	}
	if req.Location != nil {
		gig.Location = strings.TrimSpace(*req.Location)
		if p, ok := geo.ResolveCity(gig.Location); ok {
			gig.Lat = &p.Lat
			gig.Lng = &p.Lng
		} else {
			gig.Lat = nil
			gig.Lng = nil
		}
	}

	if err := s.db.Save(&gig).Error; err != nil {
		return nil, err
	}
	return &gig, nil
}

// Delete removes an owned gig and its applications in one transaction.
func (s *GigService) Delete(userID, gigID uint) error {
	var gig models.Gig
	if err := s.db.First(&gig, gigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGigNotFound
		}
		return err
	}
	if gig.PostedBy != userID {
		return ErrNotGigOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gig_id = ?", gig.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		return tx.Delete(&gig).Error
	})
}

// List retrieves gigs with filtering, sorting and pagination. Text, budget
// and location predicates run in SQL; skill and distance predicates (and
// distance sort) run in-process through the matching package since the
// database cannot express them.
func (s *GigService) List(filter *GigFilter) (*GigListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	query := s.db.Model(&models.Gig{})

	if filter.Query != "" {
		searchTerm := "%" + filter.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR location ILIKE ?",
			searchTerm, searchTerm, searchTerm)
	}
	if filter.MinBudget != nil {
		query = query.Where("budget >= ?", *filter.MinBudget)
	}
	if filter.MaxBudget != nil {
		query = query.Where("budget <= ?", *filter.MaxBudget)
	}
	if filter.Location != "" {
		query = query.Where("LOWER(location) = LOWER(?)", filter.Location)
	}

	sortKey := matching.SortKey(filter.Sort)
	var origin *geo.Point
	if filter.Lat != 0 || filter.Lng != 0 {
		origin = &geo.Point{Lat: filter.Lat, Lng: filter.Lng}
	}

	// Skill tags, radius filtering and distance sort need the rows in
	// memory. Everything else paginates in SQL.
	needsInProcess := len(filter.Skills) > 0 ||
		(origin != nil && filter.RadiusKm > 0) ||
		sortKey == matching.SortDistance

	if needsInProcess {
		var gigs []models.Gig
		if err := query.Order("created_at DESC").Find(&gigs).Error; err != nil {
			return nil, err
		}

		criteria := matching.Criteria{Skills: filter.Skills}
		if origin != nil && filter.RadiusKm > 0 {
			criteria.Origin = origin
			criteria.RadiusKm = filter.RadiusKm
		}
		gigs = matching.Filter(gigs, criteria)
		matching.Sort(gigs, sortKey, origin)

		return paginate(gigs, filter.Page, filter.Limit), nil
	}

	var total int64
	query.Count(&total)

	switch sortKey {
	case matching.SortBudgetDesc:
		query = query.Order("budget DESC")
	case matching.SortBudgetAsc:
		query = query.Order("budget ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var gigs []models.Gig
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Offset(offset).Limit(filter.Limit).Find(&gigs).Error; err != nil {
		return nil, err
	}

	return listResponse(gigs, total, filter.Page, filter.Limit), nil
}

func paginate(gigs []models.Gig, page, limit int) *GigListResponse {
	total := int64(len(gigs))
	start := (page - 1) * limit
	if start > len(gigs) {
		start = len(gigs)
	}
	end := start + limit
	if end > len(gigs) {
		end = len(gigs)
	}
	return listResponse(gigs[start:end], total, page, limit)
}

func listResponse(items []models.Gig, total int64, page, limit int) *GigListResponse {
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return &GigListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
