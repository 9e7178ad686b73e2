// Package matching is the shared gig filtering engine. The personalized
// matched-gigs feed and the browse view both go through this package so
// that skill matching and distance math exist exactly once.
package matching

import (
	"sort"
	"strings"

	"github.com/campusgig/server/internal/models"
	"github.com/campusgig/server/pkg/geo"
)

// DefaultRadiusKm is the radius used by the matched-gigs feed when no
// platform setting overrides it.
const DefaultRadiusKm = 50.0

// SortKey selects the ordering of a filtered gig list.
type SortKey string

const (
	SortNewest     SortKey = "-created_at"
	SortBudgetDesc SortKey = "-budget"
	SortBudgetAsc  SortKey = "budget"
	SortDistance   SortKey = "distance"
)

// Criteria describes an ad-hoc browse filter. Zero values mean "no
// constraint" for the corresponding field.
type Criteria struct {
	Query     string
	MinBudget *int
	MaxBudget *int
	Location  string
	Skills    []string
	Origin    *geo.Point
	RadiusKm  float64
	Sort      SortKey
}

// searchBlob is the text a skill or query is matched against.
func searchBlob(g *models.Gig) string {
	return strings.ToLower(g.Title + " " + g.Description)
}

func gigPoint(g *models.Gig) (geo.Point, bool) {
	if !g.HasCoordinates() {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *g.Lat, Lng: *g.Lng}, true
}

// MatchBySkill returns the gigs whose lowercased title+description contains
// any of the given skills as a substring. There is no tokenization: a skill
// like "java" matches a gig mentioning "JavaScript". Empty skills yield an
// empty result. Input order is preserved.
func MatchBySkill(gigs []models.Gig, skills []string) []models.Gig {
	lowered := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			lowered = append(lowered, s)
		}
	}
	if len(lowered) == 0 {
		return []models.Gig{}
	}

	matched := make([]models.Gig, 0)
	for _, g := range gigs {
		blob := searchBlob(&g)
		for _, s := range lowered {
			if strings.Contains(blob, s) {
				matched = append(matched, g)
				break
			}
		}
	}
	return matched
}

// MatchByDistance returns the gigs within radiusKm of origin, boundary
// inclusive. Gigs without coordinates are excluded. Input order is
// preserved.
func MatchByDistance(gigs []models.Gig, origin geo.Point, radiusKm float64) []models.Gig {
	matched := make([]models.Gig, 0)
	for _, g := range gigs {
		p, ok := gigPoint(&g)
		if !ok {
			continue
		}
		if geo.Distance(origin, p) <= radiusKm {
			matched = append(matched, g)
		}
	}
	return matched
}

// Combine unions skill matches and distance matches, de-duplicated by gig
// ID. Skill matches come first in their original order, then any
// distance-only matches are appended. A gig is surfaced if it matches on
// skill OR proximity.
func Combine(skillMatches, distanceMatches []models.Gig) []models.Gig {
	seen := make(map[uint]bool, len(skillMatches))
	combined := make([]models.Gig, 0, len(skillMatches)+len(distanceMatches))
	for _, g := range skillMatches {
		if !seen[g.ID] {
			seen[g.ID] = true
			combined = append(combined, g)
		}
	}
	for _, g := range distanceMatches {
		if !seen[g.ID] {
			seen[g.ID] = true
			combined = append(combined, g)
		}
	}
	return combined
}

// Filter applies the in-process parts of a browse criteria: free-text
// query, budget range, exact location, skill tags, and distance radius.
// Callers that can push a predicate down to the database should do so and
// leave the corresponding Criteria field zero.
func Filter(gigs []models.Gig, c Criteria) []models.Gig {
	out := make([]models.Gig, 0, len(gigs))
	query := strings.ToLower(strings.TrimSpace(c.Query))

	skills := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			skills = append(skills, s)
		}
	}

	for _, g := range gigs {
		if query != "" {
			blob := searchBlob(&g) + " " + strings.ToLower(g.Location)
			if !strings.Contains(blob, query) {
				continue
			}
		}
		if c.MinBudget != nil && g.Budget < *c.MinBudget {
			continue
		}
		if c.MaxBudget != nil && g.Budget > *c.MaxBudget {
			continue
		}
		if c.Location != "" && !strings.EqualFold(g.Location, c.Location) {
			continue
		}
		if len(skills) > 0 {
			blob := searchBlob(&g)
			found := false
			for _, s := range skills {
				if strings.Contains(blob, s) {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if c.Origin != nil {
			p, ok := gigPoint(&g)
			if !ok {
				continue
			}
			if geo.Distance(*c.Origin, p) > c.RadiusKm {
				continue
			}
		}
		out = append(out, g)
	}
	return out
}

// Sort orders gigs in place. SortDistance needs an origin; without one it
// falls back to newest-first. The sort is stable so ties keep their
// storage order.
func Sort(gigs []models.Gig, key SortKey, origin *geo.Point) {
	switch key {
	case SortBudgetDesc:
		sort.SliceStable(gigs, func(i, j int) bool {
			return gigs[i].Budget > gigs[j].Budget
		})
	case SortBudgetAsc:
		sort.SliceStable(gigs, func(i, j int) bool {
			return gigs[i].Budget < gigs[j].Budget
		})
	case SortDistance:
		if origin == nil {
			Sort(gigs, SortNewest, nil)
			return
		}
		sort.SliceStable(gigs, func(i, j int) bool {
			return distanceOrInf(&gigs[i], *origin) < distanceOrInf(&gigs[j], *origin)
		})
	default: // SortNewest
		sort.SliceStable(gigs, func(i, j int) bool {
			return gigs[i].CreatedAt.After(gigs[j].CreatedAt)
		})
	}
}

// distanceOrInf sorts gigs without coordinates after every located gig.
func distanceOrInf(g *models.Gig, origin geo.Point) float64 {
	p, ok := gigPoint(g)
	if !ok {
		return 1e9
	}
	return geo.Distance(origin, p)
}
