// Package geo provides great-circle distance math and city coordinate
// resolution for gig locations.
package geo

import (
	"math"
	"sort"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// Point is a position in decimal degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// Distance returns the Haversine great-circle distance between a and b in
// kilometers.
func Distance(a, b Point) float64 {
	latA := radians(a.Lat)
	latB := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(latA)*math.Cos(latB)*math.Pow(math.Sin(dLng/2), 2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// cityCoords maps known city names (lowercased) to coordinates. Gigs posted
// in other cities carry no coordinates and are excluded from distance
// matching.
var cityCoords = map[string]Point{
	"bangalore": {Lat: 12.9716, Lng: 77.5946},
	"mumbai":    {Lat: 19.0760, Lng: 72.8777},
	"delhi":     {Lat: 28.7041, Lng: 77.1025},
	"chennai":   {Lat: 13.0827, Lng: 80.2707},
}

// ResolveCity looks up coordinates for a city name. Matching is
// case-insensitive and ignores surrounding whitespace. The second return
// value reports whether the city is known.
func ResolveCity(name string) (Point, bool) {
	p, ok := cityCoords[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// KnownCities returns the resolvable city names, sorted.
func KnownCities() []string {
	names := make([]string, 0, len(cityCoords))
	for name := range cityCoords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
