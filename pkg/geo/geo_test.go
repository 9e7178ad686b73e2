package geo

import (
	"math"
	"testing"
)

var (
	bangalore = Point{Lat: 12.9716, Lng: 77.5946}
	mumbai    = Point{Lat: 19.0760, Lng: 72.8777}
)

func TestDistanceIdentity(t *testing.T) {
	if d := Distance(bangalore, bangalore); d != 0 {
		t.Errorf("Distance(p, p) = %v, want 0", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	ab := Distance(bangalore, mumbai)
	ba := Distance(mumbai, bangalore)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("Distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestDistanceBangaloreMumbai(t *testing.T) {
	// Great-circle distance Bangalore ↔ Mumbai is roughly 840 km.
	d := Distance(bangalore, mumbai)
	if d < 800 || d > 900 {
		t.Errorf("Distance(bangalore, mumbai) = %v km, want ~840", d)
	}
}

func TestDistanceFromNullIsland(t *testing.T) {
	// A {0,0} position is over 2100 km from Mumbai; such positions must
	// never fall inside a 50 km radius.
	d := Distance(Point{}, mumbai)
	if d < 2100 {
		t.Errorf("Distance({0,0}, mumbai) = %v km, want > 2100", d)
	}
}

func TestResolveCity(t *testing.T) {
	cases := []struct {
		name    string
		wantLat float64
		wantOK  bool
	}{
		{"Bangalore", 12.9716, true},
		{"bangalore", 12.9716, true},
		{"  MUMBAI ", 19.0760, true},
		{"Delhi", 28.7041, true},
		{"Chennai", 13.0827, true},
		{"Unknown City", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		p, ok := ResolveCity(c.name)
		if ok != c.wantOK {
			t.Errorf("ResolveCity(%q) ok = %v, want %v", c.name, ok, c.wantOK)
			continue
		}
		if ok && p.Lat != c.wantLat {
			t.Errorf("ResolveCity(%q) lat = %v, want %v", c.name, p.Lat, c.wantLat)
		}
	}
}

func TestKnownCities(t *testing.T) {
	got := KnownCities()
	want := []string{"bangalore", "chennai", "delhi", "mumbai"}
	if len(got) != len(want) {
		t.Fatalf("KnownCities() returned %d names, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("KnownCities()[%d] = %q, want %q", i, got[i], name)
		}
	}
}
