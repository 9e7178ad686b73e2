package services

import (
	"errors"
	"testing"

	"github.com/campusgig/server/internal/models"
)

func TestCreateGigGeocodesKnownCity(t *testing.T) {
	db := newTestDB(t)
	svc := NewGigService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)

	gig, err := svc.Create(business.ID, &CreateGigRequest{
		Title:    "React landing page",
		Budget:   8000,
		Location: "Bangalore",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !gig.HasCoordinates() {
		t.Fatal("expected coordinates for a known city")
	}
	if *gig.Lat < 12.9 || *gig.Lat > 13.0 {
		t.Errorf("lat = %v", *gig.Lat)
	}
}

func TestCreateGigUnknownCity(t *testing.T) {
	db := newTestDB(t)
	svc := NewGigService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)

	gig, err := svc.Create(business.ID, &CreateGigRequest{
		Title:    "Event photography",
		Budget:   3000,
		Location: "Springfield",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if gig.HasCoordinates() {
		t.Error("unknown city must not get coordinates")
	}
}

func TestCreateGigValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewGigService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)

	cases := []struct {
		name string
		req  CreateGigRequest
	}{
		{"empty title", CreateGigRequest{Title: "  ", Budget: 100, Location: "Mumbai"}},
		{"zero budget", CreateGigRequest{Title: "x", Budget: 0, Location: "Mumbai"}},
		{"negative budget", CreateGigRequest{Title: "x", Budget: -5, Location: "Mumbai"}},
		{"empty location", CreateGigRequest{Title: "x", Budget: 100, Location: ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(business.ID, &tc.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUpdateGigOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewGigService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	other := createUser(t, db, "other@example.com", models.RoleBusiness)
	gig := createGig(t, db, business.ID, "Flyer design")

	title := "Updated"
	if _, err := svc.Update(other.ID, gig.ID, &UpdateGigRequest{Title: &title}); !errors.Is(err, ErrNotGigOwner) {
		t.Errorf("Update() as non-owner error = %v, want ErrNotGigOwner", err)
	}

	updated, err := svc.Update(business.ID, gig.ID, &UpdateGigRequest{Title: &title})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "Updated" {
		t.Errorf("title = %q", updated.Title)
	}
}

func TestUpdateGigLocationDropsStaleCoordinates(t *testing.T) {
	db := newTestDB(t)
	svc := NewGigService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)

	gig, err := svc.Create(business.ID, &CreateGigRequest{
		Title:    "Data entry",
		Budget:   1500,
		Location: "Mumbai",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !gig.HasCoordinates() {
		t.Fatal("expected coordinates for Mumbai")
	}

	loc := "Atlantis"
	updated, err := svc.Update(business.ID, gig.ID, &UpdateGigRequest{Location: &loc})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.HasCoordinates() {
		t.Error("coordinates must be dropped when the new city is unknown")
	}
}

func TestDeleteGigOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewGigService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	other := createUser(t, db, "other@example.com", models.RoleBusiness)
	gig := createGig(t, db, business.ID, "Flyer design")

	if err := svc.Delete(other.ID, gig.ID); !errors.Is(err, ErrNotGigOwner) {
		t.Errorf("Delete() as non-owner error = %v, want ErrNotGigOwner", err)
	}
	if err := svc.Delete(business.ID, gig.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.GetByID(gig.ID); !errors.Is(err, ErrGigNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrGigNotFound", err)
	}
}

func TestListSkillFilterInProcess(t *testing.T) {
	db := newTestDB(t)
	svc := NewGigService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)

	mustCreate := func(title, desc string) {
		t.Helper()
		if _, err := svc.Create(business.ID, &CreateGigRequest{
			Title:       title,
			Description: desc,
			Budget:      1000,
			Location:    "Delhi",
		}); err != nil {
			t.Fatalf("Create(%q) error = %v", title, err)
		}
	}
	mustCreate("React developer needed", "build a dashboard")
	mustCreate("Python scripting", "automate reports")
	mustCreate("Warehouse help", "weekend shifts")

	resp, err := svc.List(&GigFilter{Skills: []string{"react", "python"}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	for _, gig := range resp.Items {
		if gig.Title == "Warehouse help" {
			t.Error("unmatched gig leaked through the skill filter")
		}
	}
}
