package services

import (
	"context"
	"testing"

	"github.com/campusgig/server/internal/config"
	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/models"
	"github.com/campusgig/server/pkg/geo"
)

func newMatchService(db *database.DB) *MatchService {
	cfg := &config.Config{MatchRadiusKm: 50, MaxActiveApplications: 20}
	return NewMatchService(db, NewSettingService(db, cfg))
}

func addSkill(t *testing.T, db *database.DB, userID uint, name string) {
	t.Helper()
	if err := db.Create(&models.Skill{UserID: userID, Name: name}).Error; err != nil {
		t.Fatalf("create skill: %v", err)
	}
}

func setLocation(t *testing.T, db *database.DB, userID uint, city string) {
	t.Helper()
	p, ok := geo.ResolveCity(city)
	if !ok {
		t.Fatalf("unknown city %q", city)
	}
	if err := db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"lat": p.Lat, "lng": p.Lng}).Error; err != nil {
		t.Fatalf("set location: %v", err)
	}
}

func createLocatedGig(t *testing.T, db *database.DB, postedBy uint, title, desc, city string) *models.Gig {
	t.Helper()
	gig := &models.Gig{
		Title:       title,
		Description: desc,
		Budget:      2000,
		Location:    city,
		PostedBy:    postedBy,
	}
	if p, ok := geo.ResolveCity(city); ok {
		gig.Lat = &p.Lat
		gig.Lng = &p.Lng
	}
	if err := db.Create(gig).Error; err != nil {
		t.Fatalf("create gig %q: %v", title, err)
	}
	return gig
}

func matchedIDs(resp *MatchResponse) map[uint]bool {
	ids := make(map[uint]bool, len(resp.Items))
	for _, g := range resp.Items {
		ids[g.ID] = true
	}
	return ids
}

func TestGetMatchesEmptyProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newMatchService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	createLocatedGig(t, db, business.ID, "React dashboard", "frontend work", "Bangalore")

	resp, err := svc.GetMatches(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("GetMatches() error = %v", err)
	}
	if resp.Count != 0 || len(resp.Items) != 0 {
		t.Errorf("count = %d, items = %d, want empty feed", resp.Count, len(resp.Items))
	}
	if resp.Message == "" {
		t.Error("expected an explanatory message for a profile with no skills and no location")
	}
}

func TestGetMatchesBySkillOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newMatchService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	addSkill(t, db, student.ID, "React")

	react := createLocatedGig(t, db, business.ID, "React dashboard", "frontend work", "Bangalore")
	createLocatedGig(t, db, business.ID, "Warehouse help", "weekend shifts", "Bangalore")

	resp, err := svc.GetMatches(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("GetMatches() error = %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Items[0].ID != react.ID {
		t.Errorf("matched gig = %d, want %d", resp.Items[0].ID, react.ID)
	}
	if resp.Message != "" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestGetMatchesByLocationOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newMatchService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	setLocation(t, db, student.ID, "Mumbai")

	near := createLocatedGig(t, db, business.ID, "Errand running", "same-day deliveries", "Mumbai")
	createLocatedGig(t, db, business.ID, "Errand running", "same-day deliveries", "Delhi")
	// No coordinates, never matched by distance
	createGig(t, db, business.ID, "Remote data entry")

	resp, err := svc.GetMatches(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("GetMatches() error = %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Items[0].ID != near.ID {
		t.Errorf("matched gig = %d, want %d", resp.Items[0].ID, near.ID)
	}
}

func TestGetMatchesUnion(t *testing.T) {
	db := newTestDB(t)
	svc := newMatchService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	addSkill(t, db, student.ID, "Python")
	setLocation(t, db, student.ID, "Mumbai")

	skillFar := createLocatedGig(t, db, business.ID, "Python scripts", "report automation", "Delhi")
	nearOnly := createLocatedGig(t, db, business.ID, "Errand running", "same-day deliveries", "Mumbai")
	both := createLocatedGig(t, db, business.ID, "Python tutor", "evening classes", "Mumbai")
	createLocatedGig(t, db, business.ID, "Warehouse help", "weekend shifts", "Delhi")

	resp, err := svc.GetMatches(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("GetMatches() error = %v", err)
	}
	if resp.Count != 3 {
		t.Fatalf("count = %d, want 3", resp.Count)
	}
	if len(resp.Items) != resp.Count {
		t.Fatalf("len(items) = %d, count = %d", len(resp.Items), resp.Count)
	}

	ids := matchedIDs(resp)
	for _, want := range []*models.Gig{skillFar, nearOnly, both} {
		if !ids[want.ID] {
			t.Errorf("gig %q (id %d) missing from the union", want.Title, want.ID)
		}
	}

	// Skill matches lead; the distance-only gig comes last.
	if resp.Items[len(resp.Items)-1].ID != nearOnly.ID {
		t.Errorf("last item = %d, want distance-only gig %d", resp.Items[len(resp.Items)-1].ID, nearOnly.ID)
	}

	// No gig appears twice even though one matched both ways.
	if len(ids) != len(resp.Items) {
		t.Error("union contains duplicates")
	}
}

func TestGetMatchesExcludesOwnGigs(t *testing.T) {
	db := newTestDB(t)
	svc := newMatchService(db)

	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	addSkill(t, db, student.ID, "Python")

	createLocatedGig(t, db, student.ID, "Python scripts", "report automation", "Delhi")

	resp, err := svc.GetMatches(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("GetMatches() error = %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0 for a feed of the student's own gigs", resp.Count)
	}
}

func TestGetMatchesRadiusSetting(t *testing.T) {
	db := newTestDB(t)
	svc := newMatchService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	setLocation(t, db, student.ID, "Mumbai")

	// Bangalore is ~840 km from Mumbai, outside the default 50 km radius.
	far := createLocatedGig(t, db, business.ID, "Event setup", "weekend event", "Bangalore")

	resp, err := svc.GetMatches(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("GetMatches() error = %v", err)
	}
	if resp.Count != 0 {
		t.Fatalf("count = %d, want 0 under the 50 km radius", resp.Count)
	}

	// Widening the platform radius setting brings the gig into range.
	if err := db.Create(&models.Setting{Key: models.SettingMatchRadiusKm, Value: "1000"}).Error; err != nil {
		t.Fatalf("seed setting: %v", err)
	}

	resp, err = svc.GetMatches(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("GetMatches() error = %v", err)
	}
	if resp.Count != 1 || resp.Items[0].ID != far.ID {
		t.Errorf("count = %d, want the widened radius to match gig %d", resp.Count, far.ID)
	}
}
