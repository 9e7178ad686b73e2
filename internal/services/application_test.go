package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/campusgig/server/internal/config"
	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/lifecycle"
	"github.com/campusgig/server/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	db := &database.DB{DB: gdb}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.EmailVerification{},
		&models.Device{},
		&models.Gig{},
		&models.Application{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newApplicationService(db *database.DB) *ApplicationService {
	cfg := &config.Config{MatchRadiusKm: 50, MaxActiveApplications: 20}
	return NewApplicationService(db, NewSettingService(db, cfg))
}

func createUser(t *testing.T, db *database.DB, email, role string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Password: "not-a-real-hash",
		Name:     "Test User",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createGig(t *testing.T, db *database.DB, postedBy uint, title string) *models.Gig {
	t.Helper()

	gig := &models.Gig{
		Title:       title,
		Description: "help needed",
		Budget:      5000,
		Location:    "Bangalore",
		PostedBy:    postedBy,
	}
	if err := db.Create(gig).Error; err != nil {
		t.Fatalf("create gig: %v", err)
	}
	return gig
}

func TestApply(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	gig := createGig(t, db, business.ID, "Flyer design")

	app, err := svc.Apply(student.ID, gig.ID, &ApplyRequest{Note: "I can start today"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if app.Status != string(lifecycle.StatusPending) {
		t.Errorf("status = %q, want %q", app.Status, lifecycle.StatusPending)
	}
	if app.Reference == "" {
		t.Error("expected a non-empty reference")
	}
	if app.Note != "I can start today" {
		t.Errorf("note = %q", app.Note)
	}
}

func TestApplyDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	gig := createGig(t, db, business.ID, "Flyer design")

	if _, err := svc.Apply(student.ID, gig.ID, &ApplyRequest{}); err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}
	if _, err := svc.Apply(student.ID, gig.ID, &ApplyRequest{}); !errors.Is(err, ErrDuplicateApplication) {
		t.Errorf("second Apply() error = %v, want ErrDuplicateApplication", err)
	}
}

func TestApplyOwnGig(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	gig := createGig(t, db, business.ID, "Flyer design")

	if _, err := svc.Apply(business.ID, gig.ID, &ApplyRequest{}); !errors.Is(err, ErrOwnGig) {
		t.Errorf("Apply() error = %v, want ErrOwnGig", err)
	}
}

func TestApplyGigNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	student := createUser(t, db, "stu@example.com", models.RoleStudent)

	if _, err := svc.Apply(student.ID, 999, &ApplyRequest{}); !errors.Is(err, ErrGigNotFound) {
		t.Errorf("Apply() error = %v, want ErrGigNotFound", err)
	}
}

func TestApplyActiveLimit(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	if err := db.Create(&models.Setting{Key: models.SettingMaxActiveApplications, Value: "1"}).Error; err != nil {
		t.Fatalf("seed setting: %v", err)
	}

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	first := createGig(t, db, business.ID, "Flyer design")
	second := createGig(t, db, business.ID, "Poster design")

	if _, err := svc.Apply(student.ID, first.ID, &ApplyRequest{}); err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}
	if _, err := svc.Apply(student.ID, second.ID, &ApplyRequest{}); !errors.Is(err, ErrApplicationLimit) {
		t.Errorf("second Apply() error = %v, want ErrApplicationLimit", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	gig := createGig(t, db, business.ID, "Flyer design")

	app, err := svc.Apply(student.ID, gig.ID, &ApplyRequest{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	ctx := context.Background()

	updated, err := svc.UpdateStatus(ctx, business.ID, app.ID, "accepted")
	if err != nil {
		t.Fatalf("pending -> accepted: %v", err)
	}
	if updated.Status != string(lifecycle.StatusAccepted) {
		t.Errorf("status = %q, want accepted", updated.Status)
	}

	updated, err = svc.UpdateStatus(ctx, business.ID, app.ID, "completed")
	if err != nil {
		t.Fatalf("accepted -> completed: %v", err)
	}
	if updated.Status != string(lifecycle.StatusCompleted) {
		t.Errorf("status = %q, want completed", updated.Status)
	}

	// completed is terminal
	_, err = svc.UpdateStatus(ctx, business.ID, app.ID, "pending")
	var transitionErr *lifecycle.TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("completed -> pending error = %v, want *lifecycle.TransitionError", err)
	}
}

func TestUpdateStatusInvalidJump(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	gig := createGig(t, db, business.ID, "Flyer design")

	app, err := svc.Apply(student.ID, gig.ID, &ApplyRequest{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// pending cannot jump straight to completed
	_, err = svc.UpdateStatus(context.Background(), business.ID, app.ID, "completed")
	var transitionErr *lifecycle.TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("pending -> completed error = %v, want *lifecycle.TransitionError", err)
	}
	if transitionErr.From != lifecycle.StatusPending || transitionErr.To != lifecycle.StatusCompleted {
		t.Errorf("transition error = %v", transitionErr)
	}
}

func TestUpdateStatusSurvivesRequestContextCancel(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	gig := createGig(t, db, business.ID, "Flyer design")

	app, err := svc.Apply(student.ID, gig.ID, &ApplyRequest{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// The request context is recycled as soon as the handler returns;
	// the notification goroutine must not depend on it.
	ctx, cancel := context.WithCancel(context.Background())
	updated, err := svc.UpdateStatus(ctx, business.ID, app.ID, "accepted")
	cancel()
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != string(lifecycle.StatusAccepted) {
		t.Errorf("status = %q, want accepted", updated.Status)
	}

	var stored models.Application
	if err := db.First(&stored, app.ID).Error; err != nil {
		t.Fatalf("reload application: %v", err)
	}
	if stored.Status != string(lifecycle.StatusAccepted) {
		t.Errorf("stored status = %q, want accepted", stored.Status)
	}
}

func TestUpdateStatusOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	other := createUser(t, db, "other@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	gig := createGig(t, db, business.ID, "Flyer design")

	app, err := svc.Apply(student.ID, gig.ID, &ApplyRequest{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), other.ID, app.ID, "accepted"); !errors.Is(err, ErrNotGigOwner) {
		t.Errorf("UpdateStatus() error = %v, want ErrNotGigOwner", err)
	}
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	gig := createGig(t, db, business.ID, "Flyer design")

	app, err := svc.Apply(student.ID, gig.ID, &ApplyRequest{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), business.ID, app.ID, "archived"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestListByGigOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	other := createUser(t, db, "other@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	gig := createGig(t, db, business.ID, "Flyer design")

	if _, err := svc.Apply(student.ID, gig.ID, &ApplyRequest{}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	apps, err := svc.ListByGig(business.ID, gig.ID)
	if err != nil {
		t.Fatalf("ListByGig() error = %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("len(apps) = %d, want 1", len(apps))
	}
	if apps[0].StudentID != student.ID {
		t.Errorf("student_id = %d, want %d", apps[0].StudentID, student.ID)
	}

	if _, err := svc.ListByGig(other.ID, gig.ID); !errors.Is(err, ErrNotGigOwner) {
		t.Errorf("ListByGig() as non-owner error = %v, want ErrNotGigOwner", err)
	}
}

func TestListMine(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	first := createGig(t, db, business.ID, "Flyer design")
	second := createGig(t, db, business.ID, "Poster design")

	if _, err := svc.Apply(student.ID, first.ID, &ApplyRequest{}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := svc.Apply(student.ID, second.ID, &ApplyRequest{}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	apps, err := svc.ListMine(student.ID)
	if err != nil {
		t.Fatalf("ListMine() error = %v", err)
	}
	if len(apps) != 2 {
		t.Fatalf("len(apps) = %d, want 2", len(apps))
	}
	for _, app := range apps {
		if app.Gig == nil {
			t.Error("expected Gig to be preloaded")
		}
	}
}

func TestGigDeleteRemovesApplications(t *testing.T) {
	db := newTestDB(t)
	appSvc := newApplicationService(db)
	gigSvc := NewGigService(db)

	business := createUser(t, db, "biz@example.com", models.RoleBusiness)
	student := createUser(t, db, "stu@example.com", models.RoleStudent)
	gig := createGig(t, db, business.ID, "Flyer design")

	if _, err := appSvc.Apply(student.ID, gig.ID, &ApplyRequest{}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if err := gigSvc.Delete(business.ID, gig.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var count int64
	if err := db.Model(&models.Application{}).Where("gig_id = ?", gig.ID).Count(&count).Error; err != nil {
		t.Fatalf("count applications: %v", err)
	}
	if count != 0 {
		t.Errorf("applications remaining = %d, want 0", count)
	}
}
