package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/lifecycle"
	"github.com/campusgig/server/internal/models"
	"github.com/campusgig/server/pkg/firebase"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDuplicateApplication = errors.New("already applied to this gig")
	ErrOwnGig               = errors.New("cannot apply to your own gig")
	ErrApplicationLimit     = errors.New("active application limit reached")
	ErrApplicationNotFound  = errors.New("application not found")
)

type ApplicationService struct {
	db       *database.DB
	settings *SettingService
}

func NewApplicationService(db *database.DB, settings *SettingService) *ApplicationService {
	return &ApplicationService{db: db, settings: settings}
}

type ApplyRequest struct {
	Note string `json:"note"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status"`
}

// Apply creates a pending application for (gig, student). Duplicates are
// rejected here and backstopped by the composite unique index.
func (s *ApplicationService) Apply(studentID, gigID uint, req *ApplyRequest) (*models.Application, error) {
	var gig models.Gig
	if err := s.db.First(&gig, gigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGigNotFound
		}
		return nil, err
	}
	if gig.PostedBy == studentID {
		return nil, ErrOwnGig
	}

	var existing models.Application
	err := s.db.Where("gig_id = ? AND student_id = ?", gigID, studentID).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateApplication
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if limit := s.settings.MaxActiveApplications(); limit > 0 {
		var active int64
		s.db.Model(&models.Application{}).
			Where("student_id = ? AND status IN ?", studentID,
				[]string{string(lifecycle.StatusPending), string(lifecycle.StatusAccepted)}).
			Count(&active)
		if int(active) >= limit {
			return nil, ErrApplicationLimit
		}
	}

	application := models.Application{
		Reference: uuid.NewString(),
		GigID:     gigID,
		StudentID: studentID,
		Status:    string(lifecycle.StatusPending),
		Note:      req.Note,
	}

	if err := s.db.Create(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// ListByGig returns a gig's applications in application order, visible only
// to the posting business.
func (s *ApplicationService) ListByGig(ownerID, gigID uint) ([]models.Application, error) {
	var gig models.Gig
	if err := s.db.First(&gig, gigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGigNotFound
		}
		return nil, err
	}
	if gig.PostedBy != ownerID {
		return nil, ErrNotGigOwner
	}

	var applications []models.Application
	err := s.db.Preload("Student").Preload("Student.Skills").
		Where("gig_id = ?", gigID).
		Order("created_at ASC").
		Find(&applications).Error
	return applications, err
}

// ListMine returns the student's own applications, newest first.
func (s *ApplicationService) ListMine(studentID uint) ([]models.Application, error) {
	var applications []models.Application
	err := s.db.Preload("Gig").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

// UpdateStatus moves an application through the lifecycle state machine.
// Only the gig owner may review; invalid transitions surface as
// *lifecycle.TransitionError.
func (s *ApplicationService) UpdateStatus(ctx context.Context, ownerID, applicationID uint, rawStatus string) (*models.Application, error) {
	next, err := lifecycle.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	var application models.Application
	if err := s.db.WithContext(ctx).Preload("Gig").First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if application.Gig == nil || application.Gig.PostedBy != ownerID {
		return nil, ErrNotGigOwner
	}

	current, err := lifecycle.ParseStatus(application.Status)
	if err != nil {
		return nil, fmt.Errorf("stored status corrupt: %w", err)
	}
	if err := lifecycle.Transition(current, next); err != nil {
		return nil, err
	}

	application.Status = string(next)
	if err := s.db.WithContext(ctx).Save(&application).Error; err != nil {
		return nil, err
	}

	// The push outlives the request; fasthttp recycles the request context,
	// so the goroutine gets its own.
	go s.notifyStudent(context.Background(), &application, next)

	return &application, nil
}

// notifyStudent pushes a status change to the student's active devices,
// best effort.
func (s *ApplicationService) notifyStudent(ctx context.Context, application *models.Application, status lifecycle.Status) {
	fcm := firebase.GetFCMService()
	if !fcm.IsInitialized() {
		return
	}

	var devices []models.Device
	if err := s.db.Where("user_id = ? AND is_active = ?", application.StudentID, true).Find(&devices).Error; err != nil {
		log.Printf("[Applications] Failed to load devices: %v", err)
		return
	}
	if len(devices) == 0 {
		return
	}

	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.Token)
	}

	title := "Application update"
	body := fmt.Sprintf("Your application is now %s.", status)
	if application.Gig != nil {
		body = fmt.Sprintf("Your application for %q is now %s.", application.Gig.Title, status)
	}
	data := map[string]string{
		"type":           "application_status",
		"application_id": fmt.Sprintf("%d", application.ID),
		"status":         string(status),
	}

	result := fcm.SendPushMultiple(ctx, tokens, title, body, data)

	// Drop tokens FCM no longer accepts
	if len(result.FailedTokens) > 0 {
		s.db.Model(&models.Device{}).
			Where("token IN ?", result.FailedTokens).
			Update("is_active", false)
	}
}
