package services

import (
	"errors"
	"strings"

	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/models"
	"gorm.io/gorm"
)

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

type UpdateUserRequest struct {
	Name   *string  `json:"name,omitempty"`
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
	Skills []string `json:"skills,omitempty"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type UnregisterDeviceRequest struct {
	Token string `json:"token"`
}

// GetByID retrieves a user with skills and devices.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Skills").Preload("Devices").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates profile fields. Coordinates must be set as a pair; skills,
// when present, replace the existing set.
func (s *UserService) Update(id uint, req *UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	if (req.Lat == nil) != (req.Lng == nil) {
		return nil, errors.New("lat and lng must be provided together")
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Lat != nil {
		user.Lat = req.Lat
		user.Lng = req.Lng
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		if req.Skills == nil {
			return nil
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Skill{}).Error; err != nil {
			return err
		}

		seen := make(map[string]bool)
		for _, name := range req.Skills {
			name = strings.TrimSpace(name)
			if name == "" || seen[strings.ToLower(name)] {
				continue
			}
			seen[strings.ToLower(name)] = true
			if err := tx.Create(&models.Skill{UserID: user.ID, Name: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(user.ID)
}

// Delete soft deactivates a user.
func (s *UserService) Delete(id uint) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false).Error
}

// RegisterDevice stores a push token for the user, reactivating or
// reassigning it when already known.
func (s *UserService) RegisterDevice(userID uint, req *RegisterDeviceRequest) (*models.Device, error) {
	if req.Token == "" {
		return nil, errors.New("token is required")
	}

	var device models.Device
	err := s.db.Where("token = ?", req.Token).First(&device).Error
	if err == nil {
		device.UserID = userID
		device.Platform = req.Platform
		device.IsActive = true
		if err := s.db.Save(&device).Error; err != nil {
			return nil, err
		}
		return &device, nil
	}

	device = models.Device{
		UserID:   userID,
		Token:    req.Token,
		Platform: req.Platform,
		IsActive: true,
	}
	if err := s.db.Create(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

// UnregisterDevice deactivates a push token owned by the user.
func (s *UserService) UnregisterDevice(userID uint, token string) error {
	return s.db.Model(&models.Device{}).
		Where("user_id = ? AND token = ?", userID, token).
		Update("is_active", false).Error
}
