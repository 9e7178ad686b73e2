package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/campusgig/server/internal/config"
	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/models"
	"github.com/campusgig/server/pkg/auth"
	"github.com/campusgig/server/pkg/email"
	"github.com/google/uuid"
)

type AuthService struct {
	db    *database.DB
	cfg   *config.Config
	email *email.EmailService
}

func NewAuthService(db *database.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg, email: email.NewEmailService(cfg)}
}

// Request/Response types
type SendEmailCodeRequest struct {
	Email string `json:"email"`
}

type EmailCodeSentResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"`
}

type VerifyEmailCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type EmailVerifyCodeResponse struct {
	Verified          bool   `json:"verified"`
	VerificationToken string `json:"verification_token"`
}

type SignupRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	VerificationToken string `json:"verification_token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	User         *models.User `json:"user"`
}

// SendEmailCode sends a verification code to the email address.
func (s *AuthService) SendEmailCode(emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return errors.New("invalid email address")
	}

	code := fmt.Sprintf("%06d", rand.Intn(1000000))

	// Replace any previous code for this address
	s.db.Where("email = ?", emailAddr).Delete(&models.EmailVerification{})

	now := time.Now()
	verification := models.EmailVerification{
		Email:      emailAddr,
		Code:       code,
		ExpiresAt:  now.Add(10 * time.Minute),
		LastSentAt: &now,
	}

	if err := s.db.Create(&verification).Error; err != nil {
		return err
	}

	if err := s.email.SendVerificationCode(emailAddr, code); err != nil {
		// In development the code is logged instead of delivered.
		log.Printf("[Auth] Email send failed (%v), code for %s: %s", err, emailAddr, code)
	}

	return nil
}

// VerifyEmailCode checks a code and returns a one-time verification token
// that the signup call must present.
func (s *AuthService) VerifyEmailCode(emailAddr, code string) (string, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	var verification models.EmailVerification
	err := s.db.Where("email = ? AND code = ? AND expires_at > ?", emailAddr, code, time.Now()).
		First(&verification).Error
	if err != nil {
		return "", errors.New("invalid or expired code")
	}

	token := uuid.NewString()
	verification.IsVerified = true
	verification.VerificationToken = &token
	if err := s.db.Save(&verification).Error; err != nil {
		return "", err
	}

	return token, nil
}

// Signup creates a new user with a verified email.
func (s *AuthService) Signup(req *SignupRequest) (*AuthResponse, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	if req.Role != models.RoleStudent && req.Role != models.RoleBusiness {
		return nil, errors.New("role must be student or business")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	var verification models.EmailVerification
	err := s.db.Where("email = ? AND is_verified = ? AND verification_token = ?",
		emailAddr, true, req.VerificationToken).First(&verification).Error
	if err != nil {
		return nil, errors.New("email not verified")
	}

	var existingUser models.User
	if err := s.db.Where("email = ?", emailAddr).First(&existingUser).Error; err == nil {
		return nil, errors.New("user already exists")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    emailAddr,
		Password: hashedPassword,
		Name:     req.Name,
		Role:     req.Role,
		IsActive: true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	// Verification record is single-use
	s.db.Delete(&verification)

	return s.tokenResponse(&user)
}

// Login authenticates an email/password pair.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.db.Where("email = ?", emailAddr).First(&user).Error; err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		return nil, errors.New("invalid email or password")
	}

	return s.tokenResponse(&user)
}

// Refresh rotates a refresh token into a fresh token pair.
func (s *AuthService) Refresh(refreshToken string) (*AuthResponse, error) {
	claims, err := auth.ValidateRefreshToken(refreshToken, s.cfg.JWTSecretKey)
	if err != nil {
		return nil, errors.New("invalid or expired refresh token")
	}

	var user models.User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}

	return s.tokenResponse(&user)
}

func (s *AuthService) tokenResponse(user *models.User) (*AuthResponse, error) {
	accessToken, refreshToken, err := auth.GenerateTokenPair(
		user.ID, user.Role, s.cfg.JWTSecretKey,
		s.cfg.JWTAccessTokenExpireMin, s.cfg.JWTRefreshTokenExpireDays)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         user,
	}, nil
}
