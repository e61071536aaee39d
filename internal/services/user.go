package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/models"
	"samaj-backend/internal/phone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtExpDays        = 365
	resetTokenTTL     = 15 * time.Minute
	resetPurpose      = "reset"
	minPasswordLength = 6
	dateLayout        = "2006-01-02"
)

// UserRepository is the storage UserService needs
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByMobileKey(ctx context.Context, mobileKey string) (*models.User, error)
	ListByMobileKeys(ctx context.Context, keys []string) ([]*models.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
	MatchesBirthDate(ctx context.Context, mobileKey string, dob time.Time) (string, error)
}

// UserService handles accounts, sessions and the admin check
type UserService struct {
	userRepo     UserRepository
	jwtSecret    string
	adminMobiles map[string]struct{}
	now          func() time.Time
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, jwtSecret string, adminMobiles []string) *UserService {
	admins := make(map[string]struct{}, len(adminMobiles))
	for _, m := range adminMobiles {
		if key := phone.Key(m); key != "" {
			admins[key] = struct{}{}
		}
	}
	return &UserService{
		userRepo:     userRepo,
		jwtSecret:    jwtSecret,
		adminMobiles: admins,
		now:          time.Now,
	}
}

// RegisterInput carries the sign-up form
type RegisterInput struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	DOB      string `json:"dob"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account and signs the user in
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	if !phone.Valid(in.Mobile) {
		return nil, apperrors.ErrInvalidMobile
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperrors.ErrWeakPassword
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, apperrors.InvalidArg("full name is required")
	}
	dob, err := parseDate(in.DOB)
	if err != nil {
		return nil, err
	}
	if dob == nil {
		return nil, apperrors.InvalidArg("date of birth is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Mobile:       strings.TrimSpace(in.Mobile),
		MobileKey:    phone.Key(in.Mobile),
		FullName:     fullName,
		DOB:          dob,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	return &AuthResponse{Token: token, User: user}, nil
}

// Login verifies mobile and password and issues a session token
func (s *UserService) Login(ctx context.Context, mobile, password string) (*AuthResponse, error) {
	user, err := s.userRepo.GetByMobileKey(ctx, phone.Key(mobile))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: user}, nil
}

// ForgotPassword checks mobile and date of birth and returns a short lived reset token
func (s *UserService) ForgotPassword(ctx context.Context, mobile, dob string) (string, error) {
	date, err := parseDate(dob)
	if err != nil {
		return "", err
	}
	if date == nil {
		return "", apperrors.InvalidArg("date of birth is required")
	}

	userID, err := s.userRepo.MatchesBirthDate(ctx, phone.Key(mobile), *date)
	if err != nil {
		return "", err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"purpose": resetPurpose,
		"pwd":     passwordStamp(user.PasswordHash),
		"exp":     s.now().Add(resetTokenTTL).Unix(),
		"iat":     s.now().Unix(),
	}
	return s.sign(claims)
}

// ResetPassword sets a new password using a token from ForgotPassword
func (s *UserService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.ErrWeakPassword
	}

	claims, err := s.parse(resetToken)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if purpose, _ := claims["purpose"].(string); purpose != resetPurpose {
		return apperrors.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return apperrors.ErrInvalidToken
	}
	stamp, _ := claims["pwd"].(string)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	// A reset token stops working once the password it was issued against changes
	if subtle.ConstantTimeCompare([]byte(stamp), []byte(passwordStamp(user.PasswordHash))) != 1 {
		return apperrors.ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	log.Info().Str("user_id", userID).Msg("Password reset")
	return nil
}

func passwordStamp(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

// GenerateJWT generates a session token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     s.now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     s.now().Unix(),
	}
	return s.sign(claims)
}

func (s *UserService) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (s *UserService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// ValidateJWT validates a session token and returns the user ID. Reset tokens are rejected.
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}
	if _, isReset := claims["purpose"]; isReset {
		return "", fmt.Errorf("token is not a session token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}
	return userID, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ProfileUpdate carries the editable account fields; nil fields are left unchanged.
// Date of birth can be changed but not cleared.
type ProfileUpdate struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	DOB       *string `json:"dob"`
}

// UpdateProfile applies a partial profile update
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, apperrors.InvalidArg("full name is required")
		}
		user.FullName = name
	}
	if in.AvatarURL != nil {
		user.AvatarURL = in.AvatarURL
	}
	if in.DOB != nil {
		dob, err := parseDate(*in.DOB)
		if err != nil {
			return nil, err
		}
		if dob == nil {
			return nil, apperrors.InvalidArg("date of birth is required")
		}
		user.DOB = dob
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePushToken stores the APNs device token; an empty token clears it
func (s *UserService) UpdatePushToken(ctx context.Context, userID, pushToken string) error {
	var token *string
	if pushToken != "" {
		token = &pushToken
	}
	return s.userRepo.UpdatePushToken(ctx, userID, token)
}

// IsAdmin reports whether the user's mobile number is on the admin list
func (s *UserService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if len(s.adminMobiles) == 0 {
		return false, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	_, ok := s.adminMobiles[user.MobileKey]
	return ok, nil
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperrors.InvalidArg("date must be in YYYY-MM-DD format")
	}
	return &t, nil
}
