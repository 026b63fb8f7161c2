// Package auth verifies login credentials and issues the JWTs used by the
// HTTP layer.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smart-delivery/logger"
	"smart-delivery/models/user"
	"smart-delivery/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength applies to every password chosen by a user.
const MinPasswordLength = 8

// Claims is the JWT payload.
type Claims struct {
	UserID             uint      `json:"user_id"`
	Uuid               string    `json:"uuid"`
	Username           string    `json:"username"`
	Role               user.Role `json:"role"`
	DriverID           *uint     `json:"driver_id,omitempty"`
	MustChangePassword bool      `json:"must_change_password"`
	jwt.RegisteredClaims
}

// Identity returns the authenticated identity carried by the claims.
func (c *Claims) Identity() user.Identity {
	return user.Identity{
		UserID:             c.UserID,
		Uuid:               c.Uuid,
		Username:           c.Username,
		Role:               c.Role,
		DriverID:           c.DriverID,
		MustChangePassword: c.MustChangePassword,
	}
}

// Service authenticates users and manages their credentials
type Service struct {
	DB       *gorm.DB
	Secret   []byte
	TokenTTL time.Duration
	Now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		DB:       db,
		Secret:   []byte(secret),
		TokenTTL: ttl,
		Now:      time.Now,
	}
}

// dummyHash is compared against when the username does not exist so that both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("smart-delivery-dummy"), bcrypt.DefaultCost)

// HashPassword hashes a plain password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate checks username and password. Every credential failure returns
// types.ErrInvalidCredentials without saying which part was wrong.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, types.ErrInvalidCredentials
	}

	var u user.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, types.ErrInvalidCredentials
		}
		return nil, types.FromDB(err, "user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, types.ErrInvalidCredentials
	}

	loginAt := s.Now().UTC()
	if err := s.DB.WithContext(ctx).Model(&u).Update("last_login_at", loginAt).Error; err != nil {
		logger.Error("Failed to record last login", err)
	}
	u.LastLoginAt = &loginAt

	return &u, nil
}

// IssueToken signs an HS256 token for u.
func (s *Service) IssueToken(u *user.User) (string, error) {
	now := s.Now()
	claims := Claims{
		UserID:             u.ID,
		Uuid:               u.Uuid,
		Username:           u.Username,
		Role:               u.Role,
		DriverID:           u.DriverID,
		MustChangePassword: u.MustChangePassword,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Uuid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token issued by IssueToken.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.Now))
	if err != nil || !token.Valid {
		return nil, &types.AppError{Kind: types.KindUnauthorized, Message: "invalid or expired token", Err: err}
	}
	return claims, nil
}

// Login authenticates and issues a token in one step.
func (s *Service) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// ChangePassword replaces the password of userID after checking the current
// one, and clears the forced-change flag.
func (s *Service) ChangePassword(ctx context.Context, userID uint, current, next string) (*user.User, error) {
	if len(next) < MinPasswordLength {
		return nil, types.Validation("new password must be at least %d characters", MinPasswordLength)
	}
	if current == next {
		return nil, types.Validation("new password must differ from the current one")
	}

	var u user.User
	if err := s.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, types.FromDB(err, "user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return nil, types.ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Model(&u).Updates(map[string]interface{}{
		"password_hash":        hash,
		"must_change_password": false,
	}).Error
	if err != nil {
		return nil, types.FromDB(err, "user")
	}

	u.PasswordHash = hash
	u.MustChangePassword = false
	return &u, nil
}

// Profile loads the account of userID.
func (s *Service) Profile(ctx context.Context, userID uint) (*user.User, error) {
	var u user.User
	if err := s.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, types.FromDB(err, "user")
	}
	return &u, nil
}

// CreateAccountTx creates a login inside tx. Accounts created with a
// provisional password must change it before doing anything else.
func CreateAccountTx(tx *gorm.DB, username, password string, role user.Role, driverID *uint, mustChange bool) (*user.User, error) {
	if !role.IsValid() {
		return nil, types.Validation("invalid role %q", role)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := user.User{
		Uuid:               uuid.New().String(),
		Username:           username,
		PasswordHash:       hash,
		Role:               role,
		DriverID:           driverID,
		MustChangePassword: mustChange,
	}
	if err := tx.Create(&u).Error; err != nil {
		return nil, types.FromDB(err, "user")
	}
	return &u, nil
}
