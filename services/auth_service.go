package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
)

// TokenClaims is the JWT payload issued at login.
type TokenClaims struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsAdmin     bool   `json:"is_admin"`
	IsModerator bool   `json:"is_moderator"`
	IsAnalyst   bool   `json:"is_analyst"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the caller identity used by the policy.
func (c *TokenClaims) Identity() *policy.Identity {
	return &policy.Identity{
		UserID:      c.UserID,
		Email:       c.Email,
		Role:        c.Role,
		IsAdmin:     c.IsAdmin,
		IsModerator: c.IsModerator,
		IsAnalyst:   c.IsAnalyst,
	}
}

type AuthService interface {
	Register(req models.RegisterRequest) (*models.AuthResponse, error)
	Login(req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, claims *TokenClaims) error
	ParseToken(ctx context.Context, tokenString string) (*TokenClaims, error)
	GetUserByID(id uint) (*models.User, error)
}

type authService struct {
	userRepo   repositories.UserRepository
	sessions   repositories.SessionRepository
	secret     []byte
	expiration time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewAuthService wires token issuing. sessions may be nil, in which case
// logout is a no-op and tokens stay valid until they expire.
func NewAuthService(userRepo repositories.UserRepository, sessions repositories.SessionRepository, secret string, expiration time.Duration, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		secret:     []byte(secret),
		expiration: expiration,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *authService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	existingUser, err := s.userRepo.GetByEmail(email)
	if err == nil && existingUser != nil {
		return nil, models.Conflict("user already exists")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashedPassword,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, conflict(fmt.Errorf("create user: %w", err), "user already exists")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return &models.AuthResponse{AccessToken: token, User: *user}, nil
}

func (s *authService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.Unauthorized("invalid credentials")
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.LastLogin = &now

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{AccessToken: token, User: *user}, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, claims *TokenClaims) error {
	if s.sessions == nil || claims == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// ParseToken validates signature and expiry, then checks both the token's
// own revocation and any per-user cutoff set when the account changed.
func (s *authService) ParseToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.Unauthorized("invalid or expired token")
	}

	if s.sessions != nil && claims.ID != "" {
		revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return nil, models.Unauthorized("token has been revoked")
		}
	}

	if s.sessions != nil && claims.IssuedAt != nil {
		cutoff, err := s.sessions.UserCutoff(ctx, claims.UserID)
		if err != nil {
			return nil, fmt.Errorf("check user revocation: %w", err)
		}
		if claims.IssuedAt.Time.Before(cutoff) {
			return nil, models.Unauthorized("token has been revoked")
		}
	}

	return claims, nil
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "user %d not found", id)
	}
	return user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := s.now()

	claims := TokenClaims{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		IsAdmin:     user.IsAdmin,
		IsModerator: user.IsModerator,
		IsAnalyst:   user.IsAnalyst,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signedToken, nil
}

// HashPassword bcrypts a plaintext password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
