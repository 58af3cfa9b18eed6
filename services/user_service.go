package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
)

type UserService interface {
	ListUsers(identity *policy.Identity) ([]models.User, error)
	GetUser(id uint, identity *policy.Identity) (*models.User, error)
	UpdateRoles(ctx context.Context, id uint, req models.UpdateRolesRequest, identity *policy.Identity) (*models.User, error)
	DeleteUser(ctx context.Context, id uint, identity *policy.Identity) error
}

type userService struct {
	userRepo repositories.UserRepository
	sessions repositories.SessionRepository
	tokenTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewUserService wires user administration. Role changes and deletions
// revoke the user's outstanding tokens through sessions; with a nil
// sessions those tokens keep their old flags until they expire.
func NewUserService(userRepo repositories.UserRepository, sessions repositories.SessionRepository, tokenTTL time.Duration, logger *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		sessions: sessions,
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *userService) ListUsers(identity *policy.Identity) ([]models.User, error) {
	if err := authorize(identity, policy.Admin); err != nil {
		return nil, err
	}
	return s.userRepo.GetAll()
}

func (s *userService) GetUser(id uint, identity *policy.Identity) (*models.User, error) {
	if err := authorize(identity, policy.Admin); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, notFound(err, "user %d not found", id)
	}
	return user, nil
}

// UpdateRoles toggles capability flags. Omitted flags keep their value and
// the legacy role string is re-derived on save.
func (s *userService) UpdateRoles(ctx context.Context, id uint, req models.UpdateRolesRequest, identity *policy.Identity) (*models.User, error) {
	user, err := s.GetUser(id, identity)
	if err != nil {
		return nil, err
	}

	if req.IsAdmin != nil {
		if !*req.IsAdmin && user.ID == identity.UserID {
			return nil, models.Forbidden("admins cannot revoke their own admin role")
		}
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsModerator != nil {
		user.IsModerator = *req.IsModerator
	}
	if req.IsAnalyst != nil {
		user.IsAnalyst = *req.IsAnalyst
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	if err := s.revokeTokens(ctx, user.ID); err != nil {
		return nil, err
	}

	s.logger.Info("user roles updated",
		"user_id", user.ID,
		"role", user.Role,
		"admin_id", identity.UserID,
	)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint, identity *policy.Identity) error {
	if err := authorize(identity, policy.Admin); err != nil {
		return err
	}
	if id == identity.UserID {
		return models.Forbidden("admins cannot delete their own account")
	}

	deleted, err := s.userRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if !deleted {
		return models.NotFound("user %d not found", id)
	}
	return s.revokeTokens(ctx, id)
}

// revokeTokens cuts off every token issued to userID so far.
func (s *userService) revokeTokens(ctx context.Context, userID uint) error {
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.RevokeUser(ctx, userID, s.now(), s.tokenTTL); err != nil {
		return fmt.Errorf("revoke tokens of user %d: %w", userID, err)
	}
	return nil
}
