package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/romanzh1/daylog/internal/models"
	"go.uber.org/zap"
)

const GuestTTL = 24 * time.Hour

func validRole(role models.Role) bool {
	switch role {
	case models.RoleUser, models.RoleAdmin, models.RoleGuest:
		return true
	}
	return false
}

func (s *Service) CreateUser(ctx context.Context, username, email string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("username and email are required: %w", ErrInvalidInput)
	}
	if role == "" {
		role = models.RoleUser
	}
	if !validRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrInvalidInput)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Role:      role,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	zap.S().Infow("user created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// CreateGuest creates a throwaway account removed by CleanupGuests after GuestTTL.
func (s *Service) CreateGuest(ctx context.Context) (*models.User, error) {
	name := "Guest_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return s.CreateUser(ctx, name, name+"@guest.local", models.RoleGuest)
}

func (s *Service) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetUser(ctx, userID)
}

// SetBanned suspends or restores a user. Only admins may do it, and not to themselves.
func (s *Service) SetBanned(ctx context.Context, adminID, userID int64, banned bool) error {
	admin, err := s.actor(ctx, adminID)
	if err != nil {
		return err
	}
	if admin.Role != models.RoleAdmin {
		return denied(adminID, "user", userID)
	}
	if adminID == userID {
		return fmt.Errorf("cannot change own ban status: %w", ErrInvalidInput)
	}

	if err := s.repo.SetUserBanned(ctx, userID, banned); err != nil {
		return err
	}

	zap.S().Infow("user ban changed", "admin_id", adminID, "user_id", userID, "banned", banned)
	return nil
}

// CleanupGuests deletes guest accounts older than olderThan together with
// everything they own.
func (s *Service) CleanupGuests(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		olderThan = GuestTTL
	}

	guests, err := s.repo.GetUsersByRole(ctx, models.RoleGuest)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-olderThan)

	var expired []int64
	for _, g := range guests {
		if g.CreatedAt.Before(cutoff) {
			expired = append(expired, g.ID)
		}
	}

	n, err := s.repo.DeleteUsers(ctx, expired)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		zap.S().Infow("guest accounts removed", "count", n)
	}
	return n, nil
}
