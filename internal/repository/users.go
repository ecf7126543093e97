package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/romanzh1/daylog/internal/models"
)

var userColumns = []string{"id", "username", "email", "role", "is_banned", "created_at"}

func (r Store) CreateUser(ctx context.Context, user *models.User) error {
	query := r.psql.Insert("users").
		Columns("username", "email", "role", "is_banned", "created_at").
		Values(user.Username, user.Email, user.Role, user.IsBanned, user.CreatedAt)

	id, err := r.insertReturningID(ctx, query)
	if err != nil {
		return fmt.Errorf("create user (username: %s): %w", user.Username, err)
	}

	user.ID = id
	return nil
}

func (r Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	query := r.psql.Select(userColumns...).From("users").Where("id = ?", userID)

	var user models.User
	if err := r.get(ctx, &user, query); err != nil {
		return nil, fmt.Errorf("get user (user_id: %d): %w", userID, err)
	}

	return &user, nil
}

func (r Store) GetUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	query := r.psql.Select(userColumns...).From("users").
		Where("role = ?", role).
		OrderBy("id")

	var users []*models.User
	if err := r.selectAll(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("get users by role (role: %s): %w", role, err)
	}

	return users, nil
}

func (r Store) SetUserBanned(ctx context.Context, userID int64, banned bool) error {
	query := r.psql.Update("users").
		Set("is_banned", banned).
		Where("id = ?", userID)

	n, err := r.exec(ctx, query)
	if err != nil {
		return fmt.Errorf("set user banned (user_id: %d): %w", userID, err)
	}
	if n == 0 {
		return fmt.Errorf("set user banned (user_id: %d): %w", userID, models.ErrNotFound)
	}

	return nil
}

// DeleteUsers removes the users and, through cascades, everything they own.
func (r Store) DeleteUsers(ctx context.Context, userIDs []int64) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	query := r.psql.Delete("users").Where(squirrel.Eq{"id": userIDs})

	n, err := r.exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete users (count: %d): %w", len(userIDs), err)
	}

	return n, nil
}
