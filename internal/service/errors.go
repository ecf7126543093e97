package service

import (
	"errors"
	"fmt"

	"github.com/romanzh1/daylog/internal/models"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = models.ErrNotFound
	ErrAccountSuspended = errors.New("account suspended")
	ErrInvalidInput     = errors.New("invalid input")
)

// AccessDeniedError is returned when the actor does not own the target entity.
// It matches ErrUnauthorized with errors.Is.
type AccessDeniedError struct {
	UserID   int64
	Resource string
	ID       int64
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("user %d may not access %s %d", e.UserID, e.Resource, e.ID)
}

func (e *AccessDeniedError) Is(target error) bool {
	return target == ErrUnauthorized
}

func denied(userID int64, resource string, id int64) error {
	return &AccessDeniedError{UserID: userID, Resource: resource, ID: id}
}
