package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/romanzh1/daylog/internal/models"
	"github.com/romanzh1/daylog/pkg/utils"
	"go.uber.org/zap"
)

// SnapshotCache stores computed day snapshots. Implemented by cache.DayCache.
type SnapshotCache interface {
	Get(ctx context.Context, userID int64, date models.Date) (*models.DaySnapshot, error)
	Set(ctx context.Context, snapshot *models.DaySnapshot) error
	Invalidate(ctx context.Context, userID int64, date models.Date) error
}

type Service struct {
	repo  models.Repository
	cache SnapshotCache
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock. Every date key is derived from it.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithCache sets the day snapshot cache. Without one, aggregates are always recomputed.
func WithCache(cache SnapshotCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func NewService(repo models.Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		now:  utils.LocalNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the local calendar date in the fixed UTC+6 zone.
func (s *Service) Today() models.Date {
	return models.DateOf(utils.ToLocal(s.now()))
}

// actor loads the acting user and rejects suspended accounts.
func (s *Service) actor(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get actor (user_id: %d): %w", userID, err)
	}

	if user.IsBanned {
		return nil, fmt.Errorf("actor (user_id: %d): %w", userID, ErrAccountSuspended)
	}

	return user, nil
}

func (s *Service) invalidate(ctx context.Context, userID int64, date models.Date) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx, userID, date); err != nil {
		zap.S().Warnw("invalidate day snapshot", "user_id", userID, "date", date, "error", err)
	}
}

// refreshDay recomputes the day's score and drops its cached snapshot.
func (s *Service) refreshDay(ctx context.Context, userID, dayID int64, date models.Date) (int, error) {
	score, err := s.Recompute(ctx, dayID)
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx, userID, date)
	return score, nil
}

// refreshDays recomputes every listed day, used after deletes that cascade into logs.
func (s *Service) refreshDays(ctx context.Context, dayIDs []int64) error {
	for _, dayID := range dayIDs {
		day, err := s.repo.GetDayByID(ctx, dayID)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("get day (day_id: %d): %w", dayID, err)
		}

		if _, err := s.refreshDay(ctx, day.UserID, day.ID, day.Date); err != nil {
			return err
		}
	}

	return nil
}
