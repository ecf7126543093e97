package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/romanzh1/daylog/internal/models"
	"github.com/romanzh1/daylog/internal/service/scoring"
	"go.uber.org/zap"
)

type HabitInput struct {
	Name          string
	Category      string
	Frequency     string
	Unit          *string
	IdentityLabel *string
	TargetValue   int
	MinValue      int
	Priority      int
	Difficulty    int
}

func (in HabitInput) normalize() (HabitInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("habit name is required: %w", ErrInvalidInput)
	}
	if in.Category == "" {
		in.Category = "General"
	}
	if in.Frequency == "" {
		in.Frequency = "Daily"
	}
	if in.TargetValue < 1 {
		in.TargetValue = 1
	}
	if in.MinValue < 1 {
		in.MinValue = 1
	}
	if in.Priority < 1 {
		in.Priority = 3
	}
	if in.Difficulty < 1 {
		in.Difficulty = 1
	}
	return in, nil
}

func (in HabitInput) apply(h *models.Habit) {
	h.Name = in.Name
	h.Category = in.Category
	h.Frequency = in.Frequency
	h.Unit = in.Unit
	h.IdentityLabel = in.IdentityLabel
	h.TargetValue = in.TargetValue
	h.MinValue = in.MinValue
	h.Priority = in.Priority
	h.Difficulty = in.Difficulty
	h.Points = scoring.BasePoints(in.Difficulty, in.Priority)
}

type HabitToggleResult struct {
	Status      bool `json:"status"`
	ValueDone   int  `json:"value_done"`
	TargetValue int  `json:"target_value"`
	Points      int  `json:"points"`
	DayScore    int  `json:"day_score"`
}

func (s *Service) AddHabit(ctx context.Context, actorID int64, in HabitInput) (*models.Habit, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	habit := &models.Habit{
		UserID:    actorID,
		CreatedAt: s.now().UTC(),
	}
	in.apply(habit)

	if err := s.repo.CreateHabit(ctx, habit); err != nil {
		return nil, err
	}

	zap.S().Infow("habit added", "user_id", actorID, "habit_id", habit.ID, "points", habit.Points)
	return habit, nil
}

// ownedHabit loads the habit and checks it belongs to the actor.
func (s *Service) ownedHabit(ctx context.Context, actorID, habitID int64) (*models.Habit, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	habit, err := s.repo.GetHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}

	if habit.UserID != actorID {
		return nil, denied(actorID, "habit", habitID)
	}

	return habit, nil
}

// EditHabit replaces the habit's attributes and re-derives its base points.
func (s *Service) EditHabit(ctx context.Context, actorID, habitID int64, in HabitInput) (*models.Habit, error) {
	habit, err := s.ownedHabit(ctx, actorID, habitID)
	if err != nil {
		return nil, err
	}

	in, err = in.normalize()
	if err != nil {
		return nil, err
	}
	in.apply(habit)

	if err := s.repo.UpdateHabit(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *Service) SetHabitPaused(ctx context.Context, actorID, habitID int64, paused bool) error {
	if _, err := s.ownedHabit(ctx, actorID, habitID); err != nil {
		return err
	}

	return s.repo.SetHabitPaused(ctx, habitID, paused)
}

// DeleteHabit removes the habit with its logs and rescores every day that held one.
func (s *Service) DeleteHabit(ctx context.Context, actorID, habitID int64) error {
	if _, err := s.ownedHabit(ctx, actorID, habitID); err != nil {
		return err
	}

	dayIDs, err := s.repo.GetHabitLogDayIDs(ctx, habitID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteHabit(ctx, habitID); err != nil {
		return err
	}

	return s.refreshDays(ctx, dayIDs)
}

func (s *Service) ListHabits(ctx context.Context, actorID int64, includePaused bool) ([]*models.Habit, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	return s.repo.GetUserHabits(ctx, actorID, includePaused)
}

func progressOf(log *models.HabitLog) scoring.HabitProgress {
	return scoring.HabitProgress{Status: log.Status, ValueDone: log.ValueDone, Points: log.Points}
}

func applyProgress(log *models.HabitLog, p scoring.HabitProgress) {
	log.Status = p.Status
	log.ValueDone = p.ValueDone
	log.Points = p.Points
}

// ToggleHabit records one tap on the habit for today and rescores the day.
func (s *Service) ToggleHabit(ctx context.Context, actorID, habitID int64) (*HabitToggleResult, error) {
	habit, err := s.ownedHabit(ctx, actorID, habitID)
	if err != nil {
		return nil, err
	}

	today := s.Today()
	day, err := s.EnsureDay(ctx, actorID, today)
	if err != nil {
		return nil, err
	}

	rule := scoring.HabitRule{TargetValue: habit.TargetValue, Points: habit.Points}

	log, err := s.repo.GetHabitLog(ctx, habit.ID, today)
	switch {
	case errors.Is(err, models.ErrNotFound):
		log = &models.HabitLog{HabitID: habit.ID, Date: today, DayID: &day.ID}
		applyProgress(log, scoring.NextHabitState(rule, nil))

		err = s.repo.CreateHabitLog(ctx, log)
		if errors.Is(err, models.ErrConflict) {
			zap.S().Debugw("habit log created concurrently, re-reading", "habit_id", habit.ID, "date", today)
			log, err = s.repo.GetHabitLog(ctx, habit.ID, today)
			if err == nil {
				err = s.tap(ctx, actorID, rule, log)
			}
		}
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := s.tap(ctx, actorID, rule, log); err != nil {
			return nil, err
		}
	}

	score, err := s.refreshDay(ctx, actorID, day.ID, today)
	if err != nil {
		return nil, err
	}

	return &HabitToggleResult{
		Status:      log.Status,
		ValueDone:   log.ValueDone,
		TargetValue: habit.TargetValue,
		Points:      log.Points,
		DayScore:    score,
	}, nil
}

// tap advances an existing log by one step, repairing its day link first.
func (s *Service) tap(ctx context.Context, actorID int64, rule scoring.HabitRule, log *models.HabitLog) error {
	if err := s.AttachToDay(ctx, actorID, log); err != nil {
		return err
	}

	current := progressOf(log)
	applyProgress(log, scoring.NextHabitState(rule, &current))

	return s.repo.UpdateHabitLog(ctx, log)
}
