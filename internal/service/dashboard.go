package service

import (
	"context"
	"errors"

	"github.com/romanzh1/daylog/internal/models"
)

// Dashboard gathers everything the actor needs for today: the day with its
// score, unpaused habits with today's logs, the prayer log, today's routines
// and ad-hoc tasks.
func (s *Service) Dashboard(ctx context.Context, actorID int64) (*models.Dashboard, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	today := s.Today()
	day, err := s.EnsureDay(ctx, actorID, today)
	if err != nil {
		return nil, err
	}

	attached, err := s.attachOrphans(ctx, actorID, today)
	if err != nil {
		return nil, err
	}
	if attached > 0 {
		if _, err := s.refreshDay(ctx, actorID, day.ID, today); err != nil {
			return nil, err
		}
	}

	habits, err := s.repo.GetUserHabits(ctx, actorID, false)
	if err != nil {
		return nil, err
	}

	dash := &models.Dashboard{Habits: make([]models.HabitWithLog, 0, len(habits))}
	for _, h := range habits {
		hl := models.HabitWithLog{Habit: *h}

		log, err := s.repo.GetHabitLog(ctx, h.ID, today)
		switch {
		case err == nil:
			hl.Log = log
		case !errors.Is(err, models.ErrNotFound):
			return nil, err
		}

		dash.Habits = append(dash.Habits, hl)
	}

	prayer, err := s.prayerLog(ctx, actorID, today)
	if err != nil {
		return nil, err
	}
	dash.Prayer = *prayer

	if dash.Routines, err = s.routinesForDate(ctx, actorID, today); err != nil {
		return nil, err
	}

	tasks, err := s.repo.GetAdHocTasks(ctx, actorID, today)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		dash.Tasks = append(dash.Tasks, *t)
	}

	fresh, err := s.repo.GetDayByID(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	dash.Day = *fresh

	return dash, nil
}
