package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/romanzh1/daylog/internal/cache"
	"github.com/romanzh1/daylog/internal/models"
	"go.uber.org/zap"
)

const (
	defaultEnergy  = 3
	defaultMood    = 3
	defaultHistory = 7
	maxHistory     = 366
)

// EnsureDay returns the user's Day for date, creating it on first touch. A
// concurrent insert of the same (user, date) is absorbed by re-reading the
// winner's row.
func (s *Service) EnsureDay(ctx context.Context, userID int64, date models.Date) (*models.Day, error) {
	day, err := s.repo.GetDay(ctx, userID, date)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("ensure day: %w", err)
	}

	day = &models.Day{
		UserID:      userID,
		Date:        date,
		EnergyLevel: defaultEnergy,
		Mood:        defaultMood,
	}

	err = s.repo.CreateDay(ctx, day)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, models.ErrConflict) {
		return nil, fmt.Errorf("ensure day: %w", err)
	}

	zap.S().Debugw("day created concurrently, re-reading", "user_id", userID, "date", date)

	day, err = s.repo.GetDay(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("ensure day after conflict: %w", err)
	}

	return day, nil
}

// AttachToDay links a log row that has no day to the user's Day for the log's
// date. Rows already linked are left alone.
func (s *Service) AttachToDay(ctx context.Context, userID int64, log models.DayLinked) error {
	if log.LinkedDay() != nil {
		return nil
	}

	day, err := s.EnsureDay(ctx, userID, log.LogDate())
	if err != nil {
		return err
	}

	if err := s.repo.SetLogDay(ctx, log.LogKind(), log.LogID(), day.ID); err != nil {
		return fmt.Errorf("attach log to day: %w", err)
	}

	log.LinkDay(day.ID)
	zap.S().Debugw("attached log to day", "kind", log.LogKind(), "log_id", log.LogID(), "day_id", day.ID)

	return nil
}

// attachOrphans repairs every unlinked log of the user's date and reports how
// many rows were attached.
func (s *Service) attachOrphans(ctx context.Context, userID int64, date models.Date) (int, error) {
	var orphans []models.DayLinked

	habitLogs, err := s.repo.GetUnlinkedHabitLogs(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	for _, l := range habitLogs {
		orphans = append(orphans, l)
	}

	scheduleLogs, err := s.repo.GetUnlinkedScheduleLogs(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	for _, l := range scheduleLogs {
		orphans = append(orphans, l)
	}

	prayer, err := s.repo.GetPrayerLog(ctx, userID, date)
	switch {
	case err == nil:
		if prayer.DayID == nil {
			orphans = append(orphans, prayer)
		}
	case !errors.Is(err, models.ErrNotFound):
		return 0, err
	}

	for _, l := range orphans {
		if err := s.AttachToDay(ctx, userID, l); err != nil {
			return 0, err
		}
	}

	return len(orphans), nil
}

// Recompute re-sums the day's habit, prayer and completed schedule points and
// stores the total. A day that no longer exists scores zero.
func (s *Service) Recompute(ctx context.Context, dayID int64) (int, error) {
	_, b, err := s.recompute(ctx, dayID)
	if err != nil {
		return 0, err
	}
	return b.Total(), nil
}

func (s *Service) recompute(ctx context.Context, dayID int64) (*models.Day, models.DayBreakdown, error) {
	day, err := s.repo.GetDayByID(ctx, dayID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.DayBreakdown{}, nil
	}
	if err != nil {
		return nil, models.DayBreakdown{}, fmt.Errorf("recompute: %w", err)
	}

	b, err := s.repo.GetDayBreakdown(ctx, dayID)
	if err != nil {
		return nil, models.DayBreakdown{}, fmt.Errorf("recompute: %w", err)
	}

	day.TotalScore = b.Total()
	if err := s.repo.SetDayScore(ctx, dayID, day.TotalScore); err != nil {
		return nil, models.DayBreakdown{}, fmt.Errorf("recompute: %w", err)
	}

	return day, b, nil
}

// DayUpdate carries the optional reflection fields of a day. Nil fields are
// left unchanged.
type DayUpdate struct {
	Intention   *string
	EnergyLevel *int
	Mood        *int
	Reflection  *string
}

func validLevel(v *int) bool {
	return v != nil && *v >= 1 && *v <= 5
}

// UpdateDay writes the reflection fields of today's Day and returns its score.
// Energy and mood outside 1..5 are ignored.
func (s *Service) UpdateDay(ctx context.Context, actorID int64, upd DayUpdate) (int, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return 0, err
	}

	today := s.Today()
	day, err := s.EnsureDay(ctx, actorID, today)
	if err != nil {
		return 0, err
	}

	if upd.Intention != nil {
		day.Intention = upd.Intention
	}
	if upd.Reflection != nil {
		day.Reflection = upd.Reflection
	}
	if validLevel(upd.EnergyLevel) {
		day.EnergyLevel = *upd.EnergyLevel
	}
	if validLevel(upd.Mood) {
		day.Mood = *upd.Mood
	}

	if err := s.repo.UpdateDayDetails(ctx, day); err != nil {
		return 0, err
	}

	return s.refreshDay(ctx, actorID, day.ID, today)
}

// DayAggregate returns the user's Day for date with its score split by source.
// Snapshots are served from the cache when present.
func (s *Service) DayAggregate(ctx context.Context, actorID int64, date models.Date) (*models.DaySnapshot, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		snapshot, err := s.cache.Get(ctx, actorID, date)
		if err == nil {
			return snapshot, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			zap.S().Warnw("read day snapshot", "user_id", actorID, "date", date, "error", err)
		}
	}

	day, err := s.EnsureDay(ctx, actorID, date)
	if err != nil {
		return nil, err
	}

	if _, err := s.attachOrphans(ctx, actorID, date); err != nil {
		return nil, fmt.Errorf("attach orphan logs (user_id: %d, date: %s): %w", actorID, date, err)
	}

	fresh, b, err := s.recompute(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, fmt.Errorf("day aggregate (user_id: %d, date: %s): %w", actorID, date, ErrNotFound)
	}

	snapshot := &models.DaySnapshot{Day: *fresh, Breakdown: b}

	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshot); err != nil {
			zap.S().Warnw("write day snapshot", "user_id", actorID, "date", date, "error", err)
		}
	}

	return snapshot, nil
}

// ScoreHistory returns per-day scores for the last n local days ending today,
// oldest first. Dates without a Day score zero. n is capped at maxHistory.
func (s *Service) ScoreHistory(ctx context.Context, actorID int64, n int) (*models.ScoreHistory, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}
	if n < 1 {
		n = defaultHistory
	}
	if n > maxHistory {
		n = maxHistory
	}

	to := s.Today()
	from := to.AddDays(-(n - 1))

	days, err := s.repo.GetDaysInRange(ctx, actorID, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[models.Date]*models.Day, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}

	history := &models.ScoreHistory{Days: make([]models.DailyScore, 0, n)}
	for date := from; date <= to; date = date.AddDays(1) {
		score := models.DailyScore{Date: date}

		if day, ok := byDate[date]; ok {
			b, err := s.repo.GetDayBreakdown(ctx, day.ID)
			if err != nil {
				return nil, err
			}
			score.Breakdown = b
			score.Total = b.Total()
		}

		history.Days = append(history.Days, score)
		history.TotalScore += score.Total
		if score.Total > history.BestDay {
			history.BestDay = score.Total
		}
	}

	history.AvgDaily = history.TotalScore / n

	return history, nil
}
