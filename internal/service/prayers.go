package service

import (
	"context"
	"errors"

	"github.com/romanzh1/daylog/internal/models"
	"github.com/romanzh1/daylog/internal/service/scoring"
	"go.uber.org/zap"
)

func flagsOf(log *models.PrayerLog) scoring.PrayerFlags {
	return scoring.PrayerFlags{
		Fajr:    log.Fajr,
		Dhuhr:   log.Dhuhr,
		Asr:     log.Asr,
		Maghrib: log.Maghrib,
		Isha:    log.Isha,
	}
}

func applyFlags(log *models.PrayerLog, f scoring.PrayerFlags) {
	log.Fajr = f.Fajr
	log.Dhuhr = f.Dhuhr
	log.Asr = f.Asr
	log.Maghrib = f.Maghrib
	log.Isha = f.Isha
	log.SpiritualScore = scoring.SpiritualScore(f)
}

// PrayerLog returns the actor's prayer log for date, creating an empty one on first access.
func (s *Service) PrayerLog(ctx context.Context, actorID int64, date models.Date) (*models.PrayerLog, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	return s.prayerLog(ctx, actorID, date)
}

func (s *Service) prayerLog(ctx context.Context, userID int64, date models.Date) (*models.PrayerLog, error) {
	log, err := s.repo.GetPrayerLog(ctx, userID, date)
	if err == nil {
		if err := s.AttachToDay(ctx, userID, log); err != nil {
			return nil, err
		}
		return log, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	day, err := s.EnsureDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	log = &models.PrayerLog{UserID: userID, Date: date, DayID: &day.ID}
	err = s.repo.CreatePrayerLog(ctx, log)
	if err == nil {
		return log, nil
	}
	if !errors.Is(err, models.ErrConflict) {
		return nil, err
	}

	zap.S().Debugw("prayer log created concurrently, re-reading", "user_id", userID, "date", date)

	log, err = s.repo.GetPrayerLog(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if err := s.AttachToDay(ctx, userID, log); err != nil {
		return nil, err
	}
	return log, nil
}

// SetPrayer marks one of the five daily prayers for today and returns the
// spiritual score. Unrecognised names change nothing.
func (s *Service) SetPrayer(ctx context.Context, actorID int64, name string, value bool) (int, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return 0, err
	}

	today := s.Today()

	if !scoring.IsPrayer(name) {
		zap.S().Debugw("ignoring unknown prayer", "user_id", actorID, "name", name)

		log, err := s.repo.GetPrayerLog(ctx, actorID, today)
		if errors.Is(err, models.ErrNotFound) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		return log.SpiritualScore, nil
	}

	log, err := s.prayerLog(ctx, actorID, today)
	if err != nil {
		return 0, err
	}

	flags := flagsOf(log)
	flags.Set(name, value)
	applyFlags(log, flags)

	if err := s.repo.UpdatePrayerLog(ctx, log); err != nil {
		return 0, err
	}

	if _, err := s.refreshDay(ctx, actorID, *log.DayID, today); err != nil {
		return 0, err
	}

	return log.SpiritualScore, nil
}
