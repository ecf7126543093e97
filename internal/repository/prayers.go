package repository

import (
	"context"
	"fmt"

	"github.com/romanzh1/daylog/internal/models"
)

var prayerLogColumns = []string{"id", "user_id", "day_id", "date", "fajr", "dhuhr", "asr", "maghrib", "isha", "spiritual_score"}

func (r Store) GetPrayerLog(ctx context.Context, userID int64, date models.Date) (*models.PrayerLog, error) {
	query := r.psql.Select(prayerLogColumns...).From("prayer_logs").
		Where("user_id = ? AND date = ?", userID, date)

	var log models.PrayerLog
	if err := r.get(ctx, &log, query); err != nil {
		return nil, fmt.Errorf("get prayer log (user_id: %d, date: %s): %w", userID, date, err)
	}

	return &log, nil
}

// CreatePrayerLog returns models.ErrConflict if the user already has a log for the date.
func (r Store) CreatePrayerLog(ctx context.Context, log *models.PrayerLog) error {
	query := r.psql.Insert("prayer_logs").
		Columns("user_id", "day_id", "date", "fajr", "dhuhr", "asr", "maghrib", "isha", "spiritual_score").
		Values(log.UserID, log.DayID, log.Date, log.Fajr, log.Dhuhr, log.Asr, log.Maghrib, log.Isha, log.SpiritualScore)

	id, err := r.insertReturningID(ctx, query)
	if err != nil {
		return fmt.Errorf("create prayer log (user_id: %d, date: %s): %w", log.UserID, log.Date, err)
	}

	log.ID = id
	return nil
}

func (r Store) UpdatePrayerLog(ctx context.Context, log *models.PrayerLog) error {
	query := r.psql.Update("prayer_logs").
		Set("fajr", log.Fajr).
		Set("dhuhr", log.Dhuhr).
		Set("asr", log.Asr).
		Set("maghrib", log.Maghrib).
		Set("isha", log.Isha).
		Set("spiritual_score", log.SpiritualScore).
		Set("day_id", log.DayID).
		Where("id = ?", log.ID)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (log_id: %d): %w", log.ID, err)
	}

	if _, err = r.ExecContext(ctx, sql, args...); err != nil {
		return fmt.Errorf("update prayer log (log_id: %d): %w", log.ID, err)
	}
	return nil
}
