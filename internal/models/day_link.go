package models

// LogKind names the table a per-day log row lives in.
type LogKind string

const (
	LogHabit    LogKind = "habit_logs"
	LogPrayer   LogKind = "prayer_logs"
	LogSchedule LogKind = "schedule_logs"
)

// DayLinked is implemented by every log row that carries a back-reference to
// its Day. Rows written before the Day existed have no link until repaired.
type DayLinked interface {
	LogKind() LogKind
	LogID() int64
	LogDate() Date
	LinkedDay() *int64
	LinkDay(dayID int64)
}

func (l *HabitLog) LogKind() LogKind { return LogHabit }
func (l *HabitLog) LogID() int64 { return l.ID }
func (l *HabitLog) LogDate() Date { return l.Date }
func (l *HabitLog) LinkedDay() *int64 { return l.DayID }
func (l *HabitLog) LinkDay(dayID int64) { l.DayID = &dayID }

func (l *PrayerLog) LogKind() LogKind { return LogPrayer }
func (l *PrayerLog) LogID() int64 { return l.ID }
func (l *PrayerLog) LogDate() Date { return l.Date }
func (l *PrayerLog) LinkedDay() *int64 { return l.DayID }
func (l *PrayerLog) LinkDay(dayID int64) { l.DayID = &dayID }

func (l *ScheduleLog) LogKind() LogKind { return LogSchedule }
func (l *ScheduleLog) LogID() int64 { return l.ID }
func (l *ScheduleLog) LogDate() Date { return l.Date }
func (l *ScheduleLog) LinkedDay() *int64 { return l.DayID }
func (l *ScheduleLog) LinkDay(dayID int64) { l.DayID = &dayID }
