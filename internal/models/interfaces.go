package models

import (
	"context"
)

type Repository interface {
	RunInTx(ctx context.Context, fn func(Repository) error) error

	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, userID int64) (*User, error)
	GetUsersByRole(ctx context.Context, role Role) ([]*User, error)
	SetUserBanned(ctx context.Context, userID int64, banned bool) error
	DeleteUsers(ctx context.Context, userIDs []int64) (int64, error)

	GetDay(ctx context.Context, userID int64, date Date) (*Day, error)
	GetDayByID(ctx context.Context, dayID int64) (*Day, error)
	CreateDay(ctx context.Context, day *Day) error
	UpdateDayDetails(ctx context.Context, day *Day) error
	SetDayScore(ctx context.Context, dayID int64, score int) error
	GetDaysInRange(ctx context.Context, userID int64, from, to Date) ([]*Day, error)
	GetDayBreakdown(ctx context.Context, dayID int64) (DayBreakdown, error)
	SetLogDay(ctx context.Context, kind LogKind, logID, dayID int64) error

	CreateHabit(ctx context.Context, habit *Habit) error
	GetHabit(ctx context.Context, habitID int64) (*Habit, error)
	UpdateHabit(ctx context.Context, habit *Habit) error
	SetHabitPaused(ctx context.Context, habitID int64, paused bool) error
	DeleteHabit(ctx context.Context, habitID int64) error
	GetUserHabits(ctx context.Context, userID int64, includePaused bool) ([]*Habit, error)

	GetHabitLog(ctx context.Context, habitID int64, date Date) (*HabitLog, error)
	CreateHabitLog(ctx context.Context, log *HabitLog) error
	UpdateHabitLog(ctx context.Context, log *HabitLog) error
	GetHabitLogDayIDs(ctx context.Context, habitID int64) ([]int64, error)
	GetUnlinkedHabitLogs(ctx context.Context, userID int64, date Date) ([]*HabitLog, error)

	GetPrayerLog(ctx context.Context, userID int64, date Date) (*PrayerLog, error)
	CreatePrayerLog(ctx context.Context, log *PrayerLog) error
	UpdatePrayerLog(ctx context.Context, log *PrayerLog) error

	CreateSchedule(ctx context.Context, schedule *Schedule) error
	GetSchedule(ctx context.Context, scheduleID int64) (*Schedule, error)
	GetActiveSchedule(ctx context.Context, userID int64) (*Schedule, error)
	GetUserSchedules(ctx context.Context, userID int64) ([]*Schedule, error)
	DeactivateSchedules(ctx context.Context, userID int64) error
	DeleteSchedule(ctx context.Context, scheduleID int64) error

	CreateRoutineItem(ctx context.Context, item *RoutineItem) error
	GetRoutineItem(ctx context.Context, routineID int64) (*RoutineItem, error)
	UpdateRoutineItem(ctx context.Context, item *RoutineItem) error
	DeleteRoutineItem(ctx context.Context, routineID int64) error
	GetRoutineItems(ctx context.Context, scheduleID int64, dayOfWeek string) ([]*RoutineItem, error)

	GetScheduleLog(ctx context.Context, logID int64) (*ScheduleLog, error)
	GetRoutineLog(ctx context.Context, routineID int64, date Date) (*ScheduleLog, error)
	CreateScheduleLog(ctx context.Context, log *ScheduleLog) error
	SetScheduleLogStatus(ctx context.Context, logID int64, status bool) error
	GetAdHocTasks(ctx context.Context, userID int64, date Date) ([]*ScheduleLog, error)
	GetUnlinkedScheduleLogs(ctx context.Context, userID int64, date Date) ([]*ScheduleLog, error)
	GetRoutineLogDayIDs(ctx context.Context, routineIDs []int64) ([]int64, error)
}
