package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	IsBanned  bool      `db:"is_banned" json:"is_banned"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Day is the per-user, per-date aggregate. TotalScore is a cache over the
// day's logs and is only written by the aggregator.
type Day struct {
	ID          int64   `db:"id" json:"id"`
	UserID      int64   `db:"user_id" json:"user_id"`
	Date        Date    `db:"date" json:"date"`
	Intention   *string `db:"intention" json:"intention,omitempty"`
	EnergyLevel int     `db:"energy_level" json:"energy_level"`
	Mood        int     `db:"mood" json:"mood"`
	Reflection  *string `db:"reflection" json:"reflection,omitempty"`
	TotalScore  int     `db:"total_score" json:"total_score"`
}

type Habit struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	Name          string    `db:"name" json:"name"`
	Category      string    `db:"category" json:"category"`
	Frequency     string    `db:"frequency" json:"frequency"`
	Unit          *string   `db:"unit" json:"unit,omitempty"`
	IdentityLabel *string   `db:"identity_label" json:"identity_label,omitempty"`
	TargetValue   int       `db:"target_value" json:"target_value"`
	MinValue      int       `db:"min_value" json:"min_value"`
	Priority      int       `db:"priority" json:"priority"`
	Difficulty    int       `db:"difficulty" json:"difficulty"`
	Points        int       `db:"points" json:"points"`
	IsPaused      bool      `db:"is_paused" json:"is_paused"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type HabitLog struct {
	ID        int64  `db:"id" json:"id"`
	HabitID   int64  `db:"habit_id" json:"habit_id"`
	Date      Date   `db:"date" json:"date"`
	Status    bool   `db:"status" json:"status"`
	ValueDone int    `db:"value_done" json:"value_done"`
	Points    int    `db:"points" json:"points"`
	DayID     *int64 `db:"day_id" json:"day_id,omitempty"`
}

type PrayerLog struct {
	ID             int64  `db:"id" json:"id"`
	UserID         int64  `db:"user_id" json:"user_id"`
	DayID          *int64 `db:"day_id" json:"day_id,omitempty"`
	Date           Date   `db:"date" json:"date"`
	Fajr           bool   `db:"fajr" json:"fajr"`
	Dhuhr          bool   `db:"dhuhr" json:"dhuhr"`
	Asr            bool   `db:"asr" json:"asr"`
	Maghrib        bool   `db:"maghrib" json:"maghrib"`
	Isha           bool   `db:"isha" json:"isha"`
	SpiritualScore int    `db:"spiritual_score" json:"spiritual_score"`
}

type Schedule struct {
	ID       int64  `db:"id" json:"id"`
	UserID   int64  `db:"user_id" json:"user_id"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

type RoutineItem struct {
	ID         int64   `db:"id" json:"id"`
	ScheduleID int64   `db:"schedule_id" json:"schedule_id"`
	Title      string  `db:"title" json:"title"`
	DayOfWeek  string  `db:"day_of_week" json:"day_of_week"`
	StartTime  Clock   `db:"start_time" json:"start_time"`
	EndTime    Clock   `db:"end_time" json:"end_time"`
	Location   *string `db:"location" json:"location,omitempty"`
}

// ScheduleLog records completion of a routine item on a date. Ad-hoc tasks
// share the table with RoutineID unset and Task/Time filled instead.
type ScheduleLog struct {
	ID        int64   `db:"id" json:"id"`
	UserID    int64   `db:"user_id" json:"user_id"`
	RoutineID *int64  `db:"routine_id" json:"routine_id,omitempty"`
	Task      *string `db:"task" json:"task,omitempty"`
	Time      *string `db:"task_time" json:"time,omitempty"`
	Date      Date    `db:"date" json:"date"`
	Status    bool    `db:"status" json:"status"`
	Points    int     `db:"points" json:"points"`
	DayID     *int64  `db:"day_id" json:"day_id,omitempty"`
}

func (l *ScheduleLog) IsAdHoc() bool {
	return l.RoutineID == nil
}

// DayBreakdown splits a day's score by source.
type DayBreakdown struct {
	HabitPoints    int `json:"habit_points"`
	PrayerPoints   int `json:"prayer_points"`
	SchedulePoints int `json:"schedule_points"`
}

func (b DayBreakdown) Total() int {
	return b.HabitPoints + b.PrayerPoints + b.SchedulePoints
}

type DaySnapshot struct {
	Day       Day          `json:"day"`
	Breakdown DayBreakdown `json:"breakdown"`
}

type DailyScore struct {
	Date      Date         `json:"date"`
	Breakdown DayBreakdown `json:"breakdown"`
	Total     int          `json:"total"`
}

type ScoreHistory struct {
	Days       []DailyScore `json:"days"`
	TotalScore int          `json:"total_score"`
	AvgDaily   int          `json:"avg_daily"`
	BestDay    int          `json:"best_day"`
}

type HabitWithLog struct {
	Habit Habit     `json:"habit"`
	Log   *HabitLog `json:"log,omitempty"`
}

type RoutineWithStatus struct {
	Item   RoutineItem `json:"item"`
	Status bool        `json:"status"`
}

type Dashboard struct {
	Day      Day                 `json:"day"`
	Habits   []HabitWithLog      `json:"habits"`
	Prayer   PrayerLog           `json:"prayer"`
	Routines []RoutineWithStatus `json:"routines"`
	Tasks    []ScheduleLog       `json:"tasks"`
}
