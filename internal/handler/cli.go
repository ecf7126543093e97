// Package handler is the command-line front end. Each command is a kong
// struct whose Run method calls the service as the --user actor.
package handler

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/romanzh1/daylog/internal/models"
	"github.com/romanzh1/daylog/internal/service"
	"github.com/romanzh1/daylog/internal/service/importer"
)

type Service interface {
	CreateUser(ctx context.Context, username, email string, role models.Role) (*models.User, error)
	CreateGuest(ctx context.Context) (*models.User, error)
	SetBanned(ctx context.Context, adminID, userID int64, banned bool) error
	CleanupGuests(ctx context.Context, olderThan time.Duration) (int64, error)

	AddHabit(ctx context.Context, actorID int64, in service.HabitInput) (*models.Habit, error)
	EditHabit(ctx context.Context, actorID, habitID int64, in service.HabitInput) (*models.Habit, error)
	DeleteHabit(ctx context.Context, actorID, habitID int64) error
	SetHabitPaused(ctx context.Context, actorID, habitID int64, paused bool) error
	ListHabits(ctx context.Context, actorID int64, includePaused bool) ([]*models.Habit, error)
	ToggleHabit(ctx context.Context, actorID, habitID int64) (*service.HabitToggleResult, error)

	SetPrayer(ctx context.Context, actorID int64, name string, value bool) (int, error)
	PrayerLog(ctx context.Context, actorID int64, date models.Date) (*models.PrayerLog, error)

	CreateSchedule(ctx context.Context, actorID int64, name string) (*models.Schedule, error)
	ListSchedules(ctx context.Context, actorID int64) ([]*models.Schedule, error)
	ActiveSchedule(ctx context.Context, actorID int64) (*models.Schedule, []*models.RoutineItem, error)
	AddRoutineItem(ctx context.Context, actorID, scheduleID int64, in service.RoutineInput) (*models.RoutineItem, error)
	EditRoutineItem(ctx context.Context, actorID, routineID int64, in service.RoutineInput) (*models.RoutineItem, error)
	DeleteRoutineItem(ctx context.Context, actorID, routineID int64) error
	DeleteSchedule(ctx context.Context, actorID, scheduleID int64) error
	RoutinesForDate(ctx context.Context, actorID int64, date models.Date) ([]models.RoutineWithStatus, error)
	ToggleRoutine(ctx context.Context, actorID, routineID int64) (bool, error)
	ImportSchedule(ctx context.Context, actorID int64, name string, candidates []importer.Candidate) (*service.ImportResult, error)

	AddTask(ctx context.Context, actorID int64, task, timeText string) (*models.ScheduleLog, error)
	ToggleTask(ctx context.Context, actorID, logID int64) (bool, error)
	Tasks(ctx context.Context, actorID int64, date models.Date) ([]*models.ScheduleLog, error)

	UpdateDay(ctx context.Context, actorID int64, upd service.DayUpdate) (int, error)
	DayAggregate(ctx context.Context, actorID int64, date models.Date) (*models.DaySnapshot, error)
	ScoreHistory(ctx context.Context, actorID int64, n int) (*models.ScoreHistory, error)
	Dashboard(ctx context.Context, actorID int64) (*models.Dashboard, error)

	Today() models.Date
}

type Migrator interface {
	Up() error
	Reset() error
}

// Context is handed to every command's Run method.
type Context struct {
	context.Context

	Service  Service
	Migrator Migrator
	UserID   int64
	JSON     bool
	Out      io.Writer
	In       io.Reader
}

// CLI is the kong grammar of the daylog binary.
type CLI struct {
	EnvFile []string `name:"env-file" help:"Dotenv files to load before reading the environment." default:".env"`
	Actor   int64    `name:"user" short:"u" help:"ID of the acting user." env:"DAYLOG_USER"`
	JSON    bool     `help:"Print results as JSON."`

	Migrate   MigrateCmd   `cmd:"" help:"Apply database migrations."`
	Account   UserCmd      `cmd:"" name:"user" help:"Manage user accounts."`
	Habit     HabitCmd     `cmd:"" help:"Manage and log habits."`
	Prayer    PrayerCmd    `cmd:"" help:"Record daily prayers."`
	Schedule  ScheduleCmd  `cmd:"" help:"Manage the weekly routine schedule."`
	Task      TaskCmd      `cmd:"" help:"Manage ad-hoc tasks for today."`
	Day       DayCmd       `cmd:"" help:"Inspect and annotate days."`
	Dashboard DashboardCmd `cmd:"" help:"Show today's overview."`
}

type MigrateCmd struct {
	Reset bool `help:"Roll every migration back before applying them again."`
}

func (c *MigrateCmd) Run(ctx *Context) error {
	if c.Reset {
		if err := ctx.Migrator.Reset(); err != nil {
			return err
		}
	}
	if err := ctx.Migrator.Up(); err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, "migrations applied")
	return nil
}

// requireUser rejects commands run without --user.
func (ctx *Context) requireUser() error {
	if ctx.UserID <= 0 {
		return fmt.Errorf("--user is required for this command")
	}
	return nil
}

// dateOrToday parses an optional YYYY-MM-DD flag, defaulting to the local date.
func (ctx *Context) dateOrToday(s string) (models.Date, error) {
	if s == "" {
		return ctx.Service.Today(), nil
	}
	return models.ParseDate(s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
