package handler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/romanzh1/daylog/internal/models"
	"github.com/romanzh1/daylog/internal/service"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its logs."`
	Pause  HabitPauseCmd  `cmd:"" help:"Pause or resume a habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Toggle HabitToggleCmd `cmd:"" help:"Record one step of a habit for today."`
}

// HabitFlags are the attributes shared by add and edit. Zero values fall back
// to the service defaults.
type HabitFlags struct {
	Category   string `short:"c" help:"Category."`
	Frequency  string `short:"f" help:"Frequency label."`
	Unit       string `help:"Unit of the target value (pages, minutes)."`
	Identity   string `help:"Identity label, e.g. 'a reader'."`
	Target     int    `short:"t" help:"Steps needed to complete the habit."`
	Min        int    `help:"Minimum value."`
	Priority   int    `short:"p" help:"Priority 1-5."`
	Difficulty int    `short:"d" help:"Difficulty 1-10."`
}

func (f HabitFlags) Validate() error {
	if f.Priority < 0 || f.Priority > 5 {
		return fmt.Errorf("priority must be between 1 and 5")
	}
	if f.Difficulty < 0 || f.Difficulty > 10 {
		return fmt.Errorf("difficulty must be between 1 and 10")
	}
	return nil
}

func (f HabitFlags) input(name string) service.HabitInput {
	return service.HabitInput{
		Name:          name,
		Category:      f.Category,
		Frequency:     f.Frequency,
		Unit:          optional(f.Unit),
		IdentityLabel: optional(f.Identity),
		TargetValue:   f.Target,
		MinValue:      f.Min,
		Priority:      f.Priority,
		Difficulty:    f.Difficulty,
	}
}

// overlay fills unset flags from the stored habit.
func (f HabitFlags) overlay(h *models.Habit) HabitFlags {
	if f.Category == "" {
		f.Category = h.Category
	}
	if f.Frequency == "" {
		f.Frequency = h.Frequency
	}
	if f.Unit == "" && h.Unit != nil {
		f.Unit = *h.Unit
	}
	if f.Identity == "" && h.IdentityLabel != nil {
		f.Identity = *h.IdentityLabel
	}
	if f.Target == 0 {
		f.Target = h.TargetValue
	}
	if f.Min == 0 {
		f.Min = h.MinValue
	}
	if f.Priority == 0 {
		f.Priority = h.Priority
	}
	if f.Difficulty == 0 {
		f.Difficulty = h.Difficulty
	}
	return f
}

type HabitAddCmd struct {
	Name string `arg:"" help:"Habit name."`
	HabitFlags `embed:""`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	habit, err := ctx.Service.AddHabit(ctx, ctx.UserID, c.input(c.Name))
	if err != nil {
		return err
	}

	return ctx.emit(habit, func(w io.Writer) {
		fmt.Fprintf(w, "added habit %d %q worth %d points\n", habit.ID, habit.Name, habit.Points)
	})
}

type HabitEditCmd struct {
	ID   int64  `arg:"" help:"Habit ID."`
	Name string `short:"n" help:"New name."`
	HabitFlags `embed:""`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	habits, err := ctx.Service.ListHabits(ctx, ctx.UserID, true)
	if err != nil {
		return err
	}

	flags, name := c.HabitFlags, c.Name
	for _, h := range habits {
		if h.ID == c.ID {
			flags = flags.overlay(h)
			if name == "" {
				name = h.Name
			}
			break
		}
	}

	habit, err := ctx.Service.EditHabit(ctx, ctx.UserID, c.ID, flags.input(name))
	if err != nil {
		return err
	}

	return ctx.emit(habit, func(w io.Writer) {
		fmt.Fprintf(w, "updated habit %d %q worth %d points\n", habit.ID, habit.Name, habit.Points)
	})
}

type HabitDeleteCmd struct {
	ID int64 `arg:"" help:"Habit ID."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	if err := ctx.Service.DeleteHabit(ctx, ctx.UserID, c.ID); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "deleted habit %d\n", c.ID)
	return nil
}

type HabitPauseCmd struct {
	ID     int64 `arg:"" help:"Habit ID."`
	Resume bool  `help:"Resume instead of pausing."`
}

func (c *HabitPauseCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	if err := ctx.Service.SetHabitPaused(ctx, ctx.UserID, c.ID, !c.Resume); err != nil {
		return err
	}

	state := "paused"
	if c.Resume {
		state = "resumed"
	}
	fmt.Fprintf(ctx.Out, "habit %d %s\n", c.ID, state)
	return nil
}

type HabitListCmd struct {
	All bool `short:"a" help:"Include paused habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	habits, err := ctx.Service.ListHabits(ctx, ctx.UserID, c.All)
	if err != nil {
		return err
	}

	return ctx.emit(habits, func(w io.Writer) {
		rows := make([][]string, 0, len(habits))
		for _, h := range habits {
			paused := ""
			if h.IsPaused {
				paused = "paused"
			}
			rows = append(rows, []string{
				strconv.FormatInt(h.ID, 10),
				h.Name,
				h.Category,
				strconv.Itoa(h.TargetValue),
				strconv.Itoa(h.Priority),
				strconv.Itoa(h.Difficulty),
				strconv.Itoa(h.Points),
				paused,
			})
		}
		printTable(w, []string{"ID", "NAME", "CATEGORY", "TARGET", "PRIORITY", "DIFFICULTY", "POINTS", ""}, rows)
	})
}

type HabitToggleCmd struct {
	ID int64 `arg:"" help:"Habit ID."`
}

func (c *HabitToggleCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	res, err := ctx.Service.ToggleHabit(ctx, ctx.UserID, c.ID)
	if err != nil {
		return err
	}

	return ctx.emit(res, func(w io.Writer) {
		fmt.Fprintf(w, "%s %d/%d  +%d points  day score %s\n",
			check(res.Status), res.ValueDone, res.TargetValue, res.Points, formatScore(res.DayScore))
	})
}
