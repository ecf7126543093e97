package handler

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/romanzh1/daylog/internal/models"
	"github.com/romanzh1/daylog/internal/service"
	"github.com/romanzh1/daylog/internal/service/importer"
)

type ScheduleCmd struct {
	Create  ScheduleCreateCmd  `cmd:"" help:"Create an active schedule."`
	List    ScheduleListCmd    `cmd:"" help:"List schedules."`
	Show    ScheduleShowCmd    `cmd:"" help:"Show the active schedule for the whole week."`
	Add     ScheduleAddCmd     `cmd:"" help:"Add a routine item to a schedule."`
	Edit    ScheduleEditCmd    `cmd:"" help:"Replace a routine item."`
	Delete  ScheduleDeleteCmd  `cmd:"" help:"Delete a routine item."`
	Destroy ScheduleDestroyCmd `cmd:"" help:"Delete a schedule with all its items."`
	Today   ScheduleTodayCmd   `cmd:"" help:"Show routines for a day with their status."`
	Toggle  ScheduleToggleCmd  `cmd:"" help:"Mark a routine item done or undone for today."`
	Import  ScheduleImportCmd  `cmd:"" help:"Import a schedule from plain text."`
}

type ScheduleCreateCmd struct {
	Name string `arg:"" help:"Schedule name."`
}

func (c *ScheduleCreateCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	schedule, err := ctx.Service.CreateSchedule(ctx, ctx.UserID, c.Name)
	if err != nil {
		return err
	}

	return ctx.emit(schedule, func(w io.Writer) {
		fmt.Fprintf(w, "created schedule %d %q\n", schedule.ID, schedule.Name)
	})
}

type ScheduleListCmd struct{}

func (c *ScheduleListCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	schedules, err := ctx.Service.ListSchedules(ctx, ctx.UserID)
	if err != nil {
		return err
	}

	return ctx.emit(schedules, func(w io.Writer) {
		rows := make([][]string, 0, len(schedules))
		for _, s := range schedules {
			active := ""
			if s.IsActive {
				active = "active"
			}
			rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.Name, active})
		}
		printTable(w, []string{"ID", "NAME", ""}, rows)
	})
}

func routineRows(items []*models.RoutineItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			item.DayOfWeek,
			item.StartTime.String() + "-" + item.EndTime.String(),
			item.Title,
			formatMaybe(item.Location),
		})
	}
	return rows
}

var routineHeaders = []string{"ID", "DAY", "TIME", "TITLE", "LOCATION"}

type ScheduleShowCmd struct{}

func (c *ScheduleShowCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	schedule, items, err := ctx.Service.ActiveSchedule(ctx, ctx.UserID)
	if err != nil {
		return err
	}

	view := struct {
		Schedule *models.Schedule      `json:"schedule"`
		Items    []*models.RoutineItem `json:"items"`
	}{schedule, items}

	return ctx.emit(view, func(w io.Writer) {
		printTitle(w, schedule.Name)
		printTable(w, routineHeaders, routineRows(items))
	})
}

// RoutineFlags describe one routine item.
type RoutineFlags struct {
	Title    string `short:"t" help:"Title." required:""`
	Day      string `short:"w" help:"Weekday name, e.g. Monday." required:""`
	Start    string `short:"s" help:"Start time, e.g. 09:30 or 9:30am." required:""`
	End      string `short:"e" help:"End time, defaults to the start time."`
	Location string `short:"l" help:"Location."`
}

func (f RoutineFlags) input() (service.RoutineInput, error) {
	start, err := importer.ParseClock(f.Start)
	if err != nil {
		return service.RoutineInput{}, err
	}

	var end models.Clock
	if f.End != "" {
		if end, err = importer.ParseClock(f.End); err != nil {
			return service.RoutineInput{}, err
		}
	}

	return service.RoutineInput{
		Title:     f.Title,
		DayOfWeek: f.Day,
		StartTime: start,
		EndTime:   end,
		Location:  optional(f.Location),
	}, nil
}

type ScheduleAddCmd struct {
	Schedule     int64 `arg:"" help:"Schedule ID."`
	RoutineFlags `embed:""`
}

func (c *ScheduleAddCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	in, err := c.input()
	if err != nil {
		return err
	}

	item, err := ctx.Service.AddRoutineItem(ctx, ctx.UserID, c.Schedule, in)
	if err != nil {
		return err
	}

	return ctx.emit(item, func(w io.Writer) {
		fmt.Fprintf(w, "added routine %d %q on %s %s-%s\n", item.ID, item.Title, item.DayOfWeek, item.StartTime, item.EndTime)
	})
}

type ScheduleEditCmd struct {
	ID           int64 `arg:"" help:"Routine item ID."`
	RoutineFlags `embed:""`
}

func (c *ScheduleEditCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	in, err := c.input()
	if err != nil {
		return err
	}

	item, err := ctx.Service.EditRoutineItem(ctx, ctx.UserID, c.ID, in)
	if err != nil {
		return err
	}

	return ctx.emit(item, func(w io.Writer) {
		fmt.Fprintf(w, "updated routine %d %q on %s %s-%s\n", item.ID, item.Title, item.DayOfWeek, item.StartTime, item.EndTime)
	})
}

type ScheduleDeleteCmd struct {
	ID int64 `arg:"" help:"Routine item ID."`
}

func (c *ScheduleDeleteCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	if err := ctx.Service.DeleteRoutineItem(ctx, ctx.UserID, c.ID); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "deleted routine %d\n", c.ID)
	return nil
}

type ScheduleDestroyCmd struct {
	ID int64 `arg:"" help:"Schedule ID."`
}

func (c *ScheduleDestroyCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	if err := ctx.Service.DeleteSchedule(ctx, ctx.UserID, c.ID); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "deleted schedule %d\n", c.ID)
	return nil
}

type ScheduleTodayCmd struct {
	Date string `short:"D" help:"Date (YYYY-MM-DD), defaults to today."`
}

func (c *ScheduleTodayCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	date, err := ctx.dateOrToday(c.Date)
	if err != nil {
		return err
	}

	routines, err := ctx.Service.RoutinesForDate(ctx, ctx.UserID, date)
	if err != nil {
		return err
	}

	return ctx.emit(routines, func(w io.Writer) {
		printTitle(w, fmt.Sprintf("%s %s", date.Weekday(), date))
		printRoutines(w, routines)
	})
}

func printRoutines(w io.Writer, routines []models.RoutineWithStatus) {
	rows := make([][]string, 0, len(routines))
	for _, r := range routines {
		rows = append(rows, []string{
			check(r.Status),
			strconv.FormatInt(r.Item.ID, 10),
			r.Item.StartTime.String() + "-" + r.Item.EndTime.String(),
			r.Item.Title,
			formatMaybe(r.Item.Location),
		})
	}
	printTable(w, []string{"", "ID", "TIME", "TITLE", "LOCATION"}, rows)
}

type ScheduleToggleCmd struct {
	ID int64 `arg:"" help:"Routine item ID."`
}

func (c *ScheduleToggleCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	done, err := ctx.Service.ToggleRoutine(ctx, ctx.UserID, c.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "%s routine %d\n", check(done), c.ID)
	return nil
}

type ScheduleImportCmd struct {
	File   string `arg:"" help:"Text file to import, '-' reads standard input." default:"-"`
	Name   string `short:"n" help:"Name of the new schedule."`
	DryRun bool   `help:"Print the parsed rows without saving them."`
}

func (c *ScheduleImportCmd) read(ctx *Context) (string, error) {
	if c.File == "-" {
		b, err := io.ReadAll(ctx.In)
		if err != nil {
			return "", fmt.Errorf("read standard input: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(c.File)
	if err != nil {
		return "", fmt.Errorf("read schedule file: %w", err)
	}
	return string(b), nil
}

func (c *ScheduleImportCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	text, err := c.read(ctx)
	if err != nil {
		return err
	}

	candidates := importer.Parse(text)

	if c.DryRun {
		return ctx.emit(candidates, func(w io.Writer) {
			rows := make([][]string, 0, len(candidates))
			for _, cand := range candidates {
				rows = append(rows, []string{cand.Day, cand.Start, cand.End, cand.Title})
			}
			printTable(w, []string{"DAY", "START", "END", "TITLE"}, rows)
		})
	}

	res, err := ctx.Service.ImportSchedule(ctx, ctx.UserID, c.Name, candidates)
	if err != nil {
		return err
	}

	return ctx.emit(res, func(w io.Writer) {
		fmt.Fprintf(w, "imported %d items into schedule %d %q (%d skipped)\n",
			res.Imported, res.Schedule.ID, res.Schedule.Name, res.Skipped)
	})
}
