package handler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/romanzh1/daylog/internal/service"
)

type DayCmd struct {
	Show    DayShowCmd    `cmd:"" help:"Show a day with its score breakdown."`
	Update  DayUpdateCmd  `cmd:"" help:"Write today's intention, energy, mood or reflection."`
	History DayHistoryCmd `cmd:"" help:"Show daily scores for recent days."`
}

type DayShowCmd struct {
	Date string `short:"D" help:"Date (YYYY-MM-DD), defaults to today."`
}

func (c *DayShowCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	date, err := ctx.dateOrToday(c.Date)
	if err != nil {
		return err
	}

	snapshot, err := ctx.Service.DayAggregate(ctx, ctx.UserID, date)
	if err != nil {
		return err
	}

	return ctx.emit(snapshot, func(w io.Writer) {
		day, b := snapshot.Day, snapshot.Breakdown
		printTitle(w, "Day "+day.Date.String())
		printKV(w, [][2]string{
			{"intention", formatMaybe(day.Intention)},
			{"energy", strconv.Itoa(day.EnergyLevel)},
			{"mood", strconv.Itoa(day.Mood)},
			{"reflection", formatMaybe(day.Reflection)},
			{"habits", strconv.Itoa(b.HabitPoints)},
			{"prayers", strconv.Itoa(b.PrayerPoints)},
			{"schedule", strconv.Itoa(b.SchedulePoints)},
			{"total", formatScore(day.TotalScore)},
		})
	})
}

type DayUpdateCmd struct {
	Intention  *string `short:"i" help:"Intention for the day."`
	Energy     *int    `short:"e" help:"Energy level 1-5."`
	Mood       *int    `short:"m" help:"Mood 1-5."`
	Reflection *string `short:"r" help:"Evening reflection."`
}

func (c *DayUpdateCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	score, err := ctx.Service.UpdateDay(ctx, ctx.UserID, service.DayUpdate{
		Intention:   c.Intention,
		EnergyLevel: c.Energy,
		Mood:        c.Mood,
		Reflection:  c.Reflection,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "day updated, score %s\n", formatScore(score))
	return nil
}

type DayHistoryCmd struct {
	Days int `short:"n" help:"Number of days ending today." default:"7"`
}

func (c *DayHistoryCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	history, err := ctx.Service.ScoreHistory(ctx, ctx.UserID, c.Days)
	if err != nil {
		return err
	}

	return ctx.emit(history, func(w io.Writer) {
		rows := make([][]string, 0, len(history.Days))
		for _, d := range history.Days {
			rows = append(rows, []string{
				d.Date.String(),
				strconv.Itoa(d.Breakdown.HabitPoints),
				strconv.Itoa(d.Breakdown.PrayerPoints),
				strconv.Itoa(d.Breakdown.SchedulePoints),
				strconv.Itoa(d.Total),
			})
		}
		printTable(w, []string{"DATE", "HABITS", "PRAYERS", "SCHEDULE", "TOTAL"}, rows)
		fmt.Fprintln(w)
		printKV(w, [][2]string{
			{"total", formatScore(history.TotalScore)},
			{"average", strconv.Itoa(history.AvgDaily)},
			{"best", strconv.Itoa(history.BestDay)},
		})
	})
}
