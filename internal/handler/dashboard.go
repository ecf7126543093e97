package handler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/romanzh1/daylog/internal/service/scoring"
)

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	dash, err := ctx.Service.Dashboard(ctx, ctx.UserID)
	if err != nil {
		return err
	}

	return ctx.emit(dash, func(w io.Writer) {
		printTitle(w, fmt.Sprintf("%s  score %s", dash.Day.Date, formatScore(dash.Day.TotalScore)))
		if dash.Day.Intention != nil {
			fmt.Fprintf(w, "intention: %s\n", *dash.Day.Intention)
		}

		fmt.Fprintln(w)
		printTitle(w, "Habits")
		rows := make([][]string, 0, len(dash.Habits))
		for _, h := range dash.Habits {
			status, progress, points := false, 0, 0
			if h.Log != nil {
				status, progress, points = h.Log.Status, h.Log.ValueDone, h.Log.Points
			}
			rows = append(rows, []string{
				check(status),
				strconv.FormatInt(h.Habit.ID, 10),
				h.Habit.Name,
				fmt.Sprintf("%d/%d", progress, h.Habit.TargetValue),
				fmt.Sprintf("%d/%d", points, h.Habit.Points),
			})
		}
		printTable(w, []string{"", "ID", "HABIT", "PROGRESS", "POINTS"}, rows)

		fmt.Fprintln(w)
		printTitle(w, "Prayers")
		p := dash.Prayer
		printKV(w, [][2]string{
			{scoring.Fajr, check(p.Fajr)},
			{scoring.Dhuhr, check(p.Dhuhr)},
			{scoring.Asr, check(p.Asr)},
			{scoring.Maghrib, check(p.Maghrib)},
			{scoring.Isha, check(p.Isha)},
		})

		fmt.Fprintln(w)
		printTitle(w, "Routine")
		printRoutines(w, dash.Routines)

		fmt.Fprintln(w)
		printTitle(w, "Tasks")
		printTasks(w, dash.Tasks)
	})
}
