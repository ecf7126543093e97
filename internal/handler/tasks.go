package handler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/romanzh1/daylog/internal/models"
)

type TaskCmd struct {
	Add    TaskAddCmd    `cmd:"" help:"Add an ad-hoc task for today."`
	Toggle TaskToggleCmd `cmd:"" help:"Mark a task done or undone."`
	List   TaskListCmd   `cmd:"" help:"List ad-hoc tasks of a day."`
}

type TaskAddCmd struct {
	Text string `arg:"" help:"What needs doing."`
	Time string `short:"t" help:"Free-form time hint, e.g. 'after lunch'."`
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	task, err := ctx.Service.AddTask(ctx, ctx.UserID, c.Text, c.Time)
	if err != nil {
		return err
	}

	return ctx.emit(task, func(w io.Writer) {
		fmt.Fprintf(w, "added task %d %q\n", task.ID, *task.Task)
	})
}

type TaskToggleCmd struct {
	ID int64 `arg:"" help:"Task ID."`
}

func (c *TaskToggleCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	done, err := ctx.Service.ToggleTask(ctx, ctx.UserID, c.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "%s task %d\n", check(done), c.ID)
	return nil
}

type TaskListCmd struct {
	Date string `short:"D" help:"Date (YYYY-MM-DD), defaults to today."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	date, err := ctx.dateOrToday(c.Date)
	if err != nil {
		return err
	}

	tasks, err := ctx.Service.Tasks(ctx, ctx.UserID, date)
	if err != nil {
		return err
	}

	return ctx.emit(tasks, func(w io.Writer) {
		list := make([]models.ScheduleLog, 0, len(tasks))
		for _, t := range tasks {
			list = append(list, *t)
		}
		printTasks(w, list)
	})
}

func printTasks(w io.Writer, tasks []models.ScheduleLog) {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{check(t.Status), strconv.FormatInt(t.ID, 10), formatMaybe(t.Time), formatMaybe(t.Task)})
	}
	printTable(w, []string{"", "ID", "TIME", "TASK"}, rows)
}
