package handler

import (
	"fmt"
	"io"

	"github.com/romanzh1/daylog/internal/service/scoring"
)

type PrayerCmd struct {
	Set  PrayerSetCmd  `cmd:"" help:"Mark a prayer for today."`
	Show PrayerShowCmd `cmd:"" help:"Show the prayer log of a day."`
}

type PrayerSetCmd struct {
	Name  string `arg:"" help:"Prayer name (fajr|dhuhr|asr|maghrib|isha)."`
	Unset bool   `help:"Clear the prayer instead of marking it."`
}

func (c *PrayerSetCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	score, err := ctx.Service.SetPrayer(ctx, ctx.UserID, c.Name, !c.Unset)
	if err != nil {
		return err
	}

	if !scoring.IsPrayer(c.Name) {
		fmt.Fprintf(ctx.Out, "unknown prayer %q, nothing changed\n", c.Name)
	}
	fmt.Fprintf(ctx.Out, "spiritual score %s\n", formatScore(score))
	return nil
}

type PrayerShowCmd struct {
	Date string `short:"D" help:"Date (YYYY-MM-DD), defaults to today."`
}

func (c *PrayerShowCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	date, err := ctx.dateOrToday(c.Date)
	if err != nil {
		return err
	}

	log, err := ctx.Service.PrayerLog(ctx, ctx.UserID, date)
	if err != nil {
		return err
	}

	return ctx.emit(log, func(w io.Writer) {
		printTitle(w, "Prayers "+date.String())
		printKV(w, [][2]string{
			{scoring.Fajr, check(log.Fajr)},
			{scoring.Dhuhr, check(log.Dhuhr)},
			{scoring.Asr, check(log.Asr)},
			{scoring.Maghrib, check(log.Maghrib)},
			{scoring.Isha, check(log.Isha)},
			{"score", formatScore(log.SpiritualScore)},
		})
	})
}
