package handler

import (
	"fmt"
	"io"
	"time"

	"github.com/romanzh1/daylog/internal/models"
	"github.com/romanzh1/daylog/internal/service"
)

type UserCmd struct {
	Add           UserAddCmd           `cmd:"" help:"Create a user."`
	Guest         UserGuestCmd         `cmd:"" help:"Create a temporary guest account."`
	Ban           UserBanCmd           `cmd:"" help:"Suspend or restore a user (admin only)."`
	CleanupGuests UserCleanupGuestsCmd `cmd:"" name:"cleanup-guests" help:"Delete expired guest accounts."`
}

type UserAddCmd struct {
	Username string `arg:"" help:"Unique user name."`
	Email    string `arg:"" help:"Unique email address."`
	Role     string `short:"r" help:"Role (user|admin|guest)." default:"user" enum:"user,admin,guest"`
}

func (c *UserAddCmd) Run(ctx *Context) error {
	user, err := ctx.Service.CreateUser(ctx, c.Username, c.Email, models.Role(c.Role))
	if err != nil {
		return err
	}

	return ctx.emit(user, func(w io.Writer) {
		fmt.Fprintf(w, "created user %d (%s, %s)\n", user.ID, user.Username, user.Role)
	})
}

type UserGuestCmd struct{}

func (c *UserGuestCmd) Run(ctx *Context) error {
	user, err := ctx.Service.CreateGuest(ctx)
	if err != nil {
		return err
	}

	return ctx.emit(user, func(w io.Writer) {
		fmt.Fprintf(w, "created guest %d (%s), expires after %s\n", user.ID, user.Username, service.GuestTTL)
	})
}

type UserBanCmd struct {
	ID    int64 `arg:"" help:"User to suspend."`
	Unban bool  `help:"Restore the account instead."`
}

func (c *UserBanCmd) Run(ctx *Context) error {
	if err := ctx.requireUser(); err != nil {
		return err
	}

	if err := ctx.Service.SetBanned(ctx, ctx.UserID, c.ID, !c.Unban); err != nil {
		return err
	}

	state := "banned"
	if c.Unban {
		state = "restored"
	}
	fmt.Fprintf(ctx.Out, "user %d %s\n", c.ID, state)
	return nil
}

type UserCleanupGuestsCmd struct {
	OlderThan time.Duration `help:"Minimum guest account age." default:"24h"`
}

func (c *UserCleanupGuestsCmd) Run(ctx *Context) error {
	n, err := ctx.Service.CleanupGuests(ctx, c.OlderThan)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "removed %d guest accounts\n", n)
	return nil
}
