package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/romanzh1/daylog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user, err := env.svc.CreateUser(ctx, " alice ", "alice@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)

	_, err = env.svc.CreateUser(ctx, "alice", "other@example.com", models.RoleUser)
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = env.svc.CreateUser(ctx, "bob", "bob@example.com", "root")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.CreateUser(ctx, "", "x@example.com", models.RoleUser)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateGuest(t *testing.T) {
	env := newTestEnv(t)

	guest, err := env.svc.CreateGuest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, guest.Role)
	assert.True(t, strings.HasPrefix(guest.Username, "Guest_"))
	assert.Len(t, guest.Username, len("Guest_")+8)
	assert.Equal(t, guest.Username+"@guest.local", guest.Email)
}

func TestSetBanned(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	admin, err := env.svc.CreateUser(ctx, "root", "root@example.com", models.RoleAdmin)
	require.NoError(t, err)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	err = env.svc.SetBanned(ctx, alice.ID, bob.ID, true)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = env.svc.SetBanned(ctx, admin.ID, admin.ID, true)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = env.svc.SetBanned(ctx, admin.ID, 9999, true)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.svc.SetBanned(ctx, admin.ID, alice.ID, true))

	stored, err := env.svc.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsBanned)
}

func TestBannedActorIsRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")
	habit := env.habit(t, user.ID, HabitInput{Name: "Walk"})

	require.NoError(t, env.store.SetUserBanned(ctx, user.ID, true))

	_, err := env.svc.ToggleHabit(ctx, user.ID, habit.ID)
	assert.ErrorIs(t, err, ErrAccountSuspended)

	_, err = env.svc.SetPrayer(ctx, user.ID, "fajr", true)
	assert.ErrorIs(t, err, ErrAccountSuspended)

	_, err = env.svc.Dashboard(ctx, user.ID)
	assert.ErrorIs(t, err, ErrAccountSuspended)

	_, err = env.store.GetDay(ctx, user.ID, env.svc.Today())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUnknownActor(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.AddHabit(context.Background(), 404, HabitInput{Name: "Walk"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCleanupGuests(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.clock.t = testNow.Add(-48 * time.Hour)
	stale, err := env.svc.CreateGuest(ctx)
	require.NoError(t, err)
	_, err = env.svc.AddHabit(ctx, stale.ID, HabitInput{Name: "Walk"})
	require.NoError(t, err)

	env.clock.t = testNow.Add(-time.Hour)
	fresh, err := env.svc.CreateGuest(ctx)
	require.NoError(t, err)
	member := env.user(t, "alice")

	env.clock.t = testNow
	removed, err := env.svc.CleanupGuests(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = env.svc.GetUser(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.svc.GetUser(ctx, fresh.ID)
	assert.NoError(t, err)
	_, err = env.svc.GetUser(ctx, member.ID)
	assert.NoError(t, err)

	habits, err := env.store.GetUserHabits(ctx, stale.ID, true)
	require.NoError(t, err)
	assert.Empty(t, habits)

	removed, err = env.svc.CleanupGuests(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
