package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

// stepClock is a settable clock so a test can walk through calendar days.
type stepClock struct{ t time.Time }

func (c *stepClock) Now() time.Time { return c.t }

func newStreakEnv(t *testing.T, clk *stepClock) (*gorm.DB, StreakService, *types.User) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}, &types.StreakSaver{}, &types.UserProgress{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log := testLogger(t)

	user := &types.User{Email: t.Name() + "@test.local", Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	svc := NewStreakService(db, log, clk,
		repos.NewUserRepo(db, log),
		repos.NewStreakSaverRepo(db, log),
		repos.NewProgressRepo(db, log),
	)
	return db, svc, user
}

func reloadUser(t *testing.T, db *gorm.DB, user *types.User) *types.User {
	t.Helper()
	var fresh types.User
	if err := db.First(&fresh, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return &fresh
}

func TestUseStreakSaverFailsClosedAtZeroBalance(t *testing.T) {
	clk := &stepClock{t: date(2024, 3, 1)}
	db, svc, user := newStreakEnv(t, clk)
	ctx := context.Background()

	_, err := svc.UseStreakSaver(ctx, user.ID)
	if !errors.Is(err, ErrInsufficientSavers) {
		t.Fatalf("err = %v, want ErrInsufficientSavers", err)
	}

	fresh := reloadUser(t, db, user)
	if fresh.StreakSaversAvailable != 0 {
		t.Fatalf("balance = %d, want 0", fresh.StreakSaversAvailable)
	}
	var rows int64
	if err := db.Model(&types.StreakSaver{}).Where("user_id = ?", user.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count savers: %v", err)
	}
	if rows != 0 {
		t.Fatalf("saver rows = %d, want 0", rows)
	}
}

func TestStreakSaverBalanceMatchesUnusedRows(t *testing.T) {
	clk := &stepClock{t: date(2024, 3, 1)}
	db, svc, user := newStreakEnv(t, clk)
	ctx := context.Background()

	if _, err := svc.PurchaseStreakSavers(ctx, user.ID, 3); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.UseStreakSaver(ctx, user.ID); err != nil {
			t.Fatalf("use saver %d: %v", i, err)
		}
	}

	fresh := reloadUser(t, db, user)
	var unused int64
	if err := db.Model(&types.StreakSaver{}).
		Where("user_id = ? AND is_used = ?", user.ID, false).
		Count(&unused).Error; err != nil {
		t.Fatalf("count unused: %v", err)
	}
	if fresh.StreakSaversAvailable != 1 || unused != 1 {
		t.Fatalf("balance = %d, unused rows = %d, want 1/1", fresh.StreakSaversAvailable, unused)
	}

	// Draining the last one works; the next attempt fails closed.
	if _, err := svc.UseStreakSaver(ctx, user.ID); err != nil {
		t.Fatalf("use last saver: %v", err)
	}
	if _, err := svc.UseStreakSaver(ctx, user.ID); !errors.Is(err, ErrInsufficientSavers) {
		t.Fatalf("err = %v, want ErrInsufficientSavers", err)
	}
}

func TestStreakSaverBridgesOnlyOneMissedDay(t *testing.T) {
	clk := &stepClock{t: date(2024, 3, 1)}
	db, svc, user := newStreakEnv(t, clk)
	ctx := context.Background()

	res, err := svc.RecordActivity(ctx, user.ID)
	if err != nil {
		t.Fatalf("day 1 activity: %v", err)
	}
	if res.CurrentStreak != 1 {
		t.Fatalf("day 1 streak = %d, want 1", res.CurrentStreak)
	}
	if _, err := svc.PurchaseStreakSavers(ctx, user.ID, 1); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	// Day 2 missed; the saver spent on day 3 bridges it.
	clk.t = date(2024, 3, 3)
	if _, err := svc.UseStreakSaver(ctx, user.ID); err != nil {
		t.Fatalf("use saver: %v", err)
	}
	res, err = svc.RecordActivity(ctx, user.ID)
	if err != nil {
		t.Fatalf("day 3 activity: %v", err)
	}
	if res.CurrentStreak != 2 {
		t.Fatalf("day 3 streak = %d, want 2", res.CurrentStreak)
	}

	// Day 4 missed with no savers left: the already-spent saver must not
	// bridge a second gap, so day 5 resets.
	clk.t = date(2024, 3, 5)
	res, err = svc.RecordActivity(ctx, user.ID)
	if err != nil {
		t.Fatalf("day 5 activity: %v", err)
	}
	if res.CurrentStreak != 1 {
		t.Fatalf("day 5 streak = %d, want 1 (reset)", res.CurrentStreak)
	}
	fresh := reloadUser(t, db, user)
	if fresh.LongestStreak != 2 {
		t.Fatalf("longest = %d, want 2", fresh.LongestStreak)
	}
}

func TestPurchaseStreakSaversHasNoUpperBound(t *testing.T) {
	clk := &stepClock{t: date(2024, 3, 1)}
	_, svc, user := newStreakEnv(t, clk)
	ctx := context.Background()

	updated, err := svc.PurchaseStreakSavers(ctx, user.ID, 50)
	if err != nil {
		t.Fatalf("purchase of 50: %v", err)
	}
	if updated.StreakSaversAvailable != 50 {
		t.Fatalf("balance = %d, want 50", updated.StreakSaversAvailable)
	}

	if _, err := svc.PurchaseStreakSavers(ctx, user.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("err = %v, want ErrInvalidQuantity", err)
	}
}
