package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/clock"
	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

// StreakResult reports the streak counters after an activity was recorded.
type StreakResult struct {
	CurrentStreak       int  `json:"current_streak"`
	LongestStreak       int  `json:"longest_streak"`
	AlreadyUpdatedToday bool `json:"already_updated_today"`
}

type StreakService interface {
	// RecordActivity advances the streak for one qualifying activity. It is
	// idempotent per UTC calendar day.
	RecordActivity(ctx context.Context, userID uuid.UUID) (*StreakResult, error)
	PurchaseStreakSavers(ctx context.Context, userID uuid.UUID, quantity int) (*types.User, error)
	// UseStreakSaver consumes the oldest unused saver. It fails closed: when
	// no saver is available it returns ErrInsufficientSavers, never a no-op.
	UseStreakSaver(ctx context.Context, userID uuid.UUID) (*types.StreakSaver, error)
	ListStreakSavers(ctx context.Context, userID uuid.UUID) ([]*types.StreakSaver, error)
	// LongestStreakFromHistory recomputes the longest streak from the
	// completion log and repairs the stored counter when it drifted low.
	LongestStreakFromHistory(ctx context.Context, userID uuid.UUID) (int, error)
}

type streakService struct {
	db        *gorm.DB
	log       *logger.Logger
	clk       clock.Clock
	userRepo  repos.UserRepo
	saverRepo repos.StreakSaverRepo
	progRepo  repos.ProgressRepo
}

func NewStreakService(db *gorm.DB, log *logger.Logger, clk clock.Clock, userRepo repos.UserRepo, saverRepo repos.StreakSaverRepo, progRepo repos.ProgressRepo) StreakService {
	return &streakService{
		db:        db,
		log:       log.With("service", "StreakService"),
		clk:       clk,
		userRepo:  userRepo,
		saverRepo: saverRepo,
		progRepo:  progRepo,
	}
}

// advanceStreak is the date arithmetic behind RecordActivity. saverBridged
// reports whether a saver was consumed after the last activity; it only
// matters when exactly one calendar day was missed.
func advanceStreak(current, longest int, lastActivity *time.Time, now time.Time, saverBridged bool) (newCurrent, newLongest int, sameDay bool) {
	if lastActivity == nil {
		newCurrent = 1
	} else {
		switch gap := clock.DaysBetween(*lastActivity, now); {
		case gap <= 0:
			return current, longest, true
		case gap == 1:
			newCurrent = current + 1
		case gap == 2 && saverBridged:
			newCurrent = current + 1
		default:
			newCurrent = 1
		}
	}
	newLongest = longest
	if newCurrent > newLongest {
		newLongest = newCurrent
	}
	return newCurrent, newLongest, false
}

func (ss *streakService) RecordActivity(ctx context.Context, userID uuid.UUID) (*StreakResult, error) {
	// One internal retry when the version check loses a race; two writers on
	// the same day converge to the same state anyway.
	var result *StreakResult
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		result, lastErr = ss.recordActivityOnce(ctx, userID)
		if lastErr != ErrConflict {
			return result, lastErr
		}
		ss.log.Warn("Streak update lost version race, retrying", "user_id", userID.String())
	}
	return nil, lastErr
}

func (ss *streakService) recordActivityOnce(ctx context.Context, userID uuid.UUID) (*StreakResult, error) {
	var out *StreakResult
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := ss.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return ErrNotFound
		}
		user := users[0]

		current, longest := user.CurrentStreak, user.LongestStreak
		if current > longest {
			ss.log.Warn("Streak counters inconsistent, clamping",
				"user_id", userID.String(),
				"current_streak", current,
				"longest_streak", longest,
			)
			longest = current
		}

		now := ss.clk.Now()
		saverBridged := false
		if user.LastActivityDate != nil && clock.DaysBetween(*user.LastActivityDate, now) == 2 {
			// A saver spent on or before the last activity day already
			// covered an earlier gap; only one consumed after that day can
			// bridge this one. One saver, one missed day.
			bridgeCutoff := clock.DateOf(*user.LastActivityDate).AddDate(0, 0, 1)
			saverBridged, err = ss.saverRepo.UsedSince(ctx, tx, userID, bridgeCutoff)
			if err != nil {
				return err
			}
		}

		newCurrent, newLongest, sameDay := advanceStreak(current, longest, user.LastActivityDate, now, saverBridged)
		if sameDay {
			out = &StreakResult{CurrentStreak: newCurrent, LongestStreak: newLongest, AlreadyUpdatedToday: true}
			return nil
		}

		today := clock.DateOf(now)
		ok, err := ss.userRepo.UpdateStreakState(ctx, tx, userID, user.Version, newCurrent, newLongest, &today)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConflict
		}

		out = &StreakResult{CurrentStreak: newCurrent, LongestStreak: newLongest}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *streakService) PurchaseStreakSavers(ctx context.Context, userID uuid.UUID, quantity int) (*types.User, error) {
	// No upper bound; a purchase fails only on a non-positive quantity or an
	// unknown user.
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := ss.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return ErrNotFound
		}

		now := ss.clk.Now()
		savers := make([]*types.StreakSaver, 0, quantity)
		for i := 0; i < quantity; i++ {
			savers = append(savers, &types.StreakSaver{
				UserID:      userID,
				PurchasedAt: now,
			})
		}
		if _, err := ss.saverRepo.Create(ctx, tx, savers); err != nil {
			return err
		}

		ok, err := ss.userRepo.AddStreakSavers(ctx, tx, userID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	users, err := ss.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	ss.log.Info("Streak savers purchased",
		"user_id", userID.String(),
		"quantity", quantity,
		"available", users[0].StreakSaversAvailable,
	)
	return users[0], nil
}

func (ss *streakService) UseStreakSaver(ctx context.Context, userID uuid.UUID) (*types.StreakSaver, error) {
	var used *types.StreakSaver
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := ss.userRepo.ConsumeStreakSaverSlot(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !ok {
			// Either the user is unknown or the counter is at zero; the
			// guarded update cannot tell, so check which.
			users, gerr := ss.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
			if gerr != nil {
				return gerr
			}
			if len(users) == 0 {
				return ErrNotFound
			}
			return ErrInsufficientSavers
		}

		saver, err := ss.saverRepo.OldestUnused(ctx, tx, userID)
		if err != nil {
			return err
		}
		if saver == nil {
			// Counter and rows disagree. Roll the whole thing back rather
			// than consume a slot with no backing row.
			unused, cerr := ss.saverRepo.CountUnused(ctx, tx, userID)
			if cerr != nil {
				unused = -1
			}
			ss.log.Error("Streak saver counter ahead of unused rows",
				"user_id", userID.String(),
				"unused_rows", unused,
			)
			return ErrInsufficientSavers
		}

		now := ss.clk.Now()
		marked, err := ss.saverRepo.MarkUsed(ctx, tx, saver.ID, now)
		if err != nil {
			return err
		}
		if !marked {
			return ErrConflict
		}

		saver.IsUsed = true
		saver.UsedAt = &now
		used = saver
		return nil
	})
	if err != nil {
		return nil, err
	}
	ss.log.Info("Streak saver consumed", "user_id", userID.String(), "saver_id", used.ID.String())
	return used, nil
}

func (ss *streakService) ListStreakSavers(ctx context.Context, userID uuid.UUID) ([]*types.StreakSaver, error) {
	return ss.saverRepo.ListByUser(ctx, nil, userID)
}

func (ss *streakService) LongestStreakFromHistory(ctx context.Context, userID uuid.UUID) (int, error) {
	users, err := ss.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return 0, err
	}
	if len(users) == 0 {
		return 0, ErrNotFound
	}
	user := users[0]

	stamps, err := ss.progRepo.CompletionTimestamps(ctx, nil, userID)
	if err != nil {
		return 0, err
	}

	longest := longestRun(stamps)
	if longest > user.LongestStreak {
		ss.log.Warn("Stored longest streak below history, repairing",
			"user_id", userID.String(),
			"stored", user.LongestStreak,
			"computed", longest,
		)
		if err := ss.userRepo.UpdateProfile(ctx, nil, userID, map[string]interface{}{
			"longest_streak": longest,
		}); err != nil {
			return 0, err
		}
	} else if user.LongestStreak > longest {
		// Savers bridge days without completions, so the stored counter can
		// legitimately exceed the raw history.
		longest = user.LongestStreak
	}
	return longest, nil
}

// longestRun computes the longest run of consecutive UTC calendar days in a
// set of timestamps. Duplicates within a day count once.
func longestRun(stamps []time.Time) int {
	if len(stamps) == 0 {
		return 0
	}
	seen := make(map[time.Time]struct{}, len(stamps))
	var days []time.Time
	for _, s := range stamps {
		d := clock.DateOf(s)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if clock.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
