package services

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestAdvanceStreakFirstActivity(t *testing.T) {
	current, longest, sameDay := advanceStreak(0, 0, nil, date(2024, 1, 1), false)
	if sameDay {
		t.Fatalf("first activity should not report same day")
	}
	if current != 1 || longest != 1 {
		t.Fatalf("got current=%d longest=%d, want 1/1", current, longest)
	}
}

func TestAdvanceStreakSameDayIdempotent(t *testing.T) {
	last := datePtr(2024, 1, 1)
	at := time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC)
	current, longest, sameDay := advanceStreak(1, 1, last, at, false)
	if !sameDay {
		t.Fatalf("expected same-day signal")
	}
	if current != 1 || longest != 1 {
		t.Fatalf("same-day call changed counters: current=%d longest=%d", current, longest)
	}
}

func TestAdvanceStreakConsecutiveDay(t *testing.T) {
	current, longest, sameDay := advanceStreak(1, 1, datePtr(2024, 1, 1), date(2024, 1, 2), false)
	if sameDay {
		t.Fatalf("unexpected same-day signal")
	}
	if current != 2 || longest != 2 {
		t.Fatalf("got current=%d longest=%d, want 2/2", current, longest)
	}
}

func TestAdvanceStreakGapResets(t *testing.T) {
	// 2024-01-02 -> 2024-01-05 is a three day gap.
	current, longest, _ := advanceStreak(2, 2, datePtr(2024, 1, 2), date(2024, 1, 5), false)
	if current != 1 {
		t.Fatalf("gap should reset current to 1, got %d", current)
	}
	if longest != 2 {
		t.Fatalf("longest should survive a reset, got %d", longest)
	}
}

func TestAdvanceStreakSaverBridgesSingleMissedDay(t *testing.T) {
	// One missed day (gap of 2) continues when a saver was consumed.
	current, longest, _ := advanceStreak(5, 7, datePtr(2024, 1, 1), date(2024, 1, 3), true)
	if current != 6 {
		t.Fatalf("bridged gap should increment, got %d", current)
	}
	if longest != 7 {
		t.Fatalf("longest should be unchanged at 7, got %d", longest)
	}
}

func TestAdvanceStreakSaverDoesNotBridgeWiderGaps(t *testing.T) {
	current, _, _ := advanceStreak(5, 7, datePtr(2024, 1, 1), date(2024, 1, 4), true)
	if current != 1 {
		t.Fatalf("gap of 3 must reset even with a saver, got %d", current)
	}
}

func TestAdvanceStreakGapWithoutSaverResets(t *testing.T) {
	current, _, _ := advanceStreak(5, 7, datePtr(2024, 1, 1), date(2024, 1, 3), false)
	if current != 1 {
		t.Fatalf("unbridged gap of 2 must reset, got %d", current)
	}
}

func TestAdvanceStreakMonotonicity(t *testing.T) {
	// Replay a month of mixed activity; longest must never decrease and must
	// always dominate current.
	days := []int{1, 2, 3, 5, 6, 7, 8, 8, 12, 13, 14, 15, 16, 17, 20}
	current, longest := 0, 0
	var last *time.Time
	prevLongest := 0
	for _, d := range days {
		at := date(2024, 1, d)
		newCurrent, newLongest, sameDay := advanceStreak(current, longest, last, at, false)
		if newLongest < prevLongest {
			t.Fatalf("longest decreased from %d to %d on day %d", prevLongest, newLongest, d)
		}
		if newLongest < newCurrent {
			t.Fatalf("longest %d < current %d on day %d", newLongest, newCurrent, d)
		}
		current, longest = newCurrent, newLongest
		prevLongest = newLongest
		if !sameDay {
			last = datePtr(2024, time.January, d)
		}
	}
	if longest != 6 {
		t.Fatalf("expected longest run of 6 (days 12-17), got %d", longest)
	}
	if current != 1 {
		t.Fatalf("expected current of 1 after final gap, got %d", current)
	}
}

func TestLongestRun(t *testing.T) {
	tests := []struct {
		name   string
		stamps []time.Time
		want   int
	}{
		{
			name:   "empty history",
			stamps: nil,
			want:   0,
		},
		{
			name:   "single day",
			stamps: []time.Time{date(2024, 1, 1)},
			want:   1,
		},
		{
			name: "duplicates within a day count once",
			stamps: []time.Time{
				time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 1, 21, 0, 0, 0, time.UTC),
				date(2024, 1, 2),
			},
			want: 2,
		},
		{
			name: "later shorter run does not win",
			stamps: []time.Time{
				date(2024, 1, 1), date(2024, 1, 2), date(2024, 1, 3), date(2024, 1, 4),
				date(2024, 2, 1), date(2024, 2, 2),
			},
			want: 4,
		},
		{
			name: "unsorted input",
			stamps: []time.Time{
				date(2024, 1, 3), date(2024, 1, 1), date(2024, 1, 2),
			},
			want: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := longestRun(tt.stamps); got != tt.want {
				t.Fatalf("longestRun = %d, want %d", got, tt.want)
			}
		})
	}
}
