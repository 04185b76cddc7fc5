package clock

import (
	"testing"
	"time"
)

func TestDateOfTruncatesToUTCMidnight(t *testing.T) {
	in := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	got := DateOf(in)
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateOf(%v) = %v, want %v", in, got, want)
	}
}

func TestDateOfConvertsZone(t *testing.T) {
	// 23:30 UTC-5 is 04:30 UTC the next day.
	zone := time.FixedZone("UTC-5", -5*3600)
	in := time.Date(2024, 1, 1, 23, 30, 0, 0, zone)
	got := DateOf(in)
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateOf(%v) = %v, want %v", in, got, want)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{
			name: "same day ignores time of day",
			a:    time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC),
			b:    time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "adjacent days one minute apart",
			a:    time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC),
			b:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "three day gap",
			a:    time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 1, 5, 1, 0, 0, 0, time.UTC),
			want: 3,
		},
		{
			name: "negative when b earlier",
			a:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			want: -2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Fatalf("DaysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 6, 15, 0, 0, 1, 0, time.UTC)
	b := time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)
	if !SameDay(a, b) {
		t.Fatalf("expected same day for %v and %v", a, b)
	}
	c := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
	if SameDay(a, c) {
		t.Fatalf("expected different days for %v and %v", a, c)
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	clk := Fixed(at)
	if !clk.Now().Equal(at) {
		t.Fatalf("Fixed clock returned %v, want %v", clk.Now(), at)
	}
}
