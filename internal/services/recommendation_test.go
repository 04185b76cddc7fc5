package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/hidayaapp/hidaya-backend/internal/repos"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

func lesson(religion, difficulty string) *types.Lesson {
	return &types.Lesson{
		ID:         uuid.New(),
		Title:      religion + " " + difficulty,
		Religion:   religion,
		Difficulty: difficulty,
	}
}

func TestRecommendScoresReligionAndDifficultyMatch(t *testing.T) {
	user := &types.User{Religion: "islam"}
	match := lesson("islam", types.DifficultyBeginner)
	other := lesson("christianity", types.DifficultyBeginner)

	recs := Recommend(user, nil, types.DifficultyBeginner, []*types.Lesson{match, other}, 5)

	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].Lesson.ID != match.ID {
		t.Fatalf("wrong lesson recommended")
	}
	// 0.4 religion + 0.3 difficulty match.
	if diff := recs[0].Score - 0.7; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("score = %v, want 0.7", recs[0].Score)
	}
}

func TestRecommendReligionMatchIsCaseInsensitive(t *testing.T) {
	user := &types.User{Religion: "Islam"}
	candidate := lesson("islam", types.DifficultyBeginner)

	recs := Recommend(user, nil, types.DifficultyBeginner, []*types.Lesson{candidate}, 5)
	if len(recs) != 1 {
		t.Fatalf("expected case-insensitive religion match")
	}
}

func TestRecommendLearningStyleBonus(t *testing.T) {
	user := &types.User{Religion: "hinduism", LearningStyle: "stories"}
	candidate := lesson("hinduism", types.DifficultyBeginner)

	recs := Recommend(user, nil, types.DifficultyBeginner, []*types.Lesson{candidate}, 5)
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	want := 0.4 + 0.3 + 0.1
	if diff := recs[0].Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("score = %v, want %v", recs[0].Score, want)
	}
}

func TestRecommendNextDifficultyBonus(t *testing.T) {
	user := &types.User{Religion: "islam"}
	next := lesson("islam", types.DifficultyIntermediate)

	recs := Recommend(user, nil, types.DifficultyBeginner, []*types.Lesson{next}, 5)
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	// 0.4 religion + 0.2 next step up.
	want := 0.6
	if diff := recs[0].Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("score = %v, want %v", recs[0].Score, want)
	}
}

func TestRecommendExcludesCompletedLessons(t *testing.T) {
	user := &types.User{Religion: "islam"}
	done := lesson("islam", types.DifficultyBeginner)
	fresh := lesson("islam", types.DifficultyBeginner)
	completed := map[uuid.UUID]struct{}{done.ID: {}}

	recs := Recommend(user, completed, types.DifficultyBeginner, []*types.Lesson{done, fresh}, 5)
	for _, r := range recs {
		if r.Lesson.ID == done.ID {
			t.Fatalf("completed lesson must not be recommended")
		}
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
}

func TestRecommendNoDifficultyBonusWithoutHistory(t *testing.T) {
	// A brand new user has no completion history, so a religion-matching
	// beginner lesson stays at 0.4 and falls under the threshold.
	user := &types.User{Religion: "islam"}
	candidate := lesson("islam", types.DifficultyBeginner)

	recs := Recommend(user, nil, "", []*types.Lesson{candidate}, 5)
	if len(recs) != 0 {
		t.Fatalf("new user must get no difficulty bonus, got %d results", len(recs))
	}
}

func TestRecommendThresholdIsStrict(t *testing.T) {
	// No religion set: best possible without learning style is the 0.3
	// difficulty match, below the cliff.
	user := &types.User{}
	candidate := lesson("islam", types.DifficultyBeginner)

	recs := Recommend(user, nil, types.DifficultyBeginner, []*types.Lesson{candidate}, 5)
	if len(recs) != 0 {
		t.Fatalf("score <= 0.5 must be excluded, got %d results", len(recs))
	}
}

func TestRecommendOrderingAndStableTies(t *testing.T) {
	user := &types.User{Religion: "islam"}
	strong := lesson("islam", types.DifficultyBeginner)      // 0.7
	weakerA := lesson("islam", types.DifficultyIntermediate) // 0.6
	weakerB := lesson("islam", types.DifficultyIntermediate) // 0.6, seen later

	recs := Recommend(user, nil, types.DifficultyBeginner, []*types.Lesson{weakerA, weakerB, strong}, 5)
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	if recs[0].Lesson.ID != strong.ID {
		t.Fatalf("highest score must rank first")
	}
	if recs[1].Lesson.ID != weakerA.ID || recs[2].Lesson.ID != weakerB.ID {
		t.Fatalf("ties must keep first-seen order")
	}
}

func TestRecommendHonorsLimit(t *testing.T) {
	user := &types.User{Religion: "islam"}
	var candidates []*types.Lesson
	for i := 0; i < 10; i++ {
		candidates = append(candidates, lesson("islam", types.DifficultyBeginner))
	}
	recs := Recommend(user, nil, types.DifficultyBeginner, candidates, 3)
	if len(recs) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(recs))
	}
}

func TestRecommendReasonMentionsReligion(t *testing.T) {
	user := &types.User{Religion: "islam"}
	candidate := lesson("islam", types.DifficultyBeginner)

	recs := Recommend(user, nil, types.DifficultyBeginner, []*types.Lesson{candidate}, 5)
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].Reason == "" {
		t.Fatalf("expected a reason string")
	}
	want := "Continue your journey in islam. Build a strong foundation"
	if recs[0].Reason != want {
		t.Fatalf("reason = %q, want %q", recs[0].Reason, want)
	}
}

func TestHistoryDifficultyBuckets(t *testing.T) {
	tests := []struct {
		name   string
		counts []repos.DifficultyCount
		want   string
	}{
		{
			name:   "empty history has no bucket",
			counts: nil,
			want:   "",
		},
		{
			name: "all beginner",
			counts: []repos.DifficultyCount{
				{Difficulty: types.DifficultyBeginner, Count: 4},
			},
			want: types.DifficultyBeginner,
		},
		{
			name: "avg exactly 1.5 rounds up",
			counts: []repos.DifficultyCount{
				{Difficulty: types.DifficultyBeginner, Count: 1},
				{Difficulty: types.DifficultyIntermediate, Count: 1},
			},
			want: types.DifficultyIntermediate,
		},
		{
			name: "mostly advanced",
			counts: []repos.DifficultyCount{
				{Difficulty: types.DifficultyAdvanced, Count: 5},
				{Difficulty: types.DifficultyIntermediate, Count: 1},
			},
			want: types.DifficultyAdvanced,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := historyDifficulty(tt.counts); got != tt.want {
				t.Fatalf("historyDifficulty = %q, want %q", got, tt.want)
			}
		})
	}
}
