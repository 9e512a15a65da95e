package analytics

import (
	"reflect"
	"testing"
	"time"

	"cfanalyzer/internal/codeforces"
)

func sub(contest int, index, verdict string, at time.Time, tags ...string) codeforces.Submission {
	return codeforces.Submission{
		ContestID:           contest,
		CreationTimeSeconds: at.Unix(),
		Verdict:             verdict,
		Problem:             codeforces.Problem{ContestID: contest, Index: index, Tags: tags},
	}
}

var now = time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC)

func TestTagStatsKeepsFirstSeenOrder(t *testing.T) {
	subs := []codeforces.Submission{
		sub(1, "A", "OK", now, "math", "dp"),
		sub(1, "B", "WRONG_ANSWER", now, "greedy", "math"),
		sub(2, "A", "OK", now, "greedy"),
	}

	stats := TagStats(subs)
	want := []TagStat{
		{Name: "math", Accepted: 1, Total: 2, AcceptanceRate: 0.5},
		{Name: "dp", Accepted: 1, Total: 1, AcceptanceRate: 1},
		{Name: "greedy", Accepted: 1, Total: 2, AcceptanceRate: 0.5},
	}
	if !reflect.DeepEqual(stats, want) {
		t.Fatalf("TagStats = %+v, want %+v", stats, want)
	}
	for _, s := range stats {
		if s.Accepted > s.Total {
			t.Fatalf("accepted exceeds total for %s", s.Name)
		}
	}
}

func TestTagStatsEmpty(t *testing.T) {
	if stats := TagStats(nil); len(stats) != 0 {
		t.Fatalf("expected empty stats, got %v", stats)
	}
}

func TestWeakTags(t *testing.T) {
	stats := []TagStat{
		{Name: "a", AcceptanceRate: 0.5},
		{Name: "b", AcceptanceRate: 0.1},
		{Name: "c", AcceptanceRate: 0.5},
		{Name: "d", AcceptanceRate: 0.9},
		{Name: "e", AcceptanceRate: 0.1},
	}
	tests := []struct {
		name  string
		stats []TagStat
		want  []string
	}{
		{"ties keep first-seen order", stats, []string{"b", "e", "a"}},
		{"fewer than three", stats[:2], []string{"b", "a"}},
		{"empty", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeakTags(tt.stats, DefaultWeakTags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("WeakTags = %v, want %v", got, tt.want)
			}
		})
	}
	if stats[0].Name != "a" {
		t.Fatal("WeakTags must not reorder its input")
	}
}

func TestSolvedIsIdempotent(t *testing.T) {
	subs := []codeforces.Submission{
		sub(1, "A", "OK", now),
		sub(1, "A", "OK", now),
		sub(1, "B", "WRONG_ANSWER", now),
		sub(2, "C", "OK", now),
	}
	once := Solved(subs)
	twice := Solved(append(subs, subs...))
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("solved set changed on duplicated input: %v vs %v", once, twice)
	}
	if once.Len() != 2 || !once.Has("1-A") || once.Has("1-B") {
		t.Fatalf("unexpected set %v", once)
	}
}

func TestDayHistogramWindow(t *testing.T) {
	subs := []codeforces.Submission{
		sub(1, "A", "OK", now),
		sub(1, "B", "OK", now.Add(-time.Hour)),
		sub(1, "C", "OK", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), // first window date, earlier than now-180d
		sub(1, "D", "OK", time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)),
		sub(1, "E", "OK", now.AddDate(0, 0, 1)),
	}

	days := DayHistogram(subs, now)
	if len(days) != WindowDays+1 {
		t.Fatalf("expected %d days, got %d", WindowDays+1, len(days))
	}
	if days[0].Date != "2024-01-02" || days[len(days)-1].Date != "2024-06-30" {
		t.Fatalf("unexpected bounds %s..%s", days[0].Date, days[len(days)-1].Date)
	}
	total := 0
	for _, d := range days {
		total += d.Count
	}
	if total != 3 {
		t.Fatalf("histogram sum = %d, want 3 in-window submissions", total)
	}
	if days[len(days)-1].Count != 2 || days[len(days)-1].Level != 1 {
		t.Fatalf("unexpected last day %+v", days[len(days)-1])
	}
}

func TestMaxStreak(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   int
	}{
		{"empty", nil, 0},
		{"all zero", []int{0, 0, 0}, 0},
		{"reset by zero day", []int{1, 2, 0, 1, 1, 1, 0, 4}, 3},
		{"run at end", []int{0, 3, 3}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := make([]Day, len(tt.counts))
			for i, c := range tt.counts {
				days[i].Count = c
			}
			if got := MaxStreak(days); got != tt.want {
				t.Fatalf("MaxStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaxStreakBoundedByWindow(t *testing.T) {
	var subs []codeforces.Submission
	for i := 0; i < 400; i++ {
		subs = append(subs, sub(1, "A", "OK", now.AddDate(0, 0, -i)))
	}
	a := BuildActivity(subs, now)
	if a.MaxStreak != WindowDays+1 {
		t.Fatalf("MaxStreak = %d, want %d", a.MaxStreak, WindowDays+1)
	}
}

func TestLevel(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 2: 1, 3: 2, 5: 2, 6: 3, 10: 3, 11: 4, 100: 4}
	for count, want := range cases {
		if got := Level(count); got != want {
			t.Errorf("Level(%d) = %d, want %d", count, got, want)
		}
	}
}

func TestBuildActivityWeekGrid(t *testing.T) {
	a := BuildActivity([]codeforces.Submission{sub(1, "A", "OK", now)}, now)
	if !a.Visible || a.Total != 1 || a.MaxStreak != 1 {
		t.Fatalf("unexpected activity %+v", a)
	}
	// 2024-01-02 is a Tuesday: two padding cells lead the first week.
	if a.Weeks[0][0] != nil || a.Weeks[0][1] != nil || a.Weeks[0][2] == nil || a.Weeks[0][2].Date != "2024-01-02" {
		t.Fatalf("unexpected first week")
	}
	cells := 0
	for _, w := range a.Weeks {
		if len(w) != 7 {
			t.Fatalf("week has %d cells", len(w))
		}
		for _, d := range w {
			if d != nil {
				cells++
			}
		}
	}
	if cells != WindowDays+1 {
		t.Fatalf("grid holds %d days", cells)
	}
}

func TestBuildActivityWithoutSubmissionsIsHidden(t *testing.T) {
	a := BuildActivity(nil, now)
	if a.Visible || a.Total != 0 || a.MaxStreak != 0 {
		t.Fatalf("unexpected activity %+v", a)
	}
}

func TestSummarizeRating(t *testing.T) {
	changes := []codeforces.RatingChange{
		{OldRating: 0, NewRating: 1400},
		{OldRating: 1400, NewRating: 1350},
		{OldRating: 1350, NewRating: 1600},
		{OldRating: 1600, NewRating: 1500},
	}
	got := SummarizeRating(changes)
	want := RatingSummary{Contests: 4, Current: 1500, Peak: 1600, BestGain: 1400, WorstDrop: -100}
	if got != want {
		t.Fatalf("SummarizeRating = %+v, want %+v", got, want)
	}
	if SummarizeRating(nil) != (RatingSummary{}) {
		t.Fatal("empty history must summarize to zeros")
	}
	if pts := RatingHistory(changes); pts[1].Delta != -50 || pts[2].Rating != 1600 {
		t.Fatalf("unexpected history %+v", pts)
	}
}
