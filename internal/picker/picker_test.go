package picker

import (
	"testing"

	"cfanalyzer/internal/codeforces"
	"cfanalyzer/internal/recommend"
	appErr "cfanalyzer/pkg/errors"
)

type fixedSource struct{ n int }

func (f fixedSource) IntN(n int) int           { return f.n % n }
func (fixedSource) Shuffle(int, func(i, j int)) {}

func solved(contest int, index string, rating int, verdict string) codeforces.Submission {
	p := codeforces.Problem{ContestID: contest, Index: index}
	if rating > 0 {
		p.Rating = &rating
	}
	return codeforces.Submission{Problem: p, Verdict: verdict}
}

func TestRandomSolvedOnlyAccepted(t *testing.T) {
	subs := []codeforces.Submission{
		solved(1, "A", 800, "WRONG_ANSWER"),
		solved(2, "B", 1200, "OK"),
		solved(3, "C", 0, "OK"),
	}
	for i := 0; i < 4; i++ {
		pick, err := RandomSolved(subs, fixedSource{n: i})
		if err != nil {
			t.Fatalf("RandomSolved failed: %v", err)
		}
		if pick.Problem.Key() == "1-A" {
			t.Fatal("picked a rejected submission")
		}
		if pick.URL != pick.Problem.URL() {
			t.Fatalf("unexpected url %s", pick.URL)
		}
	}
}

func TestRandomSolvedEmpty(t *testing.T) {
	_, err := RandomSolved([]codeforces.Submission{solved(1, "A", 800, "TIME_LIMIT_EXCEEDED")}, recommend.NewSource(1))
	if !appErr.Is(err, appErr.NoSolvedProblems) {
		t.Fatalf("expected no solved problems, got %v", err)
	}
}

func TestSolvedByRating(t *testing.T) {
	subs := []codeforces.Submission{
		solved(1, "A", 800, "OK"),
		solved(2, "B", 1200, "OK"),
		solved(3, "C", 1200, "WRONG_ANSWER"),
	}

	pick, err := SolvedByRating(subs, 1200, recommend.NewSource(3))
	if err != nil || pick.Problem.Key() != "2-B" {
		t.Fatalf("SolvedByRating = %+v, %v", pick, err)
	}

	_, err = SolvedByRating(subs, 1900, recommend.NewSource(3))
	if !appErr.Is(err, appErr.NoProblemForRating) {
		t.Fatalf("expected no problem for rating, got %v", err)
	}
	if err.Error() != "No solved problems found with this rating." {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if _, err := SolvedByRating(subs, 0, nil); !appErr.Is(err, appErr.ValidationFailed) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
