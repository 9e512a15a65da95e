// Package picker draws a random problem from a user's accepted submissions.
package picker

import (
	"cfanalyzer/internal/codeforces"
	"cfanalyzer/internal/recommend"
	appErr "cfanalyzer/pkg/errors"
)

// Pick is a drawn problem with its public link.
type Pick struct {
	Problem codeforces.Problem `json:"problem"`
	URL     string             `json:"url"`
}

// RandomSolved draws uniformly over accepted submissions, so problems solved
// several times are proportionally more likely.
func RandomSolved(subs []codeforces.Submission, src recommend.Source) (Pick, error) {
	return draw(accepted(subs, func(codeforces.Problem) bool { return true }), src, appErr.NoSolvedProblems)
}

// SolvedByRating draws among accepted submissions whose problem rating equals rating.
func SolvedByRating(subs []codeforces.Submission, rating int, src recommend.Source) (Pick, error) {
	if rating <= 0 {
		return Pick{}, appErr.ValidationError("rating", "must be positive")
	}
	match := func(p codeforces.Problem) bool { return p.HasRating() && *p.Rating == rating }
	return draw(accepted(subs, match), src, appErr.NoProblemForRating)
}

func accepted(subs []codeforces.Submission, keep func(codeforces.Problem) bool) []codeforces.Problem {
	var out []codeforces.Problem
	for _, s := range subs {
		if s.Accepted() && keep(s.Problem) {
			out = append(out, s.Problem)
		}
	}
	return out
}

func draw(candidates []codeforces.Problem, src recommend.Source, empty appErr.ErrorCode) (Pick, error) {
	if len(candidates) == 0 {
		return Pick{}, appErr.New(empty)
	}
	if src == nil {
		src = recommend.NewTimeSource()
	}
	p := candidates[src.IntN(len(candidates))]
	return Pick{Problem: p, URL: p.URL()}, nil
}
