package dashboard

import (
	"slices"
	"time"

	"cfanalyzer/internal/analytics"
	"cfanalyzer/internal/codeforces"
)

// Recommendation is a suggested problem with its public link.
type Recommendation struct {
	codeforces.Problem
	URL string `json:"url"`
}

// Snapshot is the immutable result of one analysis.
type Snapshot struct {
	Handle          string                  `json:"handle"`
	GeneratedAt     time.Time               `json:"generatedAt"`
	User            codeforces.UserInfo     `json:"user"`
	Submissions     int                     `json:"submissions"`
	SolvedCount     int                     `json:"solvedCount"`
	TagStats        []analytics.TagStat     `json:"tagStats"`
	WeakTags        []string                `json:"weakTags"`
	Activity        analytics.Activity      `json:"activity"`
	Rating          []analytics.RatingPoint `json:"rating"`
	RatingSummary   analytics.RatingSummary `json:"ratingSummary"`
	Recommendations []Recommendation        `json:"recommendations"`
	Warnings        []string                `json:"warnings,omitempty"`

	subs   []codeforces.Submission
	solved analytics.SolvedSet
}

// Clone returns a copy whose exported fields share no memory with s. The
// submissions and solved set behind the pickers are never written after build
// and stay shared.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	cp := *s
	cp.User.Rating = cloneInt(s.User.Rating)
	cp.User.MaxRating = cloneInt(s.User.MaxRating)
	cp.TagStats = slices.Clone(s.TagStats)
	cp.WeakTags = slices.Clone(s.WeakTags)
	cp.Rating = slices.Clone(s.Rating)
	cp.Recommendations = slices.Clone(s.Recommendations)
	for i := range cp.Recommendations {
		cp.Recommendations[i].Tags = slices.Clone(s.Recommendations[i].Tags)
		cp.Recommendations[i].Rating = cloneInt(s.Recommendations[i].Rating)
	}
	cp.Warnings = slices.Clone(s.Warnings)
	cp.Activity.Days = slices.Clone(s.Activity.Days)
	cp.Activity.Weeks = make([][]*analytics.Day, len(s.Activity.Weeks))
	for i, week := range s.Activity.Weeks {
		cp.Activity.Weeks[i] = make([]*analytics.Day, len(week))
		for j, d := range week {
			if d != nil {
				day := *d
				cp.Activity.Weeks[i][j] = &day
			}
		}
	}
	return &cp
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func toRecommendations(problems []codeforces.Problem) []Recommendation {
	out := make([]Recommendation, 0, len(problems))
	for _, p := range problems {
		out = append(out, Recommendation{Problem: p, URL: p.URL()})
	}
	return out
}
