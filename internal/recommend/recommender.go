package recommend

import (
	"context"
	"slices"
	"strings"

	"cfanalyzer/internal/analytics"
	"cfanalyzer/internal/codeforces"
	appErr "cfanalyzer/pkg/errors"
	"cfanalyzer/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	DefaultLimit  = 10
	DefaultRating = 1200

	nearbySpread = 200
	rangeSpread  = 400
)

// Mode selects the rating window around the target rating.
type Mode string

const (
	ModeNearby Mode = "nearby"
	ModeEasier Mode = "easier"
	ModeHarder Mode = "harder"
)

// ParseMode accepts "", nearby, easier and harder.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeNearby:
		return ModeNearby, nil
	case ModeEasier:
		return ModeEasier, nil
	case ModeHarder:
		return ModeHarder, nil
	}
	return "", appErr.New(appErr.InvalidRatingRange).WithDetail("range", s)
}

// Filter describes which catalog problems qualify.
type Filter struct {
	WeakTags []string
	Solved   analytics.SolvedSet
	Rating   int    // target rating; 0 falls back to DefaultRating
	Tag      string // "" or "all" matches any weak tag
	Mode     Mode
}

// TargetRating returns the rating the window is centred on.
func (f Filter) TargetRating() int {
	if f.Rating <= 0 {
		return DefaultRating
	}
	return f.Rating
}

// Match reports whether p passes every predicate: unsolved, rated, tag match
// and inside the rating window.
func (f Filter) Match(p codeforces.Problem) bool {
	if f.Solved.Has(p.Key()) {
		return false
	}
	if !p.HasRating() {
		return false
	}
	if !f.tagMatch(p.Tags) {
		return false
	}
	r, t := *p.Rating, f.TargetRating()
	switch f.Mode {
	case ModeEasier:
		return r >= t-rangeSpread && r < t
	case ModeHarder:
		return r > t && r <= t+rangeSpread
	default:
		return r >= t-nearbySpread && r <= t+nearbySpread
	}
}

func (f Filter) tagMatch(tags []string) bool {
	if f.Tag == "" || strings.EqualFold(f.Tag, "all") {
		for _, weak := range f.WeakTags {
			if slices.Contains(tags, weak) {
				return true
			}
		}
		return false
	}
	return slices.Contains(tags, f.Tag)
}

// Recommend filters problems, shuffles the survivors with src and keeps at most limit.
func Recommend(problems []codeforces.Problem, f Filter, src Source, limit int) []codeforces.Problem {
	if limit <= 0 {
		limit = DefaultLimit
	}
	matched := make([]codeforces.Problem, 0)
	for _, p := range problems {
		if f.Match(p) {
			matched = append(matched, p)
		}
	}
	src.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// ProblemSource yields the problem catalog.
type ProblemSource interface {
	Problems(ctx context.Context) ([]codeforces.Problem, error)
}

// Recommender serves recommendations from a catalog.
type Recommender struct {
	catalog ProblemSource
	limit   int
}

func NewRecommender(catalog ProblemSource, limit int) *Recommender {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Recommender{catalog: catalog, limit: limit}
}

// Recommend returns a fresh shuffle on every call. A nil src uses the clock.
// Catalog failures degrade to an empty list.
func (r *Recommender) Recommend(ctx context.Context, f Filter, src Source) []codeforces.Problem {
	if len(f.WeakTags) == 0 && (f.Tag == "" || strings.EqualFold(f.Tag, "all")) {
		return []codeforces.Problem{}
	}
	problems, err := r.catalog.Problems(ctx)
	if err != nil {
		logger.Warn(ctx, "problem catalog unavailable, no recommendations", zap.Error(err))
		return []codeforces.Problem{}
	}
	if src == nil {
		src = NewTimeSource()
	}
	return Recommend(problems, f, src, r.limit)
}
