// Package compare puts two handles side by side.
package compare

import (
	"context"
	"strings"

	"cfanalyzer/internal/analytics"
	"cfanalyzer/internal/codeforces"
	appErr "cfanalyzer/pkg/errors"
	"cfanalyzer/pkg/utils/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Winner values.
const (
	Tie    = 0
	First  = 1
	Second = 2
)

// Fetcher is the subset of the upstream client the comparison needs.
type Fetcher interface {
	UserInfo(ctx context.Context, handle string) (codeforces.UserInfo, error)
	UserStatus(ctx context.Context, handle string) ([]codeforces.Submission, error)
}

// Profile is one side of a comparison.
type Profile struct {
	User             codeforces.UserInfo `json:"user"`
	SolvedCount      int                 `json:"solvedCount"`
	TotalSubmissions int                 `json:"totalSubmissions"`
	AcceptanceRate   int                 `json:"acceptanceRate"` // percent, rounded half up
}

// Metric is one compared row. Winner is 1, 2 or 0 on a tie.
type Metric struct {
	Name   string `json:"name"`
	First  int    `json:"first"`
	Second int    `json:"second"`
	Winner int    `json:"winner"`
}

// Comparison is the full result. It is only produced when both sides loaded.
type Comparison struct {
	First   Profile  `json:"first"`
	Second  Profile  `json:"second"`
	Metrics []Metric `json:"metrics"`
}

// AcceptanceRate returns round(solved/total*100), 0 when total is 0.
func AcceptanceRate(solved, total int) int {
	if total <= 0 {
		return 0
	}
	return (solved*200 + total) / (2 * total)
}

// BuildProfile derives the compared numbers from raw data.
func BuildProfile(info codeforces.UserInfo, subs []codeforces.Submission) Profile {
	solved := analytics.Solved(subs).Len()
	return Profile{
		User:             info,
		SolvedCount:      solved,
		TotalSubmissions: len(subs),
		AcceptanceRate:   AcceptanceRate(solved, len(subs)),
	}
}

// WinnerOf returns First when a > b, Second when b > a, Tie otherwise.
func WinnerOf(a, b int) int {
	switch {
	case a > b:
		return First
	case b > a:
		return Second
	}
	return Tie
}

// Metrics lists the compared rows. Missing ratings count as 0.
func Metrics(a, b Profile) []Metric {
	rows := []struct {
		name string
		a, b int
	}{
		{"Rating", a.User.RatingOrZero(), b.User.RatingOrZero()},
		{"Max Rating", a.User.MaxRatingOrZero(), b.User.MaxRatingOrZero()},
		{"Problems Solved", a.SolvedCount, b.SolvedCount},
		{"Acceptance Rate", a.AcceptanceRate, b.AcceptanceRate},
	}
	metrics := make([]Metric, 0, len(rows))
	for _, r := range rows {
		metrics = append(metrics, Metric{Name: r.name, First: r.a, Second: r.b, Winner: WinnerOf(r.a, r.b)})
	}
	return metrics
}

// Compare loads both handles concurrently. The first failure cancels the other
// side and no partial result is returned.
func Compare(ctx context.Context, f Fetcher, first, second string) (*Comparison, error) {
	first, second = strings.TrimSpace(first), strings.TrimSpace(second)
	if first == "" || second == "" {
		return nil, appErr.New(appErr.ComparisonHandlesRequired)
	}

	var a, b Profile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		a, err = loadProfile(gctx, f, first)
		return err
	})
	g.Go(func() (err error) {
		b, err = loadProfile(gctx, f, second)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Warn(ctx, "comparison failed",
			zap.String("first", first), zap.String("second", second), zap.Error(err))
		return nil, err
	}

	return &Comparison{First: a, Second: b, Metrics: Metrics(a, b)}, nil
}

func loadProfile(ctx context.Context, f Fetcher, handle string) (Profile, error) {
	info, err := f.UserInfo(ctx, handle)
	if err != nil {
		return Profile{}, tag(err, handle)
	}
	subs, err := f.UserStatus(ctx, handle)
	if err != nil {
		return Profile{}, tag(err, handle)
	}
	return BuildProfile(info, subs), nil
}

func tag(err error, handle string) error {
	if appErr.GetCode(err) == appErr.InternalServerError {
		return appErr.Wrap(err, appErr.ComparisonFailed).WithDetail("handle", handle)
	}
	return appErr.GetError(err).WithDetail("handle", handle)
}
