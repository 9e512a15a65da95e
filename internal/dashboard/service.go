// Package dashboard builds the per-handle analysis shown to a user.
package dashboard

import (
	"context"
	"strings"
	"time"

	"cfanalyzer/internal/analytics"
	"cfanalyzer/internal/codeforces"
	"cfanalyzer/internal/picker"
	"cfanalyzer/internal/recommend"
	appErr "cfanalyzer/pkg/errors"
	"cfanalyzer/pkg/utils/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher is the upstream surface the dashboard reads.
type Fetcher interface {
	UserInfo(ctx context.Context, handle string) (codeforces.UserInfo, error)
	UserStatus(ctx context.Context, handle string) ([]codeforces.Submission, error)
	UserRating(ctx context.Context, handle string) ([]codeforces.RatingChange, error)
}

// Recommender yields problem suggestions.
type Recommender interface {
	Recommend(ctx context.Context, f recommend.Filter, src recommend.Source) []codeforces.Problem
}

const (
	warnSubmissions = "submissions unavailable"
	warnRating      = "rating history unavailable"
)

// Service runs analyses.
type Service struct {
	fetcher Fetcher
	recs    Recommender
	now     func() time.Time
}

func NewService(fetcher Fetcher, recs Recommender) *Service {
	return &Service{fetcher: fetcher, recs: recs, now: time.Now}
}

// Analyze fetches the three per-handle resources concurrently and builds a
// snapshot. A missing user fails the analysis; missing submissions or rating
// history only leave their section empty.
func (s *Service) Analyze(ctx context.Context, handle string) (*Snapshot, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, appErr.New(appErr.InvalidHandle)
	}
	ctx = logger.WithHandle(ctx, handle)
	start := s.now()

	var (
		info                        codeforces.UserInfo
		subs                        []codeforces.Submission
		changes                     []codeforces.RatingChange
		infoErr, subsErr, ratingErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		info, infoErr = s.fetcher.UserInfo(ctx, handle)
		return nil
	})
	g.Go(func() error {
		subs, subsErr = s.fetcher.UserStatus(ctx, handle)
		return nil
	})
	g.Go(func() error {
		changes, ratingErr = s.fetcher.UserRating(ctx, handle)
		return nil
	})
	_ = g.Wait()

	if infoErr != nil {
		logger.Warn(ctx, "analysis failed", zap.Int("reason", int(appErr.GetCode(infoErr))), zap.Error(infoErr))
		return nil, appErr.Wrapf(infoErr, appErr.AnalysisFailed, appErr.AnalysisFailed.Message()).
			WithDetail("reason", appErr.GetCode(infoErr))
	}

	var warnings []string
	if subsErr != nil {
		logger.Warn(ctx, "submissions unavailable", zap.Error(subsErr))
		warnings = append(warnings, warnSubmissions)
		subs = nil
	}
	if ratingErr != nil {
		logger.Warn(ctx, "rating history unavailable", zap.Error(ratingErr))
		warnings = append(warnings, warnRating)
		changes = nil
	}

	snap := s.build(ctx, handle, info, subs, changes)
	snap.Warnings = warnings
	logger.Info(ctx, "analysis done",
		zap.Int("submissions", snap.Submissions),
		zap.Int("solved", snap.SolvedCount),
		zap.Int("contests", snap.RatingSummary.Contests),
		zap.Duration("duration", s.now().Sub(start)))
	return snap, nil
}

func (s *Service) build(ctx context.Context, handle string, info codeforces.UserInfo, subs []codeforces.Submission, changes []codeforces.RatingChange) *Snapshot {
	stats := analytics.TagStats(subs)
	solved := analytics.Solved(subs)
	snap := &Snapshot{
		Handle:          handle,
		GeneratedAt:     s.now().UTC(),
		User:            info,
		Submissions:     len(subs),
		SolvedCount:     solved.Len(),
		TagStats:        stats,
		WeakTags:        analytics.WeakTags(stats, analytics.DefaultWeakTags),
		Activity:        analytics.BuildActivity(subs, s.now()),
		Rating:          analytics.RatingHistory(changes),
		RatingSummary:   analytics.SummarizeRating(changes),
		Recommendations: []Recommendation{},
		subs:            subs,
		solved:          solved,
	}
	if len(subs) > 0 && len(snap.WeakTags) > 0 {
		snap.Recommendations = s.Recommend(ctx, snap, "", recommend.ModeNearby, nil)
	}
	return snap
}

// Recommend rerolls suggestions for a snapshot. Every call shuffles again.
func (s *Service) Recommend(ctx context.Context, snap *Snapshot, tag string, mode recommend.Mode, src recommend.Source) []Recommendation {
	if s.recs == nil || snap == nil || snap.Submissions == 0 {
		return []Recommendation{}
	}
	f := recommend.Filter{
		WeakTags: snap.WeakTags,
		Solved:   snap.solved,
		Rating:   snap.User.RatingOrZero(),
		Tag:      tag,
		Mode:     mode,
	}
	return toRecommendations(s.recs.Recommend(ctx, f, src))
}

// RandomSolved picks one of the snapshot's accepted submissions.
func (s *Service) RandomSolved(snap *Snapshot, src recommend.Source) (picker.Pick, error) {
	return picker.RandomSolved(snap.subs, src)
}

// SolvedByRating picks an accepted submission whose problem has the given rating.
func (s *Service) SolvedByRating(snap *Snapshot, rating int, src recommend.Source) (picker.Pick, error) {
	return picker.SolvedByRating(snap.subs, rating, src)
}
