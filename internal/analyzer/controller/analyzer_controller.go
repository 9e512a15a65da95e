package controller

import (
	"strconv"
	"strings"

	"cfanalyzer/internal/common/http/middleware"
	"cfanalyzer/internal/compare"
	"cfanalyzer/internal/dashboard"
	"cfanalyzer/internal/recommend"
	"cfanalyzer/internal/resources"
	appErr "cfanalyzer/pkg/errors"
	"cfanalyzer/pkg/utils/logger"
	"cfanalyzer/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyzerController serves handle analysis endpoints.
type AnalyzerController struct {
	dashboard *dashboard.Service
	sessions  *dashboard.Sessions
	fetcher   compare.Fetcher
}

// NewAnalyzerController creates a new AnalyzerController.
func NewAnalyzerController(svc *dashboard.Service, sessions *dashboard.Sessions, fetcher compare.Fetcher) *AnalyzerController {
	return &AnalyzerController{dashboard: svc, sessions: sessions, fetcher: fetcher}
}

// Analyze runs a fresh analysis and commits it to the caller's session board.
func (h *AnalyzerController) Analyze(c *gin.Context) {
	ctx := c.Request.Context()
	handle := c.Param("handle")

	var (
		board *dashboard.Board
		token dashboard.Token
	)
	if id := middleware.SessionID(c); id != "" {
		board = h.sessions.Board(id)
		token = board.Begin()
	}

	snap, err := h.dashboard.Analyze(ctx, handle)
	if err != nil {
		response.Error(c, err)
		return
	}

	committed := false
	if board != nil {
		committed = board.Commit(token, snap)
		if !committed {
			logger.Info(ctx, "stale analysis discarded", zap.Uint64("token", uint64(token)))
		}
	}
	response.Success(c, AnalysisResponse{Token: uint64(token), Committed: committed, Snapshot: snap})
}

// Latest returns the newest committed snapshot of the caller's session.
func (h *AnalyzerController) Latest(c *gin.Context) {
	id := middleware.SessionID(c)
	if id == "" {
		response.Error(c, appErr.New(appErr.SessionIDRequired))
		return
	}
	board, ok := h.sessions.Lookup(id)
	if !ok {
		response.Error(c, appErr.New(appErr.SnapshotNotFound))
		return
	}
	snap, token, ok := board.Latest()
	if !ok {
		response.Error(c, appErr.New(appErr.SnapshotNotFound))
		return
	}
	response.Success(c, AnalysisResponse{Token: uint64(token), Committed: true, Snapshot: snap})
}

// Recommendations rerolls the recommendation list for a handle.
func (h *AnalyzerController) Recommendations(c *gin.Context) {
	mode, err := recommend.ParseMode(c.Query("range"))
	if err != nil {
		response.Error(c, err)
		return
	}
	src, err := seedSource(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	snap, err := h.snapshotFor(c, c.Param("handle"))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := h.dashboard.Recommend(c.Request.Context(), snap, strings.TrimSpace(c.Query("tag")), mode, src)
	response.Success(c, RecommendationsResponse{
		Handle:   snap.Handle,
		WeakTags: snap.WeakTags,
		Range:    string(mode),
		Problems: items,
	})
}

// RandomProblem picks one of the handle's solved problems.
func (h *AnalyzerController) RandomProblem(c *gin.Context) {
	src, err := seedSource(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	snap, err := h.snapshotFor(c, c.Param("handle"))
	if err != nil {
		response.Error(c, err)
		return
	}
	pick, err := h.dashboard.RandomSolved(snap, src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pick)
}

// ProblemByRating picks a solved problem with the exact rating given.
func (h *AnalyzerController) ProblemByRating(c *gin.Context) {
	rating, err := strconv.Atoi(strings.TrimSpace(c.Query("rating")))
	if err != nil || rating <= 0 {
		response.Error(c, appErr.ValidationError("rating", "must be a positive integer"))
		return
	}
	src, err := seedSource(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	snap, err := h.snapshotFor(c, c.Param("handle"))
	if err != nil {
		response.Error(c, err)
		return
	}
	pick, err := h.dashboard.SolvedByRating(snap, rating, src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pick)
}

// Compare puts two handles side by side.
func (h *AnalyzerController) Compare(c *gin.Context) {
	result, err := compare.Compare(c.Request.Context(), h.fetcher, c.Query("first"), c.Query("second"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Resources lists learning material.
func (h *AnalyzerController) Resources(c *gin.Context) {
	if level := strings.TrimSpace(c.Query("level")); level != "" {
		response.Success(c, resources.ByLevel(resources.Level(strings.ToLower(level))))
		return
	}
	response.Success(c, resources.All())
}

// snapshotFor reuses the session's latest snapshot when it is for handle and
// otherwise analyses afresh without touching the board.
func (h *AnalyzerController) snapshotFor(c *gin.Context, handle string) (*dashboard.Snapshot, error) {
	handle = strings.TrimSpace(handle)
	if id := middleware.SessionID(c); id != "" {
		if board, ok := h.sessions.Lookup(id); ok {
			if snap, _, ok := board.Latest(); ok && strings.EqualFold(snap.Handle, handle) {
				return snap, nil
			}
		}
	}
	return h.dashboard.Analyze(c.Request.Context(), handle)
}

func seedSource(c *gin.Context) (recommend.Source, error) {
	raw := strings.TrimSpace(c.Query("seed"))
	if raw == "" {
		return nil, nil
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, appErr.ValidationError("seed", "must be an unsigned integer")
	}
	return recommend.NewSource(seed), nil
}

// AnalysisResponse wraps a snapshot with its request token.
type AnalysisResponse struct {
	Token     uint64              `json:"token"`
	Committed bool                `json:"committed"`
	Snapshot  *dashboard.Snapshot `json:"snapshot"`
}

// RecommendationsResponse is one page of recommendations.
type RecommendationsResponse struct {
	Handle   string                     `json:"handle"`
	WeakTags []string                   `json:"weakTags"`
	Range    string                     `json:"range"`
	Problems []dashboard.Recommendation `json:"problems"`
}
