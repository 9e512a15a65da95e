package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cfanalyzer/internal/analytics"
	"cfanalyzer/internal/compare"
	"cfanalyzer/internal/dashboard"
	appErr "cfanalyzer/pkg/errors"
)

// levelGlyphs maps heatmap intensity 0..4 to a cell.
var levelGlyphs = [5]byte{'.', ':', '+', '*', '#'}

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type envelope[T any] struct {
	Code int `json:"code"`
	Data T   `json:"data"`
}

type analysisData struct {
	Token     uint64              `json:"token"`
	Committed bool                `json:"committed"`
	Snapshot  *dashboard.Snapshot `json:"snapshot"`
}

// Analysis writes a text summary of an analysis response body. It returns
// false when the body does not carry a snapshot.
func Analysis(w io.Writer, body []byte) bool {
	var resp envelope[analysisData]
	if err := json.Unmarshal(body, &resp); err != nil || resp.Code != int(appErr.Success) || resp.Data.Snapshot == nil {
		return false
	}
	snap := resp.Data.Snapshot

	fmt.Fprintf(w, "%s  rating %d (max %d)  %s\n", snap.User.Handle, snap.User.RatingOrZero(), snap.User.MaxRatingOrZero(), snap.User.Rank)
	if !resp.Data.Committed {
		fmt.Fprintf(w, "token %d superseded by a newer analysis\n", resp.Data.Token)
	}
	fmt.Fprintf(w, "submissions %d  solved %d\n", snap.Submissions, snap.SolvedCount)
	if len(snap.WeakTags) > 0 {
		fmt.Fprintf(w, "weak tags: %s\n", strings.Join(snap.WeakTags, ", "))
	}
	if snap.RatingSummary.Contests > 0 {
		rs := snap.RatingSummary
		fmt.Fprintf(w, "contests %d  peak %d  best +%d  worst %d\n", rs.Contests, rs.Peak, rs.BestGain, rs.WorstDrop)
	}
	if snap.Activity.Visible {
		fmt.Fprintln(w)
		Heatmap(w, snap.Activity)
	}
	if len(snap.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "recommended:")
		for _, rec := range snap.Recommendations {
			fmt.Fprintf(w, "  %-8s %-40s %4d  %s\n", rec.Key(), rec.Name, rec.RatingValue(), rec.URL)
		}
	}
	for _, warning := range snap.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return true
}

// Heatmap draws the activity grid with one row per weekday and one column per
// week.
func Heatmap(w io.Writer, activity analytics.Activity) {
	for row := 0; row < 7; row++ {
		var b strings.Builder
		b.WriteString(weekdays[row])
		b.WriteByte(' ')
		for _, week := range activity.Weeks {
			if row >= len(week) || week[row] == nil {
				b.WriteByte(' ')
				continue
			}
			level := week[row].Level
			if level < 0 {
				level = 0
			}
			if level >= len(levelGlyphs) {
				level = len(levelGlyphs) - 1
			}
			b.WriteByte(levelGlyphs[level])
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	fmt.Fprintf(w, "%s .. %s  %d submissions  longest streak %d days\n",
		activity.Start, activity.End, activity.Total, activity.MaxStreak)
}

// Comparison writes the metric table of a compare response body.
func Comparison(w io.Writer, body []byte) bool {
	var resp envelope[compare.Comparison]
	if err := json.Unmarshal(body, &resp); err != nil || resp.Code != int(appErr.Success) || len(resp.Data.Metrics) == 0 {
		return false
	}
	first, second := resp.Data.First.User.Handle, resp.Data.Second.User.Handle
	fmt.Fprintf(w, "%-16s %12s %12s  %s\n", "", first, second, "winner")
	for _, m := range resp.Data.Metrics {
		winner := "tie"
		switch m.Winner {
		case compare.First:
			winner = first
		case compare.Second:
			winner = second
		}
		fmt.Fprintf(w, "%-16s %12d %12d  %s\n", m.Name, m.First, m.Second, winner)
	}
	return true
}
