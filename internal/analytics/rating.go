package analytics

import "cfanalyzer/internal/codeforces"

// RatingPoint is one contest of the rating chart.
type RatingPoint struct {
	ContestID   int    `json:"contestId"`
	ContestName string `json:"contestName"`
	Rating      int    `json:"rating"`
	Delta       int    `json:"delta"`
	Rank        int    `json:"rank"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// RatingSummary condenses the contest history.
type RatingSummary struct {
	Contests  int `json:"contests"`
	Current   int `json:"current"`
	Peak      int `json:"peak"`
	BestGain  int `json:"bestGain"`
	WorstDrop int `json:"worstDrop"`
}

// RatingHistory converts contest changes into chart points, keeping API order.
func RatingHistory(changes []codeforces.RatingChange) []RatingPoint {
	points := make([]RatingPoint, 0, len(changes))
	for _, c := range changes {
		points = append(points, RatingPoint{
			ContestID:   c.ContestID,
			ContestName: c.ContestName,
			Rating:      c.NewRating,
			Delta:       c.Delta(),
			Rank:        c.Rank,
			UpdatedAt:   c.RatingUpdateTimeSeconds,
		})
	}
	return points
}

// SummarizeRating computes headline numbers; an empty history yields zeros.
func SummarizeRating(changes []codeforces.RatingChange) RatingSummary {
	s := RatingSummary{Contests: len(changes)}
	for i, c := range changes {
		d := c.Delta()
		if c.NewRating > s.Peak {
			s.Peak = c.NewRating
		}
		if i == 0 || d > s.BestGain {
			s.BestGain = d
		}
		if i == 0 || d < s.WorstDrop {
			s.WorstDrop = d
		}
	}
	if len(changes) > 0 {
		s.Current = changes[len(changes)-1].NewRating
	}
	return s
}
