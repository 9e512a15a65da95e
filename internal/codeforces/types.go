package codeforces

import "fmt"

// VerdictOK marks an accepted submission.
const VerdictOK = "OK"

const problemURLFormat = "https://codeforces.com/problemset/problem/%d/%s"

// Problem is a problemset entry. Rating is nil for unrated problems.
type Problem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    *int     `json:"rating,omitempty"`
	Tags      []string `json:"tags"`
}

// Key identifies the problem as "{contestId}-{index}".
func (p Problem) Key() string {
	return fmt.Sprintf("%d-%s", p.ContestID, p.Index)
}

// URL returns the public problemset page.
func (p Problem) URL() string {
	return fmt.Sprintf(problemURLFormat, p.ContestID, p.Index)
}

// HasRating reports whether the problem carries a difficulty rating.
func (p Problem) HasRating() bool {
	return p.Rating != nil
}

// RatingValue returns the rating, or 0 when unrated.
func (p Problem) RatingValue() int {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// Submission is one entry of user.status. Verdict is empty while judging.
type Submission struct {
	ID                  int64   `json:"id"`
	ContestID           int     `json:"contestId"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	Problem             Problem `json:"problem"`
	ProgrammingLanguage string  `json:"programmingLanguage,omitempty"`
	Verdict             string  `json:"verdict,omitempty"`
}

// Accepted reports whether the verdict is OK.
func (s Submission) Accepted() bool {
	return s.Verdict == VerdictOK
}

// UserInfo is one entry of user.info. Unrated users have no rating fields.
type UserInfo struct {
	Handle       string `json:"handle"`
	Rating       *int   `json:"rating,omitempty"`
	MaxRating    *int   `json:"maxRating,omitempty"`
	Rank         string `json:"rank,omitempty"`
	MaxRank      string `json:"maxRank,omitempty"`
	Contribution int    `json:"contribution"`
	Avatar       string `json:"titlePhoto,omitempty"`
}

// RatingOrZero returns the current rating, 0 when unrated.
func (u UserInfo) RatingOrZero() int {
	if u.Rating == nil {
		return 0
	}
	return *u.Rating
}

// MaxRatingOrZero returns the peak rating, 0 when unrated.
func (u UserInfo) MaxRatingOrZero() int {
	if u.MaxRating == nil {
		return 0
	}
	return *u.MaxRating
}

// RatingChange is one contest of user.rating.
type RatingChange struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Handle                  string `json:"handle"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

// Delta is the rating gained (or lost) in the contest.
func (r RatingChange) Delta() int {
	return r.NewRating - r.OldRating
}

// ProblemStatistics is the solved count attached to the problemset.
type ProblemStatistics struct {
	ContestID   int    `json:"contestId"`
	Index       string `json:"index"`
	SolvedCount int    `json:"solvedCount"`
}

// Problemset is the result of problemset.problems.
type Problemset struct {
	Problems   []Problem           `json:"problems"`
	Statistics []ProblemStatistics `json:"problemStatistics,omitempty"`
}

type envelope[T any] struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
	Result  T      `json:"result"`
}
