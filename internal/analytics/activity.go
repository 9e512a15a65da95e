package analytics

import (
	"time"

	"cfanalyzer/internal/codeforces"
)

const (
	// WindowDays is how far back the activity window reaches.
	WindowDays = 180

	dateLayout = "2006-01-02"
)

// Day is one UTC calendar date of the activity window.
type Day struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Activity is the submission heatmap over the trailing window.
type Activity struct {
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Days      []Day    `json:"days"`
	Weeks     [][]*Day `json:"weeks"` // Sunday-first columns, nil cells pad the edges
	Total     int      `json:"total"`
	MaxStreak int      `json:"maxStreak"`
	Visible   bool     `json:"visible"`
}

// Level buckets a day count into heatmap intensity 0-4.
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	case count <= 10:
		return 3
	default:
		return 4
	}
}

// DayHistogram counts submissions per UTC date from date(now-180d) through
// date(now). Every date of the window is present; submissions outside it are
// dropped. The window is whole dates, so a submission on the first date is
// counted even when it is earlier in the day than the instant now-180d.
func DayHistogram(subs []codeforces.Submission, now time.Time) []Day {
	end := truncateDay(now.UTC())
	start := truncateDay(now.UTC().Add(-WindowDays * 24 * time.Hour))

	counts := make(map[string]int)
	for _, sub := range subs {
		t := time.Unix(sub.CreationTimeSeconds, 0).UTC()
		if t.Before(start) || !t.Before(end.AddDate(0, 0, 1)) {
			continue
		}
		counts[t.Format(dateLayout)]++
	}

	days := make([]Day, 0, WindowDays+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		days = append(days, Day{Date: key, Count: counts[key], Level: Level(counts[key])})
	}
	return days
}

// MaxStreak is the longest run of consecutive days with at least one submission.
func MaxStreak(days []Day) int {
	best, run := 0, 0
	for _, d := range days {
		if d.Count > 0 {
			run++
			if run > best {
				best = run
			}
			continue
		}
		run = 0
	}
	return best
}

// BuildActivity assembles the heatmap. It is visible whenever the user has any
// submission at all, even if none fall inside the window.
func BuildActivity(subs []codeforces.Submission, now time.Time) Activity {
	days := DayHistogram(subs, now)
	a := Activity{
		Days:      days,
		Weeks:     weekGrid(days),
		MaxStreak: MaxStreak(days),
		Visible:   len(subs) > 0,
	}
	for _, d := range days {
		a.Total += d.Count
	}
	if len(days) > 0 {
		a.Start = days[0].Date
		a.End = days[len(days)-1].Date
	}
	return a
}

func weekGrid(days []Day) [][]*Day {
	if len(days) == 0 {
		return nil
	}
	first, err := time.Parse(dateLayout, days[0].Date)
	if err != nil {
		return nil
	}

	var weeks [][]*Day
	week := make([]*Day, int(first.Weekday()), 7)
	for i := range days {
		week = append(week, &days[i])
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]*Day, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		weeks = append(weeks, week)
	}
	return weeks
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
