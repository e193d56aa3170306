package analytics

import (
	"fmt"
	"time"
)

type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

// ParseRange maps the query selector onto a Range. Empty defaults to month.
func ParseRange(value string) (Range, error) {
	switch Range(value) {
	case RangeDay, RangeWeek, RangeMonth:
		return Range(value), nil
	case "":
		return RangeMonth, nil
	}
	return "", fmt.Errorf("invalid range %q, expected day, week or month", value)
}

// Bucket is one chart period with absolute bounds, end exclusive.
type Bucket struct {
	Label string
	Start time.Time
	End   time.Time
}

// Window is a resolved range selector: the inclusive lower bound for
// order fetches plus the label sequence for chart axes.
type Window struct {
	Range  Range
	Now    time.Time
	Start  time.Time
	Labels []string
}

func ResolveWindow(rng Range, now time.Time) Window {
	w := Window{Range: rng, Now: now}
	switch rng {
	case RangeDay:
		w.Start = now.AddDate(0, 0, -1)
		w.Labels = []string{now.Format("Mon")}
	case RangeWeek:
		w.Start = now.AddDate(0, 0, -7)
		w.Labels = weekdayLabels(now)
	default:
		w.Range = RangeMonth
		w.Start = now.AddDate(0, 0, -30)
		w.Labels = monthLabels(now)
	}
	return w
}

// Buckets returns one period per label, index aligned with Labels.
func (w Window) Buckets() []Bucket {
	switch w.Range {
	case RangeDay:
		return []Bucket{{Label: w.Labels[0], Start: w.Start, End: w.Now}}
	case RangeWeek:
		buckets := make([]Bucket, 0, 7)
		for i := 6; i >= 0; i-- {
			day := w.Now.AddDate(0, 0, -i)
			start := midnight(day)
			buckets = append(buckets, Bucket{
				Label: day.Format("Mon"),
				Start: start,
				End:   start.AddDate(0, 0, 1),
			})
		}
		return buckets
	default:
		buckets := make([]Bucket, 0, 4)
		first := firstOfMonth(w.Now)
		for i := 3; i >= 0; i-- {
			start := first.AddDate(0, -i, 0)
			buckets = append(buckets, Bucket{
				Label: start.Format("Jan"),
				Start: start,
				End:   start.AddDate(0, 1, 0),
			})
		}
		return buckets
	}
}

// weekdayLabels are the seven weekday abbreviations ending today, oldest first.
func weekdayLabels(now time.Time) []string {
	labels := make([]string, 0, 7)
	for i := 6; i >= 0; i-- {
		labels = append(labels, now.AddDate(0, 0, -i).Format("Mon"))
	}
	return labels
}

// monthLabels are the four most recent month abbreviations ending with the
// current month. Computed from the first of the month so a Jan 31 "now"
// cannot skip short months.
func monthLabels(now time.Time) []string {
	labels := make([]string, 0, 4)
	first := firstOfMonth(now)
	for i := 3; i >= 0; i-- {
		labels = append(labels, first.AddDate(0, -i, 0).Format("Jan"))
	}
	return labels
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// ISO week and calendar month group keys sort chronologically as ints.

func isoWeekKey(t time.Time) int {
	year, week := t.ISOWeek()
	return year*100 + week
}

func isoWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("Week %d, %d", week, year)
}

func monthKey(t time.Time) int {
	return t.Year()*100 + int(t.Month())
}

func monthLabel(t time.Time) string {
	return t.Format("Jan 2006")
}

// growthPercent guards against a missing or zero previous bucket.
func growthPercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
