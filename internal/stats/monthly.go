// Package stats holds the pure data-shaping routines behind the dashboard
// charts: the monthly XP aggregation and the donut segment layout. Nothing
// here touches the network or the terminal.
package stats

import (
	"time"

	"github.com/sadopc/gradr/internal/api"
)

// MonthPoint is one entry of the dense monthly series.
type MonthPoint struct {
	Month  time.Time // first of the month, UTC
	Label  string    // e.g. "Mar '24"
	Amount float64
}

// MonthlyXP turns a sparse list of xp transactions into a dense,
// chronologically contiguous month series. Amounts are summed per calendar
// month; every month between the earliest transaction and
// max(latest transaction, now) gets an entry, zero when silent.
//
// An empty input yields a single zero point anchored on the current month,
// so the chart always has something to draw.
func MonthlyXP(txs []api.Transaction, now time.Time) []MonthPoint {
	sums := make(map[time.Time]float64)
	var first, last time.Time
	for _, tx := range txs {
		m := monthOf(tx.CreatedAt)
		sums[m] += tx.Amount
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}

	current := monthOf(now)
	if first.IsZero() {
		first = current
	}
	if last.Before(current) {
		last = current
	}

	var series []MonthPoint
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		series = append(series, MonthPoint{
			Month:  m,
			Label:  m.Format("Jan '06"),
			Amount: sums[m],
		})
	}
	return series
}

// monthOf normalizes a timestamp to the first instant of its calendar month.
// time.Date handles the year rollover, so no string keys anywhere.
func monthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
