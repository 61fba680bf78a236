package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/gradr/internal/api"
)

func tx(amount float64, year int, month time.Month, day int) api.Transaction {
	return api.Transaction{
		Type:      "xp",
		Amount:    amount,
		CreatedAt: time.Date(year, month, day, 12, 0, 0, 0, time.UTC),
	}
}

func TestMonthlyXPFillsGaps(t *testing.T) {
	now := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)
	txs := []api.Transaction{
		tx(100, 2024, time.March, 3),
		tx(250, 2024, time.June, 20),
	}

	series := MonthlyXP(txs, now)
	require.Len(t, series, 6)

	labels := make([]string, 0, len(series))
	for _, p := range series {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"Mar '24", "Apr '24", "May '24", "Jun '24", "Jul '24", "Aug '24"}, labels)

	assert.Equal(t, 100.0, series[0].Amount)
	assert.Equal(t, 0.0, series[1].Amount)
	assert.Equal(t, 0.0, series[2].Amount)
	assert.Equal(t, 250.0, series[3].Amount)
	assert.Equal(t, 0.0, series[4].Amount)
	assert.Equal(t, 0.0, series[5].Amount)
}

func TestMonthlyXPContiguous(t *testing.T) {
	now := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	txs := []api.Transaction{
		// deliberately unordered, with duplicate months
		tx(50, 2024, time.November, 28),
		tx(10, 2023, time.July, 1),
		tx(40, 2024, time.November, 2),
		tx(5, 2024, time.January, 15),
	}

	series := MonthlyXP(txs, now)
	require.NotEmpty(t, series)

	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1].Month, series[i].Month
		assert.Equal(t, prev.AddDate(0, 1, 0), cur, "months must differ by exactly one")
	}
	assert.Equal(t, time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), series[0].Month)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), series[len(series)-1].Month)
}

func TestMonthlyXPExtendsToCurrentMonth(t *testing.T) {
	now := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	txs := []api.Transaction{tx(100, 2024, time.September, 1)}

	series := MonthlyXP(txs, now)
	require.Len(t, series, 4) // Sep..Dec
	assert.False(t, series[len(series)-1].Month.Before(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonthlyXPPreservesTotal(t *testing.T) {
	now := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	txs := []api.Transaction{
		tx(17, 2024, time.January, 1),
		tx(25, 2024, time.January, 30),
		tx(8, 2024, time.April, 2),
		tx(100, 2023, time.December, 25),
	}

	series := MonthlyXP(txs, now)

	var inSum, outSum float64
	for _, transaction := range txs {
		inSum += transaction.Amount
	}
	for _, p := range series {
		outSum += p.Amount
	}
	assert.InDelta(t, inSum, outSum, 1e-9)
}

func TestMonthlyXPYearRollover(t *testing.T) {
	now := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	txs := []api.Transaction{
		tx(10, 2023, time.November, 15),
		tx(20, 2024, time.January, 2),
	}

	series := MonthlyXP(txs, now)
	require.Len(t, series, 3)
	assert.Equal(t, "Nov '23", series[0].Label)
	assert.Equal(t, "Dec '23", series[1].Label)
	assert.Equal(t, "Jan '24", series[2].Label)
}

func TestMonthlyXPEmptyInput(t *testing.T) {
	now := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)

	series := MonthlyXP(nil, now)
	require.Len(t, series, 1)
	assert.Equal(t, "Aug '24", series[0].Label)
	assert.Equal(t, 0.0, series[0].Amount)
}
