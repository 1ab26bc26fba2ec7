package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supermart-dashboard/internal/models"
)

// series builds a daily series from consecutive days starting Jan 1 2024,
// one value per day.
func series(values ...string) []models.DailyPoint {
	points := make([]models.DailyPoint, len(values))
	for i, v := range values {
		points[i] = models.DailyPoint{
			Day:   time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Sales: decimal.RequireFromString(v),
		}
	}
	return points
}

func TestComputeTrend_ShortSeriesIsFlat(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		values := make([]string, n)
		for i := range values {
			values[i] = "100"
		}

		trend := ComputeTrend(series(values...))

		assert.Equal(t, models.TrendUp, trend.Direction, "length %d", n)
		assert.True(t, trend.Percent.IsZero(), "length %d", n)
	}
}

func TestComputeTrend_Up(t *testing.T) {
	// Previous window averages 100, recent window averages 150.
	trend := ComputeTrend(series(
		"100", "100", "100", "100", "100", "100", "100",
		"150", "150", "150", "150", "150", "150", "150",
	))

	assert.Equal(t, models.TrendUp, trend.Direction)
	assert.True(t, trend.Percent.Equal(decimal.NewFromInt(50)), "got %s", trend.Percent)
}

func TestComputeTrend_Down(t *testing.T) {
	trend := ComputeTrend(series(
		"200", "200", "200", "200", "200", "200", "200",
		"100", "100", "100", "100", "100", "100", "100",
	))

	assert.Equal(t, models.TrendDown, trend.Direction)
	assert.True(t, trend.Percent.Equal(decimal.NewFromInt(50)), "got %s", trend.Percent)
}

func TestComputeTrend_ClipsShortPreviousWindow(t *testing.T) {
	// Nine days: the previous window is only the first two entries.
	trend := ComputeTrend(series(
		"100", "100",
		"150", "150", "150", "150", "150", "150", "150",
	))

	assert.Equal(t, models.TrendUp, trend.Direction)
	assert.True(t, trend.Percent.Equal(decimal.NewFromInt(50)), "got %s", trend.Percent)
}

func TestComputeTrend_ZeroBaseline(t *testing.T) {
	// Previous window sums to zero: no reportable percentage change.
	trend := ComputeTrend(series(
		"0", "0", "0", "0", "0", "0", "0",
		"150", "150", "150", "150", "150", "150", "150",
	))

	assert.Equal(t, models.TrendUp, trend.Direction)
	assert.True(t, trend.Percent.IsZero())
}

func TestComputeTrend_TieIsFlatUp(t *testing.T) {
	trend := ComputeTrend(series(
		"120", "120", "120", "120", "120", "120", "120",
		"120", "120", "120", "120", "120", "120", "120",
	))

	assert.Equal(t, models.TrendUp, trend.Direction)
	assert.True(t, trend.Percent.IsZero())
}

func TestComputeTrend_PercentPrecision(t *testing.T) {
	// previous avg 3, recent avg 4: exactly one third up.
	trend := ComputeTrend(series(
		"3", "3", "3", "3", "3", "3", "3",
		"4", "4", "4", "4", "4", "4", "4",
	))

	require.Equal(t, models.TrendUp, trend.Direction)
	expected := decimal.NewFromInt(1).Div(decimal.NewFromInt(3)).Mul(decimal.NewFromInt(100))
	assert.True(t, trend.Percent.Equal(expected), "got %s", trend.Percent)
}
