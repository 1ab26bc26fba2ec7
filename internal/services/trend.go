package services

import (
	"github.com/shopspring/decimal"

	"supermart-dashboard/internal/models"
)

const trendWindow = 7

var hundred = decimal.NewFromInt(100)

// ComputeTrend compares the mean of the last seven days of the series
// against the mean of the days immediately preceding them (clipped to the
// available history when fewer than fourteen days exist).
//
// A series of seven days or fewer has no prior window and reports flat:
// direction up, zero percent. A zero previous average likewise reports zero
// percent, since there is no baseline to express a change against. Ties
// resolve to up.
func ComputeTrend(daily []models.DailyPoint) models.TrendMetric {
	n := len(daily)
	if n <= trendWindow {
		return models.TrendMetric{Direction: models.TrendUp, Percent: decimal.Zero}
	}

	recent := daily[n-trendWindow:]
	lo := n - 2*trendWindow
	if lo < 0 {
		lo = 0
	}
	previous := daily[lo : n-trendWindow]

	recentAvg := meanSales(recent)
	previousAvg := meanSales(previous)

	direction := models.TrendUp
	if recentAvg.LessThan(previousAvg) {
		direction = models.TrendDown
	}

	if previousAvg.IsZero() {
		return models.TrendMetric{Direction: direction, Percent: decimal.Zero}
	}

	percent := recentAvg.Sub(previousAvg).Div(previousAvg).Mul(hundred).Abs()
	return models.TrendMetric{Direction: direction, Percent: percent}
}

func meanSales(points []models.DailyPoint) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range points {
		sum = sum.Add(p.Sales)
	}
	return sum.Div(decimal.NewFromInt(int64(len(points))))
}
