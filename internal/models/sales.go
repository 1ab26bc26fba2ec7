package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord is one normalized transaction line. TotalAmount is read from
// the source as given and is never recomputed from Quantity and UnitPrice.
type SalesRecord struct {
	Date        time.Time       `json:"date"`
	Day         time.Time       `json:"day"`
	Category    string          `json:"category"`
	Product     string          `json:"product"`
	City        string          `json:"city"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// DayOf projects a timestamp to its calendar day at midnight UTC. Range
// comparisons in the filter engine always use this projection, never the
// underlying timestamp.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FilterCriteria scopes a record set. Date bounds are inclusive and compared
// against the day projection. Category and region membership is a disjunction
// within each set; an empty set selects nothing. Search, when non-empty, is a
// case-insensitive substring match against the product name.
//
// An inverted range (Start after End) yields an empty view, not an error.
type FilterCriteria struct {
	Start      time.Time
	End        time.Time
	Categories []string
	Regions    []string
	Search     string
}

type Summary struct {
	TotalSales   decimal.Decimal `json:"total_sales"`
	OrderCount   int             `json:"order_count"`
	ProductCount int             `json:"product_count"`
}

type DailyPoint struct {
	Day   time.Time       `json:"day"`
	Sales decimal.Decimal `json:"sales"`
}

type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
)

// TrendMetric compares the last seven days of a daily series against the
// seven days preceding them. Percent is always non-negative; the sign lives
// in Direction.
type TrendMetric struct {
	Direction TrendDirection  `json:"direction"`
	Percent   decimal.Decimal `json:"percent"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Sales    decimal.Decimal `json:"sales"`
}

type CitySales struct {
	City  string          `json:"city"`
	Sales decimal.Decimal `json:"sales"`
	Lat   float64         `json:"lat"`
	Lon   float64         `json:"lon"`
}
