// Command seed writes a synthetic year of supermarket sales to a CSV file
// for demo and load-testing purposes. It is an external producer of the
// sales source, not part of the analytics pipeline.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"supermart-dashboard/internal/dataset"
)

var catalog = map[string][]string{
	"水果":  {"苹果", "香蕉", "橙子", "葡萄", "西瓜", "草莓"},
	"蔬菜":  {"西红柿", "黄瓜", "土豆", "胡萝卜", "菠菜", "西兰花"},
	"乳制品": {"纯牛奶", "酸奶", "奶酪", "黄油", "炼乳"},
}

var categories = []string{"水果", "蔬菜", "乳制品"}

var cities = []string{
	"北京", "天津", "上海", "广州", "深圳",
	"杭州", "南京", "成都", "重庆", "武汉", "西安",
}

// priceRange returns the plausible unit price interval per category, in CNY.
func priceRange(category string) (lo, hi float64) {
	switch category {
	case "水果":
		return 3, 25
	case "蔬菜":
		return 2, 15
	default: // 乳制品
		return 5, 40
	}
}

func main() {
	out := flag.String("out", "supermarket_sales.csv", "output CSV path")
	year := flag.Int("year", 2024, "calendar year to generate")
	seed := flag.Int64("seed", 2024, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	file, err := os.Create(*out)
	if err != nil {
		slog.Error("create output file", "error", err)
		os.Exit(1)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{
		dataset.ColDate,
		dataset.ColCategory,
		dataset.ColProduct,
		dataset.ColRegion,
		dataset.ColQuantity,
		dataset.ColUnitPrice,
		dataset.ColTotalAmount,
	}
	if err := w.Write(header); err != nil {
		slog.Error("write header", "error", err)
		os.Exit(1)
	}

	start := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(*year, time.December, 31, 0, 0, 0, 0, time.UTC)

	rows := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		// 30 to 80 sales per day.
		n := 30 + rng.Intn(51)
		for i := 0; i < n; i++ {
			category := categories[rng.Intn(len(categories))]
			products := catalog[category]
			product := products[rng.Intn(len(products))]
			city := cities[rng.Intn(len(cities))]
			quantity := 1 + rng.Intn(10)

			lo, hi := priceRange(category)
			unitPrice := decimal.NewFromFloat(lo + rng.Float64()*(hi-lo)).Round(2)
			totalAmount := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

			record := []string{
				day.Format("2006-01-02"),
				category,
				product,
				city,
				strconv.Itoa(quantity),
				unitPrice.String(),
				totalAmount.String(),
			}
			if err := w.Write(record); err != nil {
				slog.Error("write record", "error", err)
				os.Exit(1)
			}
			rows++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		slog.Error("flush output", "error", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d records to %s\n", rows, *out)
}
