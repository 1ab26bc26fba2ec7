// Package dataset loads the raw sales source and normalizes it into a typed
// record set: column labels are cleaned, the region column is repaired when
// it is unambiguously mislabeled, and the date column is coerced to real
// timestamps. Normalization failures are fatal for the whole load; the
// package never produces a partially typed record set.
package dataset

import (
	"fmt"
	"strings"
	"time"

	"supermart-dashboard/internal/errors"
)

// Canonical column labels of the sales source. These are data, not logic:
// the source is published with this fixed locale.
const (
	ColDate        = "日期"
	ColCategory    = "产品类别"
	ColProduct     = "商品名称"
	ColRegion      = "销售地区"
	ColQuantity    = "销售数量"
	ColUnitPrice   = "单价"
	ColTotalAmount = "总金额"
)

// regionMarker identifies candidate region columns when the canonical label
// is absent.
const regionMarker = "地区"

var labelCleaner = strings.NewReplacer(`"`, "", `'`, "")

// CleanLabel strips single and double quote characters anywhere in the label
// and trims surrounding whitespace.
func CleanLabel(label string) string {
	return strings.TrimSpace(labelCleaner.Replace(label))
}

// NormalizeHeader cleans every column label and then applies the region
// repair rule: if the canonical region label is absent and exactly one
// cleaned label contains the region marker, that label is renamed to the
// canonical one. Zero or multiple candidates leave the header unchanged, so
// that column resolution fails loudly instead of guessing.
//
// Normalizing an already-normalized header is a no-op.
func NormalizeHeader(labels []string) []string {
	cleaned := make([]string, len(labels))
	hasRegion := false
	for i, label := range labels {
		cleaned[i] = CleanLabel(label)
		if cleaned[i] == ColRegion {
			hasRegion = true
		}
	}

	if !hasRegion {
		candidate := -1
		for i, label := range cleaned {
			if strings.Contains(label, regionMarker) {
				if candidate >= 0 {
					return cleaned // ambiguous, leave as-is
				}
				candidate = i
			}
		}
		if candidate >= 0 {
			cleaned[candidate] = ColRegion
		}
	}

	return cleaned
}

// columns maps canonical labels to their position in the normalized header.
type columns struct {
	date        int
	category    int
	product     int
	region      int
	quantity    int
	unitPrice   int
	totalAmount int
}

func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, label := range header {
		index[label] = i
	}

	cols := columns{}
	for _, want := range []struct {
		label string
		dst   *int
	}{
		{ColDate, &cols.date},
		{ColCategory, &cols.category},
		{ColProduct, &cols.product},
		{ColRegion, &cols.region},
		{ColQuantity, &cols.quantity},
		{ColUnitPrice, &cols.unitPrice},
		{ColTotalAmount, &cols.totalAmount},
	} {
		i, ok := index[want.label]
		if !ok {
			return columns{}, errors.Schema(fmt.Sprintf("required column %q not found in source header", want.label))
		}
		*want.dst = i
	}

	return cols, nil
}

// dateLayouts are tried in order when coercing the date column. The source
// usually carries plain dates, but exported spreadsheets sometimes keep a
// time component.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006-1-2",
	time.RFC3339,
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}
