package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"supermart-dashboard/internal/errors"
	"supermart-dashboard/internal/models"
)

// Loader reads the sales source from disk and produces a normalized record
// set sorted ascending by date.
type Loader struct {
	path   string
	logger *slog.Logger
}

func NewLoader(path string, logger *slog.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

func (l *Loader) Path() string {
	return l.path
}

// ModToken returns the staleness token for the source: an opaque string that
// changes whenever the file is rewritten. A missing source is reported as
// SOURCE_UNAVAILABLE, never papered over with an empty token.
func (l *Loader) ModToken() (string, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return "", errors.SourceUnavailableWrap(err, fmt.Sprintf("sales source %q is not readable", l.path))
	}
	return strconv.FormatInt(info.ModTime().UnixNano(), 10), nil
}

// Load reads and normalizes the whole source. Any row whose date cannot be
// typed, or whose numeric fields cannot be parsed, fails the entire load:
// a heterogeneously typed column would break every downstream comparison.
func (l *Loader) Load(ctx context.Context) ([]models.SalesRecord, error) {
	start := time.Now()

	file, err := os.Open(l.path)
	if err != nil {
		return nil, errors.SourceUnavailableWrap(err, fmt.Sprintf("sales source %q is not readable", l.path))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rawHeader, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Schema("sales source has no header row")
	}
	if err != nil {
		return nil, errors.SchemaWrap(err, "sales source header is not readable")
	}

	header := NormalizeHeader(rawHeader)
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var records []models.SalesRecord
	line := 1
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.SchemaWrap(err, fmt.Sprintf("sales source row %d is malformed", line))
		}

		record, err := parseRecord(row, cols)
		if err != nil {
			return nil, errors.SchemaWrap(err, fmt.Sprintf("sales source row %d cannot be typed", line))
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	l.logger.Info("sales source loaded",
		"path", l.path,
		"records", len(records),
		"duration", time.Since(start),
	)

	return records, nil
}

func parseRecord(row []string, cols columns) (models.SalesRecord, error) {
	date, err := parseDate(row[cols.date])
	if err != nil {
		return models.SalesRecord{}, err
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(row[cols.quantity]))
	if err != nil {
		return models.SalesRecord{}, fmt.Errorf("quantity: %w", err)
	}

	unitPrice, err := decimalField(row[cols.unitPrice], "unit price")
	if err != nil {
		return models.SalesRecord{}, err
	}

	totalAmount, err := decimalField(row[cols.totalAmount], "total amount")
	if err != nil {
		return models.SalesRecord{}, err
	}

	return models.SalesRecord{
		Date:        date,
		Day:         models.DayOf(date),
		Category:    strings.TrimSpace(row[cols.category]),
		Product:     strings.TrimSpace(row[cols.product]),
		City:        strings.TrimSpace(row[cols.region]),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalAmount: totalAmount,
	}, nil
}

func decimalField(value, name string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}
