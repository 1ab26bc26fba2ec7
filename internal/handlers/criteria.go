package handlers

import (
	"net/http"
	"net/url"
	"time"

	"supermart-dashboard/internal/errors"
	"supermart-dashboard/internal/models"
	"supermart-dashboard/internal/services"
)

const dateParamLayout = "2006-01-02"

// buildCriteria assembles a FilterCriteria from query parameters, supplying
// the interactive-layer defaults: absent date bounds clamp to the store's
// min/max day, and absent category/region parameters mean "all options".
// A parameter that is present selects exactly the given values, so an
// explicitly empty selection selects nothing.
func buildCriteria(r *http.Request, analytics *services.Analytics) (models.FilterCriteria, error) {
	meta, err := analytics.Meta(r.Context())
	if err != nil {
		return models.FilterCriteria{}, err
	}
	return criteriaFromQuery(r.URL.Query(), meta)
}

func criteriaFromQuery(q url.Values, meta services.Meta) (models.FilterCriteria, error) {
	c := models.FilterCriteria{
		Start:      meta.MinDate,
		End:        meta.MaxDate,
		Categories: meta.Categories,
		Regions:    meta.Regions,
		Search:     q.Get("q"),
	}

	if v := q.Get("start"); v != "" {
		t, err := time.Parse(dateParamLayout, v)
		if err != nil {
			return models.FilterCriteria{}, errors.BadRequestWrap(err, "invalid start date, want YYYY-MM-DD")
		}
		c.Start = models.DayOf(t)
	}

	if v := q.Get("end"); v != "" {
		t, err := time.Parse(dateParamLayout, v)
		if err != nil {
			return models.FilterCriteria{}, errors.BadRequestWrap(err, "invalid end date, want YYYY-MM-DD")
		}
		c.End = models.DayOf(t)
	}

	if vs, ok := q["category"]; ok {
		c.Categories = vs
	}
	if vs, ok := q["region"]; ok {
		c.Regions = vs
	}

	return c, nil
}
