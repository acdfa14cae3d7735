package services

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrLimitExceeded = errors.New("limit cannot exceed 100")

// ListQuery is a parsed list request: the page window plus optional predicates.
type ListQuery struct {
	Page   int
	Limit  int
	Filter models.LeadFilter
}

// Offset is the number of matching leads skipped before the page starts. A page
// too far out for the offset to fit in an int saturates at math.MaxInt, which
// lies past the last lead.
func (q ListQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// ParseListQuery reads page, limit and filter parameters from raw query-string
// values. page and limit fall back to their defaults when missing, non-numeric
// or non-positive. A limit above MaxLimit is rejected.
func ParseListQuery(values map[string]string) (ListQuery, error) {
	q := ListQuery{
		Page:  positiveOr(values["page"], DefaultPage),
		Limit: positiveOr(values["limit"], DefaultLimit),
	}
	if q.Limit > MaxLimit {
		return ListQuery{}, ErrLimitExceeded
	}

	f := &q.Filter
	f.Email = values["email"]
	f.Company = values["company"]
	f.City = values["city"]
	f.Status = values["status"]
	f.Source = values["source"]

	if v, ok := values["is_qualified"]; ok {
		qualified := v == "true"
		f.IsQualified = &qualified
	}

	var bad []string
	parseInt := func(key string) *int {
		v, ok := values[key]
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			bad = append(bad, key+" must be an integer")
			return nil
		}
		return &n
	}
	parseFloat := func(key string) *float64 {
		v, ok := values[key]
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			bad = append(bad, key+" must be a number")
			return nil
		}
		return &n
	}
	parseTime := func(key string) *time.Time {
		v, ok := values[key]
		if !ok || v == "" {
			return nil
		}
		t, err := parseTimestamp(v)
		if err != nil {
			bad = append(bad, key+" must be an ISO 8601 date or timestamp")
			return nil
		}
		return &t
	}

	f.ScoreMin = parseInt("score_min")
	f.ScoreMax = parseInt("score_max")
	f.LeadValueMin = parseFloat("lead_value_min")
	f.LeadValueMax = parseFloat("lead_value_max")
	f.CreatedAfter = parseTime("created_after")
	f.CreatedBefore = parseTime("created_before")

	if len(bad) > 0 {
		return ListQuery{}, &models.ValidationError{Errors: bad}
	}
	return q, nil
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// timestampLayouts are tried in order. Layouts without a zone parse as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

func parseTimestamp(v string) (t time.Time, err error) {
	for _, layout := range timestampLayouts {
		if t, err = time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return t, err
}

// TotalPages is ceil(total/limit), zero when nothing matched.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return int((total + l - 1) / l)
}
