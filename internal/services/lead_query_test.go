package services

import (
	"math"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListQueryDefaults(t *testing.T) {
	q, err := ParseListQuery(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, 0, q.Offset())
	assert.Equal(t, models.LeadFilter{}, q.Filter)
}

func TestParseListQueryLenientPaging(t *testing.T) {
	cases := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"abc", "xyz", 1, 20},
		{"0", "0", 1, 20},
		{"-3", "-10", 1, 20},
		{"3", "5", 3, 5},
		{"2", "100", 2, 100},
	}
	for _, tc := range cases {
		q, err := ParseListQuery(map[string]string{"page": tc.page, "limit": tc.limit})
		require.NoError(t, err, "page=%s limit=%s", tc.page, tc.limit)
		assert.Equal(t, tc.wantPage, q.Page)
		assert.Equal(t, tc.wantLimit, q.Limit)
	}

	q, err := ParseListQuery(map[string]string{"page": "3", "limit": "5"})
	require.NoError(t, err)
	assert.Equal(t, 10, q.Offset())
}

func TestParseListQueryRejectsLimitOver100(t *testing.T) {
	_, err := ParseListQuery(map[string]string{"limit": "101"})
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestParseListQueryIsQualified(t *testing.T) {
	for raw, want := range map[string]bool{"true": true, "false": false, "": false, "1": false, "TRUE": false} {
		q, err := ParseListQuery(map[string]string{"is_qualified": raw})
		require.NoError(t, err)
		require.NotNil(t, q.Filter.IsQualified, "is_qualified=%q", raw)
		assert.Equal(t, want, *q.Filter.IsQualified, "is_qualified=%q", raw)
	}

	q, err := ParseListQuery(map[string]string{})
	require.NoError(t, err)
	assert.Nil(t, q.Filter.IsQualified)
}

func TestParseListQueryFilters(t *testing.T) {
	q, err := ParseListQuery(map[string]string{
		"email":          "acme",
		"company":        "Corp",
		"city":           "Berlin",
		"status":         "qualified",
		"source":         "not-a-source",
		"score_min":      "50",
		"score_max":      "80",
		"lead_value_min": "10.5",
		"lead_value_max": "1000",
		"created_after":  "2024-01-01",
		"created_before": "2024-06-30T12:00:00Z",
	})
	require.NoError(t, err)

	f := q.Filter
	assert.Equal(t, "acme", f.Email)
	assert.Equal(t, "Corp", f.Company)
	assert.Equal(t, "Berlin", f.City)
	assert.Equal(t, "qualified", f.Status)
	assert.Equal(t, "not-a-source", f.Source)
	require.NotNil(t, f.ScoreMin)
	require.NotNil(t, f.ScoreMax)
	assert.Equal(t, 50, *f.ScoreMin)
	assert.Equal(t, 80, *f.ScoreMax)
	require.NotNil(t, f.LeadValueMin)
	require.NotNil(t, f.LeadValueMax)
	assert.Equal(t, 10.5, *f.LeadValueMin)
	assert.Equal(t, 1000.0, *f.LeadValueMax)
	require.NotNil(t, f.CreatedAfter)
	require.NotNil(t, f.CreatedBefore)
	assert.True(t, f.CreatedAfter.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, f.CreatedBefore.Equal(time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)))
}

func TestParseListQueryEmptyValuesAddNoPredicate(t *testing.T) {
	q, err := ParseListQuery(map[string]string{"email": "", "status": "", "score_min": ""})
	require.NoError(t, err)
	assert.Equal(t, models.LeadFilter{}, q.Filter)
}

func TestParseListQueryReportsEveryBadParameter(t *testing.T) {
	_, err := ParseListQuery(map[string]string{
		"score_min":      "high",
		"lead_value_max": "lots",
		"created_after":  "yesterday",
	})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, []string{
		"score_min must be an integer",
		"lead_value_max must be a number",
		"created_after must be an ISO 8601 date or timestamp",
	}, verr.Errors)
}

func TestParseListQueryHugePageDoesNotWrapOffset(t *testing.T) {
	q, err := ParseListQuery(map[string]string{"page": "9223372036854775807", "limit": "20"})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, q.Page)
	assert.Equal(t, math.MaxInt, q.Offset())

	q = ListQuery{Page: math.MaxInt/20 + 1, Limit: 20}
	assert.Equal(t, math.MaxInt/20*20, q.Offset())
	q.Page++
	assert.Equal(t, math.MaxInt, q.Offset())
}

func TestParseListQueryTimestampLayouts(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2024-05-01T10:00:00Z",
		"2024-05-01T12:00:00+02:00",
		"2024-05-01T10:00:00",
		"2024-05-01 10:00:00",
	} {
		q, err := ParseListQuery(map[string]string{"created_after": raw})
		require.NoError(t, err, raw)
		require.NotNil(t, q.Filter.CreatedAfter, raw)
		assert.True(t, q.Filter.CreatedAfter.Equal(want), raw)
	}

	q, err := ParseListQuery(map[string]string{"created_before": "2024-05-01"})
	require.NoError(t, err)
	assert.True(t, q.Filter.CreatedBefore.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))

	_, err = ParseListQuery(map[string]string{"created_before": "05/01/2024"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(1, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 5, TotalPages(23, 5))
}
