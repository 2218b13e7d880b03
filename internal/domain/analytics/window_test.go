package analytics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow_DateOnlyIsInclusiveDay(t *testing.T) {
	w, err := analytics.ParseWindow("2026-05-01", "2026-05-31", time.UTC)
	require.NoError(t, err)
	require.NotNil(t, w.From)
	require.NotNil(t, w.To)

	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), *w.From)
	assert.True(t, w.Contains(time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC)), "el último día cuenta completo")
	assert.False(t, w.Contains(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseWindow_RFC3339AndOpenBounds(t *testing.T) {
	w, err := analytics.ParseWindow("", "2026-05-10T12:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, w.From)
	require.NotNil(t, w.To)
	assert.True(t, w.Contains(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 5, 10, 12, 0, 1, 0, time.UTC)), "hora exacta se respeta")

	open, err := analytics.ParseWindow("", "", nil)
	require.NoError(t, err)
	assert.Nil(t, open.From)
	assert.Nil(t, open.To)
}

func TestParseWindow_Invalid(t *testing.T) {
	cases := []struct{ start, end, field string }{
		{"01/05/2026", "", "startDate"},
		{"", "mañana", "endDate"},
		{"2026-05-10", "2026-05-01", "endDate"},
	}
	for _, tc := range cases {
		_, err := analytics.ParseWindow(tc.start, tc.end, time.UTC)
		require.Error(t, err)
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, tc.field, verr.Field)
	}
}

func TestTrendWindow_CoversSevenDays(t *testing.T) {
	now := time.Date(2026, 5, 20, 8, 0, 0, 0, time.UTC)
	w := analytics.TrendWindow(now, time.UTC)
	assert.True(t, w.Contains(time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 5, 13, 23, 59, 59, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2026, 5, 20, 23, 59, 59, 0, time.UTC)))
}
