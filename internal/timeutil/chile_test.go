package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInChile(t *testing.T) {
	parsed, err := ParseInChile(DateLayout, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, time.September, parsed.Month())
	assert.Equal(t, 1, parsed.Day())
	assert.Equal(t, Chile.String(), parsed.Location().String())
}

func TestStartAndEndOfDay(t *testing.T) {
	// 01:30 UTC falls on the previous local day in Chile
	utc := time.Date(2026, 9, 1, 1, 30, 0, 0, time.UTC)
	local := ToChile(utc)

	start := StartOfDay(utc)
	end := EndOfDay(utc)

	assert.Equal(t, local.Day(), start.Day())
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, end.After(start))
}
