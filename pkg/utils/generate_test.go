package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := ParseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, time.March, 10, 4, 30, 0, 0, time.UTC)

	got, err := ParseTimestamp("2025-03-10T10:00:00+05:30")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
	assert.Equal(t, time.UTC, got.Location())

	got, err = ParseTimestamp("2025-03-10T04:30")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = ParseTimestamp("10/03/2025")
	assert.Error(t, err)
}

func TestFormatMinorUnits(t *testing.T) {
	assert.Equal(t, "20.50", FormatMinorUnits(2050))
	assert.Equal(t, "0.05", FormatMinorUnits(5))
	assert.Equal(t, "2000.00", FormatMinorUnits(200000))
	assert.Equal(t, "-1.10", FormatMinorUnits(-110))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 3, ParseInt("3", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 10, ParseInt("zero", 10))
	assert.Equal(t, 10, ParseInt("-2", 10))
}
