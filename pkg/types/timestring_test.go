package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ts, err := NewTimeStringFromString("10:30")
		require.NoError(t, err)
		assert.Equal(t, "10:30", ts.String())
	})

	t.Run("invalid", func(t *testing.T) {
		for _, input := range []string{"25:00", "10:65", "1030", "10:30:00", "abc", ""} {
			_, err := NewTimeStringFromString(input)
			assert.ErrorIs(t, err, ErrInvalidTimeString, "input %q", input)
		}
	})
}

func TestAddMinutes(t *testing.T) {
	t.Run("within the day", func(t *testing.T) {
		result, err := TimeString("10:30").AddMinutes(45)
		require.NoError(t, err)
		assert.Equal(t, TimeString("11:15"), result)
	})

	t.Run("up to midnight boundary", func(t *testing.T) {
		result, err := TimeString("23:00").AddMinutes(59)
		require.NoError(t, err)
		assert.Equal(t, TimeString("23:59"), result)
	})

	t.Run("crossing midnight is rejected", func(t *testing.T) {
		_, err := TimeString("23:30").AddMinutes(60)
		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})
}

func TestComparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("11:00").IsAfter("10:00"))
	assert.False(t, TimeString("10:00").IsAfter("10:00"))
}

func TestOnDate(t *testing.T) {
	msk, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	result, err := TimeString("10:30").OnDate(date, msk)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 14, 10, 30, 0, 0, msk), result)
}

func TestScan(t *testing.T) {
	t.Run("string with seconds from postgres", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan("10:00:00"))
		assert.Equal(t, TimeString("10:00"), ts)
	})

	t.Run("bytes", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan([]byte("15:45")))
		assert.Equal(t, TimeString("15:45"), ts)
	})

	t.Run("time value", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan(time.Date(2026, 9, 14, 12, 15, 0, 0, time.UTC)))
		assert.Equal(t, TimeString("12:15"), ts)
	})

	t.Run("nil resets", func(t *testing.T) {
		ts := TimeString("10:00")
		require.NoError(t, ts.Scan(nil))
		assert.True(t, ts.IsZero())
	})
}

func TestValue(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v, err := TimeString("10:00").Value()
		require.NoError(t, err)
		assert.Equal(t, "10:00", v)
	})

	t.Run("zero maps to null", func(t *testing.T) {
		v, err := TimeString("").Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("invalid is rejected", func(t *testing.T) {
		_, err := TimeString("bad").Value()
		assert.ErrorIs(t, err, ErrInvalidTimeString)
	})
}
