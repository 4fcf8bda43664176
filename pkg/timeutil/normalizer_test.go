package timeutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

func TestNormalizer_ParseDay(t *testing.T) {
	n := NewNormalizer(kolkata(t), nil)

	day, err := n.ParseDay("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2024, day.Year())
	assert.Equal(t, time.March, day.Month())
	assert.Equal(t, 15, day.Day())
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, n.Location(), day.Location())
}

func TestNormalizer_ParseDay_Invalid(t *testing.T) {
	n := NewNormalizer(kolkata(t), nil)

	for _, s := range []string{"", "2024-3-15", "15-03-2024", "2024-13-01", "2024-02-30", "2024-03-15T10:00:00Z", "abc"} {
		_, err := n.ParseDay(s)
		assert.Truef(t, errors.Is(err, ErrInvalidDateFormat), "%q 应返回 ErrInvalidDateFormat，实际 %v", s, err)
	}
}

func TestNormalizer_NormalizeDayIsIdempotent(t *testing.T) {
	n := NewNormalizer(kolkata(t), nil)

	inputs := []time.Time{
		time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC), // 印度时间已是 16 日
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 18, 30, 0, 0, time.UTC),
	}
	for _, in := range inputs {
		once := n.NormalizeDay(in)
		twice := n.NormalizeDay(once)
		assert.True(t, once.Equal(twice), "NormalizeDay 应幂等: %v vs %v", once, twice)
	}

	assert.Equal(t, "2024-03-16", n.DayKey(inputs[0]))
	assert.Equal(t, "2025-01-01", n.DayKey(inputs[2]))
}

func TestNormalizer_SameDayDifferentRepresentations(t *testing.T) {
	n := NewNormalizer(kolkata(t), nil)

	parsed, err := n.ParseDay("2024-03-15")
	require.NoError(t, err)
	// 同一自然日的另一种表示：UTC 时间 2024-03-15 04:00 = IST 09:30
	other := time.Date(2024, 3, 15, 4, 0, 0, 0, time.UTC)

	assert.True(t, parsed.Equal(n.NormalizeDay(other)))

	key, err := n.CanonicalDay("2024-03-15")
	require.NoError(t, err)
	again, err := n.CanonicalDay(key)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestNormalizer_MonthBucket(t *testing.T) {
	n := NewNormalizer(kolkata(t), nil)

	bucket, err := n.MonthBucketOfDay("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "03-2024", bucket)

	// UTC 2024-02-29 20:00 在印度时区已是 3 月 1 日
	assert.Equal(t, "03-2024", n.MonthBucket(time.Date(2024, 2, 29, 20, 0, 0, 0, time.UTC)))
}

func TestNormalizer_ParseMonth(t *testing.T) {
	n := NewNormalizer(kolkata(t), nil)

	m, err := n.ParseMonth("02-2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", m.FirstDayKey())
	assert.Equal(t, "2024-02-29", m.LastDayKey())

	for _, s := range []string{"2-2024", "13-2024", "00-2024", "2024-02", "02/2024"} {
		_, err := n.ParseMonth(s)
		assert.Truef(t, errors.Is(err, ErrInvalidMonthFormat), "%q 应返回 ErrInvalidMonthFormat", s)
	}
}

func TestNormalizer_InjectedClock(t *testing.T) {
	loc := kolkata(t)
	fixed := time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC) // IST 4 月 1 日 01:30
	n := NewNormalizer(loc, func() time.Time { return fixed })

	assert.Equal(t, "04-2024", n.CurrentMonth())
	assert.Equal(t, "2024-04-01", n.Today().Format(DayLayout))
}

func TestLoadNormalizer_UnknownZone(t *testing.T) {
	_, err := LoadNormalizer("Mars/Olympus")
	assert.Error(t, err)
}
