package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/money-tracker/internal/errs"
)

func TestParseMonthBounds(t *testing.T) {
	m, err := ParseMonth("2024-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", m.String())
	assert.Equal(t, "2024-01-01", m.Start())
	assert.Equal(t, "2024-02-01", m.End())
}

func TestDecemberRollsIntoNextYear(t *testing.T) {
	m, err := ParseMonth("2024-12")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", m.End())
	assert.Equal(t, "2024-11", m.Prev().String())

	jan, err := ParseMonth("2025-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-12", jan.Prev().String())
}

// inMonth is the range test both stores run: start <= date < end.
func inMonth(m Month, date string) bool {
	return date >= m.Start() && date < m.End()
}

func TestMonthBucketingIsHalfOpen(t *testing.T) {
	jan, _ := ParseMonth("2024-01")
	feb, _ := ParseMonth("2024-02")

	assert.True(t, inMonth(jan, "2024-01-31"))
	assert.False(t, inMonth(feb, "2024-01-31"))

	assert.True(t, inMonth(feb, "2024-02-01"))
	assert.False(t, inMonth(jan, "2024-02-01"))

	assert.True(t, inMonth(jan, "2024-01-01"))
	assert.True(t, inMonth(feb, "2024-02-29"))
}

func TestParseMonthRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "2024", "2024-13", "2024-1", "Jan 2024"} {
		_, err := ParseMonth(in)
		require.Error(t, err, in)
		var vErr *errs.ValidationError
		assert.ErrorAs(t, err, &vErr)
	}
}

func TestMonthOfAndToday(t *testing.T) {
	now := time.Date(2024, time.March, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03", MonthOf(now).String())
	assert.Equal(t, "2024-03-09", Today(now))
	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("2023-02-29"))
}
