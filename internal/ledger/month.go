package ledger

import (
	"fmt"
	"time"

	"github.com/GregMSThompson/money-tracker/internal/errs"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Month is a calendar month token. Its transactions are those dated in the
// half-open range [Start, End).
type Month struct {
	year  int
	month time.Month
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, errs.NewValidationError(fmt.Sprintf("month %q must be YYYY-MM", s))
	}
	return MonthOf(t), nil
}

func MonthOf(t time.Time) Month {
	return Month{year: t.Year(), month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}

func (m Month) first() time.Time {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC)
}

// Start is the first day of the month, inclusive.
func (m Month) Start() string {
	return m.first().Format(DateLayout)
}

// End is the first day of the following month, exclusive. December rolls over
// into January of the next year.
func (m Month) End() string {
	return m.first().AddDate(0, 1, 0).Format(DateLayout)
}

func (m Month) Prev() Month {
	return MonthOf(m.first().AddDate(0, -1, 0))
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func Today(now time.Time) string {
	return now.Format(DateLayout)
}
