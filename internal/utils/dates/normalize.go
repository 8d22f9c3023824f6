// Package dates normalizes the human date formats found on bank statements
// to ISO calendar dates.
package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dayFirstLayouts are tried before the generic parser because European
// statements write 05/01/2025 for the 5th of January.
var dayFirstLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"2.1.2006",
	"02-01-2006",
	"02/01/06",
	"02.01.06",
	"2006/01/02",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"02 January 2006",
}

// Normalize parses raw into a UTC midnight date.
func Normalize(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncate(t), nil
		}
	}
	t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable date %q: %w", raw, err)
	}
	return truncate(t), nil
}

// Format renders a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format("2006-01-02")
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
