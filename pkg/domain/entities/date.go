package entities

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO date layout used for every ledger date. Dates in this
// layout sort lexicographically in chronological order.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order. Short forms without a leading year are
// read month first, as Excel displays them in the US locale: "03/04/24" is
// March 4th. Day-first sheets parse to the wrong date without an error, so
// such sources should be exported with a four-digit leading year.
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006.01.02",
	"2006-1-2",
	"2006/1/2",
	"2006年1月2日",
	"01-02-06",
	"1/2/06",
	"1/2/06 15:04",
	"1/2/2006",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses a date written in one of the common spreadsheet layouts
// and returns it in ISO form
func ParseDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("date cannot be empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("invalid date: %s", s)
}
