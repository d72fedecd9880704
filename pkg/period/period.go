// Package period resolves YYYY-MM period strings into month windows.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var re = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)

// Parse resolves a period like "2025-10" into its [start, end) month window
// in local time. The end bound is the first instant of the following month.
func Parse(s string) (time.Time, time.Time, error) {
	m := re.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period %q: want YYYY-MM", s)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period %q: month out of range", s)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0), nil
}
