package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var vintagePattern = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})$`)

// ValidateVintage accepts exactly strings matching [0-9]{4}-[0-9]{2} with
// year in [1900,2100] and month in [01,12], returning the first day of
// that month as valid_from.
func ValidateVintage(s string) (time.Time, error) {
	m := vintagePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid vintage %q: expected YYYY-MM", s)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if year < 1900 || year > 2100 {
		return time.Time{}, fmt.Errorf("invalid vintage %q: year %d out of range [1900,2100]", s, year)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid vintage %q: month %02d out of range [01,12]", s, month)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}
