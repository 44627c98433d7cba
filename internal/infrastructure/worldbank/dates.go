package worldbank

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseObservationDate turns an API reporting-period string into the UTC
// timestamp at the period start. Annual ("2019"), quarterly ("2019Q3") and
// monthly ("2019M07") frequencies occur in the wild.
func parseObservationDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)

	switch {
	case strings.Contains(s, "Q"):
		parts := strings.SplitN(s, "Q", 2)
		year, errY := strconv.Atoi(parts[0])
		quarter, errQ := strconv.Atoi(parts[1])
		if errY != nil || errQ != nil || quarter < 1 || quarter > 4 {
			return time.Time{}, fmt.Errorf("unparseable quarterly date %q", raw)
		}
		month := time.Month((quarter-1)*3 + 1)
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), nil

	case strings.Contains(s, "M"):
		parts := strings.SplitN(s, "M", 2)
		year, errY := strconv.Atoi(parts[0])
		month, errM := strconv.Atoi(parts[1])
		if errY != nil || errM != nil || month < 1 || month > 12 {
			return time.Time{}, fmt.Errorf("unparseable monthly date %q", raw)
		}
		return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil

	default:
		year, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("unparseable date %q", raw)
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
}
