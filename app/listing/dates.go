package listing

import (
	"cmp"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/lysyi3m/folio/app/card"
)

// Mode selects which end of a card's date range drives ordering.
type Mode string

const (
	PreferEnd   Mode = "prefer-end"
	PreferStart Mode = "prefer-start"
)

type Direction string

const (
	Desc Direction = "desc"
	Asc  Direction = "asc"
)

// PresentLabel is the year label for ongoing items.
const PresentLabel = "Present"

// Dates whose year is at or past sentinelYear mark an ongoing item.
const sentinelYear = 9999

// Numeric epochs beyond this many milliseconds from 1970 are not dates.
const maxEpochMillis = 8.64e15

var yearDigits = regexp.MustCompile(`\d{4,}`)

// ParseTimestamp converts an authored date to milliseconds since the epoch.
// Anything that does not parse yields NaN.
func ParseTimestamp(v any) float64 {
	t, ok := parseTime(v)
	if !ok {
		return math.NaN()
	}
	return float64(t.UnixMilli())
}

// IsOngoing reports whether v carries the sentinel "present" date.
func IsOngoing(v any) bool {
	switch val := v.(type) {
	case card.Date:
		return IsOngoing(val.Value())
	case *card.Date:
		return val != nil && IsOngoing(val.Value())
	case string:
		if t, ok := parseString(val); ok {
			return t.Year() >= sentinelYear
		}
		// Years past 9999 do not parse; fall back to the first digit run.
		m := yearDigits.FindString(val)
		if m == "" {
			return false
		}
		y, err := strconv.Atoi(m)
		if errors.Is(err, strconv.ErrRange) {
			return true
		}
		return err == nil && y >= sentinelYear
	}

	t, ok := parseTime(v)
	return ok && t.Year() >= sentinelYear
}

// ComparableTimestamp reduces a card to the single number it is sorted by.
// Ongoing items map to +Inf and cards without any usable date to 0.
func ComparableTimestamp(c card.Card, mode Mode) float64 {
	if mode == PreferStart {
		if ts, ok := timestamp(c.StartDate); ok {
			return ts
		}
	}

	end := c.EndDate
	if end.IsZero() {
		end = c.Date
	}
	if IsOngoing(end) {
		return math.Inf(1)
	}
	if ts, ok := timestamp(end); ok {
		return ts
	}

	if mode != PreferStart {
		if ts, ok := timestamp(c.StartDate); ok {
			return ts
		}
	}
	return 0
}

// CompareByDate orders two cards by their comparable timestamps.
func CompareByDate(a, b card.Card, dir Direction, mode Mode) int {
	c := cmp.Compare(ComparableTimestamp(a, mode), ComparableTimestamp(b, mode))
	if dir == Desc {
		return -c
	}
	return c
}

func timestamp(d card.Date) (float64, bool) {
	ts := ParseTimestamp(d)
	if math.IsNaN(ts) {
		return 0, false
	}
	return ts, true
}

func parseTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case card.Date:
		return parseTime(val.Value())
	case *card.Date:
		if val == nil {
			return time.Time{}, false
		}
		return parseTime(val.Value())
	case time.Time:
		return val.UTC(), !val.IsZero()
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return val.UTC(), true
	case string:
		return parseString(val)
	case int:
		return parseTime(float64(val))
	case int64:
		return parseTime(float64(val))
	case float64:
		if math.IsNaN(val) || math.Abs(val) > maxEpochMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(val)).UTC(), true
	}
	return time.Time{}, false
}

func parseString(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// dateparse can panic on some truncated inputs.
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()

	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}
