package listing

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lysyi3m/folio/app/card"
)

func TestParseTimestamp(t *testing.T) {
	jan := float64(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())

	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{"iso date", "2023-01-01", jan},
		{"rfc3339", "2023-01-01T00:00:00Z", jan},
		{"time value", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), jan},
		{"card date", card.NewDate("2023-01-01"), jan},
		{"epoch millis", jan, jan},
		{"int millis", int64(jan), jan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTimestamp(tt.input); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	inputs := []any{
		nil, "", "   ", "not a date", card.Date{}, time.Time{}, math.NaN(), map[string]any{"year": 2020},
		math.Inf(1), 1e20, -1e20, 8.64e15 + 1, int64(1e18), card.NewDate(1e20),
	}

	for _, input := range inputs {
		if got := ParseTimestamp(input); !math.IsNaN(got) {
			t.Errorf("ParseTimestamp(%#v): expected NaN, got %v", input, got)
		}
	}
}

func TestParseTimestampEpochBounds(t *testing.T) {
	if got := ParseTimestamp(8.64e15); got != 8.64e15 {
		t.Errorf("Expected the largest epoch to parse, got %v", got)
	}
	if got := ParseTimestamp(-8.64e15); got != -8.64e15 {
		t.Errorf("Expected the smallest epoch to parse, got %v", got)
	}
}

func TestOutOfRangeEpochIsUndated(t *testing.T) {
	huge := card.Card{Slug: "huge", Date: card.NewDate(1e20)}

	if got := ComparableTimestamp(huge, PreferEnd); got != 0 {
		t.Errorf("Expected out of range epoch to sort as undated, got %v", got)
	}
	if IsOngoing(huge.Date) {
		t.Error("Expected out of range epoch not to count as ongoing")
	}

	items := []card.Card{huge, {Slug: "dated", Date: card.NewDate("2022-04-01")}}
	if diff := cmp.Diff([]string{"2022"}, ExtractYears(items)); diff != "" {
		t.Errorf("years mismatch (-want +got):\n%s", diff)
	}
}

func TestIsOngoing(t *testing.T) {
	tests := []struct {
		input    any
		expected bool
	}{
		{"9999-12-31", true},
		{"2023-06-01", false},
		{"", false},
		{"Present", false},
		{nil, false},
		{time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{card.NewDate("9999-12-31"), true},
		{card.NewDate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)), false},
	}

	for _, tt := range tests {
		if got := IsOngoing(tt.input); got != tt.expected {
			t.Errorf("IsOngoing(%#v): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestComparableTimestampSentinel(t *testing.T) {
	ongoing := card.Card{Slug: "a", StartDate: card.NewDate("2023-01-01"), EndDate: card.NewDate("9999-12-31")}

	if got := ComparableTimestamp(ongoing, PreferEnd); !math.IsInf(got, 1) {
		t.Errorf("Expected +Inf for ongoing item, got %v", got)
	}

	start := float64(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	if got := ComparableTimestamp(ongoing, PreferStart); got != start {
		t.Errorf("Expected start date under prefer-start, got %v", got)
	}

	dateOnly := card.Card{Slug: "b", Date: card.NewDate("9999-01-01")}
	if got := ComparableTimestamp(dateOnly, PreferEnd); !math.IsInf(got, 1) {
		t.Errorf("Expected generic sentinel date to map to +Inf, got %v", got)
	}
}

func TestComparableTimestampWithoutDates(t *testing.T) {
	items := []card.Card{
		{Slug: "empty"},
		{Slug: "garbage", Date: card.NewDate("soon"), StartDate: card.NewDate("tbd")},
	}

	for _, item := range items {
		for _, mode := range []Mode{PreferEnd, PreferStart} {
			if got := ComparableTimestamp(item, mode); got != 0 {
				t.Errorf("%s/%s: expected 0, got %v", item.Slug, mode, got)
			}
		}
	}
}

func TestComparableTimestampFallbacks(t *testing.T) {
	start := card.NewDate("2020-05-01")
	end := card.NewDate("2021-05-01")

	startOnly := card.Card{StartDate: start}
	if got := ComparableTimestamp(startOnly, PreferEnd); got != ParseTimestamp(start) {
		t.Errorf("Expected prefer-end to fall back to start, got %v", got)
	}

	endOnly := card.Card{EndDate: end}
	if got := ComparableTimestamp(endOnly, PreferStart); got != ParseTimestamp(end) {
		t.Errorf("Expected prefer-start to fall back to end, got %v", got)
	}

	both := card.Card{StartDate: start, EndDate: card.NewDate("garbage"), Date: end}
	if got := ComparableTimestamp(both, PreferEnd); got != ParseTimestamp(start) {
		t.Errorf("Expected unparseable end to fall back to start, got %v", got)
	}
}

func TestCompareByDateOrdersOngoingFirst(t *testing.T) {
	ongoing := card.Card{Slug: "a", EndDate: card.NewDate("9999-12-31")}
	past := card.Card{Slug: "b", EndDate: card.NewDate("2022-06-01")}

	if got := CompareByDate(ongoing, past, Desc, PreferEnd); got >= 0 {
		t.Errorf("Expected ongoing before past in desc, got %d", got)
	}
	if got := CompareByDate(ongoing, past, Asc, PreferEnd); got <= 0 {
		t.Errorf("Expected ongoing after past in asc, got %d", got)
	}
	if got := CompareByDate(past, past, Desc, PreferEnd); got != 0 {
		t.Errorf("Expected equal dates to compare 0, got %d", got)
	}
}
