// Package formatter normalizes the raw text scraped from listing pages into
// typed values. Every function is pure; callers that need "now" pass it in.
package formatter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseError reports text that could not be normalized into a typed value.
type ParseError struct {
	Field string
	Text  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s from %q", e.Field, e.Text)
}

// Text lower-cases the input and trims whitespace from both ends. An empty
// result is valid and means "no value".
func Text(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// Identifier extracts the numeric ad id from text such as "Ad ID: 1703174".
func Identifier(s string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(Text(s), "ad id: %d", &id); err != nil {
		return 0, &ParseError{Field: "ad id", Text: s}
	}
	return id, nil
}

// Price splits a price block such as "KSh 1,350,000" into a lower-cased
// currency code and a numeric amount. A missing or unparseable amount comes
// back as nil rather than zero so callers can tell "not listed" apart from a
// genuinely zero price.
func Price(s string) (currency string, price *float64) {
	fields := strings.Fields(s)
	if len(fields) > 0 {
		currency = strings.ToLower(fields[0])
	}
	if len(fields) < 2 {
		return currency, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(fields[1], ",", ""), 64)
	if err != nil {
		return currency, nil
	}
	return currency, &v
}

// Mileage splits text such as "147,000 km" into the numeric mileage and its
// unit. Either part may be absent, in which case it is nil.
func Mileage(s string) (mileage *int64, unit *string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	if v, err := strconv.ParseInt(strings.ReplaceAll(fields[0], ",", ""), 10, 64); err == nil {
		mileage = &v
	}
	if len(fields) > 1 {
		u := fields[1]
		unit = &u
	}
	return mileage, unit
}

// Posting-date patterns used by the site, tried in order. The last pattern
// matches the same text as the first; the wording of the relative-day labels
// has drifted before and the two cases diverged then, so they stay separate
// instead of being collapsed into one.
var (
	relativeDayPattern  = regexp.MustCompile(`^(Today|Yesterday), (\d{2}):(\d{2})$`)
	weekdayPattern      = regexp.MustCompile(`^(Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday), (\d{2}):(\d{2})$`)
	dayMonthPattern     = regexp.MustCompile(`^\d{1,2}\. [a-zA-Z]{3}, \d{2}:\d{2}$`)
	dayMonthYearPattern = regexp.MustCompile(`^\d{1,2}\. [a-zA-Z]{3} '\d{2}, \d{2}:\d{2}$`)
	relativeDayFallback = regexp.MustCompile(`^(Today|Yesterday), \d{2}:\d{2}$`)
)

const (
	dayMonthLayout     = "2. Jan, 15:04"
	dayMonthYearLayout = "2. Jan '06, 15:04"
	clockLayout        = "15:04"
)

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// Date converts the posting-date text of a listing into a concrete timestamp
// anchored at now. Unrecognized text yields nil instead of an error so one
// odd date never sinks the rest of the record. Seconds are always zeroed.
func Date(now time.Time, s string) *time.Time {
	s = strings.TrimSpace(s)

	switch {
	case relativeDayPattern.MatchString(s):
		m := relativeDayPattern.FindStringSubmatch(s)
		return relativeDay(now, m[1], m[2], m[3])

	case weekdayPattern.MatchString(s):
		m := weekdayPattern.FindStringSubmatch(s)
		return recentWeekday(now, weekdayNames[m[1]], m[2], m[3])

	case dayMonthPattern.MatchString(s):
		parsed, err := time.ParseInLocation(dayMonthLayout, s, now.Location())
		if err != nil {
			return nil
		}
		// The layout carries no year; the site omits it within the current year.
		d := time.Date(now.Year(), parsed.Month(), parsed.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
		return &d

	case dayMonthYearPattern.MatchString(s):
		parsed, err := time.ParseInLocation(dayMonthYearLayout, s, now.Location())
		if err != nil {
			return nil
		}
		return &parsed

	case relativeDayFallback.MatchString(s):
		m := relativeDayFallback.FindStringSubmatch(s)
		clock, err := time.Parse(clockLayout, s[len(s)-len(clockLayout):])
		if err != nil {
			return nil
		}
		return relativeDay(now, m[1], strconv.Itoa(clock.Hour()), strconv.Itoa(clock.Minute()))
	}

	return nil
}

func relativeDay(now time.Time, word, hh, mm string) *time.Time {
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)

	base := now
	if word == "Yesterday" {
		base = base.AddDate(0, 0, -1)
	}
	d := time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
	return &d
}

// recentWeekday resolves a bare weekday name. The site only labels dates with
// weekday names once they are older than yesterday, so the forthcoming
// occurrence of the weekday is pulled back a week whenever it lands on or
// after yesterday.
func recentWeekday(now time.Time, target time.Weekday, hh, mm string) *time.Time {
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)

	ahead := (int(target) - int(now.Weekday()) + 7) % 7
	d := time.Date(now.Year(), now.Month(), now.Day()+ahead, hour, minute, 0, 0, now.Location())

	yesterday := now.AddDate(0, 0, -1)
	if !d.Before(yesterday) {
		d = d.AddDate(0, 0, -7)
	}
	return &d
}
