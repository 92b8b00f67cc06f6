package confvalue

import (
	"fmt"
	"regexp"
	"time"
)

// Date is a calendar date without a time component.
type Date struct {
	Year, Month, Day int
}

// Compare returns -1, 0, or 1 depending on ordering.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time is a time of day.
type Time struct {
	Hour, Minute, Second, Nanosecond int
}

func (t Time) Compare(other Time) int {
	a := ((t.Hour*60+t.Minute)*60+t.Second)*1e9 + t.Nanosecond
	b := ((other.Hour*60+other.Minute)*60+other.Second)*1e9 + other.Nanosecond
	return sign(a - b)
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// DateTime combines Date and Time.
type DateTime struct {
	D Date
	T Time
}

func (dt DateTime) Date() Date { return dt.D }

func (dt DateTime) Compare(other DateTime) int {
	if c := dt.D.Compare(other.D); c != 0 {
		return c
	}
	return dt.T.Compare(other.T)
}

func (dt DateTime) String() string {
	return dt.D.String() + "T" + dt.T.String()
}

// DateTimeFromTime converts a standard library time.Time into a
// DateTime, useful for test fixtures.
func DateTimeFromTime(t time.Time) DateTime {
	return DateTime{
		D: Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
		T: Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()},
	}
}

// TimeDeltaUnit is the unit a TimeDelta count is expressed in.
type TimeDeltaUnit int

const (
	Seconds TimeDeltaUnit = iota
	Minutes
	Hours
	Days
	Months
	Years
)

// TimeDelta is a signed count of a calendar or clock unit.
type TimeDelta struct {
	Count int64
	Unit  TimeDeltaUnit
}

// Bytes is a raw byte-string value.
type Bytes []byte

// Matcher is the opaque regular-expression interface the engine
// delegates to (spec.md section 6): compilation and matching are never
// implemented by the engine itself.
type Matcher interface {
	FindFirst(text string) bool
}

type stdMatcher struct{ re *regexp.Regexp }

func (m stdMatcher) FindFirst(text string) bool { return m.re.MatchString(text) }

// Compile compiles pattern into a Matcher. If multiLine is true, `^`
// and `$` match at line boundaries rather than only at the start/end
// of the whole text.
func Compile(pattern string, multiLine bool) (Matcher, error) {
	p := pattern
	if multiLine {
		p = "(?m)" + p
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, err
	}
	return stdMatcher{re: re}, nil
}

// RegEx is a regular-expression value: the source pattern plus its
// compiled matcher.
type RegEx struct {
	Pattern   string
	MultiLine bool
	Matcher   Matcher
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
