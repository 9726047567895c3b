package vcard

import (
	"fmt"
	"regexp"
	"strconv"
)

// DateOrDateTime stores an independently-optional year/month/day/time and
// an optional UTC offset in minutes, supporting the partial dates vCard 4.0
// allows (year-less "--MMDD", month-less "---DD").
type DateOrDateTime struct {
	HasYear  bool
	Year     int
	HasMonth bool
	Month    int
	HasDay   bool
	Day      int

	HasTime bool
	Hour    int
	Minute  int
	Second  int

	HasOffset   bool
	OffsetMinutes int // minutes east of UTC; 0 with HasOffset true means "Z"
}

var (
	fullDateRe    = regexp.MustCompile(`^(\d{4})-?(\d{2})-?(\d{2})$`)
	yearlessRe    = regexp.MustCompile(`^--(\d{2})-?(\d{2})$`)
	dayOnlyRe     = regexp.MustCompile(`^---(\d{2})$`)
	dateTimeRe    = regexp.MustCompile(`^(\d{4})-?(\d{2})-?(\d{2})T(\d{2}):?(\d{2}):?(\d{2})(Z|[+-]\d{2}:?\d{2})?$`)
)

// TryParseDate parses a BDAY/ANNIVERSARY/REV-shaped date or date-time value.
// Returns ok=false on anything unparsable (spec §4.F: "on invalid dates,
// store None").
func TryParseDate(s string) (DateOrDateTime, bool) {
	if m := dateTimeRe.FindStringSubmatch(s); m != nil {
		d := DateOrDateTime{}
		d.HasYear, d.Year = true, atoi(m[1])
		d.HasMonth, d.Month = true, atoi(m[2])
		d.HasDay, d.Day = true, atoi(m[3])
		d.HasTime = true
		d.Hour, d.Minute, d.Second = atoi(m[4]), atoi(m[5]), atoi(m[6])
		if m[7] != "" {
			offset, ok := parseOffset(m[7])
			if !ok {
				return DateOrDateTime{}, false
			}
			d.HasOffset, d.OffsetMinutes = true, offset
		}
		return d, true
	}
	if m := fullDateRe.FindStringSubmatch(s); m != nil {
		return DateOrDateTime{HasYear: true, Year: atoi(m[1]), HasMonth: true, Month: atoi(m[2]), HasDay: true, Day: atoi(m[3])}, true
	}
	if m := yearlessRe.FindStringSubmatch(s); m != nil {
		return DateOrDateTime{HasMonth: true, Month: atoi(m[1]), HasDay: true, Day: atoi(m[2])}, true
	}
	if m := dayOnlyRe.FindStringSubmatch(s); m != nil {
		return DateOrDateTime{HasDay: true, Day: atoi(m[1])}, true
	}
	return DateOrDateTime{}, false
}

func parseOffset(s string) (int, bool) {
	if s == "Z" {
		return 0, true
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	digits := ""
	for _, r := range s[1:] {
		if r != ':' {
			digits += string(r)
		}
	}
	if len(digits) != 4 {
		return 0, false
	}
	hh := atoi(digits[:2])
	mm := atoi(digits[2:])
	return sign * (hh*60 + mm), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ToDateString renders the date components per spec §4.E: 4-digit year
// when present, "--" or "---" prefix for partial dates, zero-padded fields.
func (d DateOrDateTime) ToDateString() string {
	switch {
	case d.HasYear && d.HasMonth && d.HasDay:
		return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
	case d.HasYear && d.HasMonth && !d.HasDay:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	case !d.HasYear && d.HasMonth && d.HasDay:
		return fmt.Sprintf("--%02d%02d", d.Month, d.Day)
	case !d.HasYear && d.HasMonth && !d.HasDay:
		return fmt.Sprintf("--%02d", d.Month)
	case !d.HasYear && !d.HasMonth && d.HasDay:
		return fmt.Sprintf("---%02d", d.Day)
	case d.HasYear && !d.HasMonth && !d.HasDay:
		return fmt.Sprintf("%04d", d.Year)
	default:
		return ""
	}
}

// ToDateTimeString appends the time and timezone suffix described in spec
// §4.E: "Z" for a zero offset, "+HHMM"/"-HHMM" otherwise.
func (d DateOrDateTime) ToDateTimeString() string {
	s := d.ToDateString()
	if !d.HasTime {
		return s
	}
	s += fmt.Sprintf("T%02d%02d%02d", d.Hour, d.Minute, d.Second)
	if !d.HasOffset {
		return s
	}
	if d.OffsetMinutes == 0 {
		return s + "Z"
	}
	sign := "+"
	offset := d.OffsetMinutes
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return s + fmt.Sprintf("%s%02d%02d", sign, offset/60, offset%60)
}
