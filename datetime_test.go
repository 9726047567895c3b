package vcard

import "testing"

func TestTryParseDateFullDate(t *testing.T) {
	d, ok := TryParseDate("19900615")
	if !ok {
		t.Fatalf("expected to parse full date")
	}
	if d.Year != 1990 || d.Month != 6 || d.Day != 15 {
		t.Fatalf("unexpected date: %+v", d)
	}
	if got := d.ToDateString(); got != "19900615" {
		t.Fatalf("ToDateString() = %q, want 19900615", got)
	}
}

func TestTryParseDateYearless(t *testing.T) {
	d, ok := TryParseDate("--0615")
	if !ok {
		t.Fatalf("expected to parse yearless date")
	}
	if d.HasYear || d.Month != 6 || d.Day != 15 {
		t.Fatalf("unexpected date: %+v", d)
	}
}

func TestTryParseDateTimeWithOffset(t *testing.T) {
	d, ok := TryParseDate("19961022T140000-05:00")
	if !ok {
		t.Fatalf("expected to parse date-time with offset")
	}
	if d.Hour != 14 || !d.HasOffset || d.OffsetMinutes != -300 {
		t.Fatalf("unexpected date-time: %+v", d)
	}
	if got := d.ToDateTimeString(); got != "19961022T140000-0500" {
		t.Fatalf("ToDateTimeString() = %q, want 19961022T140000-0500", got)
	}
}

func TestTryParseDateTimeUTC(t *testing.T) {
	d, ok := TryParseDate("19961022T140000Z")
	if !ok {
		t.Fatalf("expected to parse UTC date-time")
	}
	if got := d.ToDateTimeString(); got != "19961022T140000Z" {
		t.Fatalf("ToDateTimeString() = %q, want 19961022T140000Z", got)
	}
}

func TestTryParseDateInvalidReturnsFalse(t *testing.T) {
	if _, ok := TryParseDate("not-a-date"); ok {
		t.Fatalf("expected invalid date to fail parsing")
	}
}
