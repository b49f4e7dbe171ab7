// Package timecode parses probe durations into structured time values and
// formats them for subtitle documents.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrFormat is wrapped by every FormatError.
var ErrFormat = errors.New("malformed duration")

// FormatError reports a duration string that does not follow the expected
// HH:MM:SS.fraction or decimal seconds layout.
type FormatError struct {
	Raw    string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed duration %q: %s", e.Raw, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// TimePoint is an instant or duration at millisecond resolution.
type TimePoint struct {
	Hours   int
	Minutes int
	Seconds int
	Millis  int
}

// Zero is the start of a timeline.
var Zero = TimePoint{}

// Parse accepts either "HH:MM:SS.fraction" or plain decimal seconds such as
// "3.456000". Whole seconds are truncated and the fraction is kept to three
// digits, never rounded.
func Parse(raw string) (TimePoint, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Zero, &FormatError{Raw: raw, Reason: "empty value"}
	}
	if strings.Contains(s, ":") {
		return parseClock(raw, s)
	}
	return parseSeconds(raw, s)
}

// FromSeconds converts a floating point seconds value using the same
// truncation rules as Parse.
func FromSeconds(seconds float64) (TimePoint, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		raw := strconv.FormatFloat(seconds, 'g', -1, 64)
		return Zero, &FormatError{Raw: raw, Reason: "not a non-negative finite number"}
	}
	raw := strconv.FormatFloat(seconds, 'f', -1, 64)
	return parseSeconds(raw, raw)
}

func parseClock(raw, s string) (TimePoint, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Zero, &FormatError{Raw: raw, Reason: "expected three ':' separated fields"}
	}

	hours, err := parseUnsigned(parts[0])
	if err != nil {
		return Zero, &FormatError{Raw: raw, Reason: "invalid hours"}
	}
	minutes, err := parseUnsigned(parts[1])
	if err != nil || minutes >= 60 {
		return Zero, &FormatError{Raw: raw, Reason: "invalid minutes"}
	}

	secPart, fraction, _ := strings.Cut(parts[2], ".")
	seconds, err := parseUnsigned(secPart)
	if err != nil || seconds >= 60 {
		return Zero, &FormatError{Raw: raw, Reason: "invalid seconds"}
	}
	millis, err := fractionMillis(fraction)
	if err != nil {
		return Zero, &FormatError{Raw: raw, Reason: "invalid fraction"}
	}

	return TimePoint{Hours: hours, Minutes: minutes, Seconds: seconds, Millis: millis}, nil
}

func parseSeconds(raw, s string) (TimePoint, error) {
	whole, fraction, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	total, err := parseUnsigned(whole)
	if err != nil {
		return Zero, &FormatError{Raw: raw, Reason: "invalid seconds"}
	}
	millis, err := fractionMillis(fraction)
	if err != nil {
		return Zero, &FormatError{Raw: raw, Reason: "invalid fraction"}
	}

	return TimePoint{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
		Millis:  millis,
	}, nil
}

// fractionMillis turns the digits after the decimal point into milliseconds,
// padding to three digits on the right and dropping anything beyond.
func fractionMillis(fraction string) (int, error) {
	if fraction == "" {
		return 0, nil
	}
	if !allDigits(fraction) {
		return 0, fmt.Errorf("non-digit in fraction %q", fraction)
	}
	digits := (fraction + "000")[:3]
	return strconv.Atoi(digits)
}

func parseUnsigned(s string) (int, error) {
	if s == "" || !allDigits(s) {
		return 0, fmt.Errorf("not an unsigned integer: %q", s)
	}
	return strconv.Atoi(s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Accumulate adds two time values with carry propagation. Hours are unbounded.
func Accumulate(a, b TimePoint) TimePoint {
	millis := a.Millis + b.Millis
	seconds := a.Seconds + b.Seconds + millis/1000
	minutes := a.Minutes + b.Minutes + seconds/60
	hours := a.Hours + b.Hours + minutes/60

	return TimePoint{
		Hours:   hours,
		Minutes: minutes % 60,
		Seconds: seconds % 60,
		Millis:  millis % 1000,
	}
}

// FormatCentisecond renders "HH:MM:SS.CC" for timeline cues.
func FormatCentisecond(t TimePoint) string {
	return fmt.Sprintf("%02d:%02d:%02d.%s", t.Hours, t.Minutes, t.Seconds, centis(t.Millis))
}

// FormatMillisecond renders "HH:MM:SS,mmm".
func FormatMillisecond(t TimePoint) string {
	return fmt.Sprintf("%02d:%02d:%02d,%03d", t.Hours, t.Minutes, t.Seconds, t.Millis)
}

// centis keeps the first two characters of the three digit millisecond
// string. Output compatibility depends on this being truncation.
func centis(millis int) string {
	digits := fmt.Sprintf("%03d", millis)
	if len(digits) < 2 {
		return "00"
	}
	return digits[:2]
}

// Duration converts t to a time.Duration.
func (t TimePoint) Duration() time.Duration {
	return time.Duration(t.Hours)*time.Hour +
		time.Duration(t.Minutes)*time.Minute +
		time.Duration(t.Seconds)*time.Second +
		time.Duration(t.Millis)*time.Millisecond
}

// Compare returns -1, 0 or +1 ordering t against u as wall clock offsets.
func (t TimePoint) Compare(u TimePoint) int {
	a, b := t.Duration(), u.Duration()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (t TimePoint) String() string {
	return FormatCentisecond(t)
}
