package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Protocols look like OC-20231201-0001: a fixed marker, the calendar day the
// occurrence was opened, and a 1-based sequence number within that day. The
// suffix is zero-padded to four digits so protocols of equal length sort
// lexicographically in numeric order; once a day's sequence widens past
// 9999 the store must order by length before comparing text.

const (
	marker     = "OC"
	dayLayout  = "20060102"
	suffixPad  = 4
	timeFormat = marker + "-" + dayLayout
)

// Prefix returns the day prefix shared by every protocol issued on day,
// e.g. "OC-20231201".
func Prefix(day time.Time) string {
	return day.Format(timeFormat)
}

// Next derives the protocol following last under the given day prefix.
// last is the greatest protocol already issued for that prefix, or the empty
// string when the day has none yet; the sequence then starts at 1.
// Sequences past 9999 widen instead of wrapping.
func Next(prefix, last string) (string, error) {
	seq := 1
	if last != "" {
		n, err := Sequence(last)
		if err != nil {
			return "", err
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s-%0*d", prefix, suffixPad, seq), nil
}

// Sequence extracts the numeric suffix of a protocol string.
func Sequence(protocol string) (int, error) {
	i := strings.LastIndex(protocol, "-")
	if i < 0 || i == len(protocol)-1 {
		return 0, fmt.Errorf("malformed protocol %q", protocol)
	}
	n, err := strconv.Atoi(protocol[i+1:])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("malformed protocol %q", protocol)
	}
	return n, nil
}
