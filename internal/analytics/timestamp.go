package analytics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TimestampLayout describes the canonical text form, M/D/YYYY HH:MM:SS with
// unpadded month and day.
const TimestampLayout = "1/2/2006 15:04:05"

var canonicalPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})\s+(\d{1,2}):(\d{2}):(\d{2})$`)

// fallbackLayouts are tried in order when the canonical pattern does not match.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04",
	"2006-01-02",
	"1/2/2006",
}

var (
	locMu    sync.RWMutex
	location = time.Local
)

// SetLocation sets the zone timestamps without an offset are read in.
func SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	locMu.Lock()
	location = loc
	locMu.Unlock()
}

// Location returns the zone used for parsing and formatting.
func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return location
}

// ParseTimestamp reads s as the canonical M/D/YYYY HH:MM:SS form, then as
// one of the ISO-like fallback layouts. ok is false when nothing matched.
func ParseTimestamp(s string) (t time.Time, ok bool) {
	return ParseTimestampIn(s, Location())
}

// ParseTimestampIn is ParseTimestamp with an explicit zone.
func ParseTimestampIn(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := canonicalPattern.FindStringSubmatch(s); m != nil {
		n := make([]int, 6)
		for i := range n {
			v, err := strconv.Atoi(m[i+1])
			if err != nil {
				return time.Time{}, false
			}
			n[i] = v
		}
		month, day, year := n[0], n[1], n[2]
		return time.Date(year, time.Month(month), day, n[3], n[4], n[5], 0, loc), true
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t in the canonical form. The form carries no
// offset, so the two instants of a repeated hour at a DST fall-back render
// identically and parse back to the same one of them.
func FormatTimestamp(t time.Time) string {
	return FormatTimestampIn(t, Location())
}

func FormatTimestampIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimestampLayout)
}

// FormatElapsed renders whole seconds as "{d}d {h}h {m}m". Days are omitted
// when zero, hours are omitted only when days and hours are both zero.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := seconds / 86400
	h := (seconds % 86400) / 3600
	m := (seconds % 3600) / 60

	var b strings.Builder
	if d > 0 {
		fmt.Fprintf(&b, "%dd ", d)
	}
	if h > 0 || d > 0 {
		fmt.Fprintf(&b, "%dh ", h)
	}
	fmt.Fprintf(&b, "%dm", m)
	return b.String()
}

// FormatClock renders d as HH:MM:SS. Hours are not capped at 24.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
