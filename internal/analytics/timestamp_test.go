package analytics

import (
	"os"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	SetLocation(time.UTC)
	os.Exit(m.Run())
}

func TestParseTimestampIn_CanonicalForm(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"1/15/2024 08:30:00", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"01/05/2024 8:05:09", time.Date(2024, 1, 5, 8, 5, 9, 0, time.UTC)},
		{"12/31/2023 23:59:59", time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"  3/7/2024   09:04:05 ", time.Date(2024, 3, 7, 9, 4, 5, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := ParseTimestampIn(tt.in, time.UTC)
		if !ok {
			t.Fatalf("ParseTimestampIn(%q) failed", tt.in)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestampIn(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimestampIn_Fallbacks(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15T10:00:00Z", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		{"2024-01-15T10:00:00", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		{"2024-01-15 10:00", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := ParseTimestampIn(tt.in, time.UTC)
		if !ok {
			t.Fatalf("ParseTimestampIn(%q) failed", tt.in)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestampIn(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimestampIn_Unparseable(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "15-01-2024 10:00", "1/15/24 10:00:00"} {
		if _, ok := ParseTimestampIn(in, time.UTC); ok {
			t.Errorf("ParseTimestampIn(%q) succeeded, want failure", in)
		}
	}
}

func TestFormatTimestampIn_UnpaddedDate(t *testing.T) {
	ts := time.Date(2024, 3, 7, 9, 4, 5, 0, time.UTC)
	if got := FormatTimestampIn(ts, time.UTC); got != "3/7/2024 09:04:05" {
		t.Fatalf("FormatTimestampIn = %q, want %q", got, "3/7/2024 09:04:05")
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	base := time.Date(2023, 11, 28, 17, 45, 12, 0, time.UTC)
	for i := 0; i < 500; i++ {
		ts := base.Add(time.Duration(i) * 7919 * time.Second)
		got, ok := ParseTimestampIn(FormatTimestampIn(ts, time.UTC), time.UTC)
		if !ok {
			t.Fatalf("round trip failed to parse %v", ts)
		}
		if !got.Equal(ts) {
			t.Fatalf("round trip = %v, want %v", got, ts)
		}
	}
}

func TestTimestampRoundTrip_RepeatedHourIsAmbiguous(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	edt := time.Date(2024, 11, 3, 5, 30, 0, 0, time.UTC)
	est := edt.Add(time.Hour)
	text := FormatTimestampIn(edt, ny)
	if text != "11/3/2024 01:30:00" || FormatTimestampIn(est, ny) != text {
		t.Fatalf("repeated hour formats as %q and %q", text, FormatTimestampIn(est, ny))
	}

	got, ok := ParseTimestampIn(text, ny)
	if !ok {
		t.Fatalf("failed to parse %q", text)
	}
	if !got.Equal(edt) && !got.Equal(est) {
		t.Fatalf("parse %q = %v, want one of %v, %v", text, got, edt, est)
	}

	summer := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	if got, _ := ParseTimestampIn(FormatTimestampIn(summer, ny), ny); !got.Equal(summer) {
		t.Fatalf("round trip = %v, want %v", got, summer)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0m"},
		{59, "0m"},
		{60, "1m"},
		{3600, "1h 0m"},
		{3660, "1h 1m"},
		{86400, "1d 0h 0m"},
		{90061, "1d 1h 1m"},
		{-5, "0m"},
	}

	for _, tt := range tests {
		if got := FormatElapsed(tt.seconds); got != tt.want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{3723 * time.Second, "01:02:03"},
		{100 * time.Hour, "100:00:00"},
		{1500 * time.Millisecond, "00:00:01"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.d); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
