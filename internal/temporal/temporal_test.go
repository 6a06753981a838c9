package temporal

import (
	"errors"
	"testing"
	"time"
)

var ref = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

// ── Relative grammar ──

func TestResolveRelative(t *testing.T) {
	cases := []struct {
		phrase string
		days   int
	}{
		{"recent 2 years", 730},
		{"last decade", 3650},
		{"past couple months", 60},
		{"past 3 weeks", 21},
		{"previous quarter", 91},
		{"last few years", 1095},
		{"current year", 365},
		{"latest dozen months", 360},
		{"past half-dozen weeks", 42},
	}
	for _, c := range cases {
		iv, err := Resolve(c.phrase, ref)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", c.phrase, err)
		}
		wantStart := ref.AddDate(0, 0, -c.days)
		if !iv.Start.Equal(wantStart) {
			t.Errorf("Resolve(%q) start: got %s, want %s", c.phrase, iv.Start, wantStart)
		}
		if !iv.End.Equal(ref) {
			t.Errorf("Resolve(%q) end: got %s, want ref", c.phrase, iv.End)
		}
	}
}

func TestResolveRelativePluralDefault(t *testing.T) {
	// No quantity and plural period word → default 3.
	iv, err := Resolve("recent years", ref)
	if err != nil {
		t.Fatal(err)
	}
	if want := ref.AddDate(0, 0, -3*365); !iv.Start.Equal(want) {
		t.Errorf("plural default: got %s, want %s", iv.Start, want)
	}
}

func TestResolveUnknownQuantityFallsBack(t *testing.T) {
	// "umpteen" is not in the lexicon and not a digit string; the
	// documented silent default applies (3 for plural).
	iv, err := Resolve("last umpteen years", ref)
	if err != nil {
		t.Fatal(err)
	}
	if want := ref.AddDate(0, 0, -3*365); !iv.Start.Equal(want) {
		t.Errorf("ambiguous quantity: got %s, want %s", iv.Start, want)
	}
}

// ── Loose keyword fallback ──

func TestResolveLooseKeyword(t *testing.T) {
	for _, phrase := range []string{"lately", "recently", "the current situation"} {
		iv, err := Resolve(phrase, ref)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", phrase, err)
		}
		if want := ref.AddDate(0, 0, -365); !iv.Start.Equal(want) {
			t.Errorf("Resolve(%q): got start %s, want 365-day lookback", phrase, iv.Start)
		}
	}
}

// ── Absolute dual rounding ──

func TestResolveYearSpansWholeYear(t *testing.T) {
	iv, err := Resolve("2023", ref)
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(iv.Start); got != "2023-01-01" {
		t.Errorf("start: got %s, want 2023-01-01", got)
	}
	if got := Format(iv.End); got != "2023-12-31" {
		t.Errorf("end: got %s, want 2023-12-31", got)
	}
}

func TestResolveMonthSpansWholeMonth(t *testing.T) {
	iv, err := Resolve("February 2024", ref)
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(iv.Start); got != "2024-02-01" {
		t.Errorf("start: got %s", got)
	}
	// Leap year.
	if got := Format(iv.End); got != "2024-02-29" {
		t.Errorf("end: got %s, want 2024-02-29", got)
	}
}

func TestResolveDayIsPoint(t *testing.T) {
	iv, err := Resolve("2020-05-01", ref)
	if err != nil {
		t.Fatal(err)
	}
	if !iv.Start.Equal(iv.End) {
		t.Errorf("day granularity: start %s != end %s", iv.Start, iv.End)
	}
}

func TestResolveUnparseable(t *testing.T) {
	_, err := Resolve("the day the music died", ref)
	var ue *ErrUnparseable
	if !errors.As(err, &ue) {
		t.Fatalf("want ErrUnparseable, got %v", err)
	}
}

// ── ResolveMulti ──

func TestResolveMultiSortsChronologically(t *testing.T) {
	iv, err := ResolveMulti([]string{"2020-05-01", "2019-01-10"}, ref)
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(iv.Start); got != "2019-01-10" {
		t.Errorf("start: got %s, want 2019-01-10", got)
	}
	if got := Format(iv.End); got != "2020-05-01" {
		t.Errorf("end: got %s, want 2020-05-01", got)
	}
}

func TestResolveMultiYearBounds(t *testing.T) {
	iv, err := ResolveMulti([]string{"2022", "2020"}, ref)
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(iv.Start); got != "2020-01-01" {
		t.Errorf("start: got %s", got)
	}
	if got := Format(iv.End); got != "2022-12-31" {
		t.Errorf("end: got %s", got)
	}
}

func TestResolveMultiSkipsEmpty(t *testing.T) {
	iv, err := ResolveMulti([]string{"", "2021"}, ref)
	if err != nil {
		t.Fatal(err)
	}
	if got := Format(iv.Start); got != "2021-01-01" {
		t.Errorf("start: got %s", got)
	}
}

func TestResolveMultiAllEmpty(t *testing.T) {
	if _, err := ResolveMulti([]string{"", "  "}, ref); err == nil {
		t.Error("expected error for no usable phrases")
	}
}
