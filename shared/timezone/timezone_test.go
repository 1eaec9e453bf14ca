package timezone_test

import (
	"testing"
	"time"

	"docemania/shared/timezone"
)

func TestNowUsesAppLocation(t *testing.T) {
	now := timezone.Now()

	if now.IsZero() {
		t.Fatal("expected a non-zero time")
	}

	if now.Location() != timezone.GetLocation() {
		t.Errorf("expected location %s, got %s", timezone.GetLocation(), now.Location())
	}
}

func TestToAppTimeKeepsInstant(t *testing.T) {
	utc := time.Date(2024, 5, 12, 15, 0, 0, 0, time.UTC)
	local := timezone.ToAppTime(utc)

	if !local.Equal(utc) {
		t.Errorf("expected %s to equal %s", local, utc)
	}
}

func TestParseAndFormatRoundTrip(t *testing.T) {
	const layout = "2006-01-02 15:04"

	parsed, err := timezone.Parse(layout, "2024-12-24 18:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Location() != timezone.GetLocation() {
		t.Errorf("expected parsed time in %s, got %s", timezone.GetLocation(), parsed.Location())
	}

	if got := timezone.Format(parsed, layout); got != "2024-12-24 18:30" {
		t.Errorf("expected 2024-12-24 18:30, got %s", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := timezone.Parse("2006-01-02", "24/12/2024"); err == nil {
		t.Error("expected an error for a malformed date")
	}
}
