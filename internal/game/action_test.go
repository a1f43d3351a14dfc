package game

import (
	"fmt"
	"testing"
)

func TestActionLabelRoundTrip(t *testing.T) {
	got, err := ParseAction(Challenge.String())
	if err != nil {
		t.Fatalf("parse challenge: %v", err)
	}
	if !got.IsChallenge() {
		t.Fatalf("expected challenge, got %v", got)
	}

	const totalDice = 4
	for q := 1; q <= totalDice; q++ {
		for f := 1; f <= DiceFaces; f++ {
			a := Action{Quantity: q, Face: f}
			parsed, err := ParseAction(a.String())
			if err != nil {
				t.Fatalf("parse %q: %v", a, err)
			}
			if parsed != a {
				t.Fatalf("round trip %q: got %v", a, parsed)
			}
		}
	}
}

func TestActionString(t *testing.T) {
	if got := (Action{Quantity: 3, Face: 5}).String(); got != "3-5" {
		t.Fatalf("expected 3-5, got %q", got)
	}
	if got := Challenge.String(); got != "Challenge" {
		t.Fatalf("expected Challenge, got %q", got)
	}
}

func TestParseActionRejectsMalformedLabels(t *testing.T) {
	for _, label := range []string{"", "3", "challenge", "3-", "-5", "a-b", "0-3", "2-0", "2-7", fmt.Sprintf("1-%d", DiceFaces+1)} {
		if _, err := ParseAction(label); err == nil {
			t.Fatalf("expected error for label %q", label)
		}
	}
}
