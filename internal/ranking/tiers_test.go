package ranking

import (
	"errors"
	"testing"
)

func TestParseFirstTier(t *testing.T) {
	for _, s := range []string{"bad", "good", "excellent"} {
		tier, err := ParseFirstTier(s)
		if err != nil {
			t.Fatalf("ParseFirstTier(%q): %v", s, err)
		}
		if string(tier) != s {
			t.Fatalf("ParseFirstTier(%q) = %q", s, tier)
		}
	}
}

func TestParseSecondTier(t *testing.T) {
	for _, s := range []string{"cool", "super_cool", "excellent"} {
		tier, err := ParseSecondTier(s)
		if err != nil {
			t.Fatalf("ParseSecondTier(%q): %v", s, err)
		}
		if string(tier) != s {
			t.Fatalf("ParseSecondTier(%q) = %q", s, tier)
		}
	}
}

func TestParseTierRejectsUnknown(t *testing.T) {
	// "super_cool" is a second-pass word, "bad" a first-pass word; neither
	// may leak across, and garbage never coerces.
	for _, s := range []string{"", "amazing", "super_cool", "BAD"} {
		if _, err := ParseFirstTier(s); err == nil {
			t.Errorf("ParseFirstTier(%q) should fail", s)
		}
	}
	for _, s := range []string{"", "bad", "good", "Cool"} {
		if _, err := ParseSecondTier(s); err == nil {
			t.Errorf("ParseSecondTier(%q) should fail", s)
		}
	}

	_, err := ParseFirstTier("meh")
	var tierErr *InvalidTierError
	if !errors.As(err, &tierErr) {
		t.Fatalf("expected *InvalidTierError, got %T", err)
	}
	if tierErr.Value != "meh" {
		t.Fatalf("error should carry the rejected value, got %q", tierErr.Value)
	}
}
