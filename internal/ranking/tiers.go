// internal/ranking/tiers.go
package ranking

// FirstTier is the coarse judgment a user gives every rated game on the
// first pass. Ordered worst to best: bad < good < excellent.
type FirstTier string

const (
	FirstTierBad       FirstTier = "bad"
	FirstTierGood      FirstTier = "good"
	FirstTierExcellent FirstTier = "excellent"
)

// SecondTier is the fine judgment given to each candidate on the second
// pass. Ordered worst to best: cool < excellent < super_cool. The label
// "excellent" is shared with FirstTier but sits one slot below the top
// here; the two enumerations are independent vocabularies.
type SecondTier string

const (
	SecondTierCool      SecondTier = "cool"
	SecondTierSuperCool SecondTier = "super_cool"
	SecondTierExcellent SecondTier = "excellent"
)

// ParseFirstTier converts a wire string into a FirstTier. Unknown values
// fail with *InvalidTierError; nothing is coerced.
func ParseFirstTier(s string) (FirstTier, error) {
	switch FirstTier(s) {
	case FirstTierBad, FirstTierGood, FirstTierExcellent:
		return FirstTier(s), nil
	}
	return "", &InvalidTierError{Value: s, Phase: PhaseFirstTier}
}

// ParseSecondTier converts a wire string into a SecondTier.
func ParseSecondTier(s string) (SecondTier, error) {
	switch SecondTier(s) {
	case SecondTierCool, SecondTierSuperCool, SecondTierExcellent:
		return SecondTier(s), nil
	}
	return "", &InvalidTierError{Value: s, Phase: PhaseSecondTier}
}

// firstTierBuckets is the concatenation order for candidate selection,
// best bucket first.
var firstTierBuckets = []FirstTier{FirstTierExcellent, FirstTierGood, FirstTierBad}

// secondTierBuckets is the concatenation order for the final top,
// best bucket first.
var secondTierBuckets = []SecondTier{SecondTierSuperCool, SecondTierExcellent, SecondTierCool}
