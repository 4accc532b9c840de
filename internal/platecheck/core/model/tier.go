package model

import (
	"fmt"
	"strings"
)

// Tier is a subscription level. Tiers are totally ordered: basic < silver < gold.
type Tier string

const (
	TierBasic  Tier = "basic"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

var tierRank = map[Tier]int{
	TierBasic:  1,
	TierSilver: 2,
	TierGold:   3,
}

// Tiers lists every tier from lowest to highest entitlement.
func Tiers() []Tier {
	return []Tier{TierBasic, TierSilver, TierGold}
}

// InvalidTierError reports a value outside the tier enumeration.
type InvalidTierError struct {
	Value string
}

func (e *InvalidTierError) Error() string {
	return fmt.Sprintf("invalid subscription tier %q, must be one of basic, silver, gold", e.Value)
}

// ParseTier validates untrusted input against the enumeration.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", &InvalidTierError{Value: s}
	}
	return t, nil
}

func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// Rank is 0 for invalid tiers.
func (t Tier) Rank() int { return tierRank[t] }

// AtLeast reports whether t grants every entitlement of min.
func (t Tier) AtLeast(min Tier) bool {
	return t.Valid() && t.Rank() >= min.Rank()
}

func (t Tier) String() string { return string(t) }
