// Package gating decides which report sections a subscription tier unlocks.
// Every function here is pure: no clock, no I/O.
package gating

import (
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
)

// SectionID names one gated section of a report.
type SectionID string

const (
	SectionIdentity              SectionID = "identity"
	SectionMotAndTax             SectionID = "motAndTax"
	SectionMotHistory            SectionID = "motHistory"
	SectionEnvironmental         SectionID = "environmental"
	SectionExtendedSpecsDetailed SectionID = "extendedSpecsDetailed"
	SectionKeeperHistory         SectionID = "keeperHistory"
	SectionValuation             SectionID = "valuation"
)

type Visibility string

const (
	Visible Visibility = "Visible"
	Locked  Visibility = "Locked"
)

// requiredTier is the lowest tier that unlocks each section.
var requiredTier = map[SectionID]model.Tier{
	SectionIdentity:              model.TierBasic,
	SectionMotAndTax:             model.TierBasic,
	SectionMotHistory:            model.TierSilver,
	SectionEnvironmental:         model.TierSilver,
	SectionExtendedSpecsDetailed: model.TierSilver,
	SectionKeeperHistory:         model.TierGold,
	SectionValuation:             model.TierGold,
}

// Sections lists every section id in display order.
func Sections() []SectionID {
	return []SectionID{
		SectionIdentity,
		SectionMotAndTax,
		SectionMotHistory,
		SectionEnvironmental,
		SectionExtendedSpecsDetailed,
		SectionKeeperHistory,
		SectionValuation,
	}
}

// RequiredTier returns the tier needed to unlock id.
func RequiredTier(id SectionID) model.Tier {
	return requiredTier[id]
}

// SectionVisibility returns the visibility of every section for tier. It
// depends only on the tier, never on what the report contains. An invalid
// tier locks everything except the always-visible sections.
func SectionVisibility(_ *model.VehicleReport, tier model.Tier) map[SectionID]Visibility {
	out := make(map[SectionID]Visibility, len(requiredTier))
	for id, min := range requiredTier {
		if min == model.TierBasic || tier.AtLeast(min) {
			out[id] = Visible
		} else {
			out[id] = Locked
		}
	}
	return out
}

// TargetUpgradeTier returns the next tier up, or false at the top.
func TargetUpgradeTier(current model.Tier) (model.Tier, bool) {
	switch current {
	case model.TierBasic:
		return model.TierSilver, true
	case model.TierSilver:
		return model.TierGold, true
	default:
		return "", false
	}
}
