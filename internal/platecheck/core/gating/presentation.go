package gating

import (
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
)

// Presentation is the only form in which a report leaves the service.
type Presentation struct {
	Tier       model.Tier                 `json:"tier"`
	Report     *model.VehicleReport       `json:"report"`
	Visibility map[SectionID]Visibility   `json:"visibility"`
	Upgrade    model.Optional[model.Tier] `json:"upgradeTier"`
}

// Present returns a copy of report with every locked section replaced by
// Absent. The input report is not modified.
//
// Locked extendedSpecsDetailed keeps the summary specs and only drops the
// detailed form.
func Present(report *model.VehicleReport, tier model.Tier) *Presentation {
	visibility := SectionVisibility(report, tier)

	redacted := report.Clone()
	if visibility[SectionMotHistory] == Locked {
		redacted.MotHistory = model.Absent[[]model.MotTest]()
	}
	if visibility[SectionEnvironmental] == Locked {
		redacted.Environmental = model.Absent[model.Environmental]()
	}
	if visibility[SectionExtendedSpecsDetailed] == Locked {
		if specs, ok := redacted.ExtendedSpecs.Get(); ok && specs.Detailed {
			redacted.ExtendedSpecs = model.Present(specs.Summary())
		}
	}
	if visibility[SectionKeeperHistory] == Locked {
		redacted.KeeperHistory = model.Absent[[]model.KeeperPeriod]()
	}
	if visibility[SectionValuation] == Locked {
		redacted.Valuation = model.Absent[model.Valuation]()
	}

	p := &Presentation{
		Tier:       tier,
		Report:     redacted,
		Visibility: visibility,
	}
	if next, ok := TargetUpgradeTier(tier); ok {
		p.Upgrade = model.Present(next)
	}
	return p
}
