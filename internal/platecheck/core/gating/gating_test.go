package gating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/internal/platecheck/fixture"
)

func TestSectionVisibility(t *testing.T) {
	tests := []struct {
		tier   model.Tier
		locked []SectionID
	}{
		{
			tier:   model.TierBasic,
			locked: []SectionID{SectionMotHistory, SectionEnvironmental, SectionExtendedSpecsDetailed, SectionKeeperHistory, SectionValuation},
		},
		{
			tier:   model.TierSilver,
			locked: []SectionID{SectionKeeperHistory, SectionValuation},
		},
		{
			tier:   model.TierGold,
			locked: nil,
		},
		{
			tier:   model.Tier("diamond"),
			locked: []SectionID{SectionMotHistory, SectionEnvironmental, SectionExtendedSpecsDetailed, SectionKeeperHistory, SectionValuation},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			got := SectionVisibility(nil, tt.tier)
			require.Len(t, got, len(Sections()))

			for _, id := range Sections() {
				want := Visible
				for _, l := range tt.locked {
					if l == id {
						want = Locked
					}
				}
				assert.Equal(t, want, got[id], "section %s", id)
			}
		})
	}
}

func TestSectionVisibilityIgnoresReportContent(t *testing.T) {
	full := goldReport(t)
	empty := &model.VehicleReport{}

	for _, tier := range model.Tiers() {
		assert.Equal(t, SectionVisibility(empty, tier), SectionVisibility(full, tier))
		assert.Equal(t, SectionVisibility(full, tier), SectionVisibility(full, tier))
	}
}

func TestTargetUpgradeTier(t *testing.T) {
	next, ok := TargetUpgradeTier(model.TierBasic)
	assert.True(t, ok)
	assert.Equal(t, model.TierSilver, next)

	next, ok = TargetUpgradeTier(model.TierSilver)
	assert.True(t, ok)
	assert.Equal(t, model.TierGold, next)

	_, ok = TargetUpgradeTier(model.TierGold)
	assert.False(t, ok)
}

func TestPresentRedactsLockedSections(t *testing.T) {
	gold := goldReport(t)

	p := Present(gold, model.TierBasic)
	assert.False(t, p.Report.MotHistory.IsPresent())
	assert.False(t, p.Report.Environmental.IsPresent())
	assert.False(t, p.Report.KeeperHistory.IsPresent())
	assert.False(t, p.Report.Valuation.IsPresent())
	specs, ok := p.Report.ExtendedSpecs.Get()
	require.True(t, ok)
	assert.False(t, specs.Detailed)
	assert.False(t, specs.PowerBHP.IsPresent())
	assert.Equal(t, gold.Identity, p.Report.Identity)
	assert.Equal(t, model.TierSilver, p.Upgrade.OrElse(""))

	p = Present(gold, model.TierSilver)
	assert.True(t, p.Report.MotHistory.IsPresent())
	assert.False(t, p.Report.KeeperHistory.IsPresent())
	assert.False(t, p.Report.Valuation.IsPresent())
	assert.Equal(t, model.TierGold, p.Upgrade.OrElse(""))

	p = Present(gold, model.TierGold)
	assert.True(t, p.Report.KeeperHistory.IsPresent())
	assert.True(t, p.Report.Valuation.IsPresent())
	assert.False(t, p.Upgrade.IsPresent())

	assert.True(t, gold.Valuation.IsPresent(), "input report is not modified")
	assert.True(t, gold.KeeperHistory.IsPresent())
}

func TestPresentLockedNeverCarriesData(t *testing.T) {
	gold := goldReport(t)

	for _, tier := range model.Tiers() {
		p := Present(gold, tier)
		sections := map[SectionID]bool{
			SectionMotHistory:    p.Report.MotHistory.IsPresent(),
			SectionEnvironmental: p.Report.Environmental.IsPresent(),
			SectionKeeperHistory: p.Report.KeeperHistory.IsPresent(),
			SectionValuation:     p.Report.Valuation.IsPresent(),
		}
		for id, present := range sections {
			if p.Visibility[id] == Locked {
				assert.False(t, present, "%s locked at %s but populated", id, tier)
			}
		}
	}
}

func goldReport(t *testing.T) *model.VehicleReport {
	t.Helper()
	s, err := fixture.New(clocktesting.NewFakePassiveClock(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	r, err := s.Get(fixture.DemoRegistration, model.TierGold)
	require.NoError(t, err)
	return r
}
