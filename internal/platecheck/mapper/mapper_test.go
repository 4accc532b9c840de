package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
	"k8s.io/utils/ptr"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/internal/platecheck/dvla"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func payload() *dvla.Vehicle {
	return &dvla.Vehicle{
		RegistrationNumber:       "AB12 CDE",
		TaxStatus:                "Taxed",
		TaxDueDate:               "2026-11-01",
		MotStatus:                "Valid",
		MotExpiryDate:            "2027-03-20",
		Make:                     "FORD",
		YearOfManufacture:        ptr.To(2012),
		EngineCapacity:           ptr.To(1596),
		Co2Emissions:             ptr.To(139),
		FuelType:                 "PETROL",
		Colour:                   "SILVER",
		TypeApproval:             "M1",
		DateOfLastV5CIssued:      "2021-06-30",
		Wheelplan:                "2 AXLE RIGID BODY",
		MonthOfFirstRegistration: "2012-03",
		EuroStatus:               "EURO 5",
	}
}

func newMapper() *Mapper {
	return New(clocktesting.NewFakePassiveClock(fixedNow))
}

func TestCO2Band(t *testing.T) {
	tests := []struct {
		g    int
		want string
	}{
		{-5, "A"}, {0, "A"}, {1, "B"}, {50, "B"}, {51, "C"}, {75, "C"}, {76, "D"},
		{90, "D"}, {91, "E"}, {100, "E"}, {101, "F"}, {110, "F"}, {111, "G"},
		{130, "G"}, {131, "H"}, {150, "H"}, {151, "I"}, {170, "I"}, {171, "J"},
		{190, "J"}, {191, "K"}, {225, "K"}, {226, "L"}, {255, "L"}, {256, "M"}, {400, "M"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CO2Band(tt.g), "co2=%d", tt.g)
	}
}

func TestFromGovernmentPayload(t *testing.T) {
	r := newMapper().FromGovernmentPayload(payload())

	assert.Equal(t, "AB12CDE", r.Registration.String())
	assert.Equal(t, model.SourceGovernment, r.Source)
	assert.Equal(t, fixedNow, r.GeneratedAt)

	assert.Equal(t, "FORD", r.Identity.Make)
	assert.Equal(t, "SILVER", r.Identity.Colour)
	assert.Equal(t, "PETROL", r.Identity.FuelType)
	assert.Equal(t, 2012, r.Identity.ManufactureYear.OrElse(-1))
	assert.Equal(t, 14, r.Identity.VehicleAge.OrElse(-1))
	regDate, ok := r.Identity.RegistrationDate.Get()
	require.True(t, ok)
	assert.Equal(t, "2012-03-01", regDate.String())

	assert.Equal(t, "Valid", r.MotAndTax.MotStatus)
	assert.False(t, r.MotAndTax.MotDueSoon)
	assert.True(t, r.MotAndTax.TaxDueSoon, "tax due in 16 days")
	assert.False(t, r.MotAndTax.SORN)

	env, ok := r.Environmental.Get()
	require.True(t, ok)
	assert.Equal(t, 139, env.CO2Emissions)
	assert.Equal(t, "H", env.CO2Band)
	assert.Equal(t, "EURO 5", env.EuroStatus)
	assert.False(t, env.FuelEconomy.IsPresent())

	specs, ok := r.ExtendedSpecs.Get()
	require.True(t, ok)
	assert.False(t, specs.Detailed)
	assert.Equal(t, 1596, specs.EngineCapacityCC.OrElse(0))
	assert.False(t, specs.RevenueWeightKG.IsPresent())

	assert.False(t, r.MotHistory.IsPresent())
	assert.False(t, r.KeeperHistory.IsPresent())
	assert.False(t, r.Valuation.IsPresent())
}

func TestCO2BoundariesThroughMapper(t *testing.T) {
	tests := []struct {
		name     string
		co2      *int
		wantBand string
		present  bool
	}{
		{"100 is E", ptr.To(100), "E", true},
		{"101 is F", ptr.To(101), "F", true},
		{"zero emission is A", ptr.To(0), "A", true},
		{"missing is absent", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := payload()
			p.Co2Emissions = tt.co2

			env, ok := newMapper().FromGovernmentPayload(p).Environmental.Get()
			require.Equal(t, tt.present, ok)
			if tt.present {
				assert.Equal(t, tt.wantBand, env.CO2Band)
				assert.Equal(t, *tt.co2, env.CO2Emissions)
			}
		})
	}
}

func TestFromGovernmentPayloadSparse(t *testing.T) {
	r := newMapper().FromGovernmentPayload(&dvla.Vehicle{
		RegistrationNumber: "ZZ99ZZZ",
		TaxStatus:          "SORN",
		MotExpiryDate:      "not-a-date",
	})

	assert.True(t, r.MotAndTax.SORN)
	assert.False(t, r.MotAndTax.MotDueDate.IsPresent())
	assert.False(t, r.Identity.ManufactureYear.IsPresent())
	assert.False(t, r.Identity.VehicleAge.IsPresent())
	assert.False(t, r.Environmental.IsPresent())
	assert.False(t, r.ExtendedSpecs.IsPresent())
}

func TestAgeNeverNegative(t *testing.T) {
	p := payload()
	p.YearOfManufacture = ptr.To(fixedNow.Year() + 1)

	assert.Equal(t, 0, newMapper().FromGovernmentPayload(p).Identity.VehicleAge.OrElse(-1))
}

func TestAgeIsFixedAtMappingTime(t *testing.T) {
	clk := clocktesting.NewFakeClock(fixedNow)
	m := New(clk)

	r := m.FromGovernmentPayload(payload())
	clk.Step(2 * 365 * 24 * time.Hour)

	assert.Equal(t, 14, r.Identity.VehicleAge.OrElse(-1))
	assert.Equal(t, 16, m.FromGovernmentPayload(payload()).Identity.VehicleAge.OrElse(-1))
}

func TestIdentity(t *testing.T) {
	r := &model.VehicleReport{Registration: "WA67YSB"}
	assert.Same(t, r, Identity(r))
}

func TestUnusableRegistrationIsLeftEmpty(t *testing.T) {
	for _, reg := range []string{"", "!!", "ABCDEFGH"} {
		p := payload()
		p.RegistrationNumber = reg

		assert.Empty(t, newMapper().FromGovernmentPayload(p).Registration, "payload registration %q", reg)
	}
}
