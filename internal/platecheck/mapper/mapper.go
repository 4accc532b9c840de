// Package mapper converts source payloads into the unified VehicleReport.
package mapper

import (
	"strings"
	"time"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/internal/platecheck/dvla"
	"github.com/autopeer-io/platecheck/pkg/log"
	"github.com/autopeer-io/platecheck/pkg/vrm"
)

// DueSoonDays is the window in which an MOT or tax due date is flagged as due soon.
const DueSoonDays = 30

// co2Bands are the upper bounds (g/km, inclusive) of bands A to L. Anything
// above the last bound is band M.
var co2Bands = []struct {
	max  int
	band string
}{
	{0, "A"}, {50, "B"}, {75, "C"}, {90, "D"}, {100, "E"}, {110, "F"},
	{130, "G"}, {150, "H"}, {170, "I"}, {190, "J"}, {225, "K"}, {255, "L"},
}

// CO2Band classifies emissions into the fixed A-M band table.
func CO2Band(gPerKm int) string {
	for _, b := range co2Bands {
		if gPerKm <= b.max {
			return b.band
		}
	}
	return "M"
}

// Mapper builds reports. Time-derived fields (age, due-soon flags) are
// computed once, when the report is built.
type Mapper struct {
	clock clock.PassiveClock
}

func New(c clock.PassiveClock) *Mapper {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Mapper{clock: c}
}

// FromGovernmentPayload maps the limited government record. motHistory,
// keeperHistory and valuation are always Absent; environmental is Absent
// when the payload has no CO2 figure.
func (m *Mapper) FromGovernmentPayload(p *dvla.Vehicle) *model.VehicleReport {
	now := m.clock.Now()

	// The source overwrites this with the queried mark; it is kept here so
	// the mapper stays usable on its own.
	registration, err := vrm.Normalize(p.RegistrationNumber)
	if err != nil {
		log.Debug("Government payload carries no usable registration", "value", p.RegistrationNumber, "error", err)
		registration = ""
	}

	report := &model.VehicleReport{
		Registration: registration,
		Source:       model.SourceGovernment,
		GeneratedAt:  now,
		Identity: model.Identity{
			Make:             p.Make,
			Colour:           p.Colour,
			FuelType:         p.FuelType,
			RegistrationDate: optionalDate(p.MonthOfFirstRegistration),
		},
		MotAndTax: model.MotAndTax{
			MotStatus:       p.MotStatus,
			MotDueDate:      optionalDate(p.MotExpiryDate),
			TaxStatus:       p.TaxStatus,
			TaxDueDate:      optionalDate(p.TaxDueDate),
			SORN:            strings.EqualFold(strings.TrimSpace(p.TaxStatus), "SORN"),
			MarkedForExport: p.MarkedForExport,
		},
		MotHistory:    model.Absent[[]model.MotTest](),
		KeeperHistory: model.Absent[[]model.KeeperPeriod](),
		Valuation:     model.Absent[model.Valuation](),
	}

	report.MotAndTax.MotDueSoon = dueSoon(report.MotAndTax.MotDueDate, now)
	report.MotAndTax.TaxDueSoon = dueSoon(report.MotAndTax.TaxDueDate, now)

	if p.YearOfManufacture != nil {
		year := *p.YearOfManufacture
		report.Identity.ManufactureYear = model.Present(year)
		report.Identity.VehicleAge = model.Present(max(now.Year()-year, 0))
	}

	if p.Co2Emissions != nil {
		co2 := *p.Co2Emissions
		report.Environmental = model.Present(model.Environmental{
			CO2Emissions: co2,
			CO2Band:      CO2Band(co2),
			EuroStatus:   p.EuroStatus,
			FuelEconomy:  model.Absent[model.FuelEconomy](),
		})
	}

	specs := model.ExtendedSpecs{
		Detailed:         false,
		EngineCapacityCC: optionalInt(p.EngineCapacity),
		RevenueWeightKG:  optionalInt(p.RevenueWeight),
		Wheelplan:        p.Wheelplan,
		TypeApproval:     p.TypeApproval,
		LastV5CIssued:    optionalDate(p.DateOfLastV5CIssued),
	}
	if specs.EngineCapacityCC.IsPresent() || specs.RevenueWeightKG.IsPresent() ||
		specs.Wheelplan != "" || specs.TypeApproval != "" || specs.LastV5CIssued.IsPresent() {
		report.ExtendedSpecs = model.Present(specs)
	}

	return report
}

// Identity is the adapter for fixture data, which is already in report shape.
func Identity(r *model.VehicleReport) *model.VehicleReport {
	return r
}

func optionalDate(s string) model.Optional[model.Date] {
	if strings.TrimSpace(s) == "" {
		return model.Absent[model.Date]()
	}
	d, err := model.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return model.Absent[model.Date]()
	}
	return model.Present(d)
}

func optionalInt(v *int) model.Optional[int] {
	if v == nil {
		return model.Absent[int]()
	}
	return model.Present(*v)
}

func dueSoon(due model.Optional[model.Date], now time.Time) bool {
	d, ok := due.Get()
	if !ok {
		return false
	}
	days := d.DaysUntil(now)
	return days >= 0 && days <= DueSoonDays
}
