package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/autopeer-io/platecheck/pkg/vrm"
)

// Source identifies where a report's data came from.
type Source string

const (
	SourceGovernment Source = "government"
	SourceFixture    Source = "fixture"
)

// VehicleReport is the unified report shape every consumer reads.
// Identity and MotAndTax are always populated; every other section is
// Absent when the source does not provide it.
type VehicleReport struct {
	Registration vrm.VRM   `json:"registration"`
	Source       Source    `json:"source"`
	GeneratedAt  time.Time `json:"generatedAt"`

	Identity  Identity  `json:"identity"`
	MotAndTax MotAndTax `json:"motAndTax"`

	MotHistory    Optional[[]MotTest]      `json:"motHistory"`
	Environmental Optional[Environmental]  `json:"environmental"`
	ExtendedSpecs Optional[ExtendedSpecs]  `json:"extendedSpecs"`
	KeeperHistory Optional[[]KeeperPeriod] `json:"keeperHistory"`
	Valuation     Optional[Valuation]      `json:"valuation"`
}

type Identity struct {
	Make             string         `json:"make"`
	Model            string         `json:"model,omitempty"`
	Colour           string         `json:"colour"`
	BodyType         string         `json:"bodyType,omitempty"`
	FuelType         string         `json:"fuelType"`
	VIN              string         `json:"vin,omitempty"`
	RegistrationDate Optional[Date] `json:"registrationDate"`
	ManufactureYear  Optional[int]  `json:"manufactureYear"`
	// VehicleAge is in whole years, derived when the report is built.
	VehicleAge Optional[int] `json:"vehicleAge"`
}

type MotAndTax struct {
	MotStatus       string         `json:"motStatus"`
	MotDueDate      Optional[Date] `json:"motDueDate"`
	MotDueSoon      bool           `json:"motDueSoon"`
	TaxStatus       string         `json:"taxStatus"`
	TaxDueDate      Optional[Date] `json:"taxDueDate"`
	TaxDueSoon      bool           `json:"taxDueSoon"`
	SORN            bool           `json:"sorn"`
	MarkedForExport bool           `json:"markedForExport"`
}

type MotResult string

const (
	MotPassed MotResult = "PASSED"
	MotFailed MotResult = "FAILED"
)

type MotTest struct {
	TestDate      Date           `json:"testDate"`
	Result        MotResult      `json:"result"`
	OdometerMiles Optional[int]  `json:"odometerMiles"`
	ExpiryDate    Optional[Date] `json:"expiryDate"`
	Advisories    []string       `json:"advisories"`
	Failures      []string       `json:"failures"`
	Dangerous     bool           `json:"dangerous"`
}

type Environmental struct {
	// CO2Emissions is in g/km. Zero is a real reading (electric vehicles).
	CO2Emissions int                   `json:"co2Emissions"`
	CO2Band      string                `json:"co2Band"`
	EuroStatus   string                `json:"euroStatus,omitempty"`
	FuelEconomy  Optional[FuelEconomy] `json:"fuelEconomy"`
}

type FuelEconomy struct {
	UrbanMPG       float64         `json:"urbanMpg"`
	ExtraUrbanMPG  float64         `json:"extraUrbanMpg"`
	CombinedMPG    float64         `json:"combinedMpg"`
	AnnualFuelCost decimal.Decimal `json:"annualFuelCost"`
}

// ExtendedSpecs holds engine, transmission, dimension and weight attributes.
// Detailed is false when only the government summary fields are known.
type ExtendedSpecs struct {
	Detailed           bool              `json:"detailed"`
	EngineCapacityCC   Optional[int]     `json:"engineCapacityCc"`
	Transmission       string            `json:"transmission,omitempty"`
	Gears              Optional[int]     `json:"gears"`
	Doors              Optional[int]     `json:"doors"`
	Seats              Optional[int]     `json:"seats"`
	PowerBHP           Optional[int]     `json:"powerBhp"`
	TopSpeedMPH        Optional[int]     `json:"topSpeedMph"`
	ZeroToSixtySeconds Optional[float64] `json:"zeroToSixtySeconds"`
	LengthMM           Optional[int]     `json:"lengthMm"`
	WidthMM            Optional[int]     `json:"widthMm"`
	HeightMM           Optional[int]     `json:"heightMm"`
	KerbWeightKG       Optional[int]     `json:"kerbWeightKg"`
	RevenueWeightKG    Optional[int]     `json:"revenueWeightKg"`
	Wheelplan          string            `json:"wheelplan,omitempty"`
	TypeApproval       string            `json:"typeApproval,omitempty"`
	LastV5CIssued      Optional[Date]    `json:"lastV5cIssued"`
}

// Summary returns the subset of s that the government record also provides.
func (s ExtendedSpecs) Summary() ExtendedSpecs {
	return ExtendedSpecs{
		EngineCapacityCC: s.EngineCapacityCC,
		RevenueWeightKG:  s.RevenueWeightKG,
		Wheelplan:        s.Wheelplan,
		TypeApproval:     s.TypeApproval,
		LastV5CIssued:    s.LastV5CIssued,
	}
}

// KeeperPeriod is one registered keeper. Disposed is Absent for the current keeper.
type KeeperPeriod struct {
	Sequence       int            `json:"sequence"`
	Acquired       Date           `json:"acquired"`
	Disposed       Optional[Date] `json:"disposed"`
	DurationMonths int            `json:"durationMonths"`
}

type Valuation struct {
	Currency  string          `json:"currency"`
	Trade     decimal.Decimal `json:"trade"`
	Private   decimal.Decimal `json:"private"`
	Retail    decimal.Decimal `json:"retail"`
	Mileage   int             `json:"mileage"`
	PlateYear string          `json:"plateYear"`
	ValuedAt  Date            `json:"valuedAt"`
}

// Clone returns a deep copy of r.
func (r *VehicleReport) Clone() *VehicleReport {
	if r == nil {
		return nil
	}
	out := *r

	if tests, ok := r.MotHistory.Get(); ok {
		cp := make([]MotTest, len(tests))
		for i, t := range tests {
			t.Advisories = slices.Clone(t.Advisories)
			t.Failures = slices.Clone(t.Failures)
			cp[i] = t
		}
		out.MotHistory = Present(cp)
	}
	if keepers, ok := r.KeeperHistory.Get(); ok {
		out.KeeperHistory = Present(slices.Clone(keepers))
	}
	return &out
}

// ComputeKeeperDurations fills DurationMonths for every period, measuring the
// current keeper up to asOf.
func ComputeKeeperDurations(periods []KeeperPeriod, asOf time.Time) {
	for i := range periods {
		end := periods[i].Disposed.OrElse(NewDate(asOf))
		periods[i].DurationMonths = MonthsBetween(periods[i].Acquired, end)
	}
}
