// Package fixture serves canned silver and gold reports for the demo vehicle.
package fixture

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/pkg/vrm"
)

//go:embed data/wa67ysb.json
var demoReport []byte

// DemoRegistration is the registration of the built-in demo report.
const DemoRegistration vrm.VRM = "WA67YSB"

// ErrTierNotServed is returned for the basic tier, which is always served live.
var ErrTierNotServed = errors.New("fixture store does not serve the basic tier")

// Store holds one gold report and its silver projection.
type Store struct {
	registration vrm.VRM
	gold         *model.VehicleReport
	silver       *model.VehicleReport
	clock        clock.PassiveClock
}

// New loads the built-in demo report.
func New(clk clock.PassiveClock) (*Store, error) {
	return Load(demoReport, clk)
}

// NewFromFile loads a gold report from path.
func NewFromFile(path string, clk clock.PassiveClock) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Load(data, clk)
}

// Load parses a gold report. Keeper durations and vehicle age are computed
// once, at load time.
func Load(data []byte, clk clock.PassiveClock) (*Store, error) {
	if clk == nil {
		clk = clock.RealClock{}
	}

	var gold model.VehicleReport
	if err := json.Unmarshal(data, &gold); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	registration, err := vrm.Normalize(gold.Registration.String())
	if err != nil {
		return nil, fmt.Errorf("fixture registration: %w", err)
	}
	if gold.Identity.Make == "" {
		return nil, fmt.Errorf("fixture %s has no identity", registration)
	}

	now := clk.Now()
	gold.Registration = registration
	gold.Source = model.SourceFixture

	if year, ok := gold.Identity.ManufactureYear.Get(); ok {
		gold.Identity.VehicleAge = model.Present(max(now.Year()-year, 0))
	}
	if tests, ok := gold.MotHistory.Get(); ok {
		slices.SortStableFunc(tests, func(a, b model.MotTest) int {
			return b.TestDate.Compare(a.TestDate.Time)
		})
	}
	if keepers, ok := gold.KeeperHistory.Get(); ok {
		slices.SortFunc(keepers, func(a, b model.KeeperPeriod) int { return a.Sequence - b.Sequence })
		model.ComputeKeeperDurations(keepers, now)
	}

	return &Store{
		registration: registration,
		gold:         &gold,
		silver:       project(&gold),
		clock:        clk,
	}, nil
}

// project derives the silver report: identical to gold with keeper history
// and valuation explicitly Absent.
func project(gold *model.VehicleReport) *model.VehicleReport {
	silver := gold.Clone()
	silver.KeeperHistory = model.Absent[[]model.KeeperPeriod]()
	silver.Valuation = model.Absent[model.Valuation]()
	return silver
}

// Registration returns the one registration this store knows.
func (s *Store) Registration() vrm.VRM {
	return s.registration
}

// Get returns a fresh copy of the report for tier. Basic is never served and
// any registration other than the demo one is a miss.
func (s *Store) Get(registration vrm.VRM, tier model.Tier) (*model.VehicleReport, error) {
	var src *model.VehicleReport
	switch tier {
	case model.TierSilver:
		src = s.silver
	case model.TierGold:
		src = s.gold
	case model.TierBasic:
		return nil, ErrTierNotServed
	default:
		return nil, &model.InvalidTierError{Value: string(tier)}
	}

	if registration != s.registration {
		return nil, fmt.Errorf("fixture %s: %w", registration, model.ErrVehicleNotFound)
	}

	report := src.Clone()
	report.GeneratedAt = s.clock.Now()
	return report, nil
}
