package core

import (
	"context"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/pkg/vrm"
)

// DataSource produces a unified report for one registration.
// Implemented by the live government source and the fixture source.
type DataSource interface {
	// Name identifies the source in logs, metrics and events.
	Name() model.Source

	// Fetch returns the report, or model.ErrVehicleNotFound (possibly wrapped)
	// or a *model.ResolutionError.
	Fetch(ctx context.Context, registration vrm.VRM, tier model.Tier) (*model.VehicleReport, error)
}
