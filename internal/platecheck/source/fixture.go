package source

import (
	"context"

	"github.com/autopeer-io/platecheck/internal/platecheck/core"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/internal/platecheck/fixture"
	"github.com/autopeer-io/platecheck/internal/platecheck/mapper"
	"github.com/autopeer-io/platecheck/pkg/vrm"
)

// FixtureSource serves the canned silver and gold reports.
type FixtureSource struct {
	store *fixture.Store
}

var _ core.DataSource = (*FixtureSource)(nil)

func NewFixtureSource(store *fixture.Store) *FixtureSource {
	return &FixtureSource{store: store}
}

func (s *FixtureSource) Name() model.Source { return model.SourceFixture }

func (s *FixtureSource) Fetch(_ context.Context, registration vrm.VRM, tier model.Tier) (*model.VehicleReport, error) {
	report, err := s.store.Get(registration, tier)
	if err != nil {
		return nil, err
	}
	return mapper.Identity(report), nil
}
