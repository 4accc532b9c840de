// Package source adapts the government client and the fixture store to core.DataSource.
package source

import (
	"context"
	"errors"

	"github.com/autopeer-io/platecheck/internal/platecheck/core"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/internal/platecheck/dvla"
	"github.com/autopeer-io/platecheck/internal/platecheck/mapper"
	"github.com/autopeer-io/platecheck/pkg/log"
	"github.com/autopeer-io/platecheck/pkg/vrm"
)

// Fetcher is satisfied by *dvla.Client.
type Fetcher interface {
	Fetch(ctx context.Context, registration vrm.VRM) (*dvla.Vehicle, error)
}

// LiveGovernmentSource serves reports from the government enquiry API.
type LiveGovernmentSource struct {
	client Fetcher
	mapper *mapper.Mapper
}

var _ core.DataSource = (*LiveGovernmentSource)(nil)

func NewLiveGovernmentSource(client Fetcher, m *mapper.Mapper) *LiveGovernmentSource {
	return &LiveGovernmentSource{client: client, mapper: m}
}

func (s *LiveGovernmentSource) Name() model.Source { return model.SourceGovernment }

// Fetch ignores tier: the government record is the same for everyone.
func (s *LiveGovernmentSource) Fetch(ctx context.Context, registration vrm.VRM, _ model.Tier) (*model.VehicleReport, error) {
	payload, err := s.client.Fetch(ctx, registration)
	if err != nil {
		return nil, translate(err)
	}

	report := s.mapper.FromGovernmentPayload(payload)
	if report.Registration != registration {
		log.Warn("Government payload registration differs from the query",
			"query", registration, "payload", payload.RegistrationNumber)
	}
	// A report always names the vehicle that was asked for.
	report.Registration = registration
	return report, nil
}

var kinds = map[dvla.ErrorKind]model.ErrorKind{
	dvla.KindNotFound:           model.KindNotFound,
	dvla.KindInvalidRequest:     model.KindInvalidRequest,
	dvla.KindServiceUnavailable: model.KindServiceUnavailable,
	dvla.KindNetworkFailure:     model.KindNetworkFailure,
	dvla.KindUnknown:            model.KindUnknownAPI,
}

// translate maps client errors onto resolution errors one kind to one kind.
func translate(err error) error {
	var apiErr *dvla.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	kind, ok := kinds[apiErr.Kind]
	if !ok {
		kind = model.KindUnknownAPI
	}
	if kind == model.KindNotFound {
		return model.NewNotFound(err)
	}
	return &model.ResolutionError{
		Kind:       kind,
		StatusCode: apiErr.StatusCode,
		Message:    apiErr.Message,
		Err:        err,
	}
}
