package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/autopeer-io/platecheck/internal/platecheck/core/gating"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/internal/platecheck/dvla"
	"github.com/autopeer-io/platecheck/internal/platecheck/fixture"
	"github.com/autopeer-io/platecheck/internal/platecheck/mapper"
	"github.com/autopeer-io/platecheck/internal/platecheck/source"
	"github.com/autopeer-io/platecheck/pkg/options"
	"github.com/autopeer-io/platecheck/pkg/vrm"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type stubSource struct {
	name  model.Source
	calls atomic.Int32
	fetch func(ctx context.Context, registration vrm.VRM, tier model.Tier) (*model.VehicleReport, error)
}

func (s *stubSource) Name() model.Source { return s.name }

func (s *stubSource) Fetch(ctx context.Context, registration vrm.VRM, tier model.Tier) (*model.VehicleReport, error) {
	s.calls.Add(1)
	return s.fetch(ctx, registration, tier)
}

type recordingNotifier struct {
	mu      sync.Mutex
	lookups []*model.LookupEvent
	changes []*model.TierChange
}

func (n *recordingNotifier) NotifyLookup(_ context.Context, e *model.LookupEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lookups = append(n.lookups, e)
	return nil
}

func (n *recordingNotifier) NotifyTierChange(_ context.Context, c *model.TierChange) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
	return nil
}

func (n *recordingNotifier) events() []*model.LookupEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*model.LookupEvent(nil), n.lookups...)
}

// newGovernment starts a fake enquiry API answering with status and body.
func newGovernment(t *testing.T, status int, body string) (*source.LiveGovernmentSource, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	opts := options.NewDvlaOptions()
	opts.Endpoint = srv.URL
	clk := clocktesting.NewFakePassiveClock(now)
	return source.NewLiveGovernmentSource(dvla.NewClient(opts), mapper.New(clk)), &calls
}

func newFixtures(t *testing.T) *source.FixtureSource {
	t.Helper()
	store, err := fixture.New(clocktesting.NewFakePassiveClock(now))
	require.NoError(t, err)
	return source.NewFixtureSource(store)
}

func newService(t *testing.T, live *source.LiveGovernmentSource, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithClock(clocktesting.NewFakePassiveClock(now))}, opts...)
	return New(live, newFixtures(t), opts...)
}

const governmentNotFound = `{"errors":[{"status":"404","code":"404","title":"Vehicle Not Found","detail":"Record for vehicle not found"}]}`

func TestResolveGoldEndToEnd(t *testing.T) {
	live, calls := newGovernment(t, http.StatusNotFound, governmentNotFound)
	svc := newService(t, live)

	report, err := svc.Resolve(context.Background(), "wa67ysb", model.TierGold)
	require.NoError(t, err)
	assert.Zero(t, calls.Load(), "gold never calls the government API")

	assert.EqualValues(t, "WA67YSB", report.Registration)
	keepers, ok := report.KeeperHistory.Get()
	require.True(t, ok)
	assert.Len(t, keepers, 2)
	valuation, ok := report.Valuation.Get()
	require.True(t, ok)
	assert.True(t, valuation.Retail.IsPositive())

	for id, v := range gating.SectionVisibility(report, model.TierGold) {
		assert.Equal(t, gating.Visible, v, "section %s", id)
	}
}

func TestResolveBasicReportNamesQueriedVehicle(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no registration in payload", `{"make":"FORD","colour":"RED"}`},
		{"other vehicle in payload", `{"registrationNumber":"XX11XXX","make":"FORD","colour":"RED"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live, calls := newGovernment(t, http.StatusOK, tt.body)
			svc := newService(t, live)

			report, err := svc.Resolve(context.Background(), "ab12 cde", model.TierBasic)
			require.NoError(t, err)
			assert.EqualValues(t, 1, calls.Load())
			assert.EqualValues(t, "AB12CDE", report.Registration)
			assert.Equal(t, model.SourceGovernment, report.Source)
		})
	}
}

func TestResolveSilverFixtureIsConsistentWithGating(t *testing.T) {
	live, _ := newGovernment(t, http.StatusNotFound, governmentNotFound)
	svc := newService(t, live)

	report, err := svc.Resolve(context.Background(), "WA67 YSB", model.TierSilver)
	require.NoError(t, err)

	visibility := gating.SectionVisibility(report, model.TierSilver)
	assert.Equal(t, gating.Locked, visibility[gating.SectionKeeperHistory])
	assert.Equal(t, gating.Locked, visibility[gating.SectionValuation])
	assert.False(t, report.KeeperHistory.IsPresent())
	assert.False(t, report.Valuation.IsPresent())
}

func TestUniformNotFound(t *testing.T) {
	live, calls := newGovernment(t, http.StatusNotFound, governmentNotFound)
	svc := newService(t, live)

	fixtureReport, fixtureErr := svc.Resolve(context.Background(), "AB12CDE", model.TierSilver)
	liveReport, liveErr := svc.Resolve(context.Background(), "ZZ99ZZZ", model.TierBasic)

	assert.Nil(t, fixtureReport)
	assert.Nil(t, liveReport)
	assert.EqualValues(t, 1, calls.Load())

	var fromFixture, fromLive *model.ResolutionError
	require.True(t, errors.As(fixtureErr, &fromFixture))
	require.True(t, errors.As(liveErr, &fromLive))

	assert.Equal(t, model.KindNotFound, fromFixture.Kind)
	assert.Equal(t, fromFixture.Kind, fromLive.Kind)
	assert.Equal(t, fromFixture.Message, fromLive.Message)
	assert.Equal(t, fromFixture.StatusCode, fromLive.StatusCode)
	assert.Equal(t, fromFixture.Error(), fromLive.Error())
	assert.Equal(t, model.NotFoundMessage, fromLive.Message)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		input     string
		tier      model.Tier
		wantKind  model.ErrorKind
		wantCalls int32
	}{
		{"invalid registration", http.StatusOK, `{}`, "AB", model.TierBasic, model.KindInvalidRegistration, 0},
		{"too long", http.StatusOK, `{}`, "1234567890", model.TierGold, model.KindInvalidRegistration, 0},
		{"invalid tier", http.StatusOK, `{}`, "AB12CDE", model.Tier("diamond"), model.KindInvalidTier, 0},
		{"outage", http.StatusServiceUnavailable, ``, "AB12CDE", model.TierBasic, model.KindServiceUnavailable, 1},
		{"bad request", http.StatusBadRequest, `{"success":false,"error":"bad","statusCode":400}`, "AB12CDE", model.TierBasic, model.KindInvalidRequest, 1},
		{"unknown", http.StatusTeapot, ``, "AB12CDE", model.TierBasic, model.KindUnknownAPI, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live, calls := newGovernment(t, tt.status, tt.body)
			svc := newService(t, live)

			report, err := svc.Resolve(context.Background(), tt.input, tt.tier)
			assert.Nil(t, report)
			assert.Equal(t, tt.wantKind, model.KindOf(err))
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestUnknownKeepsRawStatus(t *testing.T) {
	live, _ := newGovernment(t, http.StatusTooManyRequests, `{"success":false,"error":"slow down","statusCode":429}`)
	svc := newService(t, live)

	_, err := svc.Resolve(context.Background(), "AB12CDE", model.TierBasic)
	var re *model.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, model.KindUnknownAPI, re.Kind)
	assert.Equal(t, http.StatusTooManyRequests, re.StatusCode)
}

func TestNarrow(t *testing.T) {
	tests := []struct {
		err  error
		want model.ErrorKind
	}{
		{model.ErrVehicleNotFound, model.KindNotFound},
		{context.DeadlineExceeded, model.KindServiceUnavailable},
		{context.Canceled, model.KindNetworkFailure},
		{errors.New("odd"), model.KindUnknownAPI},
		{&model.ResolutionError{Kind: model.KindNetworkFailure, Message: "x"}, model.KindNetworkFailure},
		{&model.ResolutionError{Kind: model.KindNotFound, Message: "fixture miss"}, model.KindNotFound},
	}

	for _, tt := range tests {
		got := narrow(tt.err)
		assert.Equal(t, tt.want, got.Kind, "%v", tt.err)
		if tt.want == model.KindNotFound {
			assert.Equal(t, model.NotFoundMessage, got.Message)
		}
	}
}

func TestLookupStateMachine(t *testing.T) {
	live, _ := newGovernment(t, http.StatusNotFound, governmentNotFound)
	svc := newService(t, live)

	ok := newLookup(svc, "WA67YSB", model.TierGold)
	_, err := ok.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateResolved, ok.Current())

	failed := newLookup(svc, "ZZ99ZZZ", model.TierBasic)
	_, err = failed.run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, failed.Current())

	invalid := newLookup(svc, "!!", model.TierBasic)
	_, err = invalid.run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, invalid.Current())
	assert.Empty(t, invalid.source, "no source consulted for invalid input")
}

func TestResolveLatestDropsSuperseded(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	var first atomic.Bool
	first.Store(true)
	live := &stubSource{
		name: model.SourceGovernment,
		fetch: func(_ context.Context, registration vrm.VRM, _ model.Tier) (*model.VehicleReport, error) {
			if first.CompareAndSwap(true, false) {
				close(entered)
				<-release
			}
			return &model.VehicleReport{Registration: registration, Source: model.SourceGovernment}, nil
		},
	}
	notifier := &recordingNotifier{}
	svc := New(live, newFixtures(t), WithNotifier(notifier), WithClock(clocktesting.NewFakePassiveClock(now)))

	type result struct {
		report *model.VehicleReport
		err    error
	}
	stale := make(chan result, 1)
	go func() {
		r, err := svc.ResolveLatest(context.Background(), "tab-1", "AB12CDE", model.TierBasic)
		stale <- result{r, err}
	}()

	<-entered
	fresh, err := svc.ResolveLatest(context.Background(), "tab-1", "CD34EFG", model.TierBasic)
	require.NoError(t, err)
	assert.EqualValues(t, "CD34EFG", fresh.Registration)

	close(release)
	got := <-stale
	assert.Nil(t, got.report)
	assert.ErrorIs(t, got.err, ErrSuperseded)
	assert.Zero(t, svc.sequencer.Len())

	events := notifier.events()
	require.Len(t, events, 2)
	assert.Equal(t, model.OutcomeResolved, events[0].Outcome)
	assert.Equal(t, model.OutcomeSuperseded, events[1].Outcome)
	assert.Equal(t, "AB12CDE", events[1].Registration)
}

func TestResolveLatestIndependentSessions(t *testing.T) {
	live, _ := newGovernment(t, http.StatusNotFound, governmentNotFound)
	svc := newService(t, live)

	_, err := svc.ResolveLatest(context.Background(), "a", "WA67YSB", model.TierGold)
	require.NoError(t, err)
	_, err = svc.ResolveLatest(context.Background(), "b", "WA67YSB", model.TierSilver)
	require.NoError(t, err)
}

func TestLookupEvents(t *testing.T) {
	live, _ := newGovernment(t, http.StatusNotFound, governmentNotFound)
	notifier := &recordingNotifier{}
	svc := newService(t, live, WithNotifier(notifier))

	_, _ = svc.Resolve(context.Background(), "WA67YSB", model.TierGold)
	_, _ = svc.Resolve(context.Background(), "ZZ99ZZZ", model.TierBasic)
	_, _ = svc.Resolve(context.Background(), "??", model.TierBasic)

	events := notifier.events()
	require.Len(t, events, 2, "invalid input emits no event")

	assert.Equal(t, model.OutcomeResolved, events[0].Outcome)
	assert.Equal(t, model.SourceFixture, events[0].Source)
	assert.Empty(t, events[0].ErrorKind)
	assert.NotEmpty(t, events[0].ID)
	assert.Equal(t, now, events[0].At)

	assert.Equal(t, model.OutcomeFailed, events[1].Outcome)
	assert.Equal(t, model.SourceGovernment, events[1].Source)
	assert.Equal(t, model.KindNotFound, events[1].ErrorKind)
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestNotifyTierChange(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := New(nil, nil, WithNotifier(notifier), WithClock(clocktesting.NewFakePassiveClock(now)))

	svc.NotifyTierChange(context.Background(), model.TierSilver, model.TierGold)
	require.Len(t, notifier.changes, 1)
	assert.Equal(t, model.TierChange{Previous: model.TierSilver, Current: model.TierGold, At: now}, *notifier.changes[0])

	New(nil, nil).NotifyTierChange(context.Background(), model.TierSilver, model.TierGold)
}

func TestLookupPresents(t *testing.T) {
	live, _ := newGovernment(t, http.StatusNotFound, governmentNotFound)
	svc := newService(t, live)

	p, err := svc.Lookup(context.Background(), "", "WA67YSB", model.TierSilver)
	require.NoError(t, err)
	assert.Equal(t, model.TierSilver, p.Tier)
	assert.Equal(t, gating.Locked, p.Visibility[gating.SectionValuation])
	assert.Equal(t, model.TierGold, p.Upgrade.OrElse(""))

	_, err = svc.Lookup(context.Background(), "tab", "ZZ99ZZZ", model.TierGold)
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
}
