package service

import (
	"context"
	"errors"
	"time"

	"github.com/looplab/fsm"

	fsmutil "github.com/autopeer-io/platecheck/internal/pkg/util/fsm"
	"github.com/autopeer-io/platecheck/internal/platecheck/core/model"
	"github.com/autopeer-io/platecheck/pkg/log"
	"github.com/autopeer-io/platecheck/pkg/vrm"
)

const (
	StateIdle      = "idle"
	StateResolving = "resolving"
	StateResolved  = "resolved"
	StateFailed    = "failed"
)

const (
	// EventResolve starts a lookup.
	EventResolve = "event_resolve"
	EventSucceed = "event_succeed"
	EventFail    = "event_fail"
)

// lookup is the state machine of a single resolution. It is never reused.
type lookup struct {
	*fsm.FSM

	svc   *Service
	input string
	tier  model.Tier
	start time.Time

	registration vrm.VRM
	source       model.Source
	report       *model.VehicleReport
	err          *model.ResolutionError
}

func newLookup(svc *Service, input string, tier model.Tier) *lookup {
	l := &lookup{svc: svc, input: input, tier: tier}

	events := fsm.Events{
		{Name: EventResolve, Src: []string{StateIdle}, Dst: StateResolving},
		{Name: EventSucceed, Src: []string{StateResolving}, Dst: StateResolved},
		{Name: EventFail, Src: []string{StateResolving}, Dst: StateFailed},
	}

	callbacks := fsm.Callbacks{
		"enter_" + StateResolving: fsmutil.WrapEvent(l.ActionEnterResolving),
		"enter_" + StateResolved:  fsmutil.WrapEvent(l.ActionEnterResolved),
		"enter_" + StateFailed:    fsmutil.WrapEvent(l.ActionEnterFailed),
	}

	l.FSM = fsm.NewFSM(StateIdle, events, callbacks)
	return l
}

// run drives the machine to a terminal state.
func (l *lookup) run(ctx context.Context) (*model.VehicleReport, error) {
	if err := l.Event(ctx, EventResolve); err != nil && l.err == nil {
		l.err = narrow(err)
	}

	if l.err != nil {
		if err := l.Event(ctx, EventFail, l.err); err != nil {
			log.FromContext(ctx).Error(err, "Lookup state machine rejected failure", "state", l.Current())
		}
		return nil, l.err
	}

	if err := l.Event(ctx, EventSucceed); err != nil {
		return nil, narrow(err)
	}
	return l.report, nil
}

// ActionEnterResolving normalizes the input and fetches from the source the
// tier routes to. Failures are kept on the lookup, not returned, so the
// machine can move on to failed.
func (l *lookup) ActionEnterResolving(ctx context.Context, _ *fsm.Event) error {
	l.start = l.svc.clock.Now()

	registration, err := vrm.Normalize(l.input)
	if err != nil {
		l.err = &model.ResolutionError{Kind: model.KindInvalidRegistration, Message: err.Error(), Err: err}
		return nil
	}
	l.registration = registration

	if !l.tier.Valid() {
		tierErr := &model.InvalidTierError{Value: string(l.tier)}
		l.err = &model.ResolutionError{Kind: model.KindInvalidTier, Message: tierErr.Error(), Err: tierErr}
		return nil
	}

	src := l.svc.sourceFor(l.tier)
	l.source = src.Name()

	report, err := src.Fetch(ctx, registration, l.tier)
	if err != nil {
		l.err = narrow(err)
		return nil
	}
	l.report = report
	return nil
}

func (l *lookup) ActionEnterResolved(ctx context.Context, _ *fsm.Event) error {
	log.FromContext(ctx).V(1).Info("Lookup resolved",
		"registration", l.registration, "tier", l.tier, "source", l.source)
	return nil
}

func (l *lookup) ActionEnterFailed(ctx context.Context, e *fsm.Event) error {
	cause, _ := fsmutil.Arg[*model.ResolutionError](e, 0)
	if cause == nil {
		return errors.New("lookup failed without a cause")
	}
	log.FromContext(ctx).V(1).Info("Lookup failed",
		"input", l.input, "tier", l.tier, "source", l.source, "kind", cause.Kind, "error", cause.Err)
	return nil
}

// narrow converts any error from a data source into a *model.ResolutionError.
// Every kind of miss collapses into the one uniform not-found error.
func narrow(err error) *model.ResolutionError {
	var re *model.ResolutionError
	switch {
	case errors.As(err, &re):
		if re.Kind == model.KindNotFound {
			return model.NewNotFound(err)
		}
		return re
	case errors.Is(err, model.ErrVehicleNotFound):
		return model.NewNotFound(err)
	case errors.Is(err, context.DeadlineExceeded):
		return &model.ResolutionError{Kind: model.KindServiceUnavailable, Message: "lookup timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return &model.ResolutionError{Kind: model.KindNetworkFailure, Message: "lookup canceled", Err: err}
	default:
		return &model.ResolutionError{Kind: model.KindUnknownAPI, Message: "lookup failed", Err: err}
	}
}
