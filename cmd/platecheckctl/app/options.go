package app

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/platecheck/internal/platecheck"
	"github.com/autopeer-io/platecheck/pkg/app"
	"github.com/autopeer-io/platecheck/pkg/log"
	"github.com/autopeer-io/platecheck/pkg/options"
)

// CtlOptions configure the adapters the command line talks to directly.
type CtlOptions struct {
	DvlaOptions    *options.DvlaOptions    `json:"dvla" mapstructure:"dvla"`
	FixtureOptions *options.FixtureOptions `json:"fixture" mapstructure:"fixture"`
	TierOptions    *options.TierOptions    `json:"tier" mapstructure:"tier"`
	MqttOptions    *options.MqttOptions    `json:"mqtt" mapstructure:"mqtt"`
	Log            *log.Options            `json:"log" mapstructure:"log"`
}

var (
	_ app.NamedFlagSetOptions = (*CtlOptions)(nil)
	_ app.LoggerOptions       = (*CtlOptions)(nil)
)

func NewCtlOptions() *CtlOptions {
	o := &CtlOptions{
		DvlaOptions:    options.NewDvlaOptions(),
		FixtureOptions: options.NewFixtureOptions(),
		TierOptions:    options.NewTierOptions(),
		MqttOptions:    options.NewMqttOptions(),
		Log:            log.NewOptions(),
	}
	// Keep stdout for command output.
	o.Log.Level = "warn"
	o.Log.OutputPaths = []string{"stderr"}
	o.TierOptions.Watch = false
	return o
}

func (o *CtlOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.DvlaOptions.AddFlags(fss.FlagSet("dvla"))
	o.FixtureOptions.AddFlags(fss.FlagSet("fixture"))
	o.TierOptions.AddFlags(fss.FlagSet("tier"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *CtlOptions) Complete() error {
	return nil
}

func (o *CtlOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.DvlaOptions.Validate()...)
	errs = append(errs, o.FixtureOptions.Validate()...)
	errs = append(errs, o.TierOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *CtlOptions) LogOptions() *log.Options {
	return o.Log
}

// Config has no HTTP, MQTT or S3 groups, so those adapters stay disabled.
// MqttOptions are only used by watch, as a subscriber.
func (o *CtlOptions) Config() (*platecheck.Config, error) {
	return &platecheck.Config{
		DvlaOptions:    o.DvlaOptions,
		FixtureOptions: o.FixtureOptions,
		TierOptions:    o.TierOptions,
	}, nil
}

func (o *CtlOptions) components() (*platecheck.Components, error) {
	cfg, err := o.Config()
	if err != nil {
		return nil, err
	}
	return cfg.NewComponents()
}
