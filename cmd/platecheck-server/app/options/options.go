package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/platecheck/internal/platecheck"
	"github.com/autopeer-io/platecheck/pkg/app"
	"github.com/autopeer-io/platecheck/pkg/log"
	"github.com/autopeer-io/platecheck/pkg/options"
)

type ServerOptions struct {
	HttpOptions    *options.HttpOptions    `json:"http" mapstructure:"http"`
	DvlaOptions    *options.DvlaOptions    `json:"dvla" mapstructure:"dvla"`
	FixtureOptions *options.FixtureOptions `json:"fixture" mapstructure:"fixture"`
	TierOptions    *options.TierOptions    `json:"tier" mapstructure:"tier"`
	MqttOptions    *options.MqttOptions    `json:"mqtt" mapstructure:"mqtt"`
	S3Options      *options.S3Options      `json:"s3" mapstructure:"s3"`
	Log            *log.Options            `json:"log" mapstructure:"log"`
}

var (
	_ app.NamedFlagSetOptions = (*ServerOptions)(nil)
	_ app.LoggerOptions       = (*ServerOptions)(nil)
)

func NewServerOptions() *ServerOptions {
	o := &ServerOptions{
		HttpOptions:    options.NewHttpOptions(),
		DvlaOptions:    options.NewDvlaOptions(),
		FixtureOptions: options.NewFixtureOptions(),
		TierOptions:    options.NewTierOptions(),
		MqttOptions:    options.NewMqttOptions(),
		S3Options:      options.NewS3Options(),
		Log:            log.NewOptions(),
	}

	return o
}

func (o *ServerOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.DvlaOptions.AddFlags(fss.FlagSet("dvla"))
	o.FixtureOptions.AddFlags(fss.FlagSet("fixture"))
	o.TierOptions.AddFlags(fss.FlagSet("tier"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.S3Options.AddFlags(fss.FlagSet("s3"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *ServerOptions) Complete() error {
	return nil
}

func (o *ServerOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.DvlaOptions.Validate()...)
	errs = append(errs, o.FixtureOptions.Validate()...)
	errs = append(errs, o.TierOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *ServerOptions) LogOptions() *log.Options {
	return o.Log
}

func (o *ServerOptions) Config() (*platecheck.Config, error) {
	return &platecheck.Config{
		HttpOptions:    o.HttpOptions,
		DvlaOptions:    o.DvlaOptions,
		FixtureOptions: o.FixtureOptions,
		TierOptions:    o.TierOptions,
		MqttOptions:    o.MqttOptions,
		S3Options:      o.S3Options,
	}, nil
}
