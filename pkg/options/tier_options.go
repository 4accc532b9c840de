package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

var _ IOptions = (*TierOptions)(nil)

// TierOptions configures where the current subscription tier is persisted.
type TierOptions struct {
	// StateFile holds the tier string. Empty keeps the tier in memory only.
	StateFile string `json:"state-file" mapstructure:"state-file"`

	// Default is applied when the persisted value is missing or invalid.
	Default string `json:"default" mapstructure:"default"`

	// Watch notifies listeners when another process rewrites StateFile.
	Watch bool `json:"watch" mapstructure:"watch"`
}

func NewTierOptions() *TierOptions {
	return &TierOptions{
		Default: "silver",
		Watch:   true,
	}
}

func (o *TierOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	switch o.Default {
	case "basic", "silver", "gold":
	default:
		errors = append(errors, fmt.Errorf("--tier.default %q must be one of basic, silver, gold", o.Default))
	}

	return errors
}

func (o *TierOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.StateFile, "tier.state-file", o.StateFile, "File holding the current subscription tier. Empty keeps it in memory.")
	fs.StringVar(&o.Default, "tier.default", o.Default, "Tier applied when the persisted tier is missing or invalid.")
	fs.BoolVar(&o.Watch, "tier.watch", o.Watch, "Watch the tier state file for changes made by other processes.")
}
