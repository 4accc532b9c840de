package options

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

var _ IOptions = (*FixtureOptions)(nil)

// FixtureOptions configures the canned paid-tier reports.
type FixtureOptions struct {
	// Path to a gold report JSON file. Empty uses the built-in demo report.
	Path string `json:"path" mapstructure:"path"`
}

func NewFixtureOptions() *FixtureOptions {
	return &FixtureOptions{}
}

func (o *FixtureOptions) Validate() []error {
	if o == nil || o.Path == "" {
		return nil
	}
	if _, err := os.Stat(o.Path); err != nil {
		return []error{fmt.Errorf("--fixture.path: %w", err)}
	}
	return nil
}

func (o *FixtureOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Path, "fixture.path", o.Path, "Gold report JSON used for silver and gold lookups. Defaults to the built-in demo vehicle.")
}
