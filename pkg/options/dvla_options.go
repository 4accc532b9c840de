package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*DvlaOptions)(nil)

// DvlaOptions configures the government vehicle-enquiry client.
type DvlaOptions struct {
	Endpoint string        `json:"endpoint" mapstructure:"endpoint"`
	APIKey   string        `json:"api-key" mapstructure:"api-key"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
}

func NewDvlaOptions() *DvlaOptions {
	return &DvlaOptions{
		Endpoint: "https://driver-vehicle-licensing.api.gov.uk/vehicle-enquiry/v1/vehicles",
		Timeout:  10 * time.Second,
	}
}

func (o *DvlaOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	u, err := url.Parse(o.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Errorf("--dvla.endpoint %q is not an absolute URL", o.Endpoint))
	}
	if o.Timeout <= 0 {
		errors = append(errors, fmt.Errorf("--dvla.timeout must be positive"))
	}

	return errors
}

func (o *DvlaOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Endpoint, "dvla.endpoint", o.Endpoint, "URL of the vehicle-enquiry endpoint.")
	fs.StringVar(&o.APIKey, "dvla.api-key", o.APIKey, "API key sent as x-api-key. Leave empty when calling a keyless proxy.")
	fs.DurationVar(&o.Timeout, "dvla.timeout", o.Timeout, "Timeout for a single vehicle-enquiry call. Timeouts surface as ServiceUnavailable.")
}
