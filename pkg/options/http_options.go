package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*HttpOptions)(nil)

// HttpOptions contains configuration items related to HTTP server startup.
type HttpOptions struct {
	// Address with server address.
	Addr string `json:"addr" mapstructure:"addr"`

	// Timeout bounds the handling of a single API request.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// ShutdownTimeout is how long in-flight requests get to finish on exit.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewHttpOptions creates a HttpOptions object with default parameters.
func NewHttpOptions() *HttpOptions {
	return &HttpOptions{
		Addr:            "0.0.0.0:8080",
		Timeout:         15 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *HttpOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if err := ValidateAddress(o.Addr); err != nil {
		errors = append(errors, err)
	}
	if o.Timeout <= 0 {
		errors = append(errors, fmt.Errorf("--http.timeout must be positive"))
	}

	return errors
}

// AddFlags adds flags related to the HTTP API server to the specified FlagSet.
func (o *HttpOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Addr, "http.addr", o.Addr, "Specify the HTTP server bind address and port.")
	fs.DurationVar(&o.Timeout, "http.timeout", o.Timeout, "Timeout for handling a single API request.")
	fs.DurationVar(&o.ShutdownTimeout, "http.shutdown-timeout", o.ShutdownTimeout, "Grace period for in-flight requests on shutdown.")
}
