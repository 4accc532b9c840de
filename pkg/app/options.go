package app

import (
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/platecheck/pkg/log"
)

// NamedFlagSetOptions is implemented by the options of every binary.
type NamedFlagSetOptions interface {
	// Flags returns the option flags grouped by section.
	Flags() cliflag.NamedFlagSets

	// Complete fills in fields derived from other fields.
	Complete() error

	// Validate returns an aggregate of every invalid field.
	Validate() error
}

// LoggerOptions is implemented by options that carry logger configuration.
// The app initialises the process logger from them before running.
type LoggerOptions interface {
	LogOptions() *log.Options
}
