package server

import "github.com/autopeer-io/platecheck/pkg/options"

type Config struct {
	HttpOptions *options.HttpOptions
}
