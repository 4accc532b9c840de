package app

import (
	"fmt"

	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/platecheck/cmd/platecheck-server/app/options"
	"github.com/autopeer-io/platecheck/pkg/app"
)

const (
	commandName = "platecheck-server"
	commandDesc = `The platecheck server looks up UK vehicles by registration mark.

Basic reports come live from the government vehicle-enquiry service. Silver
and gold reports are served from a local fixture. Sections above the active
subscription tier are locked. Lookup events can be published over MQTT and
gated reports shared through an S3 compatible bucket.`
)

func NewApp() *app.App {
	opts := options.NewServerOptions()
	application := app.NewApp(
		commandName,
		"Launch the platecheck vehicle lookup server",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithWatchConfig(),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		ctx := genericapiserver.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		server, err := cfg.NewPlatecheckServer()
		if err != nil {
			return fmt.Errorf("failed to create platecheck server: %w", err)
		}

		return server.Run(ctx)
	}
}
