package app

import (
	"github.com/autopeer-io/platecheck/pkg/app"
)

const (
	commandName = "platecheckctl"
	commandDesc = `platecheckctl looks up vehicles and manages the active subscription tier
without a running server. Use --tier.state-file to share the tier with a
platecheck-server instance.`
)

func NewApp() *app.App {
	opts := NewCtlOptions()
	return app.NewApp(
		commandName,
		"Look up UK vehicles from the command line",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithSubCommands(
			newLookupCommand(opts),
			newFormatCommand(),
			newTierCommand(opts),
			newWatchCommand(opts),
		),
	)
}
