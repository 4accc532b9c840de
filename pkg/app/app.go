// Package app builds the cobra commands shared by the platecheck binaries.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/term"

	"github.com/autopeer-io/platecheck/pkg/log"
)

// RunFunc is the main body of an application.
type RunFunc func() error

// App is a command line application.
type App struct {
	name        string
	shortDesc   string
	description string
	options     NamedFlagSetOptions
	runFunc     RunFunc
	args        cobra.PositionalArgs
	commands    []*cobra.Command
	watch       bool
	noConfig    bool

	viper *viper.Viper
	cmd   *cobra.Command
}

type Option func(*App)

func WithDescription(desc string) Option {
	return func(a *App) { a.description = desc }
}

func WithOptions(opts NamedFlagSetOptions) Option {
	return func(a *App) { a.options = opts }
}

func WithRunFunc(run RunFunc) Option {
	return func(a *App) { a.runFunc = run }
}

// WithDefaultValidArgs rejects positional arguments.
func WithDefaultValidArgs() Option {
	return func(a *App) {
		a.args = func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if len(arg) > 0 {
					return fmt.Errorf("%q does not take any arguments, got %q", cmd.CommandPath(), args)
				}
			}
			return nil
		}
	}
}

// WithSubCommands adds subcommands. They share the app's options, which are
// loaded before any of them runs.
func WithSubCommands(cmds ...*cobra.Command) Option {
	return func(a *App) { a.commands = append(a.commands, cmds...) }
}

// WithWatchConfig logs edits to the config file while running.
func WithWatchConfig() Option {
	return func(a *App) { a.watch = true }
}

// WithNoConfig removes the --config flag.
func WithNoConfig() Option {
	return func(a *App) { a.noConfig = true }
}

func NewApp(name string, shortDesc string, opts ...Option) *App {
	a := &App{name: name, shortDesc: shortDesc, viper: viper.New()}
	for _, o := range opts {
		o(a)
	}
	a.buildCommand()
	return a
}

// Command returns the root cobra command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// Run executes the command and exits the process on failure.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.shortDesc,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          a.args,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true
	cmd.AddCommand(a.commands...)

	var cfgFile string
	var namedFlagSets cliflag.NamedFlagSets
	if a.options != nil {
		namedFlagSets = a.options.Flags()
	}
	if !a.noConfig {
		addConfigFlag(namedFlagSets.FlagSet("global"), &cfgFile)
	}
	fs := cmd.PersistentFlags()
	for _, f := range namedFlagSets.FlagSets {
		fs.AddFlagSet(f)
	}

	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cliflag.SetUsageAndHelpFunc(cmd, namedFlagSets, cols)

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		return a.prepare(c, cfgFile)
	}
	cmd.RunE = func(c *cobra.Command, _ []string) error {
		if a.runFunc == nil {
			return c.Help()
		}
		if a.watch {
			watchConfig(a.viper, a.name)
		}
		return a.runFunc()
	}

	a.cmd = cmd
}

// prepare loads, completes and validates the options, then initialises logging.
func (a *App) prepare(c *cobra.Command, cfgFile string) error {
	if a.options == nil {
		return nil
	}

	if err := loadConfig(a.viper, c.Flags(), cfgFile, a.options); err != nil {
		return err
	}
	if err := a.options.Complete(); err != nil {
		return err
	}
	if err := a.options.Validate(); err != nil {
		return err
	}

	if lo, ok := a.options.(LoggerOptions); ok {
		log.Init(lo.LogOptions())
	}
	return nil
}
