package app

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/autopeer-io/platecheck/pkg/log"
)

const configFlagName = "config"

// envPrefix is prepended to every environment override, e.g.
// PLATECHECK_HTTP_ADDR for --http.addr.
const envPrefix = "PLATECHECK"

func addConfigFlag(fs *pflag.FlagSet, cfgFile *string) {
	fs.StringVarP(cfgFile, configFlagName, "c", *cfgFile,
		"Read configuration from the specified file. Supports JSON, TOML, YAML, HCL, or Java properties formats.")
}

// loadConfig merges the config file, the environment and the command line
// into opts. Flags set explicitly win over the environment, which wins over
// the file.
func loadConfig(v *viper.Viper, fs *pflag.FlagSet, cfgFile string, opts any) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read configuration file %s: %w", cfgFile, err)
		}
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(opts); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}
	return nil
}

// watchConfig logs configuration file edits. Options are bound at start-up,
// so changes take effect after a restart.
func watchConfig(v *viper.Viper, name string) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, restart to apply", "app", name, "file", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()
}
