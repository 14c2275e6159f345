// Package commands wires the housing-calculator CLI.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/housing-calculator/internal/buildinfo"
	"github.com/iwvelando/housing-calculator/internal/config"
	"github.com/iwvelando/housing-calculator/internal/logging"
	"github.com/iwvelando/housing-calculator/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by every subcommand once the persistent
// flags have been processed.
type app struct {
	configPath string
	logLevel   string
	envFile    string

	conf   *config.Configuration
	logger *zap.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "housing-calculator",
		Short:   "Compare the cost of a mortgage against renting",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&a.envFile, "env-file", constants.DefaultEnvFile, "dotenv file loaded before the configuration")

	rootCmd.AddCommand(newCompareCommand(a))
	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newScenariosCommand(a))

	return rootCmd
}

// setup loads the environment file, the configuration and the logger. The
// default env and config files are optional; explicitly named ones are not.
func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(a.envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || flagChanged(cmd, "env-file") {
			return fmt.Errorf("loading env file %s: %w", a.envFile, err)
		}
	}

	conf, err := loadConfiguration(a.configPath, flagChanged(cmd, "config"))
	if err != nil {
		return err
	}
	a.conf = conf

	logger, err := logging.New(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	a.logger = logger

	for _, warning := range conf.ValidateSettings() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "commands.setup"),
		)
	}
	return nil
}

func loadConfiguration(path string, explicit bool) (*config.Configuration, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("failed to load configuration at %s: %w", path, err)
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", path, err)
	}
	return conf, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && flag.Changed
}
