// Package config defines the data structures related to configuration and
// includes functions for loading the config and validating it.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/housing-calculator/pkg/constants"
	"github.com/iwvelando/housing-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for housing-calculator.
type Configuration struct {
	Logging   LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig  `yaml:"output,omitempty" json:"output,omitempty" mapstructure:"output"`
	Storage   StorageConfig `yaml:"storage,omitempty" json:"storage,omitempty" mapstructure:"storage"`
	Scenarios Scenarios     `yaml:"scenarios" json:"scenarios" mapstructure:"scenarios"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty" mapstructure:"level"`                // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty" mapstructure:"format"`             // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format   string `yaml:"format,omitempty" json:"format,omitempty" mapstructure:"format"` // pretty, csv, json
	Schedule bool   `yaml:"schedule,omitempty" json:"schedule,omitempty" mapstructure:"schedule"`
}

// StorageConfig selects and configures the saved-scenario backend.
type StorageConfig struct {
	Backend  string         `yaml:"backend,omitempty" json:"backend,omitempty" mapstructure:"backend"` // memory, file, redis, postgres
	Path     string         `yaml:"path,omitempty" json:"path,omitempty" mapstructure:"path"`
	Redis    RedisConfig    `yaml:"redis,omitempty" json:"redis,omitempty" mapstructure:"redis"`
	Postgres PostgresConfig `yaml:"postgres,omitempty" json:"postgres,omitempty" mapstructure:"postgres"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `yaml:"address,omitempty" json:"address,omitempty" mapstructure:"address"`
	Password string `yaml:"password,omitempty" json:"-" mapstructure:"password"`
	DB       int    `yaml:"db,omitempty" json:"db,omitempty" mapstructure:"db"`
}

// PostgresConfig holds Postgres connection settings.
type PostgresConfig struct {
	URL   string `yaml:"url,omitempty" json:"-" mapstructure:"url"`
	Table string `yaml:"table,omitempty" json:"table,omitempty" mapstructure:"table"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with HOUSING override
// file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r. An empty
// document yields the defaults.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

// Default returns the configuration used when no file is present.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		// Defaults are static and always decode.
		panic(fmt.Sprintf("decoding default configuration: %v", err))
	}
	return conf
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.Scenarios = configuration.Scenarios.Normalize()
	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")

	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.schedule", false)

	v.SetDefault("storage.backend", constants.StorageBackendFile)
	v.SetDefault("storage.path", constants.DefaultStoragePath)
	v.SetDefault("storage.redis.address", constants.DefaultRedisAddress)
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.postgres.url", "")
	v.SetDefault("storage.postgres.table", constants.DefaultPostgresTable)

	d := DefaultScenarios()
	setMortgageDefaults(v, "scenarios.existingLoan", d.ExistingLoan.DownPayment, d.ExistingLoan.InterestRate,
		d.ExistingLoan.TermYears, d.ExistingLoan.PropertyTax, d.ExistingLoan.HomeownersInsurance)
	v.SetDefault("scenarios.existingLoan.loanAmount", d.ExistingLoan.LoanAmount)
	v.SetDefault("scenarios.existingLoan.existingMortgage", d.ExistingLoan.ExistingMortgage)

	setMortgageDefaults(v, "scenarios.housePrice", d.HousePrice.DownPayment, d.HousePrice.InterestRate,
		d.HousePrice.TermYears, d.HousePrice.PropertyTax, d.HousePrice.HomeownersInsurance)
	v.SetDefault("scenarios.housePrice.housePrice", d.HousePrice.HousePrice)

	v.SetDefault("scenarios.rental.monthlyRent", d.Rental.MonthlyRent)
	v.SetDefault("scenarios.rental.rentersInsurance", d.Rental.RentersInsurance)
	v.SetDefault("scenarios.rental.years", d.Rental.Years)
	v.SetDefault("scenarios.rental.yearlyIncrease", d.Rental.YearlyIncrease)
}

func setMortgageDefaults(v *viper.Viper, prefix string, down DownPayment, rate float64, term int, tax, insurance float64) {
	v.SetDefault(prefix+".downPayment.mode", string(down.Mode))
	v.SetDefault(prefix+".downPayment.percent", down.Percent)
	v.SetDefault(prefix+".downPayment.amount", down.Amount)
	v.SetDefault(prefix+".interestRate", rate)
	v.SetDefault(prefix+".termYears", term)
	v.SetDefault(prefix+".propertyTax", tax)
	v.SetDefault(prefix+".homeownersInsurance", insurance)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	return append(c.ValidateSettings(), c.Scenarios.Validate()...)
}

// ValidateSettings checks everything except the scenario inputs.
func (c *Configuration) ValidateSettings() []string {
	var warnings []string

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	if err := validation.ValidateStorageBackend(c.Storage.Backend); err != nil {
		warnings = append(warnings, err.Error())
	}
	if c.Storage.Backend == constants.StorageBackendPostgres && c.Storage.Postgres.URL == "" {
		warnings = append(warnings, "storage backend postgres selected without storage.postgres.url")
	}

	return warnings
}
