package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/practicemap/pkg/constants"
	"github.com/agentstation/practicemap/pkg/errors"
)

// envPrefix scopes environment variables, e.g. PRACTICEMAP_DIRECTORY_ENCODING.
const envPrefix = "PRACTICEMAP"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Pipeline configuration
	MetricsTextfile    string
	DirectoryDelimiter string
	DirectoryEncoding  string
	StatusCode         string
	PrescribingSetting string

	// Logging configuration. LogLevel comes from --log-level and
	// EnvLogLevel from LOG_LEVEL; the verbosity flags sit between them.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// settings maps config keys to the flag that overrides them and the field
// they populate.
var settings = []struct {
	key   string
	flag  string
	field func(*Config) *string
}{
	{"format", "format", func(c *Config) *string { return &c.Format }},
	{"metrics_textfile", "metrics-textfile", func(c *Config) *string { return &c.MetricsTextfile }},
	{"directory.delimiter", "directory-delimiter", func(c *Config) *string { return &c.DirectoryDelimiter }},
	{"directory.encoding", "directory-encoding", func(c *Config) *string { return &c.DirectoryEncoding }},
	{"filter.status_code", "status-code", func(c *Config) *string { return &c.StatusCode }},
	{"filter.prescribing_setting", "prescribing-setting", func(c *Config) *string { return &c.PrescribingSetting }},
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Format:             "json",
		DirectoryDelimiter: constants.DirectoryDelimiter,
		DirectoryEncoding:  constants.DirectoryEncoding,
		StatusCode:         constants.ActiveStatusCode,
		PrescribingSetting: constants.GPPrescribingSetting,
		LogFormat:          "auto",
		LogOutput:          "stderr",
	}
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (PRACTICEMAP_CONFIG, or ~/.practicemap.yaml, ./.practicemap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	v, err := newViper(os.Getenv(envPrefix + "_CONFIG"))
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.apply(v, nil)
	config.ConfigFile = v.ConfigFileUsed()
	config.EnvLogLevel = os.Getenv("LOG_LEVEL")
	config.LogFormat = getEnvOrDefault("LOG_FORMAT", config.LogFormat)
	config.LogOutput = getEnvOrDefault("LOG_OUTPUT", config.LogOutput)

	return config, nil
}

// ApplyFile reads an explicit config file. Values whose flag was set on the
// command line are kept.
func (c *Config) ApplyFile(path string, flagChanged func(name string) bool) error {
	v, err := newViper(path)
	if err != nil {
		return err
	}
	c.apply(v, flagChanged)
	c.ConfigFile = v.ConfigFileUsed()
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func (c *Config) apply(v *viper.Viper, flagChanged func(name string) bool) {
	for _, s := range settings {
		if flagChanged != nil && flagChanged(s.flag) {
			continue
		}
		if val := v.GetString(s.key); val != "" {
			*s.field(c) = val
		}
	}
}

// newViper builds a viper instance bound to the environment. With path set
// the file must exist; otherwise the standard locations are searched and a
// missing file is not an error.
func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, s := range settings {
		_ = v.BindEnv(s.key)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+path, err)
		}
		return v, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(".practicemap")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "cannot read config file", err)
		}
	}
	return v, nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
