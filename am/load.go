package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/parigen/errors"
)

// ConfigFileName is the project configuration file searched for by Load
const ConfigFileName = "parigen.toml"

// EnvPrefix prefixes every environment variable override (PARIGEN_OUTPUT_DIR, ...)
const EnvPrefix = "PARIGEN"

var globalConfig *Config
var viperInstance *viper.Viper
var projectConfigPath string

// ConfigSources records which file set each key during the last Load
var ConfigSources = map[string]SourceInfo{}

// Load reads the parigen configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	config.resolvePaths(loadedPathBase)

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path. Relative paths
// in the file are taken relative to the file's directory.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to read config file %s", configPath),
			"run 'parigen am init' to create one",
		)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}
	config.resolvePaths(relativeTo(filepath.Dir(configPath)))
	return config, nil
}

// loadedPathBase picks the directory a path setting from the last Load is
// relative to: the file that set it, the working directory for PARIGEN_*
// variables, and the project file's directory for built-in defaults.
func loadedPathBase(key string) string {
	if os.Getenv(envKey(key)) != "" {
		return ""
	}
	if si, ok := ConfigSources[key]; ok && si.Path != "" {
		return filepath.Dir(si.Path)
	}
	if projectConfigPath != "" {
		return filepath.Dir(projectConfigPath)
	}
	return ""
}

// ProjectConfigPath returns the project config file found by the last Load,
// or "" when none was found
func ProjectConfigPath() string {
	initViper()
	return projectConfigPath
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	projectConfigPath = ""
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Manually merge configs in precedence order: system -> user -> project -> env vars
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig searches for parigen.toml by walking up the directory tree
// Returns the path to the first config file found, or empty string if none found
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			break
		}
		dir = parent
	}

	return ""
}

// userConfigPath is ~/.parigen/parigen.toml
func userConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".parigen", ConfigFileName)
}

// mergeConfigFiles manually merges configuration files in the correct precedence order
// Precedence (lowest to highest): system < user < project < env vars
func mergeConfigFiles(v *viper.Viper) {
	type candidate struct {
		path   string
		source ConfigSource
	}
	candidates := []candidate{
		{"/etc/parigen/" + ConfigFileName, SourceSystem},
	}
	if p := userConfigPath(); p != "" {
		candidates = append(candidates, candidate{p, SourceUser})
	}
	projectConfigPath = findProjectConfig()
	if projectConfigPath != "" {
		candidates = append(candidates, candidate{projectConfigPath, SourceProject})
	}

	for _, c := range candidates {
		if _, err := os.Stat(c.path); err != nil {
			continue
		}
		tempViper := viper.New()
		tempViper.SetConfigFile(c.path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}
		// Merged as config, not Set, so PARIGEN_* variables still win
		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range tempViper.AllKeys() {
			ConfigSources[key] = SourceInfo{Source: c.source, Path: c.path}
		}
	}
}
