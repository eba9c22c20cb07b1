package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultSettingsFile = "settings.yaml"
	defaultTablePrefix  = "wp_"
)

// Environment variables consulted by Load.
const (
	EnvSettingsFile = "WP_DONOR_SETTINGS"
	EnvDonorPath    = "WP_DONOR_DONOR_PATH"
	EnvTablePrefix  = "WP_DONOR_TABLE_PREFIX"
)

// ErrSettingsNotPresent means the settings file is missing, unreadable,
// malformed or has no settings mapping.
var ErrSettingsNotPresent = errors.New("settings are not present")

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > YAML config > Defaults
type Config struct {
	SettingsFile string
	DonorPath    string
	TablePrefix  string
	SiteURL      string
	TargetDate   string
	// Settings is the raw acceptor settings mapping, handed to the resolver.
	Settings map[string]any
}

// yamlConfig represents the settings file structure.
type yamlConfig struct {
	DonorPath   string         `yaml:"donor_path"`
	TablePrefix string         `yaml:"table_prefix"`
	SiteURL     string         `yaml:"site_url"`
	TargetDate  string         `yaml:"target_date"`
	Settings    map[string]any `yaml:"settings"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	SettingsFile string
	DonorPath    string
}

// Load reads the settings file and applies environment and CLI overrides.
// A .env file in the working directory, if any, is loaded first.
func Load(overrides *CLIOverrides) (Config, error) {
	// Missing .env is fine; real environment wins over it.
	_ = godotenv.Load()

	cfg := Config{
		SettingsFile: defaultSettingsFile,
		TablePrefix:  defaultTablePrefix,
	}
	if env := strings.TrimSpace(os.Getenv(EnvSettingsFile)); env != "" {
		cfg.SettingsFile = env
	}
	if overrides != nil && overrides.SettingsFile != "" {
		cfg.SettingsFile = overrides.SettingsFile
	}

	yamlCfg, err := loadFromFile(cfg.SettingsFile)
	if err != nil {
		return Config{}, err
	}
	applyYAMLConfig(&cfg, yamlCfg)
	applyEnvConfig(&cfg)
	if overrides != nil && overrides.DonorPath != "" {
		cfg.DonorPath = overrides.DonorPath
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFromFile loads the settings file. Every failure maps to
// ErrSettingsNotPresent.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSettingsNotPresent, path, err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrSettingsNotPresent, path, err)
	}
	if len(yamlCfg.Settings) == 0 {
		return nil, fmt.Errorf("%w: %s has no settings mapping", ErrSettingsNotPresent, path)
	}

	return &yamlCfg, nil
}

func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	cfg.DonorPath = yamlCfg.DonorPath
	if yamlCfg.TablePrefix != "" {
		cfg.TablePrefix = yamlCfg.TablePrefix
	}
	cfg.SiteURL = strings.TrimRight(yamlCfg.SiteURL, "/")
	cfg.TargetDate = yamlCfg.TargetDate
	cfg.Settings = yamlCfg.Settings
}

func applyEnvConfig(cfg *Config) {
	if p := strings.TrimSpace(os.Getenv(EnvDonorPath)); p != "" {
		cfg.DonorPath = p
	}
	if p := strings.TrimSpace(os.Getenv(EnvTablePrefix)); p != "" {
		cfg.TablePrefix = p
	}
}

func validateConfig(cfg Config) error {
	if cfg.DonorPath == "" {
		return fmt.Errorf("donor_path is required")
	}
	for _, c := range cfg.TablePrefix {
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return fmt.Errorf("invalid table_prefix %q", cfg.TablePrefix)
		}
	}
	return nil
}
