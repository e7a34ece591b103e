package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/sfcfix/pkg/scanner"
	"github.com/gnana997/sfcfix/pkg/transform"
)

const defaultConfigPath = ".sfcfix/config.yaml"

// Environment overrides.
const (
	envConfig    = "SFCFIX_CONFIG"
	envLogLevel  = "SFCFIX_LOG_LEVEL"
	envLogFormat = "SFCFIX_LOG_FORMAT"
)

// ProjectConfig holds the contents of .sfcfix/config.yaml.
type ProjectConfig struct {
	Lang           string   `yaml:"lang"`
	Alias          string   `yaml:"alias"`
	Extension      string   `yaml:"extension"`
	ComponentsDir  string   `yaml:"components_dir"`
	CardsDir       string   `yaml:"cards_dir"`
	CardComponents []string `yaml:"card_components"`

	// PropsQualifier is a pointer so an explicit empty string can turn the
	// qualifier strip off.
	PropsQualifier *string `yaml:"props_qualifier"`

	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`

	Workers int   `yaml:"workers"`
	Verify  *bool `yaml:"verify"`
}

// loadEnv reads .env from the working directory. A missing file is fine.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// loadProjectConfig reads the config file at path.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// resolveConfigPath returns the config file to read, applying the fallback chain:
//  1. Explicit --config flag value
//  2. SFCFIX_CONFIG
//  3. Default: .sfcfix/config.yaml
func resolveConfigPath(flagValue string) string {
	return resolveString(flagValue, envConfig, "", defaultConfigPath)
}

// resolveString applies flag → env → config file → default.
func resolveString(flagValue, envKey, fileValue, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if envKey != "" {
		if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
			return v
		}
	}
	if fileValue != "" {
		return fileValue
	}
	return def
}

// importTable builds the tag classification from the config. A nil config
// gives the default table.
func (c *ProjectConfig) importTable() *scanner.ImportTable {
	if c == nil {
		return scanner.DefaultImportTable()
	}
	return scanner.NewImportTable(scanner.TableOptions{
		Alias:          c.Alias,
		Extension:      c.Extension,
		ComponentsDir:  c.ComponentsDir,
		CardsDir:       c.CardsDir,
		CardComponents: c.CardComponents,
	})
}

func (c *ProjectConfig) migratorConfig() transform.Config {
	cfg := transform.DefaultConfig()
	if c == nil {
		return cfg
	}
	if c.Lang != "" {
		cfg.Lang = c.Lang
	}
	if c.PropsQualifier != nil {
		cfg.Qualifier = *c.PropsQualifier
	}
	cfg.Imports = c.importTable()
	return cfg
}

// scanConfig returns the file globs. Patterns from the config replace the
// defaults for that list only.
func (c *ProjectConfig) scanConfig() scanner.ScanConfig {
	cfg := scanner.DefaultScanConfig()
	if c == nil {
		return cfg
	}
	if len(c.Include) > 0 {
		cfg.Include = c.Include
	}
	if len(c.Exclude) > 0 {
		cfg.Exclude = c.Exclude
	}
	return cfg
}

func (c *ProjectConfig) verify() bool {
	return c == nil || c.Verify == nil || *c.Verify
}

func (c *ProjectConfig) workers() int {
	if c == nil {
		return 0
	}
	return c.Workers
}
