package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/healthsurvey-cli/internal/table"
	"github.com/KaramelBytes/healthsurvey-cli/internal/utils"
)

const (
	envPrefix = "HEALTHSURVEY"
	dirName   = ".healthsurvey"
)

// Global configuration structure.
type Global struct {
	RawDir    string `mapstructure:"raw_dir" yaml:"raw_dir"`
	CleanDir  string `mapstructure:"clean_dir" yaml:"clean_dir"`
	ChartsDir string `mapstructure:"charts_dir" yaml:"charts_dir"`
	// Cell texts read as missing.
	NAValues []string `mapstructure:"na_values" yaml:"na_values"`

	// Size of one chart panel in pixels.
	ChartWidth  int `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int `mapstructure:"chart_height" yaml:"chart_height"`

	StrictStages  bool `mapstructure:"strict_stages" yaml:"strict_stages"`
	WriteManifest bool `mapstructure:"write_manifest" yaml:"write_manifest"`
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{"raw_dir", "clean_dir", "charts_dir", "na_values", "chart_width", "chart_height", "strict_stages", "write_manifest"}
}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		RawDir:        "raw_data",
		CleanDir:      "cleaned_data",
		ChartsDir:     ".",
		NAValues:      append([]string(nil), table.DefaultNAValues...),
		ChartWidth:    600,
		ChartHeight:   450,
		StrictStages:  true,
		WriteManifest: true,
	}
}

// DefaultPath is ~/.healthsurvey/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Save writes the given configuration to cfgFile, or to DefaultPath when
// cfgFile is empty.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("raw_dir", d.RawDir)
	v.SetDefault("clean_dir", d.CleanDir)
	v.SetDefault("charts_dir", d.ChartsDir)
	v.SetDefault("na_values", d.NAValues)
	v.SetDefault("chart_width", d.ChartWidth)
	v.SetDefault("chart_height", d.ChartHeight)
	v.SetDefault("strict_stages", d.StrictStages)
	v.SetDefault("write_manifest", d.WriteManifest)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, dirName))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings no command can run with.
func (c *Global) Validate() error {
	if c.ChartWidth < 100 || c.ChartHeight < 100 {
		return fmt.Errorf("chart size %dx%d too small (minimum 100x100)", c.ChartWidth, c.ChartHeight)
	}
	return nil
}

// Set parses value for key and stores it.
func (c *Global) Set(key, value string) error {
	switch key {
	case "raw_dir":
		c.RawDir = value
	case "clean_dir":
		c.CleanDir = value
	case "charts_dir":
		c.ChartsDir = value
	case "na_values":
		var vals []string
		for _, s := range strings.Split(value, ",") {
			vals = append(vals, strings.TrimSpace(s))
		}
		c.NAValues = vals
	case "chart_width", "chart_height":
		i, err := strconv.Atoi(value)
		if err != nil || i < 100 {
			return fmt.Errorf("invalid int for %s: %v (minimum 100)", key, value)
		}
		if key == "chart_width" {
			c.ChartWidth = i
		} else {
			c.ChartHeight = i
		}
	case "strict_stages", "write_manifest":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, value)
		}
		if key == "strict_stages" {
			c.StrictStages = b
		} else {
			c.WriteManifest = b
		}
	default:
		return fmt.Errorf("unknown key: %s (use one of %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Get renders the value of key for display.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "raw_dir":
		return c.RawDir, nil
	case "clean_dir":
		return c.CleanDir, nil
	case "charts_dir":
		return c.ChartsDir, nil
	case "na_values":
		quoted := make([]string, len(c.NAValues))
		for i, s := range c.NAValues {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]", nil
	case "chart_width":
		return strconv.Itoa(c.ChartWidth), nil
	case "chart_height":
		return strconv.Itoa(c.ChartHeight), nil
	case "strict_stages":
		return strconv.FormatBool(c.StrictStages), nil
	case "write_manifest":
		return strconv.FormatBool(c.WriteManifest), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// ReadOptions is the table read configuration.
func (c *Global) ReadOptions() table.ReadOptions {
	return table.ReadOptions{NAValues: c.NAValues}
}
