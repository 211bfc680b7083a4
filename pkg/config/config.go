// Package config loads per-project acelink settings.
//
// Settings live in acelink.yaml (or .acelink.yaml) at the project root and
// can be overridden with ACELINK_* environment variables. A project without
// a config file gets the defaults, which follow the AdonisJS layout.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Position strategies.
const (
	PositionsOffset    = "offset"
	PositionsFirstLine = "first-line"
)

// FileName is the config file name written by Write and searched by Load.
const FileName = "acelink.yaml"

// Config holds the directories and extensions used to resolve references.
type Config struct {
	// ViewsDirectory is where dotted view names are resolved (e.g. "resources/views")
	ViewsDirectory string `mapstructure:"views_directory" yaml:"views_directory" json:"views_directory"`
	// TemplateExtension is the view file extension without the dot (e.g. "edge")
	TemplateExtension string `mapstructure:"template_extension" yaml:"template_extension" json:"template_extension"`
	// PagesDirectory is where Inertia page names are resolved
	PagesDirectory string `mapstructure:"pages_directory" yaml:"pages_directory" json:"pages_directory"`
	// PageExtensions are the accepted page component extensions
	PageExtensions []string `mapstructure:"page_extensions" yaml:"page_extensions" json:"page_extensions"`
	// ControllersDirectory is the root of the controller files
	ControllersDirectory string `mapstructure:"controllers_directory" yaml:"controllers_directory" json:"controllers_directory"`
	// ControllerExtensions are the accepted controller source extensions
	ControllerExtensions []string `mapstructure:"controller_extensions" yaml:"controller_extensions" json:"controller_extensions"`
	// RoutesFiles are glob patterns (relative to the root) of route definition files
	RoutesFiles []string `mapstructure:"routes_files" yaml:"routes_files" json:"routes_files"`
	// Positions selects how match positions are computed ("offset" or "first-line")
	Positions string `mapstructure:"positions" yaml:"positions" json:"positions"`
	// Concurrency bounds concurrent lookups per pass; 0 means runtime.NumCPU()
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`

	// File is the config file that was read, empty when defaults were used
	File string `mapstructure:"-" yaml:"-" json:"file,omitempty"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		ViewsDirectory:       "resources/views",
		TemplateExtension:    "edge",
		PagesDirectory:       "inertia/pages",
		PageExtensions:       []string{"vue", "tsx", "jsx", "svelte"},
		ControllersDirectory: "app/controllers",
		ControllerExtensions: []string{"ts", "js"},
		RoutesFiles:          []string{"start/routes.ts", "start/routes/**/*.ts"},
		Positions:            PositionsOffset,
	}
}

// Load reads the project config from root, falling back to defaults.
func Load(root string) (*Config, error) {
	def := Default()

	for _, name := range []string{"acelink", ".acelink"} {
		v := newViper(root, def)
		v.SetConfigName(name)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s config: %w", name, err)
		}

		return decode(v)
	}

	// No file; env overrides still apply.
	return decode(newViper(root, def))
}

func newViper(root string, def *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AddConfigPath(root)
	v.SetEnvPrefix("ACELINK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("views_directory", def.ViewsDirectory)
	v.SetDefault("template_extension", def.TemplateExtension)
	v.SetDefault("pages_directory", def.PagesDirectory)
	v.SetDefault("page_extensions", def.PageExtensions)
	v.SetDefault("controllers_directory", def.ControllersDirectory)
	v.SetDefault("controller_extensions", def.ControllerExtensions)
	v.SetDefault("routes_files", def.RoutesFiles)
	v.SetDefault("positions", def.Positions)
	v.SetDefault("concurrency", def.Concurrency)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize trims dots and slashes users commonly add to extensions and directories.
func (c *Config) normalize() {
	c.TemplateExtension = strings.TrimPrefix(strings.TrimSpace(c.TemplateExtension), ".")
	for i, ext := range c.PageExtensions {
		c.PageExtensions[i] = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	}
	for i, ext := range c.ControllerExtensions {
		c.ControllerExtensions[i] = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	}
	c.ViewsDirectory = cleanDir(c.ViewsDirectory)
	c.PagesDirectory = cleanDir(c.PagesDirectory)
	c.ControllersDirectory = cleanDir(c.ControllersDirectory)
	c.Positions = strings.ToLower(strings.TrimSpace(c.Positions))
}

func cleanDir(dir string) string {
	dir = filepath.ToSlash(strings.TrimSpace(dir))
	dir = strings.TrimPrefix(dir, "./")
	return strings.TrimSuffix(dir, "/")
}

// Validate checks that every resolution input is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.ViewsDirectory == "" {
		errs = append(errs, errors.New("views_directory must not be empty"))
	}
	if c.TemplateExtension == "" {
		errs = append(errs, errors.New("template_extension must not be empty"))
	}
	if c.PagesDirectory == "" {
		errs = append(errs, errors.New("pages_directory must not be empty"))
	}
	if len(c.PageExtensions) == 0 {
		errs = append(errs, errors.New("page_extensions must not be empty"))
	}
	if c.ControllersDirectory == "" {
		errs = append(errs, errors.New("controllers_directory must not be empty"))
	}
	if len(c.ControllerExtensions) == 0 {
		errs = append(errs, errors.New("controller_extensions must not be empty"))
	}
	if len(c.RoutesFiles) == 0 {
		errs = append(errs, errors.New("routes_files must not be empty"))
	}
	switch c.Positions {
	case PositionsOffset, PositionsFirstLine:
	default:
		errs = append(errs, fmt.Errorf("positions must be %q or %q, got %q", PositionsOffset, PositionsFirstLine, c.Positions))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Write serializes cfg as YAML to path. It refuses to overwrite an existing file.
func Write(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file already exists: %s", path)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
