package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "a11yaudit.yaml"

// Config represents the a11yaudit.yaml configuration.
type Config struct {
	Root         string         `yaml:"root"`
	Extensions   []string       `yaml:"extensions"`
	Ignore       []string       `yaml:"ignore"`
	Detectors    []string       `yaml:"detectors"`
	Renderers    []string       `yaml:"renderers"`
	Workers      int            `yaml:"workers"`
	FailOnIssues bool           `yaml:"fail_on_issues"`
	Contrast     ContrastConfig `yaml:"contrast"`
	Output       OutputConfig   `yaml:"output"`
}

// ContrastConfig controls which files are treated as color/theme definitions.
type ContrastConfig struct {
	ThemePatterns []string `yaml:"theme_patterns"`
}

// OutputConfig controls where and how output artifacts are generated.
type OutputConfig struct {
	Dir             string `yaml:"dir"`
	MaxSummaryChars int    `yaml:"max_summary_chars"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Root:       "src",
		Extensions: []string{".js", ".jsx", ".ts", ".tsx"},
		Ignore: []string{
			"coverage/**",
			"**/*.test.js",
			"**/*.test.tsx",
			"**/*.test.ts",
			"**/*.spec.js",
			"**/*.spec.tsx",
			"**/*.spec.ts",
			"**/*.d.ts",
			".a11yaudit/**",
		},
		Detectors: []string{
			"touch-target",
			"accessibility-label",
			"accessibility-role",
			"focus-handlers",
			"motion",
			"image-description",
			"text-input",
			"color-contrast",
			"font-size",
			"modal",
		},
		Renderers:    []string{"json", "sarif", "summary"},
		FailOnIssues: true,
		Contrast: ContrastConfig{
			ThemePatterns: []string{"theme", "color", "palette"},
		},
		Output: OutputConfig{
			Dir:             ".a11yaudit",
			MaxSummaryChars: 16000,
		},
	}
}

// Load reads a configuration file from the given path.
// Missing fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Root == "" {
		cfg.Root = "src"
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = Default().Extensions
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = ".a11yaudit"
	}
	if cfg.Output.MaxSummaryChars == 0 {
		cfg.Output.MaxSummaryChars = 16000
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("parsing config %s: workers must not be negative", path)
	}

	return cfg, nil
}

// IsDetectorEnabled returns true if the named detector is enabled.
func (c *Config) IsDetectorEnabled(name string) bool {
	return contains(c.Detectors, name)
}

// IsRendererEnabled returns true if the named renderer is enabled.
func (c *Config) IsRendererEnabled(name string) bool {
	return contains(c.Renderers, name)
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
