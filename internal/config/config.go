package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/frherrer/storysnap/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Browsers  BrowserConfig   `yaml:"browsers"`
	Themes    ThemeConfig     `yaml:"themes"`
	Snapshots SnapshotConfig  `yaml:"snapshots"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
	Retries   int             `yaml:"retries"`
	Workers   int             `yaml:"workers"`
	Selectors SelectorConfig  `yaml:"selectors"`
	Logging   LoggingConfig   `yaml:"logging"`
	Update    bool            `yaml:"update"` // treat mismatches as new baselines
}

type CatalogConfig struct {
	URL       string `yaml:"url"`        // base URL of the running story catalog
	IndexPath string `yaml:"index_path"` // path of the story index, default "/index.json"
	StoryPath string `yaml:"story_path"` // path of the story iframe, default "/iframe.html"
}

type BrowserConfig struct {
	Primary string            `yaml:"primary"` // primary engine, contributes no identifier suffix
	Remotes map[string]string `yaml:"remotes"` // engine name -> CDP websocket URL
}

type ThemeConfig struct {
	Order     []string `yaml:"order"`     // themes rendered in sequence per verification
	Legacy    string   `yaml:"legacy"`    // theme that contributes no suffix and a transparent background
	Attribute string   `yaml:"attribute"` // body attribute carrying the active theme
}

type SnapshotConfig struct {
	BaselineDir string  `yaml:"baseline_dir"`
	ReceivedDir string  `yaml:"received_dir"`
	Threshold   float64 `yaml:"threshold"` // comparison fails at or above this dissimilarity
	Method      string  `yaml:"method"`    // only "ssim" is supported
}

// Duration is a time.Duration that unmarshals from YAML strings like "15s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type TimeoutConfig struct {
	Test   Duration `yaml:"test"`   // per-task budget, outer framework headroom included
	Action Duration `yaml:"action"` // single browser action
	Loader Duration `yaml:"loader"` // loader-absence wait, deliberately short
	Settle Duration `yaml:"settle"` // fixed delay for animations to finish
	Images Duration `yaml:"images"` // all-images-complete wait
}

type SelectorConfig struct {
	Root       string   `yaml:"root"`       // root mounting node
	Navigation string   `yaml:"navigation"` // navigation container
	Content    string   `yaml:"content"`    // designated main-content region
	Loaders    []string `yaml:"loaders"`    // loading-indicator markers, toasts included
	Overlays   []string `yaml:"overlays"`   // floating overlay markers (tooltips, menus, popovers)
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", "", "", "", "failed to read config file "+path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", "", "", "", "failed to parse config file "+path, err)
	}

	return cfg, nil
}
