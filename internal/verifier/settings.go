package verifier

import (
	"sort"
	"time"

	"github.com/frherrer/storysnap/internal/config"
)

// Settings is the process-wide verification configuration: built from the
// config once before any task runs, passed by value, immutable thereafter.
type Settings struct {
	PrimaryBrowser string
	Engines        []string

	Themes         []string
	LegacyTheme    string
	ThemeAttribute string

	Threshold float64
	Update    bool

	Retries int
	Workers int

	TestTimeout   time.Duration
	ActionTimeout time.Duration
	LoaderTimeout time.Duration
	SettleDelay   time.Duration
	ImageTimeout  time.Duration

	RootSelector       string
	NavigationSelector string
	ContentSelector    string
	LoaderSelectors    []string
	OverlaySelectors   []string
}

// NewSettings builds Settings from a validated Config.
func NewSettings(cfg *config.Config) Settings {
	engines := []string{cfg.Browsers.Primary}
	remotes := make([]string, 0, len(cfg.Browsers.Remotes))
	for name := range cfg.Browsers.Remotes {
		remotes = append(remotes, name)
	}
	sort.Strings(remotes)
	engines = append(engines, remotes...)

	return Settings{
		PrimaryBrowser: cfg.Browsers.Primary,
		Engines:        engines,

		Themes:         cfg.Themes.Order,
		LegacyTheme:    cfg.Themes.Legacy,
		ThemeAttribute: cfg.Themes.Attribute,

		Threshold: cfg.Snapshots.Threshold,
		Update:    cfg.Update,

		Retries: cfg.Retries,
		Workers: cfg.Workers,

		TestTimeout:   cfg.Timeouts.Test.Std(),
		ActionTimeout: cfg.Timeouts.Action.Std(),
		LoaderTimeout: cfg.Timeouts.Loader.Std(),
		SettleDelay:   cfg.Timeouts.Settle.Std(),
		ImageTimeout:  cfg.Timeouts.Images.Std(),

		RootSelector:       cfg.Selectors.Root,
		NavigationSelector: cfg.Selectors.Navigation,
		ContentSelector:    cfg.Selectors.Content,
		LoaderSelectors:    cfg.Selectors.Loaders,
		OverlaySelectors:   cfg.Selectors.Overlays,
	}
}
