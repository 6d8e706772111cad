package config

import "time"

// DefaultConfig returns a Config with sensible default values.
//
// The timeout ladder is deliberate: test (15s) > action (10s) leaves
// headroom for the outer framework, and loader (1s) is short so a stuck
// spinner or lingering toast fails fast instead of exhausting the budget.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			URL:       "http://localhost:6006",
			IndexPath: "/index.json",
			StoryPath: "/iframe.html",
		},
		Browsers: BrowserConfig{
			Primary: "chromium",
			Remotes: map[string]string{},
		},
		Themes: ThemeConfig{
			Order:     []string{"light", "dark"},
			Legacy:    "legacy",
			Attribute: "data-theme",
		},
		Snapshots: SnapshotConfig{
			BaselineDir: "snapshots",
			ReceivedDir: "snapshots/__received__",
			Threshold:   0.01,
			Method:      "ssim",
		},
		Timeouts: TimeoutConfig{
			Test:   Duration(15 * time.Second),
			Action: Duration(10 * time.Second),
			Loader: Duration(1 * time.Second),
			Settle: Duration(300 * time.Millisecond),
			Images: Duration(5 * time.Second),
		},
		Retries: 3,
		Workers: 4,
		Selectors: SelectorConfig{
			Root:       "#storybook-root",
			Navigation: ".sidebar-container",
			Content:    "#storybook-preview-wrapper",
			Loaders: []string{
				".sb-loader",
				".sb-show-preparing-story",
				"[role=progressbar]",
				".toast",
			},
			Overlays: []string{
				"[data-floating-ui-portal] > *",
				"[role=tooltip]",
				"[role=menu]",
				"[role=dialog]",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
