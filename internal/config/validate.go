package config

import (
	"fmt"
	"strings"

	"github.com/frherrer/storysnap/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Catalog.URL == "" {
		errs = append(errs, "catalog.url must not be empty")
	}
	if !strings.HasPrefix(cfg.Catalog.URL, "http://") && !strings.HasPrefix(cfg.Catalog.URL, "https://") {
		errs = append(errs, "catalog.url must be an http(s) URL")
	}

	if cfg.Browsers.Primary == "" {
		errs = append(errs, "browsers.primary must not be empty")
	}
	for name, ws := range cfg.Browsers.Remotes {
		if ws == "" {
			errs = append(errs, fmt.Sprintf("browsers.remotes.%s must not be empty", name))
		}
	}

	if len(cfg.Themes.Order) == 0 {
		errs = append(errs, "themes.order must not be empty")
	}
	if cfg.Themes.Attribute == "" {
		errs = append(errs, "themes.attribute must not be empty")
	}

	// Snapshot identifiers drop the legacy-theme and primary-engine
	// suffixes, so a name shared between a theme and an engine would make
	// two distinct (story, theme, browser) triples share one stored
	// reference.
	engines := map[string]bool{cfg.Browsers.Primary: true}
	for name := range cfg.Browsers.Remotes {
		engines[name] = true
	}
	for _, theme := range cfg.Themes.Order {
		if engines[theme] {
			errs = append(errs, fmt.Sprintf("themes.order and the engine set must be disjoint: %q names both", theme))
		}
	}
	if cfg.Themes.Legacy != "" && engines[cfg.Themes.Legacy] {
		errs = append(errs, fmt.Sprintf("themes.legacy and the engine set must be disjoint: %q names both", cfg.Themes.Legacy))
	}

	if cfg.Snapshots.BaselineDir == "" {
		errs = append(errs, "snapshots.baseline_dir must not be empty")
	}
	if cfg.Snapshots.ReceivedDir == "" {
		errs = append(errs, "snapshots.received_dir must not be empty")
	}
	if cfg.Snapshots.Threshold <= 0 || cfg.Snapshots.Threshold >= 1 {
		errs = append(errs, fmt.Sprintf("snapshots.threshold must be in (0, 1) (got %g)", cfg.Snapshots.Threshold))
	}
	if cfg.Snapshots.Method != "ssim" {
		errs = append(errs, fmt.Sprintf("snapshots.method must be \"ssim\" (got %q)", cfg.Snapshots.Method))
	}

	// The timeout ladder is a correctness condition: the per-test budget
	// must strictly exceed the browser-action timeout, which in turn must
	// exceed the loader wait.
	if cfg.Timeouts.Test <= cfg.Timeouts.Action {
		errs = append(errs, "timeouts.test must be strictly greater than timeouts.action")
	}
	if cfg.Timeouts.Action <= cfg.Timeouts.Loader {
		errs = append(errs, "timeouts.action must be strictly greater than timeouts.loader")
	}
	if cfg.Timeouts.Loader <= 0 {
		errs = append(errs, "timeouts.loader must be positive")
	}
	if cfg.Timeouts.Settle < 0 {
		errs = append(errs, "timeouts.settle must not be negative")
	}

	if cfg.Retries < 0 {
		errs = append(errs, "retries must not be negative")
	}
	if cfg.Workers < 1 {
		errs = append(errs, "workers must be at least 1")
	}

	if cfg.Selectors.Root == "" {
		errs = append(errs, "selectors.root must not be empty")
	}
	if cfg.Selectors.Content == "" {
		errs = append(errs, "selectors.content must not be empty")
	}

	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", "", "", fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
