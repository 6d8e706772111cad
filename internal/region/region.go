// Package region decides which rectangular part of a rendered story page
// gets captured. The geometry is pure so it can be tested without a
// browser; applying it to the live page is the verifier's job.
package region

import "github.com/frherrer/storysnap/internal/domain"

// Mode is the snapshot scope for one story.
type Mode int

const (
	// ModeComponent captures a single sub-element, root mounting node by
	// default. This is the default for any non-fullscreen layout.
	ModeComponent Mode = iota

	// ModeFullPage captures the entire viewport as rendered.
	ModeFullPage

	// ModeScene captures only the designated main-content region,
	// navigation excluded.
	ModeScene
)

func (m Mode) String() string {
	switch m {
	case ModeFullPage:
		return "full-page"
	case ModeScene:
		return "scene"
	default:
		return "component"
	}
}

// Resolve selects the capture mode from the story layout and options.
// The three modes are mutually exclusive: fullscreen layout with the
// navigation included is a full-page capture, fullscreen with navigation
// excluded is a scene capture, everything else is a component capture.
func Resolve(layout string, opts domain.TestOptions) Mode {
	if layout != "fullscreen" {
		return ModeComponent
	}
	if opts.ExcludeNavigationFromSnapshot {
		return ModeScene
	}
	return ModeFullPage
}

// Union folds the overlay rectangles into the root rectangle, expanding
// the capture region so it fully contains every overlay that extends
// beyond the root's natural bounds in any of the four directions.
// Overlays above or left of the root shift the effective origin.
//
// Overlays (tooltips, menus) render outside their trigger's layout box;
// without this step they would be silently cropped out of every snapshot
// that contains one.
func Union(root domain.Rect, overlays []domain.Rect) domain.Rect {
	out := root
	for _, o := range overlays {
		if o.Width <= 0 || o.Height <= 0 {
			continue
		}
		if o.X < out.X {
			out.Width += out.X - o.X
			out.X = o.X
		}
		if o.Y < out.Y {
			out.Height += out.Y - o.Y
			out.Y = o.Y
		}
		if o.Right() > out.Right() {
			out.Width = o.Right() - out.X
		}
		if o.Bottom() > out.Bottom() {
			out.Height = o.Bottom() - out.Y
		}
	}
	return out
}

// Background returns the capture background for a theme: transparent only
// for the legacy theme, a themed background variable otherwise. Captures
// are taken with background omission enabled, so this value is exactly
// what gets compared.
func Background(theme, legacyTheme string) (css string, transparent bool) {
	if theme == legacyTheme {
		return "transparent", true
	}
	return "var(--background-default)", false
}
