package verifier

import (
	"context"

	"github.com/frherrer/storysnap/internal/domain"
	"github.com/frherrer/storysnap/internal/region"
)

// capture resolves the snapshot scope for the story under the given theme,
// applies the DOM adjustments the scope needs, and returns the captured
// PNG buffer.
func (v *Verifier) capture(ctx context.Context, page Page, story domain.StoryContext, theme string) ([]byte, error) {
	fail := func(phase, msg string, err error) error {
		return domain.NewError(phase, story.ID, page.Engine(), theme, msg, err)
	}

	switch region.Resolve(story.Layout, story.Options) {
	case region.ModeFullPage:
		buf, err := page.CaptureViewport(ctx)
		if err != nil {
			return nil, fail("capture", "viewport capture failed", err)
		}
		return buf, nil

	case region.ModeScene:
		// The navigation container clips by default; force its overflow
		// visible so the main-content capture is not cut off.
		err := page.Eval(ctx, `(sel) => {
			const nav = document.querySelector(sel);
			if (nav) nav.style.overflow = "visible";
		}`, v.settings.NavigationSelector)
		if err != nil {
			return nil, fail("region", "failed to adjust navigation overflow", err)
		}

		box, ok, err := page.ElementBox(ctx, v.settings.ContentSelector)
		if err != nil {
			return nil, fail("region", "failed to locate main content", err)
		}
		if !ok {
			return nil, fail("region", "main content region not found", nil)
		}

		buf, err := page.CaptureRegion(ctx, box, false)
		if err != nil {
			return nil, fail("capture", "scene capture failed", err)
		}
		return buf, nil

	default:
		return v.captureComponent(ctx, page, story, theme)
	}
}

// captureComponent captures a single sub-element: the root mounting node
// by default, overridable per story. The root is shrink-wrapped so the
// image bounds match the component rather than the viewport, then expanded
// to contain every floating overlay, and captured with background omission
// so the themed background (or legacy transparency) is what gets compared.
func (v *Verifier) captureComponent(ctx context.Context, page Page, story domain.StoryContext, theme string) ([]byte, error) {
	fail := func(phase, msg string, err error) error {
		return domain.NewError(phase, story.ID, page.Engine(), theme, msg, err)
	}

	sel := story.Options.SnapshotTargetSelector
	if sel == "" {
		sel = v.settings.RootSelector
	}

	found, err := page.Has(ctx, sel)
	if err != nil {
		return nil, fail("region", "failed to query root element", err)
	}
	if !found {
		// Structural story-definition bug: hard failure, no screenshot,
		// never retried.
		return nil, fail("region", "root element "+sel+" not found", domain.ErrRootNotFound)
	}

	background, _ := region.Background(theme, v.settings.LegacyTheme)
	err = page.Eval(ctx, `(sel, background) => {
		const root = document.querySelector(sel);
		root.style.display = "inline-block";
		root.style.width = "fit-content";
		root.style.height = "fit-content";
		root.style.background = background;
	}`, sel, background)
	if err != nil {
		return nil, fail("region", "failed to shrink-wrap root element", err)
	}

	rootBox, ok, err := page.ElementBox(ctx, sel)
	if err != nil || !ok {
		return nil, fail("region", "failed to measure root element", err)
	}

	overlays, err := page.Boxes(ctx, v.settings.OverlaySelectors)
	if err != nil {
		return nil, fail("region", "failed to measure overlay elements", err)
	}

	buf, err := page.CaptureRegion(ctx, region.Union(rootBox, overlays), true)
	if err != nil {
		return nil, fail("capture", "component capture failed", err)
	}
	return buf, nil
}
