package verifier

import (
	"context"
	"time"

	"github.com/frherrer/storysnap/internal/domain"
)

// awaitReady blocks until the rendered story page is stable, in order:
// loader-marker absence, optional caller selector, fixed settle delay,
// image-load completion. The generic page-ready wait happens earlier, in
// Verify, because the story context has to be readable before the
// per-story options consumed here are known.
//
// Every wait is bounded. The loader wait is capped well below the overall
// per-test timeout so a stuck loading state (a lingering toast included)
// fails fast instead of exhausting the outer budget. Failures here are not
// retried internally; the enclosing task retry absorbs flakiness.
func (v *Verifier) awaitReady(ctx context.Context, page Page, story domain.StoryContext) error {
	fail := func(msg string, err error) error {
		return domain.NewError("readiness", story.ID, page.Engine(), "", msg, err)
	}

	if story.Options.WaitForLoadersToDisappear {
		if err := page.WaitGone(ctx, v.settings.LoaderSelectors, v.settings.LoaderTimeout); err != nil {
			return fail("loading indicators did not disappear", err)
		}
	}

	if sel := story.Options.WaitForSelector; sel != "" {
		if err := page.WaitVisible(ctx, sel, v.settings.ActionTimeout); err != nil {
			return fail("configured selector never appeared", err)
		}
	}

	// Fixed settle delay so in-flight animations and transitions finish.
	select {
	case <-ctx.Done():
		return fail("settle delay interrupted", domain.ErrTimeout)
	case <-time.After(v.settings.SettleDelay):
	}

	if err := page.WaitImages(ctx, v.settings.ImageTimeout); err != nil {
		return fail("images did not finish loading", err)
	}

	return nil
}
