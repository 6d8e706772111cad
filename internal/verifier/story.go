package verifier

import (
	"context"

	"github.com/frherrer/storysnap/internal/domain"
)

// storyContextJS reads the story parameters from the hosting runtime's
// context accessor. Returns null when the runtime has not mounted yet.
const storyContextJS = `() => {
	const preview = window.__STORYBOOK_PREVIEW__;
	const render = preview && preview.currentRender;
	const params = render && render.story ? render.story.parameters : null;
	if (!params) return null;
	return { layout: params.layout || "", snapshot: params.snapshot || null };
}`

// pageParameters is the in-page parameter payload. Pointer fields
// distinguish unset from false so defaults survive.
type pageParameters struct {
	Layout   string `json:"layout"`
	Snapshot *struct {
		WaitForLoadersToDisappear     *bool    `json:"waitForLoadersToDisappear"`
		WaitForSelector               string   `json:"waitForSelector"`
		ExcludeNavigationFromSnapshot bool     `json:"excludeNavigationFromSnapshot"`
		SnapshotBrowsers              []string `json:"snapshotBrowsers"`
		SnapshotTargetSelector        string   `json:"snapshotTargetSelector"`
	} `json:"snapshot"`
}

// loadStoryParameters completes a StoryContext with the layout and test
// options published by the page. The context is read once, after the page
// is loaded, and not mutated afterwards.
func loadStoryParameters(ctx context.Context, page Page, story *domain.StoryContext) error {
	var params *pageParameters
	if err := page.EvalJSON(ctx, storyContextJS, &params); err != nil {
		return domain.NewError("catalog", story.ID, page.Engine(), "", "failed to read story context", err)
	}
	if params == nil {
		// No parameters published: keep the defaults.
		return nil
	}

	story.Layout = params.Layout

	opts := domain.DefaultTestOptions()
	if s := params.Snapshot; s != nil {
		if s.WaitForLoadersToDisappear != nil {
			opts.WaitForLoadersToDisappear = *s.WaitForLoadersToDisappear
		}
		opts.WaitForSelector = s.WaitForSelector
		opts.ExcludeNavigationFromSnapshot = s.ExcludeNavigationFromSnapshot
		opts.SnapshotBrowsers = s.SnapshotBrowsers
		opts.SnapshotTargetSelector = s.SnapshotTargetSelector
	}
	story.Options = opts
	return nil
}

// targetsEngine reports whether a story opts into snapshots on the given
// engine. An empty browser list means primary engine only.
func targetsEngine(opts domain.TestOptions, engine, primary string) bool {
	if len(opts.SnapshotBrowsers) == 0 {
		return engine == primary
	}
	for _, b := range opts.SnapshotBrowsers {
		if b == engine {
			return true
		}
	}
	return false
}
