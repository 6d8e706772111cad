// Package verifier runs the visual snapshot verification workflow: one
// strictly sequential pipeline per (story, browser) task, two theme passes
// per pipeline, one comparison per pass.
package verifier

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/frherrer/storysnap/internal/domain"
	"github.com/frherrer/storysnap/internal/snapshot"
)

// disableAnimationsJS installs a marker class that freezes CSS animations
// and transitions. Applied once per verification call, not per theme, so
// both theme passes render without timing nondeterminism.
const disableAnimationsJS = `() => {
	if (document.getElementById("storysnap-freeze")) return;
	const style = document.createElement("style");
	style.id = "storysnap-freeze";
	style.textContent = "*, *::before, *::after {" +
		" animation: none !important;" +
		" transition: none !important;" +
		" caret-color: transparent !important; }";
	document.head.appendChild(style);
	document.documentElement.classList.add("storysnap-freeze");
}`

// Verifier decides, per story and browser engine, whether the rendered
// output matches the stored references for every theme.
type Verifier struct {
	settings   Settings
	store      *snapshot.Store
	comparator *snapshot.Comparator
	log        *logrus.Logger
}

// New creates a Verifier.
func New(settings Settings, store *snapshot.Store, comparator *snapshot.Comparator, log *logrus.Logger) *Verifier {
	return &Verifier{
		settings:   settings,
		store:      store,
		comparator: comparator,
		log:        log,
	}
}

// Verify runs the full verification pipeline for one story on one page.
// The returned result carries one comparison per theme; err is non-nil
// when the pipeline aborted or any theme comparison failed.
func (v *Verifier) Verify(ctx context.Context, page Page, story domain.StoryContext) domain.VerificationResult {
	result := domain.VerificationResult{StoryID: story.ID, Browser: page.Engine()}

	if err := page.WaitReady(ctx); err != nil {
		result.Err = domain.NewError("readiness", story.ID, page.Engine(), "", "page never became ready", err)
		return result
	}

	if err := loadStoryParameters(ctx, page, &story); err != nil {
		result.Err = err
		return result
	}

	if !targetsEngine(story.Options, page.Engine(), v.settings.PrimaryBrowser) {
		v.log.Debugf("Skipping %s on %s: engine not targeted", story.ID, page.Engine())
		result.Skipped = true
		return result
	}

	if err := v.awaitReady(ctx, page, story); err != nil {
		result.Err = err
		return result
	}

	if err := page.Eval(ctx, disableAnimationsJS); err != nil {
		result.Err = domain.NewError("readiness", story.ID, page.Engine(), "", "failed to disable animations", err)
		return result
	}

	// The theme passes share and mutate the same page state, so they run
	// in sequence, never in parallel. Each pass compares independently.
	for _, theme := range v.settings.Themes {
		cmp, err := v.verifyTheme(ctx, page, story, theme)
		if err != nil {
			result.Err = err
			return result
		}
		result.Comparisons = append(result.Comparisons, cmp)
	}

	for _, cmp := range result.Comparisons {
		if !cmp.Passed {
			result.Err = domain.NewError("compare", story.ID, page.Engine(), cmp.Theme,
				fmt.Sprintf("dissimilarity %.4f at or above threshold %.4f", cmp.Dissimilarity, v.settings.Threshold),
				domain.ErrMismatch)
			break
		}
	}
	return result
}

// verifyTheme runs one theme pass: set the theme attribute, resolve and
// capture the region, compare against the stored reference.
func (v *Verifier) verifyTheme(ctx context.Context, page Page, story domain.StoryContext, theme string) (domain.ComparisonResult, error) {
	err := page.Eval(ctx, `(attr, theme) => document.body.setAttribute(attr, theme)`,
		v.settings.ThemeAttribute, theme)
	if err != nil {
		return domain.ComparisonResult{}, domain.NewError("region", story.ID, page.Engine(), theme,
			"failed to set theme attribute", err)
	}

	captured, err := v.capture(ctx, page, story, theme)
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	id := snapshot.Identifier(story.ID, theme, v.settings.LegacyTheme, page.Engine(), v.settings.PrimaryBrowser)
	return v.compare(id, theme, story, page.Engine(), captured)
}

// compare scores a captured image against the stored reference for id.
// A missing reference is not an error: the capture becomes the baseline
// and the pass succeeds (write-then-verify semantics).
func (v *Verifier) compare(id, theme string, story domain.StoryContext, engine string, captured []byte) (domain.ComparisonResult, error) {
	fail := func(msg string, err error) error {
		return domain.NewError("compare", story.ID, engine, theme, msg, err)
	}

	reference, exists, err := v.store.Baseline(id)
	if err != nil {
		return domain.ComparisonResult{}, fail("failed to read baseline", err)
	}

	if !exists {
		if err := v.store.WriteBaseline(id, captured); err != nil {
			return domain.ComparisonResult{}, fail("failed to write new baseline", err)
		}
		v.log.Infof("New baseline: %s", id)
		return domain.ComparisonResult{Identifier: id, Theme: theme, Passed: true, NewBaseline: true}, nil
	}

	dissimilarity, passed, err := v.comparator.Compare(reference, captured)
	if err != nil {
		return domain.ComparisonResult{}, fail("comparison failed", err)
	}

	if !passed {
		if v.settings.Update {
			if err := v.store.WriteBaseline(id, captured); err != nil {
				return domain.ComparisonResult{}, fail("failed to update baseline", err)
			}
			v.log.Infof("Updated baseline: %s", id)
			return domain.ComparisonResult{Identifier: id, Theme: theme, Passed: true, NewBaseline: true}, nil
		}
		// Keep the capture next to the baselines for human triage.
		if err := v.store.WriteReceived(id, captured); err != nil {
			return domain.ComparisonResult{}, fail("failed to write received image", err)
		}
		v.log.Warnf("Mismatch: %s (dissimilarity %.4f)", id, dissimilarity)
	}

	return domain.ComparisonResult{
		Identifier:    id,
		Theme:         theme,
		Passed:        passed,
		Dissimilarity: dissimilarity,
	}, nil
}
