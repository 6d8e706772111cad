package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/frherrer/storysnap/internal/domain"
)

// fakePage is a scriptable Page for tests: it serves canned story
// parameters and geometry, and records every call the verifier makes.
type fakePage struct {
	engine string

	// canned page state
	layout          string
	snapshot        map[string]interface{} // in-page snapshot options, nil = none published
	loaderStuck     bool                   // loading indicator never disappears
	selectorMissing bool                   // configured selector never becomes visible
	missingRoot     bool
	rootBox         domain.Rect
	overlayBoxes    []domain.Rect
	contentBox      domain.Rect
	capture         []byte // PNG served by every capture
	waitReadyErr    error

	// recorded calls
	evalJS          []string
	evalArgs        [][]interface{}
	visibleCalls    []string
	visibleTimeouts []time.Duration
	regionCalls     int
	regionRects     []domain.Rect
	regionOmitBG    []bool
	viewportCalls   int
	closed          bool
}

func (f *fakePage) Engine() string { return f.engine }

func (f *fakePage) WaitReady(ctx context.Context) error { return f.waitReadyErr }

func (f *fakePage) WaitGone(ctx context.Context, selectors []string, timeout time.Duration) error {
	if f.loaderStuck {
		return fmt.Errorf("%w: loading indicator still present after %s", domain.ErrTimeout, timeout)
	}
	return nil
}

func (f *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	f.visibleCalls = append(f.visibleCalls, selector)
	f.visibleTimeouts = append(f.visibleTimeouts, timeout)
	if f.selectorMissing {
		return fmt.Errorf("%w: selector %q not visible within %s", domain.ErrTimeout, selector, timeout)
	}
	return nil
}

func (f *fakePage) WaitImages(ctx context.Context, timeout time.Duration) error { return nil }

func (f *fakePage) Eval(ctx context.Context, js string, args ...interface{}) error {
	f.evalJS = append(f.evalJS, js)
	f.evalArgs = append(f.evalArgs, args)
	return nil
}

func (f *fakePage) EvalJSON(ctx context.Context, js string, out interface{}, args ...interface{}) error {
	payload := map[string]interface{}{"layout": f.layout}
	if f.snapshot != nil {
		payload["snapshot"] = f.snapshot
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakePage) Has(ctx context.Context, selector string) (bool, error) {
	return !f.missingRoot, nil
}

func (f *fakePage) ElementBox(ctx context.Context, selector string) (domain.Rect, bool, error) {
	if selector == "#storybook-preview-wrapper" {
		return f.contentBox, true, nil
	}
	if f.missingRoot {
		return domain.Rect{}, false, nil
	}
	return f.rootBox, true, nil
}

func (f *fakePage) Boxes(ctx context.Context, selectors []string) ([]domain.Rect, error) {
	return f.overlayBoxes, nil
}

func (f *fakePage) CaptureRegion(ctx context.Context, r domain.Rect, omitBackground bool) ([]byte, error) {
	f.regionCalls++
	f.regionRects = append(f.regionRects, r)
	f.regionOmitBG = append(f.regionOmitBG, omitBackground)
	return f.capture, nil
}

func (f *fakePage) CaptureViewport(ctx context.Context) ([]byte, error) {
	f.viewportCalls++
	return f.capture, nil
}

func (f *fakePage) Close() error {
	f.closed = true
	return nil
}

// evaluated reports whether any recorded Eval call contains the substring.
func (f *fakePage) evaluated(substr string) bool {
	for _, js := range f.evalJS {
		if strings.Contains(js, substr) {
			return true
		}
	}
	return false
}

// evaluatedWithArg reports whether any recorded Eval call got the given
// argument value.
func (f *fakePage) evaluatedWithArg(arg interface{}) bool {
	for _, args := range f.evalArgs {
		for _, a := range args {
			if a == arg {
				return true
			}
		}
	}
	return false
}
