package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/frherrer/storysnap/internal/domain"
)

// pollInterval is the spacing between DOM condition probes.
const pollInterval = 50 * time.Millisecond

// Page wraps a rod page with the DOM evaluation, element waiting, and
// region capture operations the verifier needs. A Page is exclusively
// owned by one verification task.
type Page struct {
	page   *rod.Page
	engine string
}

// Engine returns the engine this page runs on.
func (p *Page) Engine() string { return p.engine }

// WaitReady blocks until the host page reports the generic page-ready
// signal (load event fired and document fully parsed).
func (p *Page) WaitReady(ctx context.Context) error {
	if err := p.page.Context(ctx).WaitLoad(); err != nil {
		return fmt.Errorf("%w: page load", domain.ErrTimeout)
	}
	return p.poll(ctx, `() => document.readyState === "complete"`, "page ready")
}

// WaitGone blocks until no element matches any of the given selectors, up
// to timeout. The bound is intentionally short relative to other waits: a
// spinner or toast still visible when it expires is a failure, not
// something to wait out.
func (p *Page) WaitGone(ctx context.Context, selectors []string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	js := `(sels) => sels.every(s => document.querySelector(s) === null)`
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		res, err := p.page.Context(ctx).Eval(js, selectors)
		if err == nil && res.Value.Bool() {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: loading indicator still present after %s", domain.ErrTimeout, timeout)
		case <-ticker.C:
		}
	}
}

// WaitVisible blocks until an element matching selector is present and
// visible, up to timeout.
func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("%w: selector %q not found within %s", domain.ErrTimeout, selector, timeout)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("%w: selector %q not visible within %s", domain.ErrTimeout, selector, timeout)
	}
	return nil
}

// WaitImages blocks until every image on the page reports load
// completion, up to timeout.
func (p *Page) WaitImages(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.poll(ctx, `() => Array.from(document.images).every(img => img.complete)`, "image load")
}

// poll evaluates a boolean JS predicate until it is true or ctx expires.
func (p *Page) poll(ctx context.Context, js, what string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		res, err := p.page.Context(ctx).Eval(js)
		if err == nil && res.Value.Bool() {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", domain.ErrTimeout, what)
		case <-ticker.C:
		}
	}
}

// Eval runs a JS function on the page and discards the result.
func (p *Page) Eval(ctx context.Context, js string, args ...interface{}) error {
	_, err := p.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return fmt.Errorf("browser: eval: %w", err)
	}
	return nil
}

// EvalJSON runs a JS function and decodes its JSON result into out.
func (p *Page) EvalJSON(ctx context.Context, js string, out interface{}, args ...interface{}) error {
	res, err := p.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return fmt.Errorf("browser: eval: %w", err)
	}
	raw, err := json.Marshal(res.Value.Val())
	if err != nil {
		return fmt.Errorf("browser: encode eval result: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("browser: decode eval result: %w", err)
	}
	return nil
}

// Has reports whether an element matching selector exists right now,
// without waiting.
func (p *Page) Has(ctx context.Context, selector string) (bool, error) {
	res, err := p.page.Context(ctx).Eval(`(sel) => document.querySelector(sel) !== null`, selector)
	if err != nil {
		return false, fmt.Errorf("browser: query %q: %w", selector, err)
	}
	return res.Value.Bool(), nil
}

// ElementBox returns the bounding rectangle of the first element matching
// selector. ok=false when no element matches.
func (p *Page) ElementBox(ctx context.Context, selector string) (domain.Rect, bool, error) {
	var box *domain.Rect
	js := `(sel) => {
		const el = document.querySelector(sel);
		if (!el) return null;
		const r = el.getBoundingClientRect();
		return {X: r.x, Y: r.y, Width: r.width, Height: r.height};
	}`
	if err := p.EvalJSON(ctx, js, &box, selector); err != nil {
		return domain.Rect{}, false, err
	}
	if box == nil {
		return domain.Rect{}, false, nil
	}
	return *box, true, nil
}

// Boxes returns the bounding rectangles of every element matching any of
// the given selectors.
func (p *Page) Boxes(ctx context.Context, selectors []string) ([]domain.Rect, error) {
	var boxes []domain.Rect
	js := `(sels) => sels.flatMap(s => Array.from(document.querySelectorAll(s))).map(el => {
		const r = el.getBoundingClientRect();
		return {X: r.x, Y: r.y, Width: r.width, Height: r.height};
	})`
	if err := p.EvalJSON(ctx, js, &boxes, selectors); err != nil {
		return nil, err
	}
	return boxes, nil
}

// CaptureRegion screenshots a rectangular region as PNG. With
// omitBackground the browser's default background is suppressed so the
// page-set background color (or transparency) is what gets compared.
func (p *Page) CaptureRegion(ctx context.Context, r domain.Rect, omitBackground bool) ([]byte, error) {
	page := p.page.Context(ctx)

	if omitBackground {
		alpha := 0.0
		err := proto.EmulationSetDefaultBackgroundColorOverride{
			Color: &proto.DOMRGBA{R: 0, G: 0, B: 0, A: &alpha},
		}.Call(page)
		if err != nil {
			return nil, fmt.Errorf("browser: background override: %w", err)
		}
		defer func() {
			_ = proto.EmulationSetDefaultBackgroundColorOverride{}.Call(page)
		}()
	}

	buf, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
			Scale:  1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("browser: capture region: %w", err)
	}
	return buf, nil
}

// CaptureViewport screenshots the entire viewport as rendered.
func (p *Page) CaptureViewport(ctx context.Context) ([]byte, error) {
	buf, err := p.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("browser: capture viewport: %w", err)
	}
	return buf, nil
}

// Close closes the page.
func (p *Page) Close() error {
	if p.page != nil {
		return p.page.Close()
	}
	return nil
}
