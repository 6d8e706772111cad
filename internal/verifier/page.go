package verifier

import (
	"context"
	"time"

	"github.com/frherrer/storysnap/internal/domain"
)

// Page is the browser-automation surface the verifier consumes: DOM
// evaluation, element waiting, and region screenshot capture. The browser
// package provides the real implementation; tests substitute a fake.
type Page interface {
	Engine() string

	WaitReady(ctx context.Context) error
	WaitGone(ctx context.Context, selectors []string, timeout time.Duration) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	WaitImages(ctx context.Context, timeout time.Duration) error

	Eval(ctx context.Context, js string, args ...interface{}) error
	EvalJSON(ctx context.Context, js string, out interface{}, args ...interface{}) error
	Has(ctx context.Context, selector string) (bool, error)
	ElementBox(ctx context.Context, selector string) (domain.Rect, bool, error)
	Boxes(ctx context.Context, selectors []string) ([]domain.Rect, error)

	CaptureRegion(ctx context.Context, r domain.Rect, omitBackground bool) ([]byte, error)
	CaptureViewport(ctx context.Context) ([]byte, error)

	Close() error
}
