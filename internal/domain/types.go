package domain

// StoryContext identifies one documented component example. It is produced
// by the catalog before verification begins and never mutated afterwards.
type StoryContext struct {
	ID         string            // stable story identifier, e.g. "buttons-button--primary"
	Title      string            // component title, e.g. "Buttons/Button"
	Name       string            // example name, e.g. "Primary"
	Layout     string            // "fullscreen", "centered", "padded", ...
	Parameters map[string]string // raw named parameters from the catalog
	Options    TestOptions
}

// TestOptions are the per-story snapshot options nested in the story
// parameters. Stories that declare none get DefaultTestOptions.
type TestOptions struct {
	WaitForLoadersToDisappear     bool
	WaitForSelector               string
	ExcludeNavigationFromSnapshot bool
	SnapshotBrowsers              []string // empty = primary engine only
	SnapshotTargetSelector        string   // empty = root mounting node
}

// DefaultTestOptions returns the options applied when a story declares none.
func DefaultTestOptions() TestOptions {
	return TestOptions{
		WaitForLoadersToDisappear: true,
	}
}

// Rect is an axis-aligned region of the rendered page, in CSS pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// ComparisonResult is the outcome of comparing one captured image against
// its stored reference. Produced and consumed within a single verification
// call; nothing is persisted beyond the reference images themselves.
type ComparisonResult struct {
	Identifier    string
	Theme         string
	Passed        bool
	Dissimilarity float64 // 0 = identical, 1 = fully dissimilar
	NewBaseline   bool    // true when no reference existed and one was written
}

// VerificationResult aggregates the per-theme comparisons of one
// (story, browser) task.
type VerificationResult struct {
	StoryID     string
	Browser     string
	Skipped     bool // story does not target this engine
	Comparisons []ComparisonResult
	Err         error
}

// Passed reports whether every theme comparison succeeded and no error
// aborted the task. No partial success: both theme passes must pass.
func (v VerificationResult) Passed() bool {
	if v.Err != nil {
		return false
	}
	if v.Skipped {
		return true
	}
	for _, c := range v.Comparisons {
		if !c.Passed {
			return false
		}
	}
	return len(v.Comparisons) > 0
}
