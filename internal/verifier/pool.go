package verifier

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/frherrer/storysnap/internal/browser"
	"github.com/frherrer/storysnap/internal/domain"
)

// StorySource supplies the stories to verify and their rendering URLs.
// The catalog client is the production implementation.
type StorySource interface {
	Stories(ctx context.Context) ([]domain.StoryContext, error)
	StoryURL(storyID string) string
}

// Task is one unit of verification work: one story on one engine. Each
// task exclusively owns its page; no shared mutable state crosses task
// boundaries except the identifier-keyed snapshot store.
type Task struct {
	Story  domain.StoryContext
	Engine string
}

// Summary aggregates a whole run.
type Summary struct {
	Results      []domain.VerificationResult
	Passed       int
	Failed       int
	Skipped      int
	NewBaselines int
}

// Runner dispatches verification tasks across a bounded worker pool.
type Runner struct {
	settings Settings
	verifier *Verifier
	source   StorySource
	openPage func(ctx context.Context, engine, url string) (Page, error)
	log      *logrus.Logger
}

// NewRunner creates a Runner backed by the real browser manager.
func NewRunner(settings Settings, v *Verifier, source StorySource, mgr *browser.Manager, log *logrus.Logger) *Runner {
	return &Runner{
		settings: settings,
		verifier: v,
		source:   source,
		openPage: func(ctx context.Context, engine, url string) (Page, error) {
			return mgr.OpenPage(ctx, engine, url)
		},
		log: log,
	}
}

// Run discovers the stories, fans the (story, engine) tasks out over the
// worker pool, and collects the summary. Steps inside a task stay strictly
// sequential; parallelism exists only between tasks.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	stories, err := r.source.Stories(ctx)
	if err != nil {
		return nil, err
	}

	var tasks []Task
	for _, story := range stories {
		for _, engine := range r.settings.Engines {
			tasks = append(tasks, Task{Story: story, Engine: engine})
		}
	}
	r.log.Infof("Dispatching %d task(s) across %d worker(s)", len(tasks), r.settings.Workers)

	taskCh := make(chan Task)
	resultCh := make(chan domain.VerificationResult, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < r.settings.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				resultCh <- r.runTask(ctx, task)
			}
		}()
	}

	for _, task := range tasks {
		select {
		case taskCh <- task:
		case <-ctx.Done():
		}
	}
	close(taskCh)
	wg.Wait()
	close(resultCh)

	summary := &Summary{}
	for res := range resultCh {
		summary.Results = append(summary.Results, res)
		switch {
		case res.Skipped:
			summary.Skipped++
		case res.Passed():
			summary.Passed++
		default:
			summary.Failed++
		}
		for _, cmp := range res.Comparisons {
			if cmp.NewBaseline {
				summary.NewBaselines++
			}
		}
	}
	return summary, nil
}

// runTask runs one task under its per-task timeout, re-running the entire
// pipeline on retryable failure up to the configured retry count. A failed
// bounded wait aborts the attempt; the task is never resumed mid-sequence.
func (r *Runner) runTask(ctx context.Context, task Task) domain.VerificationResult {
	url := r.source.StoryURL(task.Story.ID)

	var result domain.VerificationResult
	for attempt := 0; attempt <= r.settings.Retries; attempt++ {
		if attempt > 0 {
			r.log.Warnf("Retrying %s on %s (attempt %d/%d): %v",
				task.Story.ID, task.Engine, attempt, r.settings.Retries, result.Err)
		}

		result = r.attempt(ctx, task, url)
		if result.Err == nil || !domain.Retryable(result.Err) {
			return result
		}
	}
	return result
}

// attempt opens a fresh page and runs one full verification pass.
func (r *Runner) attempt(ctx context.Context, task Task, url string) domain.VerificationResult {
	taskCtx, cancel := context.WithTimeout(ctx, r.settings.TestTimeout)
	defer cancel()

	page, err := r.openPage(taskCtx, task.Engine, url)
	if err != nil {
		return domain.VerificationResult{
			StoryID: task.Story.ID,
			Browser: task.Engine,
			Err:     domain.NewError("readiness", task.Story.ID, task.Engine, "", "failed to open story page", err),
		}
	}
	defer page.Close()

	return r.verifier.Verify(taskCtx, page, task.Story)
}
