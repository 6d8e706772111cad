// Package report renders a verification run into a markdown summary, and
// optionally into HTML for sharing.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/frherrer/storysnap/internal/domain"
	"github.com/frherrer/storysnap/internal/verifier"
)

// FileName is the markdown report written next to the snapshot store.
const FileName = "storysnap-report.md"

// Render produces the markdown report for a run summary.
func Render(summary *verifier.Summary) string {
	var b strings.Builder
	b.WriteString("# Snapshot verification report\n\n")
	fmt.Fprintf(&b, "Passed: %d | Failed: %d | Skipped: %d | New baselines: %d\n\n",
		summary.Passed, summary.Failed, summary.Skipped, summary.NewBaselines)

	results := make([]domain.VerificationResult, len(summary.Results))
	copy(results, summary.Results)
	sort.Slice(results, func(i, j int) bool {
		if results[i].StoryID != results[j].StoryID {
			return results[i].StoryID < results[j].StoryID
		}
		return results[i].Browser < results[j].Browser
	})

	b.WriteString("| Story | Browser | Theme | Dissimilarity | Verdict |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, res := range results {
		if res.Skipped {
			fmt.Fprintf(&b, "| %s | %s | - | - | skipped |\n", res.StoryID, res.Browser)
			continue
		}
		for _, cmp := range res.Comparisons {
			verdict := "pass"
			switch {
			case cmp.NewBaseline:
				verdict = "new baseline"
			case !cmp.Passed:
				verdict = "FAIL"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %.4f | %s |\n",
				res.StoryID, res.Browser, cmp.Theme, cmp.Dissimilarity, verdict)
		}
		// A task can abort after some themes already compared; the error
		// row follows the rows that did complete.
		if res.Err != nil {
			fmt.Fprintf(&b, "| %s | %s | - | - | error: %v |\n", res.StoryID, res.Browser, res.Err)
		}
	}
	return b.String()
}

// Write renders the summary and writes the markdown report into dir.
func Write(dir string, summary *verifier.Summary) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("report: create dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(Render(summary)), 0644); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	return path, nil
}

// ToHTML converts a markdown report into a standalone HTML document.
func ToHTML(markdown []byte) ([]byte, error) {
	var body bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert(markdown, &body); err != nil {
		return nil, fmt.Errorf("report: render html: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Snapshot verification report</title></head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}
