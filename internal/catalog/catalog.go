// Package catalog talks to the running story catalog: it discovers the
// published stories and builds the per-story page URLs the verifier
// navigates to.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/frherrer/storysnap/internal/domain"
)

// Client fetches the story index over HTTP.
type Client struct {
	baseURL   string
	indexPath string
	storyPath string
	http      *http.Client
	log       *logrus.Logger
}

// NewClient creates a catalog Client.
func NewClient(baseURL, indexPath, storyPath string, log *logrus.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		indexPath: indexPath,
		storyPath: storyPath,
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       log,
	}
}

// indexEntry is one entry of the catalog's story index.
type indexEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Name  string `json:"name"`
	Type  string `json:"type"` // "story" or "docs"
}

// storyIndex is the catalog's index document.
type storyIndex struct {
	V       int                   `json:"v"`
	Entries map[string]indexEntry `json:"entries"`
}

// Stories fetches the story index and returns every published story,
// docs-only entries skipped, sorted by ID. Layout and per-story options
// are completed later from in-page parameters; here every story starts
// with the documented defaults.
func (c *Client) Stories(ctx context.Context) ([]domain.StoryContext, error) {
	u := c.baseURL + c.indexPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, domain.NewError("catalog", "", "", "", "failed to build index request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewError("catalog", "", "", "", "failed to fetch story index", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewError("catalog", "", "", "",
			fmt.Sprintf("story index returned %d", resp.StatusCode), nil)
	}

	var index storyIndex
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		return nil, domain.NewError("catalog", "", "", "", "failed to decode story index", err)
	}

	var stories []domain.StoryContext
	for _, entry := range index.Entries {
		if entry.Type != "" && entry.Type != "story" {
			continue
		}
		stories = append(stories, domain.StoryContext{
			ID:         entry.ID,
			Title:      entry.Title,
			Name:       entry.Name,
			Parameters: map[string]string{},
			Options:    domain.DefaultTestOptions(),
		})
	}

	sort.Slice(stories, func(i, j int) bool { return stories[i].ID < stories[j].ID })
	c.log.Infof("Found %d published story(ies)", len(stories))
	return stories, nil
}

// StoryURL returns the isolated rendering URL for one story.
func (c *Client) StoryURL(storyID string) string {
	return fmt.Sprintf("%s%s?id=%s&viewMode=story", c.baseURL, c.storyPath, url.QueryEscape(storyID))
}
