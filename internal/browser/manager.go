// Package browser wraps go-rod with the operations the snapshot verifier
// needs: engine lifecycle, per-story pages, bounded DOM waits, and region
// screenshot capture.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// Manager owns one rod.Browser handle per targeted engine. The primary
// engine is launched locally headless; other engines are reached through
// their remote CDP websocket URLs.
type Manager struct {
	primary  string
	remotes  map[string]string
	log      *logrus.Logger

	mu       sync.Mutex
	browsers map[string]*rod.Browser
	lnch     *launcher.Launcher
}

// NewManager creates a Manager. Engines are connected lazily on first use.
func NewManager(primary string, remotes map[string]string, log *logrus.Logger) *Manager {
	return &Manager{
		primary:  primary,
		remotes:  remotes,
		log:      log,
		browsers: make(map[string]*rod.Browser),
	}
}

// Browser returns the connected rod.Browser for an engine, connecting or
// launching it on first use.
func (m *Manager) Browser(engine string) (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.browsers[engine]; ok {
		return b, nil
	}

	var controlURL string
	if engine == m.primary {
		m.lnch = launcher.New().Headless(true)
		u, err := m.lnch.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch %s: %w", engine, err)
		}
		controlURL = u
	} else {
		u, ok := m.remotes[engine]
		if !ok {
			return nil, fmt.Errorf("browser: unknown engine %q", engine)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect %s: %w", engine, err)
	}
	m.log.Debugf("Connected engine %s", engine)
	m.browsers[engine] = b
	return b, nil
}

// OpenPage creates a fresh page on the given engine and navigates it to
// the story URL. The page is exclusively owned by its verification task.
func (m *Manager) OpenPage(ctx context.Context, engine, url string) (*Page, error) {
	b, err := m.Browser(engine)
	if err != nil {
		return nil, err
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}

	if err := page.Context(ctx).Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", url, err)
	}

	return &Page{page: page, engine: engine}, nil
}

// Close disconnects every engine. The locally launched one is also killed.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for engine, b := range m.browsers {
		if err := b.Close(); err != nil {
			m.log.Warnf("Failed to close engine %s: %v", engine, err)
		}
	}
	m.browsers = make(map[string]*rod.Browser)
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
}
