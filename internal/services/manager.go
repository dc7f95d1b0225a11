// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"

	"github.com/dverley/gatewatch/internal/api"
	"github.com/dverley/gatewatch/internal/config"
	"github.com/dverley/gatewatch/internal/logger"
	"github.com/dverley/gatewatch/internal/models"
)

type (
	// HealthEvent is emitted after every backend health probe.
	HealthEvent struct {
		Status *models.HealthStatus
		Err    error
	}

	// ConfigReloadedEvent is emitted when the watched .env file
	// changes and the client has been rebuilt.
	ConfigReloadedEvent struct {
		BaseURL string
	}

	// ErrorEvent is emitted when a background service fails.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (HealthEvent) isServiceEvent()         {}
func (ConfigReloadedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()          {}

// Manager owns the API client and the background concerns around it:
// health polling, config file watching, desktop notifications, and
// export saving.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	client      *api.Client
	watcher     *fsnotify.Watcher
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan ServiceEvent

	healthyKnown bool
	healthy      bool

	anomalyCounts map[models.Rule]int
}

// NewManager creates a manager and starts its background goroutines.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:           cfg,
		client:        api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout),
		eventChan:     make(chan ServiceEvent, 100),
		stopChan:      make(chan struct{}),
		anomalyCounts: make(map[models.Rule]int),
	}

	if cfg.EnvPath != "" {
		if err := m.watchConfig(cfg.EnvPath); err != nil {
			logger.Warn("config watch disabled", "error", err)
		}
	}

	go m.pollHealth()
	go m.routeEvents()

	return m, nil
}

// Client returns the current API client. The client is replaced, not
// mutated, when the configuration changes.
func (m *Manager) Client() *api.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// Config returns the active configuration.
func (m *Manager) Config() *config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Subscribe registers a listener for service events.
func (m *Manager) Subscribe() (chan ServiceEvent, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan ServiceEvent, 20)
	m.subscribers = append(m.subscribers, ch)

	unsubscribe := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subscribers {
			if sub == ch {
				m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, unsubscribe
}

// Close stops background goroutines and releases the watcher.
func (m *Manager) Close() error {
	close(m.stopChan)
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// WaitForEvent returns a function suitable for use as a Bubble Tea
// command that yields the next service event.
func WaitForEvent(ch <-chan ServiceEvent) func() ServiceEvent {
	return func() ServiceEvent {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// routeEvents fans events out to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.eventChan:
			m.mu.RLock()
			subs := make([]chan ServiceEvent, len(m.subscribers))
			copy(subs, m.subscribers)
			m.mu.RUnlock()

			for _, sub := range subs {
				select {
				case sub <- event:
				default:
					// Slow subscriber; drop rather than block the loop.
				}
			}

		case <-m.stopChan:
			return
		}
	}
}

// pollHealth probes the backend health endpoint on an interval and
// raises a desktop notification when reachability flips.
func (m *Manager) pollHealth() {
	interval := m.Config().HealthPollInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.probeHealth()
	for {
		select {
		case <-ticker.C:
			m.probeHealth()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) probeHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), m.Config().RequestTimeout)
	defer cancel()

	status, err := m.Client().Health(ctx)
	healthy := err == nil && status != nil && status.OK

	m.mu.Lock()
	flipped := m.healthyKnown && healthy != m.healthy
	m.healthyKnown = true
	m.healthy = healthy
	m.mu.Unlock()

	if flipped {
		if healthy {
			m.notify("Backend recovered", "The metrics backend is reachable again")
		} else {
			m.notify("Backend unreachable", "Health checks against the metrics backend are failing")
		}
	}

	m.send(HealthEvent{Status: status, Err: err})
}

// ObserveAnomalies tracks per-rule finding counts and raises a
// desktop notification when a rule reports more findings than the
// previous fetch for that rule.
func (m *Manager) ObserveAnomalies(rule models.Rule, count int) {
	m.mu.Lock()
	previous, seen := m.anomalyCounts[rule]
	m.anomalyCounts[rule] = count
	m.mu.Unlock()

	if seen && count > previous {
		m.notify(
			fmt.Sprintf("%s anomalies", rule),
			fmt.Sprintf("%d findings (was %d)", count, previous),
		)
	}
}

// SaveExport writes a downloaded CSV payload into the export
// directory and returns the full path.
func (m *Manager) SaveExport(filename string, data []byte) (string, error) {
	dir := m.Config().ExportDir
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	logger.Info("export written", "path", path, "bytes", len(data))
	return path, nil
}

// watchConfig reloads configuration when the .env file changes.
func (m *Manager) watchConfig(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	m.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					m.reloadConfig()
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				m.send(ErrorEvent{Service: "config", Error: err})

			case <-m.stopChan:
				return
			}
		}
	}()

	return nil
}

func (m *Manager) reloadConfig() {
	cfg, err := config.Load()
	if err != nil {
		m.send(ErrorEvent{Service: "config", Error: err})
		return
	}

	m.mu.Lock()
	m.cfg = cfg
	m.client = api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	m.mu.Unlock()

	logger.Info("configuration reloaded", "base_url", cfg.APIBaseURL)
	m.send(ConfigReloadedEvent{BaseURL: cfg.APIBaseURL})
}

func (m *Manager) send(event ServiceEvent) {
	select {
	case m.eventChan <- event:
	default:
		logger.Warn("event channel full, dropping event")
	}
}

func (m *Manager) notify(title, body string) {
	if err := beeep.Notify(title, body, ""); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}
