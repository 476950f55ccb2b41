package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/corey/siunit/internal/config"
	"github.com/corey/siunit/internal/domain/unit"
	"github.com/corey/siunit/internal/ports"
	"github.com/rs/zerolog"
)

// RegistryHolder holds the active unit registry and swaps it on reload.
// Registries are immutable, so readers take a snapshot with Get and keep
// using it even if a reload happens meanwhile.
type RegistryHolder struct {
	mu        sync.RWMutex
	reg       *unit.Registry
	path      string
	overwrite bool
	logger    zerolog.Logger
	metrics   ports.Metrics
	watcher   ports.TableWatcher
	onChange  []func(prev, next *unit.Registry)
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewRegistryHolder builds the initial registry from cfg. Without a table
// file, or with overwrite unset, the built-in table is used.
func NewRegistryHolder(cfg config.UnitsConfig, logger zerolog.Logger, m ports.Metrics) (*RegistryHolder, error) {
	if m == nil {
		m = ports.NopMetrics{}
	}
	h := &RegistryHolder{
		path:      cfg.TableFile,
		overwrite: cfg.Overwrite,
		logger:    logger,
		metrics:   m,
		stopCh:    make(chan struct{}),
	}

	def, err := unit.Default()
	if err != nil {
		return nil, fmt.Errorf("built-in unit table: %w", err)
	}
	reg, err := def.ReadFile(h.path, h.overwrite && h.path != "", unit.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if h.path != "" && !h.overwrite {
		logger.Warn().Str("path", h.path).Msg("units.overwrite is off, using built-in unit table")
	}
	h.reg = reg
	m.RegistryReload(true, reg.Len())
	return h, nil
}

// Get returns the current registry.
func (h *RegistryHolder) Get() *unit.Registry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.reg
}

// Reload rebuilds the registry from the table file.
// On failure the previous registry stays active and the error is returned.
func (h *RegistryHolder) Reload() error {
	if h.path == "" || !h.overwrite {
		return fmt.Errorf("reload: no unit table file configured")
	}
	h.logger.Info().Str("path", h.path).Msg("reloading unit table")

	reg, err := h.Get().ReadFile(h.path, true, unit.WithLogger(h.logger))
	if err != nil {
		h.metrics.RegistryReload(false, 0)
		h.logger.Error().Err(err).Msg("failed to reload unit table, keeping old table")
		return err
	}

	h.mu.Lock()
	old := h.reg
	h.reg = reg
	callbacks := make([]func(prev, next *unit.Registry), len(h.onChange))
	copy(callbacks, h.onChange)
	h.mu.Unlock()

	h.metrics.RegistryReload(true, reg.Len())
	h.logChanges(old, reg)

	for _, fn := range callbacks {
		fn(old, reg)
	}
	return nil
}

// OnChange registers a callback for registry changes.
func (h *RegistryHolder) OnChange(fn func(prev, next *unit.Registry)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// WatchFile reloads the registry whenever the table file changes, until
// ctx is done or Stop is called.
func (h *RegistryHolder) WatchFile(ctx context.Context, w ports.TableWatcher) error {
	if h.path == "" || !h.overwrite {
		return fmt.Errorf("watch: no unit table file configured")
	}
	h.mu.Lock()
	if h.watcher != nil {
		h.mu.Unlock()
		return fmt.Errorf("watch: already watching %s", h.path)
	}
	h.watcher = w
	h.mu.Unlock()

	err := w.Watch(h.path, func(string) {
		_ = h.Reload() // logged by Reload
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", h.path, err)
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-h.stopCh:
		}
		w.Stop()
	}()

	h.logger.Info().Str("path", h.path).Msg("watching unit table for changes")
	return nil
}

// WatchSignals reloads the registry on SIGHUP until ctx is done or Stop
// is called.
func (h *RegistryHolder) WatchSignals(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading unit table")
				_ = h.Reload()
			case <-ctx.Done():
				return
			case <-h.stopCh:
				return
			}
		}
	}()
}

// Stop stops file and signal watching.
func (h *RegistryHolder) Stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
}

func (h *RegistryHolder) logChanges(prev, next *unit.Registry) {
	if prev.Fingerprint() == next.Fingerprint() {
		h.logger.Info().Msg("unit table reloaded, no changes")
		return
	}
	h.logger.Info().
		Int("old_units", prev.Len()).
		Int("new_units", next.Len()).
		Str("old_fingerprint", fmt.Sprintf("%016x", prev.Fingerprint())).
		Str("new_fingerprint", fmt.Sprintf("%016x", next.Fingerprint())).
		Msg("unit table changed")
}
