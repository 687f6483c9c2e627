package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/cosmozoom/tilegate/domain/body"
)

// Holder provides thread-safe access to the configuration and its
// derived profile table, with hot reload on file change or SIGHUP.
// A reload that fails keeps the previous configuration.
type Holder struct {
	mu       sync.RWMutex
	config   *Config
	table    *body.Table
	path     string
	logger   zerolog.Logger
	watcher     *fsnotify.Watcher
	onReload    []func(*Config)
	onReloadErr []func(error)
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewHolder loads the initial configuration from path.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	table, err := cfg.ProfileTable()
	if err != nil {
		return nil, fmt.Errorf("build profile table: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	return &Holder{
		config: cfg,
		table:  table,
		path:   absPath,
		logger: logger,
		stopCh: make(chan struct{}),
	}, nil
}

// Get returns the current configuration.
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// Table returns the current body-profile table. The table itself is
// immutable; reloads swap the pointer atomically under the lock.
func (h *Holder) Table() *body.Table {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.table
}

// OnReload registers a callback invoked after each successful reload.
// Register before Watch; callbacks run on the watcher goroutine.
func (h *Holder) OnReload(fn func(*Config)) {
	h.onReload = append(h.onReload, fn)
}

// OnReloadError registers a callback invoked when a reload fails and
// the old configuration is kept. Register before Watch.
func (h *Holder) OnReloadError(fn func(error)) {
	h.onReloadErr = append(h.onReloadErr, fn)
}

func (h *Holder) notifyReloadErr(err error) {
	for _, fn := range h.onReloadErr {
		fn(err)
	}
}

// Reload re-reads the configuration from disk. On failure the old
// configuration stays in effect and the error is returned.
func (h *Holder) Reload() error {
	newCfg, err := Load(h.path)
	if err != nil {
		h.logger.Error().Err(err).Str("path", h.path).Msg("config reload failed, keeping old config")
		h.notifyReloadErr(err)
		return fmt.Errorf("reload config: %w", err)
	}
	newTable, err := newCfg.ProfileTable()
	if err != nil {
		h.logger.Error().Err(err).Msg("config reload failed, keeping old config")
		h.notifyReloadErr(err)
		return fmt.Errorf("rebuild profile table: %w", err)
	}

	h.mu.Lock()
	h.config = newCfg
	h.table = newTable
	h.mu.Unlock()

	for _, fn := range h.onReload {
		fn(newCfg)
	}
	h.logger.Info().Str("path", h.path).Msg("configuration reloaded")
	return nil
}

// Watch starts watching the config file and SIGHUP for reloads.
// It returns immediately; call Stop to shut the watcher down.
func (h *Holder) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace the file on save, which
	// drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}
	h.watcher = watcher

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)

	go func() {
		defer signal.Stop(sighup)
		for {
			select {
			case <-h.stopCh:
				return
			case <-sighup:
				_ = h.Reload()
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != h.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					_ = h.Reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				h.logger.Warn().Err(err).Msg("config watcher error")
			}
		}
	}()
	return nil
}

// Stop shuts down the watcher.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}
