package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"tunebot/pkg/logger"
)

// ChangeHandler is a callback function called when configuration changes.
type ChangeHandler func(*Config) error

// Watcher monitors the configuration file for changes and triggers reload.
type Watcher struct {
	loader   *Loader
	config   *Config
	log      *logger.Logger
	handlers []ChangeHandler
	mu       sync.RWMutex
	watching bool
}

// NewWatcher creates a new configuration watcher.
func NewWatcher(loader *Loader, config *Config, log *logger.Logger) *Watcher {
	return &Watcher{
		loader:   loader,
		config:   config,
		log:      log.Named("config"),
		handlers: make([]ChangeHandler, 0),
	}
}

// AddHandler registers a handler to be called when configuration changes.
func (w *Watcher) AddHandler(handler ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins watching the configuration file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return fmt.Errorf("watcher already started")
	}
	w.watching = true
	w.mu.Unlock()

	w.loader.viper.OnConfigChange(func(e fsnotify.Event) {
		w.log.Info("Config file changed", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		w.Reload()
	})
	w.loader.viper.WatchConfig()

	return nil
}

// Reload re-reads and validates the configuration, then notifies handlers.
// An invalid file keeps the previous configuration.
func (w *Watcher) Reload() {
	w.mu.RLock()
	active := w.watching
	w.mu.RUnlock()
	if !active {
		return
	}

	newConfig, err := w.loader.Load(w.loader.GetConfigPath())
	if err != nil {
		w.log.Error("Failed to reload config", zap.Error(err))
		return
	}
	if err := ValidateConfig(newConfig); err != nil {
		w.log.Error("Reloaded config is invalid, keeping previous", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.config = newConfig
	w.mu.Unlock()

	w.notifyHandlers(newConfig)
}

// Stop stops delivering changes. Viper keeps its file watch until exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watching = false
}

// GetConfig returns the current configuration (thread-safe).
func (w *Watcher) GetConfig() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// notifyHandlers calls all registered handlers with the new configuration.
func (w *Watcher) notifyHandlers(config *Config) {
	w.mu.RLock()
	handlers := make([]ChangeHandler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(config); err != nil {
			w.log.Warn("Config change handler failed", zap.Error(err))
		}
	}
}
