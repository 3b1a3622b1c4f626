package config

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/xiidea/easy-audit/pkg/appctx"
	"github.com/xiidea/easy-audit/pkg/utils"
)

// Snapshot is one successfully validated configuration. A reload publishes a
// new Snapshot and never modifies a published one.
type Snapshot struct {
	Generation string
	LoadedAt   time.Time
	Config     *Config
}

// Watcher keeps the latest valid configuration of a file that may change on disk.
type Watcher struct {
	ctx      context.Context
	v        *viper.Viper
	current  atomic.Pointer[Snapshot]
	onChange func(*Snapshot, error)
}

// NewWatcher loads the configuration and returns a Watcher holding it. onChange,
// if set, is called after every reload attempt with the new snapshot or the error
// that kept the previous one in place.
func NewWatcher(ctx context.Context, configPaths []string, configName string, onChange func(*Snapshot, error)) (*Watcher, error) {
	v, err := readConfig(ctx, configPaths, configName)
	if err != nil {
		return nil, err
	}
	if v.ConfigFileUsed() == "" {
		return nil, errors.Errorf("no configuration file %q found to watch", configName)
	}
	return newWatcher(ctx, v, onChange)
}

// NewFileWatcher is NewWatcher for a single configuration file.
func NewFileWatcher(ctx context.Context, path string, onChange func(*Snapshot, error)) (*Watcher, error) {
	v := appctx.NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	return newWatcher(ctx, v, onChange)
}

func newWatcher(ctx context.Context, v *viper.Viper, onChange func(*Snapshot, error)) (*Watcher, error) {
	w := &Watcher{ctx: ctx, v: v, onChange: onChange}
	if _, err := w.load(); err != nil {
		return nil, err
	}
	return w, nil
}

// Current returns the latest valid snapshot.
func (w *Watcher) Current() *Snapshot {
	return w.current.Load()
}

// Start begins watching the configuration file for changes.
func (w *Watcher) Start() {
	w.v.OnConfigChange(w.handle)
	w.v.WatchConfig()
}

func (w *Watcher) handle(e fsnotify.Event) {
	log := utils.ContextLogger(w.ctx, slog.String("context", "config"), slog.String("configFile", e.Name))
	log.Debug("config change", slog.String("op", e.Op.String()))

	snapshot, err := w.reload()
	if err != nil {
		log.Error("failed to update config", "error", err)
	} else {
		log.Info("config updated", slog.String("generation", snapshot.Generation))
	}

	if w.onChange != nil {
		w.onChange(snapshot, err)
	}
}

func (w *Watcher) reload() (*Snapshot, error) {
	if err := w.v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	return w.load()
}

func (w *Watcher) load() (*Snapshot, error) {
	conf, err := UnmarshalConfig(w.ctx, w.v)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		Generation: uuid.NewString(),
		LoadedAt:   time.Now(),
		Config:     conf,
	}
	w.current.Store(snapshot)
	return snapshot, nil
}
