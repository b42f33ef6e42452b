package pkgconfig

import (
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var _ Config = (*Viper)(nil)

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper

	mu     sync.Mutex
	hooks  []func()
	closed bool
}

// EnvPrefix is prepended to environment overrides, for example
// FLAKEN_FLAKE_IDENTIFIER overrides flake.identifier.
const EnvPrefix = "FLAKEN"

// NewViper loads configuration from the given file path and returns a Viper-backed Config.
//
// The config file type is inferred by Viper from the filename extension.
// Environment variables prefixed with EnvPrefix take precedence over the file.
func NewViper(pathFile string) (*Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	filename := path.Base(pathFile)
	filePath := path.Dir(pathFile)

	configName := path.Base(filename[:len(filename)-len(path.Ext(filename))])

	v.AddConfigPath(filePath)
	v.SetConfigName(configName)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	vc := &Viper{v: v}
	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config file changed", "file", e.Name, "op", e.Op.String())
		vc.notify()
	})
	v.WatchConfig()

	return vc, nil
}

// OnChange registers fn to run each time the watched file is re-read.
// Hooks run on the watcher goroutine, in registration order.
func (vc *Viper) OnChange(fn func()) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.hooks = append(vc.hooks, fn)
}

func (vc *Viper) notify() {
	vc.mu.Lock()
	if vc.closed {
		vc.mu.Unlock()
		return
	}
	hooks := append([]func(){}, vc.hooks...)
	vc.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Has reports whether key is set in the file or the environment.
func (vc *Viper) Has(key string) bool {
	return vc.v.IsSet(key)
}

// GetInt returns the value for key as int64.
func (vc *Viper) GetInt(key string) int64 {
	return vc.v.GetInt64(key)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetArray returns the value for key split by commas. Blank items are dropped.
func (vc *Viper) GetArray(key string) []string {
	var items []string
	for _, item := range strings.Split(vc.v.GetString(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

// Close stops change hooks from running. Viper offers no way to stop the
// file watcher itself.
func (vc *Viper) Close() error {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.closed = true
	vc.hooks = nil
	return nil
}
