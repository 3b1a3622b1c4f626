package output

import (
	"sort"
	"sync"

	"github.com/xiidea/easy-audit/pkg/config"
)

// Formatter renders a finalized configuration.
type Formatter interface {
	Format(conf *config.Config, opts Options) ([]byte, error)
}

// Options tune formatter output.
type Options struct {
	Compact bool
}

// DefaultFormat is the default output format.
const DefaultFormat = "yaml"

var (
	formatters = make(map[string]Formatter)
	mu         sync.RWMutex
)

// RegisterFormatter registers a formatter by name.
// Called from init() in each formatter file.
func RegisterFormatter(name string, f Formatter) {
	mu.Lock()
	defer mu.Unlock()
	formatters[name] = f
}

// GetFormatter returns the formatter for the given name.
func GetFormatter(name string) (Formatter, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := formatters[name]
	return f, ok
}

// FormatNames returns a sorted list of registered format names.
func FormatNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
