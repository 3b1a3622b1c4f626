package output

import (
	"encoding/json"

	"github.com/xiidea/easy-audit/pkg/config"
)

func init() {
	RegisterFormatter("json", &JSONFormatter{})
}

// JSONFormatter formats a configuration as JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(conf *config.Config, opts Options) ([]byte, error) {
	if opts.Compact {
		return json.Marshal(conf)
	}
	return json.MarshalIndent(conf, "", "  ")
}
