package output

import (
	"bytes"

	"github.com/goccy/go-yaml"

	"github.com/xiidea/easy-audit/pkg/config"
)

func init() {
	RegisterFormatter("yaml", &YAMLFormatter{})
}

// YAMLFormatter formats a configuration as YAML under the bundle root key.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(conf *config.Config, opts Options) ([]byte, error) {
	doc := map[string]*config.Config{config.RootKey: conf}

	var buf bytes.Buffer
	encOpts := []yaml.EncodeOption{yaml.Indent(2), yaml.IndentSequence(true)}
	if opts.Compact {
		encOpts = append(encOpts, yaml.Flow(true))
	}
	enc := yaml.NewEncoder(&buf, encOpts...)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
