package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// rawChannels reads the logger_channel map straight from the configuration file.
// Viper folds keys to lower case, but rule names are service ids and keep their case.
// ok is false when the file has no logger_channel map or its format is not one
// read here.
func rawChannels(path string) (channels map[string]any, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read config %s", path)
	}

	var document map[string]any
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "yaml", "yml", "json":
		err = yaml.Unmarshal(data, &document)
	case "toml":
		err = toml.Unmarshal(data, &document)
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to parse config %s", path)
	}

	if root, found := document[RootKey].(map[string]any); found {
		document = root
	}
	channels, ok = document[ChannelKey].(map[string]any)
	return channels, ok, nil
}
