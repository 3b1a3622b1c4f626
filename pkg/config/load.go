package config

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/xiidea/easy-audit/pkg/appctx"
	"github.com/xiidea/easy-audit/pkg/utils"
)

// Load searches configPaths for a file named configName (any extension viper
// understands) and returns the validated configuration it holds.
func Load(ctx context.Context, configPaths []string, configName string) (*Config, error) {
	v, err := readConfig(ctx, configPaths, configName)
	if err != nil {
		return nil, err
	}
	return UnmarshalConfig(ctx, v)
}

// LoadFile reads and validates a single configuration file.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	v := appctx.NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	return UnmarshalConfig(ctx, v)
}

func readConfig(ctx context.Context, configPaths []string, configName string) (*viper.Viper, error) {
	log := utils.ContextLogger(ctx, slog.String("context", "config"))

	v := appctx.NewViper()
	if configPaths == nil {
		configPaths = []string{"."}
	}
	for _, configPath := range configPaths {
		v.AddConfigPath(configPath)
	}
	v.SetConfigName(configName)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Info("no configuration file found", slog.Any("paths", configPaths), slog.String("name", configName))
			return v, nil
		}
		log.Error("error reading config", "error", err)
		return nil, errors.Wrap(err, "failed to read config")
	}

	return v, nil
}

// UnmarshalConfig validates the settings held by v.
func UnmarshalConfig(ctx context.Context, v *viper.Viper) (*Config, error) {
	log := utils.ContextLogger(ctx, slog.String("context", "config"))
	file := v.ConfigFileUsed()
	if file != "" {
		log = log.With(slog.String("configFile", file))
	}
	log.Debug("reading config")

	abstract, err := rootSettings(v.AllSettings())
	if err != nil {
		log.Error("error unmarshalling config", "error", err)
		return nil, err
	}

	if file != "" {
		channels, ok, err := rawChannels(file)
		if err != nil {
			log.Error("error reading logger channels", "error", err)
			return nil, err
		}
		if ok {
			abstract[ChannelKey] = channels
		}
	}

	conf, err := abstract.Harden(ctx)
	if err != nil {
		log.Error("failed to load config", "error", err)
		return nil, err
	}

	log.Info("config loaded", slog.Any("channels", conf.ChannelCounts()))
	return conf, nil
}

func rootSettings(settings map[string]any) (abstractConfig, error) {
	root, ok := settings[RootKey]
	if !ok {
		return abstractConfig(settings), nil
	}
	if root == nil {
		return abstractConfig{}, nil
	}
	rootMap, ok := root.(map[string]any)
	if !ok {
		return nil, errors.Errorf("%s must be a map, got %T", RootKey, root)
	}
	return abstractConfig(rootMap), nil
}
