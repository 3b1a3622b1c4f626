package config

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mcuadros/go-defaults"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/xiidea/easy-audit/pkg/channel"
	"github.com/xiidea/easy-audit/pkg/utils"
)

const (
	// RootKey wraps the bundle settings in a configuration document. A document
	// without it is read as the settings themselves.
	RootKey = "xiidea_easy_audit"

	ChannelKey = "logger_channel"

	DefaultResolver = "xiidea.easy_audit.default_event_resolver"
)

// Config is the finalized bundle configuration.
type Config struct {
	UserProperty          string            `mapstructure:"user_property" json:"user_property" yaml:"user_property"`
	AuditLogClass         string            `mapstructure:"audit_log_class" json:"audit_log_class" yaml:"audit_log_class"`
	Resolver              string            `mapstructure:"resolver" json:"resolver" yaml:"resolver" default:"xiidea.easy_audit.default_event_resolver"`
	DoctrineEventResolver string            `mapstructure:"doctrine_event_resolver" json:"doctrine_event_resolver" yaml:"doctrine_event_resolver"`
	DefaultLogger         bool              `mapstructure:"default_logger" json:"default_logger" yaml:"default_logger" default:"true"`
	DoctrineObjects       []string          `mapstructure:"doctrine_objects" json:"doctrine_objects" yaml:"doctrine_objects"`
	Events                []string          `mapstructure:"events" json:"events" yaml:"events"`
	CustomResolvers       map[string]string `mapstructure:"custom_resolvers" json:"custom_resolvers" yaml:"custom_resolvers"`
	Channels              channel.Map       `mapstructure:"-" json:"logger_channel" yaml:"logger_channel"`
}

// Deprecated options, each filling the slot of its replacement when that is unset.
// They will be removed together with the options they mirror.
type Deprecated struct {
	EntityClass         string   `mapstructure:"entity_class"`
	DoctrineEntities    []string `mapstructure:"doctrine_entities"`
	EntityEventResolver string   `mapstructure:"entity_event_resolver"`
}

// document is the decoding target of a raw configuration tree.
type document struct {
	Config     `mapstructure:",squash"`
	Deprecated `mapstructure:",squash"`

	RawChannels map[string]any `mapstructure:"logger_channel"`
}

type abstractConfig map[string]any

// Harden turns a raw configuration tree into a validated Config.
func Harden(ctx context.Context, raw map[string]any) (*Config, error) {
	return abstractConfig(raw).Harden(ctx)
}

func (c abstractConfig) Harden(ctx context.Context) (*Config, error) {
	log := utils.ContextLogger(ctx, slog.String("context", "config"))

	doc := document{}
	defaults.SetDefaults(&doc.Config)

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         &md,
		Result:           &doc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(map[string]any(c)); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}

	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		log.Debug("ignoring unknown keys", slog.Any("keys", md.Unused))
	}

	conf := doc.Config
	doc.Deprecated.apply(log, &conf)
	conf.fillEmpty()

	if err := conf.checkRequired(); err != nil {
		return nil, err
	}

	channels, err := channel.NormalizeMap(doc.RawChannels)
	if err != nil {
		return nil, err
	}
	conf.Channels = channels

	return &conf, nil
}

func (d Deprecated) apply(log *slog.Logger, conf *Config) {
	deprecated := func(option, replacement string) {
		log.Warn("deprecated option", slog.String("option", option), slog.String("replacement", replacement))
	}

	if d.EntityClass != "" {
		deprecated("entity_class", "audit_log_class")
		if conf.AuditLogClass == "" {
			conf.AuditLogClass = d.EntityClass
		}
	}
	if len(d.DoctrineEntities) > 0 {
		deprecated("doctrine_entities", "doctrine_objects")
		if len(conf.DoctrineObjects) == 0 {
			conf.DoctrineObjects = d.DoctrineEntities
		}
	}
	if d.EntityEventResolver != "" {
		deprecated("entity_event_resolver", "doctrine_event_resolver")
		if conf.DoctrineEventResolver == "" {
			conf.DoctrineEventResolver = d.EntityEventResolver
		}
	}
}

func (c *Config) fillEmpty() {
	if c.DoctrineObjects == nil {
		c.DoctrineObjects = []string{}
	}
	if c.Events == nil {
		c.Events = []string{}
	}
	if c.CustomResolvers == nil {
		c.CustomResolvers = map[string]string{}
	}
}

func (c *Config) checkRequired() error {
	required := []struct {
		field string
		value string
	}{
		{"user_property", c.UserProperty},
		{"audit_log_class", c.AuditLogClass},
	}
	for _, r := range required {
		if r.value == "" {
			return &MissingRequiredFieldError{Field: r.field}
		}
	}
	return nil
}

// ChannelCounts returns the number of inclusive and exclusive channel rules.
func (c *Config) ChannelCounts() map[string]int {
	counts := make(map[string]int)
	for class, n := range c.Channels.Counts() {
		counts[class.String()] = n
	}
	return counts
}
