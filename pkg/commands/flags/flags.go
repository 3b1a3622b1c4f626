package flags

import (
	"context"
	"maps"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/xiidea/easy-audit/pkg/config"
)

const (
	FlagKindBool        = "bool"
	FlagKindCount       = "count"
	FlagKindString      = "string"
	FlagKindStringSlice = "stringSlice"
)

// FlagValue represents a single flag definition with metadata
type FlagValue struct {
	Shorthand    string
	Kind         string
	DefaultValue any
	NoOptDefault string
	Usage        string
}

// FlagValues is a map of flag names to their definitions
type FlagValues map[string]FlagValue

// Register adds all flags in the set to the given pflag.FlagSet
func (f FlagValues) Register(flagSet *pflag.FlagSet, sort bool) {
	for flagName, flag := range f {
		flag.BuildFlag(flagSet, flagName)
	}
	flagSet.SortFlags = sort
}

// BuildFlag creates a pflag from the FlagValue definition
func (f *FlagValue) BuildFlag(flagSet *pflag.FlagSet, flagName string) {
	switch f.Kind {
	case FlagKindBool:
		flagSet.BoolP(flagName, f.Shorthand, f.DefaultValue.(bool), f.Usage)
	case FlagKindCount:
		flagSet.CountP(flagName, f.Shorthand, f.Usage)
	case FlagKindString:
		flagSet.StringP(flagName, f.Shorthand, f.DefaultValue.(string), f.Usage)
	case FlagKindStringSlice:
		flagSet.StringSliceP(flagName, f.Shorthand, f.DefaultValue.([]string), f.Usage)
	}

	if f.NoOptDefault != "" {
		flag := flagSet.Lookup(flagName)
		flag.NoOptDefVal = f.NoOptDefault
	}
}

// Merge combines multiple FlagValues maps into one
func Merge(flagSets ...FlagValues) FlagValues {
	result := make(FlagValues)
	for _, fs := range flagSets {
		maps.Copy(result, fs)
	}
	return result
}

// BindFlags binds all command flags to the given viper instance.
// This includes local flags and inherited persistent flags from parent commands.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

// ConfigFlags returns flags for configuration file settings
func ConfigFlags() FlagValues {
	return FlagValues{
		"config-path": {
			Kind:         FlagKindStringSlice,
			DefaultValue: []string{".", "config/packages"},
			Usage:        "configuration paths",
		},
		"config-name": {
			Kind:         FlagKindString,
			DefaultValue: "xiidea_easy_audit",
			Usage:        "configuration name",
		},
		"config-file": {
			Shorthand:    "f",
			Kind:         FlagKindString,
			DefaultValue: "",
			Usage:        "configuration file (overrides config-path and config-name)",
		},
	}
}

// OutputFlags returns the output format flag with the given default
func OutputFlags(defaultFormat, usage string) FlagValues {
	return FlagValues{
		"output": {
			Shorthand:    "o",
			Kind:         FlagKindString,
			DefaultValue: defaultFormat,
			Usage:        usage,
		},
	}
}

// ConfigPaths returns the config-path and config-name values from the given viper.
func ConfigPaths(v *viper.Viper) (paths []string, name string) {
	return v.GetStringSlice("config-path"), v.GetString("config-name")
}

// LoadConfig loads the configuration selected by the config flags bound to v.
func LoadConfig(ctx context.Context, v *viper.Viper) (*config.Config, error) {
	if file := v.GetString("config-file"); file != "" {
		return config.LoadFile(ctx, file)
	}
	paths, name := ConfigPaths(v)
	return config.Load(ctx, paths, name)
}

// NewWatcher builds a configuration watcher for the config flags bound to v.
func NewWatcher(ctx context.Context, v *viper.Viper, onChange func(*config.Snapshot, error)) (*config.Watcher, error) {
	if file := v.GetString("config-file"); file != "" {
		return config.NewFileWatcher(ctx, file, onChange)
	}
	paths, name := ConfigPaths(v)
	return config.NewWatcher(ctx, paths, name, onChange)
}
