package appctx

import (
	"context"

	"github.com/spf13/viper"
)

// Context key type - struct to avoid collisions with other packages
type contextKey struct{ name string }

var viperKey = contextKey{"viper"}

// NewViper creates an owned viper instance with :: delimiter.
// The :: delimiter keeps dotted service ids (e.g. xiidea.easy_audit.logger.service) as single keys.
func NewViper() *viper.Viper {
	return viper.NewWithOptions(viper.KeyDelimiter("::"))
}

// ContextWithViper returns a context with viper instance stored
func ContextWithViper(ctx context.Context, v *viper.Viper) context.Context {
	return context.WithValue(ctx, viperKey, v)
}

// Viper returns the viper instance from context.
// Panics if viper was not set - this is a programming error.
func Viper(ctx context.Context) *viper.Viper {
	v, ok := ctx.Value(viperKey).(*viper.Viper)
	if !ok {
		panic("viper not found in context - must call ContextWithViper first")
	}
	return v
}
