package flags

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiidea/easy-audit/pkg/appctx"
)

func TestRegisterAndBind(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	Merge(ConfigFlags(), OutputFlags("text", "output format")).Register(cmd.Flags(), true)

	require.NoError(t, cmd.Flags().Parse([]string{"--config-name=custom", "-o", "json", "--config-path=a,b"}))

	v := appctx.NewViper()
	BindFlags(cmd, v)

	paths, name := ConfigPaths(v)
	assert.Equal(t, []string{"a", "b"}, paths)
	assert.Equal(t, "custom", name)
	assert.Equal(t, "json", v.GetString("output"))
	assert.Equal(t, "", v.GetString("config-file"))
}

func TestMerge(t *testing.T) {
	merged := Merge(
		FlagValues{"a": {Kind: FlagKindBool, DefaultValue: false}},
		FlagValues{"a": {Kind: FlagKindString, DefaultValue: "x"}, "b": {Kind: FlagKindCount}},
	)
	assert.Len(t, merged, 2)
	assert.Equal(t, FlagKindString, merged["a"].Kind)
}

func TestNoOptDefault(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	FlagValues{
		"color": {Kind: FlagKindString, DefaultValue: "auto", NoOptDefault: "always"},
	}.Register(flagSet, false)

	require.NoError(t, flagSet.Parse([]string{"--color"}))
	value, err := flagSet.GetString("color")
	require.NoError(t, err)
	assert.Equal(t, "always", value)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_property: username\naudit_log_class: App\\Entity\\AuditLog\n"), 0o644))

	t.Run("File", func(t *testing.T) {
		v := appctx.NewViper()
		v.Set("config-file", path)

		conf, err := LoadConfig(context.TODO(), v)
		require.NoError(t, err)
		assert.Equal(t, "username", conf.UserProperty)
	})

	t.Run("Search Paths", func(t *testing.T) {
		v := appctx.NewViper()
		v.Set("config-path", []string{dir})
		v.Set("config-name", "audit")

		conf, err := LoadConfig(context.TODO(), v)
		require.NoError(t, err)
		assert.Equal(t, `App\Entity\AuditLog`, conf.AuditLogClass)
	})
}
