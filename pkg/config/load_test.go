package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiidea/easy-audit/pkg/channel"
)

const yamlConfig = `
xiidea_easy_audit:
  user_property: username
  audit_log_class: App\Entity\AuditLog
  events:
    - security.interactive_login
  logger_channel:
    xiidea.easy_audit.logger.service: "!security"
    app.audit_logger:
      - app
      - doctrine
    app.typed_logger:
      type: exclusive
      elements: [event]
    app.disabled: {}
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "easy_audit.yaml", yamlConfig)

	conf, err := Load(context.TODO(), []string{dir}, "easy_audit")
	require.NoError(t, err)

	assert.Equal(t, "username", conf.UserProperty)
	assert.Equal(t, `App\Entity\AuditLog`, conf.AuditLogClass)
	assert.Equal(t, DefaultResolver, conf.Resolver)
	assert.True(t, conf.DefaultLogger)
	assert.Equal(t, []string{"security.interactive_login"}, conf.Events)

	expected := channel.Map{
		"xiidea.easy_audit.logger.service": {Type: channel.Exclusive, Elements: []string{"security"}},
		"app.audit_logger":                 {Type: channel.Inclusive, Elements: []string{"app", "doctrine"}},
		"app.typed_logger":                 {Type: channel.Exclusive, Elements: []string{"event"}},
	}
	assert.Equal(t, expected, conf.Channels)
}

func TestLoadBareDocument(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "easy_audit.json", `{
  "user_property": "username",
  "audit_log_class": "App\\Entity\\AuditLog",
  "default_logger": false,
  "logger_channel": {"app.logger": ["!doctrine", "!event"]}
}`)

	conf, err := Load(context.TODO(), []string{dir}, "easy_audit")
	require.NoError(t, err)
	assert.False(t, conf.DefaultLogger)
	assert.Equal(t, channel.Entry{Type: channel.Exclusive, Elements: []string{"doctrine", "event"}}, conf.Channels["app.logger"])
}

func TestLoadToml(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "easy_audit.toml", `
[xiidea_easy_audit]
user_property = "username"
audit_log_class = "App\\Entity\\AuditLog"

[xiidea_easy_audit.logger_channel]
"app.logger" = "app"
`)

	conf, err := Load(context.TODO(), []string{dir}, "easy_audit")
	require.NoError(t, err)
	assert.Equal(t, channel.Entry{Type: channel.Inclusive, Elements: []string{"app"}}, conf.Channels["app.logger"])
}

func TestLoadMissingFile(t *testing.T) {
	conf, err := Load(context.TODO(), []string{t.TempDir()}, "easy_audit")
	assert.Nil(t, conf)

	var missing *MissingRequiredFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "user_property", missing.Field)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("Mixed Channels", func(t *testing.T) {
		path := writeConfig(t, dir, "mixed.yaml", `
xiidea_easy_audit:
  user_property: username
  audit_log_class: App\Entity\AuditLog
  logger_channel:
    app.logger: [app, "!doctrine"]
`)
		_, err := LoadFile(context.TODO(), path)
		var mixed *channel.MixedChannelTypeError
		assert.ErrorAs(t, err, &mixed)
	})

	t.Run("Missing Audit Log Class", func(t *testing.T) {
		path := writeConfig(t, dir, "missing.yaml", `
xiidea_easy_audit:
  user_property: username
`)
		_, err := LoadFile(context.TODO(), path)
		var missing *MissingRequiredFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "audit_log_class", missing.Field)
	})

	t.Run("Unreadable", func(t *testing.T) {
		_, err := LoadFile(context.TODO(), filepath.Join(dir, "absent.yaml"))
		assert.ErrorContains(t, err, "failed to read config")
	})
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "easy_audit.yaml", yamlConfig)

	var calls []error
	w, err := NewWatcher(context.TODO(), []string{dir}, "easy_audit", func(_ *Snapshot, err error) {
		calls = append(calls, err)
	})
	require.NoError(t, err)

	first := w.Current()
	require.NotNil(t, first)
	assert.NotEmpty(t, first.Generation)
	assert.Len(t, first.Config.Channels, 3)

	writeConfig(t, dir, "easy_audit.yaml", `
xiidea_easy_audit:
  user_property: email
  audit_log_class: App\Entity\AuditLog
`)
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})

	second := w.Current()
	assert.NotEqual(t, first.Generation, second.Generation)
	assert.Equal(t, "email", second.Config.UserProperty)
	assert.Empty(t, second.Config.Channels)
	// the first snapshot is untouched
	assert.Equal(t, "username", first.Config.UserProperty)

	writeConfig(t, dir, "easy_audit.yaml", `
xiidea_easy_audit:
  audit_log_class: App\Entity\AuditLog
`)
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})

	assert.Same(t, second, w.Current())
	require.Len(t, calls, 2)
	assert.NoError(t, calls[0])
	var missing *MissingRequiredFieldError
	assert.ErrorAs(t, calls[1], &missing)
}

func TestNewWatcherWithoutFile(t *testing.T) {
	_, err := NewWatcher(context.TODO(), []string{t.TempDir()}, "easy_audit", nil)
	assert.ErrorContains(t, err, "no configuration file")
}

func TestLoadKeepsServiceIDCase(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "YAML",
			file: "case.yaml",
			content: `
xiidea_easy_audit:
  user_property: username
  audit_log_class: App\Entity\AuditLog
  logger_channel:
    App\Logger\AuditLogger: "!security"
    app\logger\auditlogger: [security]
`,
		},
		{
			name: "JSON",
			file: "case.json",
			content: `{
  "user_property": "username",
  "audit_log_class": "App\\Entity\\AuditLog",
  "logger_channel": {
    "App\\Logger\\AuditLogger": "!security",
    "app\\logger\\auditlogger": ["security"]
  }
}`,
		},
		{
			name: "TOML",
			file: "case.toml",
			content: `
[xiidea_easy_audit]
user_property = "username"
audit_log_class = "App\\Entity\\AuditLog"

[xiidea_easy_audit.logger_channel]
'App\Logger\AuditLogger' = "!security"
'app\logger\auditlogger' = ["security"]
`,
		},
	}

	expected := channel.Map{
		`App\Logger\AuditLogger`: {Type: channel.Exclusive, Elements: []string{"security"}},
		`app\logger\auditlogger`: {Type: channel.Inclusive, Elements: []string{"security"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadFile(context.TODO(), writeConfig(t, dir, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, expected, conf.Channels)
		})
	}
}

func TestRawChannels(t *testing.T) {
	dir := t.TempDir()

	t.Run("Without Channels", func(t *testing.T) {
		_, ok, err := rawChannels(writeConfig(t, dir, "plain.yaml", "user_property: username\n"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Unparsed Format", func(t *testing.T) {
		_, ok, err := rawChannels(writeConfig(t, dir, "plain.ini", "user_property=username\n"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, _, err := rawChannels(writeConfig(t, dir, "broken.toml", "[broken\n"))
		assert.ErrorContains(t, err, "failed to parse config")
	})
}

func TestFileWatcher(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "audit.yaml", yamlConfig)

	w, err := NewFileWatcher(context.TODO(), path, nil)
	require.NoError(t, err)
	assert.Len(t, w.Current().Config.Channels, 3)

	_, err = NewFileWatcher(context.TODO(), filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.ErrorContains(t, err, "failed to read config")
}
