package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"./..."}, cfg.Patterns)
	assert.Equal(t, DefaultModelSuffix, cfg.ModelSuffix)
	assert.Equal(t, DefaultFileSuffix, cfg.FileSuffix)
	assert.True(t, cfg.Binders)
	assert.True(t, cfg.Wrap.Enabled)
	assert.False(t, cfg.Navigator.Enabled)
	assert.Positive(t, cfg.Workers)
	assert.NotNil(t, cfg.SlogLogger())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		option string
	}{
		{"no patterns", func(c *Config) { c.Patterns = nil }, "patterns"},
		{"empty suffix", func(c *Config) { c.ModelSuffix = "" }, "model_suffix"},
		{"suffix not identifier", func(c *Config) { c.ModelSuffix = "-Model" }, "model_suffix"},
		{"file suffix without .go", func(c *Config) { c.FileSuffix = "_gen" }, "file_suffix"},
		{"test file suffix", func(c *Config) { c.FileSuffix = "_test.go" }, "file_suffix"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"bad wrap type", func(c *Config) { c.Wrap.Types = []string{"Address"} }, "wrap.types"},
		{"navigator without dir", func(c *Config) { c.Navigator.Enabled = true }, "navigator.dir"},
		{"navigator bad package", func(c *Config) {
			c.Navigator = NavigatorConfig{Enabled: true, Dir: "nav", Package: "my-nav"}
		}, "navigator.package"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)

			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}
}

func TestOptions(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	cfg, err := New(
		WithPatterns("./models/..."),
		WithDir("/src"),
		WithModelSuffix("Extras"),
		WithFileSuffix("_extras.go"),
		WithOutputDir("/out"),
		WithWorkers(2),
		WithBinders(false),
		WithWrap(true, "example.com/app.Address"),
		WithNavigator("nav", "routes"),
		WithHeader("// hi"),
		WithDryRun(true),
		WithLogger(logger),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"./models/..."}, cfg.Patterns)
	assert.Equal(t, "/src", cfg.Dir)
	assert.Equal(t, "Extras", cfg.ModelSuffix)
	assert.Equal(t, "_extras.go", cfg.FileSuffix)
	assert.Equal(t, "/out", cfg.OutputDir)
	assert.Equal(t, 2, cfg.Workers)
	assert.False(t, cfg.Binders)
	assert.Equal(t, []string{"example.com/app.Address"}, cfg.Wrap.Types)
	assert.Equal(t, NavigatorConfig{Enabled: true, Dir: "nav", Package: "routes"}, cfg.Navigator)
	assert.Equal(t, "// hi", cfg.Header)
	assert.True(t, cfg.DryRun)
	assert.Same(t, logger, cfg.SlogLogger())
}

func TestOptions_Errors(t *testing.T) {
	_, err := New(WithWorkers(0))
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg := Default()
	err = cfg.ApplyAll(WithPatterns(), WithModelSuffix(""), WithLogger(nil), WithHeader("ok"))

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), `"patterns"`)
	assert.Contains(t, err.Error(), `"model_suffix"`)
	assert.Contains(t, err.Error(), `"logger"`)
	assert.Equal(t, "ok", cfg.Header, "ApplyAll keeps going after a failure")

	assert.Panics(t, func() { MustNew(WithNavigator("", "")) })
}

func TestParse(t *testing.T) {
	yamlData := `
patterns: ["./app/..."]
model_suffix: Screen
workers: 3
wrap:
  enabled: false
navigator:
  enabled: true
  dir: nav
`
	tomlData := `
patterns = ["./app/..."]
model_suffix = "Screen"
workers = 3

[wrap]
enabled = false

[navigator]
enabled = true
dir = "nav"
`

	for name, tc := range map[string]struct {
		data   string
		format Format
	}{
		"yaml": {yamlData, FormatYAML},
		"toml": {tomlData, FormatTOML},
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse([]byte(tc.data), tc.format)
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			assert.Equal(t, []string{"./app/..."}, cfg.Patterns)
			assert.Equal(t, "Screen", cfg.ModelSuffix)
			assert.Equal(t, 3, cfg.Workers)
			assert.False(t, cfg.Wrap.Enabled)
			assert.True(t, cfg.Navigator.Enabled)
			assert.Equal(t, "nav", cfg.Navigator.Dir)
			// Unset values keep their defaults.
			assert.Equal(t, DefaultNavigatorPackage, cfg.Navigator.Package)
			assert.Equal(t, DefaultFileSuffix, cfg.FileSuffix)
			assert.True(t, cfg.Binders)
		})
	}

	_, err := Parse([]byte("patterns: [unclosed"), FormatYAML)
	require.Error(t, err)

	_, err = Parse([]byte("patterns = "), FormatTOML)
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extras.toml")
	require.NoError(t, os.WriteFile(path, []byte(`patterns = ["./..."]`+"\n"+`dir = "src"`+"\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.Dir)

	_, err = LoadFile(filepath.Join(dir, "extras.json"))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workers: 0\n"), 0o644))
	_, err = LoadFile(bad)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	for _, name := range []string{"extras.yaml", "extras.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.Workers = 2
			cfg.Wrap.Types = []string{"example.com/app.Address"}
			require.NoError(t, WriteFile(cfg, path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)

			cfg.Dir = filepath.Dir(path)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	_, ok, err := Find(nested)
	require.NoError(t, err)
	assert.False(t, ok)

	path := filepath.Join(root, "extras.yml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 1\n"), 0o644))

	found, ok, err := Find(nested)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, path, found)
}
