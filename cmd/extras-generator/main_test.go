package main

import (
	"bytes"
	"context"
	"encoding/json"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"extras-generator/internal/config"
	"extras-generator/internal/diagnostic"
	"extras-generator/internal/plan"
)

const (
	shopPkg    = "extras-generator/examples/shop"
	invalidPkg = "extras-generator/examples/invalid"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "extras-generator", payload.Tool)
	assert.NotEmpty(t, payload.Version)

	out, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "extras-generator ")

	_, _, err = execute(t, "version", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "xml"`)
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")

	out, _, err := execute(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "extras.yaml")

	cfg, err := config.LoadFile(filepath.Join(dir, "extras.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultModelSuffix, cfg.ModelSuffix)

	_, _, err = execute(t, "init", dir, "--format", "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")

	_, _, err = execute(t, "init", dir, "--format", "toml", "--force")
	require.NoError(t, err)

	cfg, err = config.LoadFile(filepath.Join(dir, "extras.toml"))
	require.NoError(t, err)
	assert.True(t, cfg.Binders)
}

func TestInit_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, _, err := execute(t, "init", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestPlan(t *testing.T) {
	out, _, err := execute(t, "plan", "--quiet", "--format", "json", shopPkg)
	require.NoError(t, err)

	var doc plan.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, plan.DocumentVersion, doc.Version)
	assert.Len(t, doc.Models, 5)

	out, _, err = execute(t, "plan", "--quiet", shopPkg)
	require.NoError(t, err)
	assert.Contains(t, out, "models:")
}

func TestCheck(t *testing.T) {
	out, stderr, err := execute(t, "check", shopPkg)
	require.NoError(t, err)
	assert.Equal(t, "5 model(s) ok\n", out)
	assert.NotContains(t, stderr, "error[")

	_, stderr, err = execute(t, "check", "--color", "off", invalidPkg)
	require.Error(t, err)

	var diags *errDiagnostics
	require.ErrorAs(t, err, &diags)
	assert.Equal(t, 8, diags.count)
	assert.Contains(t, stderr, "error[structural]")
}

func TestGenerate_Print(t *testing.T) {
	out, _, err := execute(t, "generate", "--quiet", "--print", shopPkg)
	require.NoError(t, err)

	assert.Contains(t, out, "// ==> ")
	assert.Contains(t, out, "checkout_model_builder_gen.go")
	assert.Contains(t, out, "func NewCheckoutIntentBuilder() CheckoutRequiredSequence[*CheckoutResolvedAllSet] {")
	assert.Contains(t, out, "func BindCheckoutModel(target *CheckoutModel, source extras.Carrier) error {")
}

func TestGenerate_Out(t *testing.T) {
	out := t.TempDir()

	_, _, err := execute(t, "generate", "--quiet", "--no-binders", "--out", out, "--workers", "2", shopPkg)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(out, "shop"))
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	assert.FileExists(t, filepath.Join(out, "shop", "home_model_builder_gen.go"))
}

func TestGenerate_InvalidWorkers(t *testing.T) {
	_, _, err := execute(t, "generate", "--dry-run", "--workers", "0", shopPkg)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extras.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model_suffix: Spec\nworkers: 3\n"), 0o644))

	opts := &rootOptions{configPath: path}
	cmd := newRootCmd()

	cfg, err := opts.loadConfig(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "Spec", cfg.ModelSuffix)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, dir, cfg.Dir)
	assert.NotNil(t, cfg.Logger)

	cfg, err = opts.loadConfig(cmd, []string{"./models/..."}, config.WithDryRun(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"./models/..."}, cfg.Patterns)
	assert.Empty(t, cfg.Dir)
	assert.True(t, cfg.DryRun)

	opts.configPath = filepath.Join(dir, "extras.json")
	_, err = opts.loadConfig(cmd, nil)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestTriggers(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"model write", fsnotify.Event{Name: "/src/shop/models.go", Op: fsnotify.Write}, true},
		{"model removed", fsnotify.Event{Name: "/src/shop/models.go", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/src/shop/models.go", Op: fsnotify.Chmod}, false},
		{"generated", fsnotify.Event{Name: "/src/shop/home_model_builder_gen.go", Op: fsnotify.Write}, false},
		{"test", fsnotify.Event{Name: "/src/shop/models_test.go", Op: fsnotify.Create}, false},
		{"not go", fsnotify.Event{Name: "/src/shop/README.md", Op: fsnotify.Write}, false},
		{"editor temp", fsnotify.Event{Name: "/src/shop/.models.go", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, triggers(tt.event, config.DefaultFileSuffix))
		})
	}
}

func TestPrintDiagnostics(t *testing.T) {
	var diags diagnostic.Diagnostics

	diags.AddWarning("shadow", "key shadows a parent key", "shop.CheckoutModel", "Note")
	diags.Add(diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     "key_syntax",
		Message:  "key is empty",
		Model:    "shop.BadModel",
		Field:    "X",
		Pos:      token.Position{Filename: "bad.go", Line: 4, Column: 2},
	})

	var buf bytes.Buffer
	printDiagnostics(&buf, diags, false)

	assert.Equal(t,
		"bad.go:4:2: error[key_syntax] shop.BadModel.X: key is empty\n"+
			"warning[shadow] shop.CheckoutModel.Note: key shadows a parent key\n",
		buf.String())

	buf.Reset()
	printSummary(&buf, diags, false)
	assert.Equal(t, "\n1 error(s), 1 warning(s)\n", buf.String())

	assert.EqualError(t, rejected(diags), "1 model(s) rejected")
	assert.NoError(t, rejected(diagnostic.Diagnostics{}))
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, useColor("on", &buf))
	assert.False(t, useColor("off", &buf))
	assert.False(t, useColor("auto", &buf), "a buffer is not a terminal")
}
