package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/flowbench/internal/config"
	"github.com/specialistvlad/flowbench/internal/executor"
	"github.com/specialistvlad/flowbench/internal/hcl"
	"github.com/specialistvlad/flowbench/internal/yamlconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, CommandRun, cfg.Command)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.InitPath)

	cfg, err = NewConfig(Config{Command: CommandInit})
	require.NoError(t, err)
	assert.Equal(t, DefaultInitPath, cfg.InitPath)

	for _, bad := range []Config{
		{Command: "bench"},
		{LogFormat: "xml"},
		{LogLevel: "trace"},
		{HealthcheckPort: 70000},
	} {
		_, err := NewConfig(bad)
		assert.Error(t, err, "%+v", bad)
	}
}

func TestLoaderFor(t *testing.T) {
	t.Parallel()

	l, err := loaderFor("a/b.hcl")
	require.NoError(t, err)
	assert.IsType(t, &hcl.Loader{}, l)

	for _, name := range []string{"run.yaml", "RUN.YML"} {
		l, err = loaderFor(name)
		require.NoError(t, err)
		assert.IsType(t, &yamlconf.Loader{}, l)
	}

	_, err = loaderFor("run.toml")
	assert.ErrorContains(t, err, "unsupported config file")
}

func TestResolveConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := resolveConfigFile(dir)
	assert.ErrorContains(t, err, "no .hcl file")

	one := filepath.Join(dir, "one.hcl")
	require.NoError(t, os.WriteFile(one, nil, 0o600))
	got, err := resolveConfigFile(dir)
	require.NoError(t, err)
	assert.Equal(t, one, got)

	got, err = resolveConfigFile(one)
	require.NoError(t, err)
	assert.Equal(t, one, got)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.hcl"), nil, 0o600))
	_, err = resolveConfigFile(dir)
	assert.ErrorContains(t, err, "holds 2 .hcl files")

	_, err = resolveConfigFile(filepath.Join(dir, "missing.hcl"))
	assert.Error(t, err)
}

func TestLoadModel_PatchWinsOverFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("instance_count: 4\nvertex_count: 8\n"), 0o600))

	vertices := 5
	model, err := loadModel(context.Background(), path, config.Patch{VertexCount: &vertices})
	require.NoError(t, err)
	assert.Equal(t, 4, model.InstanceCount)
	assert.Equal(t, 5, model.VertexCount)

	zero := 0
	_, err = loadModel(context.Background(), "", config.Patch{InstanceCount: &zero})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)
	a, err := NewApp(context.Background(), &bytes.Buffer{}, appConfig)
	require.NoError(t, err)
	return a
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, Config{})
	srv := httptest.NewServer(a.healthMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK\n", string(body))

	a.tracker.SetPhase("solve", 7)
	resp, err = http.Get(srv.URL + "/progress")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var p executor.Progress
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, executor.Progress{Phase: "solve", Total: 7}, p)
}

func TestCloseHealthCheckServer_NotRunning(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, Config{})
	assert.NoError(t, a.closeHealthCheckServer())
}

func TestRun_InitRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "flowbench.hcl")
	instances := 3
	a := newTestApp(t, Config{Command: CommandInit, InitPath: path, Patch: config.Patch{InstanceCount: &instances}})
	require.NoError(t, a.Run(context.Background()))

	model, err := hcl.NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, model.InstanceCount)

	before, err := os.ReadFile(path)
	require.NoError(t, err)
	require.ErrorIs(t, a.Run(context.Background()), ErrConfigExists)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRun_ReportConnectFailureStopsBeforeWork(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	a := newTestApp(t, Config{ReportURL: "progress", Patch: config.Patch{OutputDirectory: &out}})
	err := a.Run(context.Background())
	require.ErrorContains(t, err, "failed to connect to report server")

	_, statErr := os.Stat(filepath.Join(out, config.DefaultTestsDir))
	assert.True(t, os.IsNotExist(statErr), "no corpus is written when the reporter cannot connect")
}

func TestRun_InitCarriesConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(source, []byte(`
instance_count: 6
vertex_count: 12
exit_policy: fail
solvers:
  - name: pr
    executable: /opt/pr
    timeout: 3s
`), 0o600))

	target := filepath.Join(dir, "flowbench.hcl")
	vertices := 20
	a := newTestApp(t, Config{Command: CommandInit, ConfigPath: source, InitPath: target, Patch: config.Patch{VertexCount: &vertices}})
	require.NoError(t, a.Run(context.Background()))

	fromFile, err := yamlconf.NewLoader().Load(context.Background(), source)
	require.NoError(t, err)
	fromFile.VertexCount = vertices

	written, err := hcl.NewLoader().Load(context.Background(), target)
	require.NoError(t, err)
	if diff := cmp.Diff(fromFile, written); diff != "" {
		t.Errorf("template does not carry the config file (-want +got):\n%s", diff)
	}
}
