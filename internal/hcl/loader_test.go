package hcl

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/flowbench/internal/aggregate"
	"github.com/specialistvlad/flowbench/internal/config"
	"github.com/specialistvlad/flowbench/internal/solver"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flowbench.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestLoader(env ...string) *Loader {
	return &Loader{environ: func() []string { return env }}
}

func TestLoad_FullFile(t *testing.T) {
	t.Parallel()
	path := writeFile(t, `
instance_count   = 3
vertex_count     = 50
output_directory = "${env.RUN_ROOT}/bench"
results_dir      = "results"
seed             = 7
timeout          = "30s"
exit_policy      = "fail"
record_format    = "jsonl"

capacity {
  min = 5
  max = 50
}

solver "push_relabel" {
  executable = format("%s/pr", env.BIN_DIR)
  timeout    = "2s"
}

solver "ford_fulkerson" {
  executable = "./bin/ff"
  args       = ["--quiet"]
  env        = { MODE = upper("fast") }
}
`)

	model, err := newTestLoader("RUN_ROOT=/srv", "BIN_DIR=/opt/solvers").Load(context.Background(), path)
	require.NoError(t, err)

	seed := uint64(7)
	want := &config.Model{
		InstanceCount:   3,
		VertexCount:     50,
		OutputDirectory: "/srv/bench",
		TestsDir:        config.DefaultTestsDir,
		ResultsDir:      "results",
		Seed:            &seed,
		MinCapacity:     5,
		MaxCapacity:     50,
		Timeout:         30 * time.Second,
		ExitPolicy:      config.PolicyFail,
		RecordFormat:    aggregate.JSONLines,
		Solvers: []solver.Solver{
			{Name: "push_relabel", Executable: "/opt/solvers/pr", Timeout: 2 * time.Second},
			{Name: "ford_fulkerson", Executable: "./bin/ff", Args: []string{"--quiet"}, Env: map[string]string{"MODE": "FAST"}},
		},
	}
	if diff := cmp.Diff(want, model); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyFileYieldsDefaults(t *testing.T) {
	t.Parallel()
	model, err := newTestLoader().Load(context.Background(), writeFile(t, ""))
	require.NoError(t, err)
	if diff := cmp.Diff(config.Default(), model); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "syntax error", content: "instance_count = {", wantErr: "failed to parse"},
		{name: "unknown attribute", content: "instances = 3", wantErr: "failed to decode"},
		{name: "wrong type", content: `vertex_count = "many"`, wantErr: "failed to decode"},
		{name: "missing executable", content: `solver "pr" {}`, wantErr: "failed to decode"},
		{name: "bad duration", content: `timeout = "soon"`, wantErr: "timeout"},
		{name: "bad solver duration", content: "solver \"pr\" {\n  executable = \"x\"\n  timeout = \"1y\"\n}", wantErr: `solver "pr"`},
		{name: "invalid model", content: "vertex_count = 0", wantErr: "vertex_count"},
		{name: "bad policy", content: `exit_policy = "panic"`, wantErr: "exit policy"},
		{name: "unknown env var", content: "output_directory = env.NOPE", wantErr: "failed to decode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := newTestLoader().Load(context.Background(), writeFile(t, tc.content))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}

func TestWriteTemplate_RoundTrip(t *testing.T) {
	t.Parallel()

	seed := uint64(123)
	models := map[string]*config.Model{
		"defaults": config.Default(),
		"customised": func() *config.Model {
			m := config.Default()
			m.Seed = &seed
			m.Timeout = 90 * time.Second
			m.RecordFormat = aggregate.JSONLines
			m.Solvers = []solver.Solver{
				{Name: "pr", Executable: "/bin/pr", Args: []string{"-v", "--flow"}, Env: map[string]string{"A": "1", "B": "2"}, Timeout: time.Second},
			}
			return m
		}(),
	}

	for name, m := range models {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, WriteTemplate(&buf, m))
			require.Contains(t, buf.String(), "# flowbench run configuration.")

			loaded, err := newTestLoader().Load(context.Background(), writeFile(t, buf.String()))
			require.NoError(t, err, "template:\n%s", buf.String())
			if diff := cmp.Diff(m, loaded); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s\ntemplate:\n%s", diff, buf.String())
			}
		})
	}
}
