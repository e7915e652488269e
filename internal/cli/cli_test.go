package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/specialistvlad/flowbench/internal/app"
	"github.com/specialistvlad/flowbench/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, exit, err := Parse(nil, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, app.CommandRun, cfg.Command)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.ConfigPath)
	assert.Nil(t, cfg.Patch.InstanceCount, "unset flags must not override the config file")
	assert.Nil(t, cfg.Patch.Seed)
	assert.Nil(t, cfg.Patch.Solvers)
}

func TestParse_OverridesOnlySetFlags(t *testing.T) {
	t.Parallel()

	args := []string{
		"-c", "bench.hcl",
		"-vertices", "3",
		"-seed", "42",
		"-timeout", "5s",
		"-solver", "pr=./bin/pr",
		"-solver", "ff = ./bin/ff",
		"solve",
	}
	cfg, exit, err := Parse(args, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, app.CommandSolve, cfg.Command)
	assert.Equal(t, "bench.hcl", cfg.ConfigPath)
	require.NotNil(t, cfg.Patch.VertexCount)
	assert.Equal(t, 3, *cfg.Patch.VertexCount)
	require.NotNil(t, cfg.Patch.Seed)
	assert.Equal(t, uint64(42), *cfg.Patch.Seed)
	require.NotNil(t, cfg.Patch.Timeout)
	assert.Equal(t, 5*time.Second, *cfg.Patch.Timeout)
	assert.Nil(t, cfg.Patch.InstanceCount)
	assert.Nil(t, cfg.Patch.ExitPolicy)
	assert.Equal(t, []solver.Solver{
		{Name: "pr", Executable: "./bin/pr"},
		{Name: "ff", Executable: "./bin/ff"},
	}, cfg.Patch.Solvers)
}

func TestParse_FlagsAfterCommand(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse([]string{"generate", "-instances", "4"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, app.CommandGenerate, cfg.Command)
	require.NotNil(t, cfg.Patch.InstanceCount)
	assert.Equal(t, 4, *cfg.Patch.InstanceCount)
}

func TestParse_Init(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse([]string{"init"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, app.CommandInit, cfg.Command)
	assert.Equal(t, app.DefaultInitPath, cfg.InitPath)

	cfg, _, err = Parse([]string{"init", "custom.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "custom.hcl", cfg.InitPath)
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "-exit-policy")
}

func TestParse_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"-nope"}, "flag provided but not defined"},
		{"unknown command", []string{"frobnicate"}, "unknown command"},
		{"extra argument", []string{"run", "extra"}, "unexpected arguments: extra"},
		{"bad solver", []string{"-solver", "pr"}, "expected name=path"},
		{"bad log format", []string{"-log-format", "xml"}, "invalid log-format"},
		{"bad log level", []string{"-log-level", "loud"}, "invalid log-level"},
		{"negative timeout", []string{"-timeout", "-1s"}, "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, exit, err := Parse(tt.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.False(t, exit)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tt.want)
		})
	}
}
