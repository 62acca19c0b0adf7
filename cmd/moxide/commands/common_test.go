package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli, kong.Name("moxide"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	return parser
}

func TestCLI_ParsesBuildFlags(t *testing.T) {
	var cli CLI
	ctx, err := newParser(t, &cli).Parse([]string{
		"build", "--manifest", "site/manifest.yaml", "--workers", "3", "--strict",
		"--history", "h.db", "--nats-url", "nats://localhost:4222",
	})
	require.NoError(t, err)
	require.Equal(t, "build", ctx.Command())
	require.Equal(t, "site/manifest.yaml", cli.Build.Manifest)
	require.Equal(t, 3, cli.Build.Workers)
	require.True(t, cli.Build.Strict)
	require.Equal(t, "h.db", cli.Build.History)
	require.Equal(t, "nats://localhost:4222", cli.Build.NATSURL)
	require.Equal(t, "moxide.builds", cli.Build.NATSSubject)
}

func TestCLI_EnvFallback(t *testing.T) {
	t.Setenv("MOXIDE_WORKERS", "5")
	var cli CLI
	_, err := newParser(t, &cli).Parse([]string{"build"})
	require.NoError(t, err)
	require.Equal(t, 5, cli.Build.Workers)
	require.Equal(t, "manifest.toml", cli.Build.Manifest)
}

func TestCLI_CreatePageRequiresName(t *testing.T) {
	var cli CLI
	_, err := newParser(t, &cli).Parse([]string{"create", "page"})
	require.Error(t, err)
}

func TestLoadEnv_ExistingVariablesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MOXIDE_TEST_A=from-file\nMOXIDE_TEST_B=from-file\n"), 0o600))
	t.Setenv("MOXIDE_TEST_A", "from-env")
	t.Setenv("MOXIDE_TEST_B", "")
	require.NoError(t, os.Unsetenv("MOXIDE_TEST_B"))

	require.NoError(t, LoadEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	require.Equal(t, "from-env", os.Getenv("MOXIDE_TEST_A"))
	require.Equal(t, "from-file", os.Getenv("MOXIDE_TEST_B"))
}
