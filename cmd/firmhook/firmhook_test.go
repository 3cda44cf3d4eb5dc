package firmhook

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points all config sources at scratch directories so a developer's
// real firmhook configuration cannot leak into the tests.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func setBuildEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PIOENV", "env_a")
	t.Setenv("BOARD_MCU", "esp32")
	t.Setenv("UNIX_TIME", "1700000000")
	t.Setenv("BUILD_FLAGS", "-DDeviceName=Widget -DDeviceType=POE -DFlashSize=4 -DFIRMWAREVERSION=1.2.3")
}

func TestPreCommand(t *testing.T) {
	isolate(t)
	setBuildEnv(t)
	ctx := t.Context()

	var stdout, stderr bytes.Buffer
	rootCmd := NewRootCmd(ctx)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"pre"})

	require.NoError(t, ExecuteWithFang(ctx, rootCmd))
	assert.Contains(t, stdout.String(), "PRE Build Hook BEGIN")
	assert.Contains(t, stdout.String(), "DEVICE NAME:\tWidget")
	assert.Contains(t, stdout.String(), "FLASH SIZE:\t4")
}

func TestPostCommand(t *testing.T) {
	isolate(t)
	setBuildEnv(t)
	ctx := t.Context()

	buildDir := t.TempDir()
	target := filepath.Join(buildDir, "firmware.bin")
	require.NoError(t, os.WriteFile(target, []byte("firmware"), 0o644))

	var stdout, stderr bytes.Buffer
	rootCmd := NewRootCmd(ctx)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"post", "--target", target})

	require.NoError(t, ExecuteWithFang(ctx, rootCmd))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	destPath := filepath.Join(cwd, "binaries", "1.2.3", "Widget_env_a_1.2.3.bin")
	_, err = os.Stat(destPath)
	require.NoError(t, err, "destination binary should exist")
	assert.Contains(t, stdout.String(), "Fingerprinting:")
}

func TestPostCommand_RequiresTarget(t *testing.T) {
	isolate(t)
	ctx := t.Context()

	rootCmd := NewRootCmd(ctx)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"post"})

	require.Error(t, ExecuteWithFang(ctx, rootCmd))
}

func TestPreCommand_DefinesFile(t *testing.T) {
	isolate(t)
	t.Setenv("PIOENV", "env_a")
	ctx := t.Context()

	definesFile := filepath.Join(t.TempDir(), "defines.yaml")
	content := `CPPDEFINES:
  - DeviceName
  - FileWidget
  - FlashSize
  - "8"
`
	require.NoError(t, os.WriteFile(definesFile, []byte(content), 0o644))

	var stdout bytes.Buffer
	rootCmd := NewRootCmd(ctx)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"pre", "--defines-file", definesFile})

	require.NoError(t, ExecuteWithFang(ctx, rootCmd))
	assert.Contains(t, stdout.String(), "DEVICE NAME:\tFileWidget")
	assert.Contains(t, stdout.String(), "FLASH SIZE:\t8")
}

func TestPreCommand_EnvFile(t *testing.T) {
	isolate(t)
	ctx := t.Context()

	envFile := filepath.Join(t.TempDir(), "build.env")
	content := "PIOENV=dotenv_env\nBUILD_FLAGS=-DDeviceName=DotWidget\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	var stdout bytes.Buffer
	rootCmd := NewRootCmd(ctx)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"pre", "--env-file", envFile})

	require.NoError(t, ExecuteWithFang(ctx, rootCmd))
	assert.Contains(t, stdout.String(), "BUILD ENV:\tdotenv_env")
	assert.Contains(t, stdout.String(), "DEVICE NAME:\tDotWidget")
}
