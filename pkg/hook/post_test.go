package hook

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/embedfoundry/firmhook/pkg/buildenv"
	"github.com/embedfoundry/firmhook/pkg/fingerprint"
)

// testEnv returns a build environment snapshot carrying the canonical
// metadata used across the post hook tests.
func testEnv() *buildenv.Env {
	return buildenv.FromMap(map[string]string{
		buildenv.VarBuildEnv:   "env_a",
		buildenv.VarUnixTime:   "1700000000",
		buildenv.VarBuildFlags: "-DDeviceName=Widget -DFlashSize=4 -DFIRMWAREVERSION=1.2.3",
	})
}

// writeArtifact creates a fake compiled binary and returns its path.
func writeArtifact(t *testing.T, dir string, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDestinationPath(t *testing.T) {
	t.Parallel()

	d := Descriptor{DeviceName: "Widget", BuildID: "env_a", Version: "1.2.3"}

	got := DestinationPath("/work", "binaries", d)
	want := filepath.Join("/work", "binaries", "1.2.3", "Widget_env_a_1.2.3.bin")
	if got != want {
		t.Errorf("DestinationPath() = %q, want %q", got, want)
	}
}

func TestPost_CopiesAndFingerprints(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	content := []byte{0xde, 0xad, 0xbe, 0xef}
	target := writeArtifact(t, t.TempDir(), "firmware.bin", content)

	var out bytes.Buffer
	err := Post(PostParams{
		Env:       testEnv(),
		Target:    target,
		OutputDir: "binaries",
		Stdout:    &out,
	})
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}

	destPath := filepath.Join(workDir, "binaries", "1.2.3", "Widget_env_a_1.2.3.bin")
	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("destination not written: %v", err)
	}

	trailer := fingerprint.Trailer{Name: "Widget", UnixTime: "1700000000", Version: "1.2.3", FlashMB: "4"}
	if len(got) != len(content)+len(trailer.String()) {
		t.Errorf("destination length = %d, want source + trailer = %d",
			len(got), len(content)+len(trailer.String()))
	}
	if !strings.HasSuffix(string(got), trailer.String()) {
		t.Errorf("destination should end with %q", trailer.String())
	}

	// Source artifact is untouched.
	src, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(src, content) {
		t.Error("Post must not modify the source artifact")
	}

	if !strings.Contains(out.String(), "POST Build Hook BEGIN") ||
		!strings.Contains(out.String(), "POST Build Hook END") {
		t.Error("progress banners missing from output")
	}
}

func TestPost_RerunOverwritesFreshCopy(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	content := []byte("firmware-bytes")
	target := writeArtifact(t, t.TempDir(), "firmware.bin", content)

	params := PostParams{
		Env:       testEnv(),
		Target:    target,
		OutputDir: "binaries",
		Stdout:    &bytes.Buffer{},
	}

	for range 2 {
		if err := Post(params); err != nil {
			t.Fatalf("Post() error = %v", err)
		}
	}

	destPath := filepath.Join(workDir, "binaries", "1.2.3", "Widget_env_a_1.2.3.bin")
	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatal(err)
	}

	trailer := fingerprint.Trailer{Name: "Widget", UnixTime: "1700000000", Version: "1.2.3", FlashMB: "4"}
	// One trailer, not two: each run copies afresh before appending.
	if len(got) != len(content)+len(trailer.String()) {
		t.Errorf("destination length after rerun = %d, want %d",
			len(got), len(content)+len(trailer.String()))
	}

	// No duplicate version directories appeared.
	entries, err := os.ReadDir(filepath.Join(workDir, "binaries"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("output directory count = %d, want 1", len(entries))
	}
}

func TestPost_MissingMetadataDegradesToEmptyFields(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	target := writeArtifact(t, t.TempDir(), "firmware.bin", []byte("x"))

	env := buildenv.FromMap(map[string]string{})
	err := Post(PostParams{
		Env:       env,
		Target:    target,
		OutputDir: "binaries",
		Stdout:    &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("Post() with missing metadata should still succeed, got %v", err)
	}

	// Empty name, build id, and version produce the degenerate "__.bin".
	destPath := filepath.Join(workDir, "binaries", "__.bin")
	if _, err := os.Stat(destPath); err != nil {
		t.Errorf("expected degenerate destination %s: %v", destPath, err)
	}
}

func TestPost_MissingSourceFails(t *testing.T) {
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	err := Post(PostParams{
		Env:       testEnv(),
		Target:    filepath.Join(t.TempDir(), "absent.bin"),
		OutputDir: "binaries",
		Stdout:    &out,
	})
	if err == nil {
		t.Error("Post() should fail when the source artifact is missing")
	}

	// The BEGIN banner must still be terminated so build logs stay scannable.
	if !strings.Contains(out.String(), "POST Build Hook FAILED") {
		t.Errorf("failure should print the FAILED banner:\n%s", out.String())
	}
	if strings.Contains(out.String(), "POST Build Hook END") {
		t.Errorf("failure must not print the END banner:\n%s", out.String())
	}
}

func TestPost_ResolvesSymlinkedTarget(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	buildDir := t.TempDir()
	target := writeArtifact(t, buildDir, "firmware.bin", []byte("bin"))
	writeArtifact(t, buildDir, "firmware.elf", []byte("elf"))

	// The target is reached through a symlink in an otherwise empty
	// directory, the way symlinked build dirs present artifacts.
	linkDir := t.TempDir()
	link := filepath.Join(linkDir, "firmware.bin")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	err := Post(PostParams{
		Env:           testEnv(),
		Target:        link,
		OutputDir:     "binaries",
		ExtraPatterns: []string{"*.elf"},
		Stdout:        &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}

	destDir := filepath.Join(workDir, "binaries", "1.2.3")
	if _, err := os.Stat(filepath.Join(destDir, "Widget_env_a_1.2.3.bin")); err != nil {
		t.Errorf("binary not copied through symlinked target: %v", err)
	}
	// Extra artifacts are scanned next to the real artifact, not the symlink.
	if _, err := os.Stat(filepath.Join(destDir, "firmware.elf")); err != nil {
		t.Errorf("extra artifact not found beside the resolved target: %v", err)
	}
}

func TestPost_ExtraArtifacts(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	buildDir := t.TempDir()
	target := writeArtifact(t, buildDir, "firmware.bin", []byte("bin"))
	writeArtifact(t, buildDir, "firmware.elf", []byte("elf"))
	writeArtifact(t, buildDir, "firmware.map", []byte("map"))
	writeArtifact(t, buildDir, "notes.txt", []byte("txt"))

	err := Post(PostParams{
		Env:           testEnv(),
		Target:        target,
		OutputDir:     "binaries",
		ExtraPatterns: []string{"*.elf", "*.map"},
		Stdout:        &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}

	destDir := filepath.Join(workDir, "binaries", "1.2.3")
	for _, name := range []string{"firmware.elf", "firmware.map"} {
		if _, err := os.Stat(filepath.Join(destDir, name)); err != nil {
			t.Errorf("extra artifact %s not copied: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(destDir, "notes.txt")); err == nil {
		t.Error("notes.txt does not match any pattern and must not be copied")
	}

	// Extra artifacts carry no fingerprint.
	elf, err := os.ReadFile(filepath.Join(destDir, "firmware.elf"))
	if err != nil {
		t.Fatal(err)
	}
	if string(elf) != "elf" {
		t.Errorf("extra artifact content = %q, want %q", elf, "elf")
	}
}

func TestPost_InvalidExtraPatternFails(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)

	target := writeArtifact(t, t.TempDir(), "firmware.bin", []byte("x"))

	err := Post(PostParams{
		Env:           testEnv(),
		Target:        target,
		OutputDir:     "binaries",
		ExtraPatterns: []string{"[unclosed"},
		Stdout:        &bytes.Buffer{},
	})
	if err == nil {
		t.Error("Post() should fail on an invalid extra artifact pattern")
	}
}
