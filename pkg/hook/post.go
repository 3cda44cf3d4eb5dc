package hook

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/embedfoundry/firmhook/pkg/buildenv"
	"github.com/embedfoundry/firmhook/pkg/fingerprint"
	"github.com/embedfoundry/firmhook/pkg/flagtree"
	"github.com/embedfoundry/firmhook/pkg/fsutils"
	"github.com/gobwas/glob"
)

// outputDirPerm is the permission mode for created output directories.
const outputDirPerm = 0o755

// PostParams configures a post-build hook invocation.
type PostParams struct {
	// Env is the build environment snapshot. Required.
	Env *buildenv.Env

	// Defines is the parsed defines tree. When nil, it is parsed from the
	// environment's raw build flags.
	Defines *flagtree.Node

	// Target is the path of the compiled binary artifact.
	Target string

	// OutputDir is the output directory name under the working directory.
	OutputDir string

	// ExtraPatterns are glob patterns for additional artifacts to copy from
	// the target's directory (no fingerprint).
	ExtraPatterns []string

	// WaitTimeout, when positive, waits this long for the target to appear
	// before failing. Some build systems fire the post action before the
	// artifact lands on disk.
	WaitTimeout time.Duration

	// Stdout is where progress messages are written. Defaults to os.Stdout.
	Stdout io.Writer

	// EnableColor styles the banners.
	EnableColor bool
}

// DestinationPath returns the versioned path the artifact is copied to:
//
//	<cwd>/<outputDir>/<version>/<name>_<buildid>_<version>.bin
func DestinationPath(cwd, outputDir string, d Descriptor) string {
	name := d.DeviceName + "_" + d.BuildID + "_" + d.Version + ".bin"
	return filepath.Join(cwd, outputDir, d.Version, name)
}

// Post copies the compiled artifact to its versioned destination and appends
// the fingerprint trailer to the copy. The source artifact is never touched.
// Any filesystem fault is returned as-is for the build system to fail on;
// there is no retry and no cleanup of partial output. The BEGIN banner is
// always terminated, by END on success or FAILED on error, so interleaved
// build logs stay scannable.
func Post(params PostParams) error {
	out := params.Stdout
	if out == nil {
		out = os.Stdout
	}

	banner(out, "POST Build Hook BEGIN", params.EnableColor)
	if err := distribute(out, params); err != nil {
		banner(out, "POST Build Hook FAILED", params.EnableColor)
		return err
	}
	banner(out, "POST Build Hook END", params.EnableColor)
	return nil
}

func distribute(out io.Writer, params PostParams) error {
	if params.WaitTimeout > 0 {
		if err := WaitForArtifact(params.Target, params.WaitTimeout); err != nil {
			return err
		}
	}

	// Build directories are frequently reached through symlinks; resolve the
	// artifact path so the copy and the sibling scan for extra artifacts both
	// operate on the real location.
	target, err := fsutils.TruePath(params.Target)
	if err != nil {
		return fmt.Errorf("failed to resolve artifact path: %w", err)
	}

	desc := Describe(params.Env, params.Defines)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	destPath := DestinationPath(cwd, params.OutputDir, desc)
	destDir := filepath.Dir(destPath)

	slog.Debug("copying build artifact",
		slog.String("target", target),
		slog.String("dest", destPath))

	// MkdirAll is a no-op when the directory already exists.
	if err := os.MkdirAll(destDir, outputDirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Copying binary to distribution directory:\n  %s\n", destPath)
	if err := fsutils.CopyFile(target, destPath); err != nil {
		return err
	}

	trailer := fingerprint.Trailer{
		Name:     desc.DeviceName,
		UnixTime: desc.UnixTime,
		Version:  desc.Version,
		FlashMB:  desc.FlashSize,
	}
	if err := fingerprint.Append(destPath, trailer); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Fingerprinting:\n  %s\n", trailer.String())

	return copyExtraArtifacts(out, target, destDir, params.ExtraPatterns)
}

// copyExtraArtifacts copies files from the target's directory whose base
// names match one of the glob patterns. The target itself is skipped; extra
// artifacts are not fingerprinted.
func copyExtraArtifacts(out io.Writer, target, destDir string, patterns []string) error {
	if len(patterns) == 0 {
		return nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid extra artifact pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}

	srcDir := filepath.Dir(target)
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("failed to read artifact directory: %w", err)
	}

	targetBase := filepath.Base(target)
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == targetBase {
			continue
		}
		matched := false
		for _, g := range globs {
			if g.Match(entry.Name()) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(destDir, entry.Name())
		_, _ = fmt.Fprintf(out, "Copying extra artifact:\n  %s\n", dst)
		if err := fsutils.CopyFile(src, dst); err != nil {
			return err
		}
	}

	return nil
}
