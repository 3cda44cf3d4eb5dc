// Package hook implements the two build lifecycle hooks: the pre-build
// diagnostic report and the post-build copy-and-fingerprint step.
package hook

import (
	"log/slog"

	"github.com/Masterminds/semver/v3"
	"github.com/embedfoundry/firmhook/pkg/buildenv"
	"github.com/embedfoundry/firmhook/pkg/flagtree"
)

// Markers the build configuration positions immediately before each metadata
// value in the defines list.
const (
	MarkerDeviceName = "DeviceName"
	MarkerDeviceType = "DeviceType"
	MarkerFlashSize  = "FlashSize"
	MarkerVersion    = "FIRMWAREVERSION"
)

// Descriptor holds the build metadata derived once per hook invocation.
// It is transient; nothing persists it between hooks.
type Descriptor struct {
	DeviceName string
	DeviceType string
	FlashSize  string // megabytes, digits only
	Version    string
	BuildID    string
	UnixTime   string
}

// Describe derives the build descriptor from the environment snapshot and
// the defines tree. A nil tree is parsed from the environment's raw build
// flags. Absent markers leave their field empty; Describe never fails.
func Describe(env *buildenv.Env, defines *flagtree.Node) Descriptor {
	if defines == nil {
		defines = flagtree.ParseFlags(env.BuildFlags())
	}

	d := Descriptor{
		DeviceName: flagtree.LookupOr(defines, MarkerDeviceName),
		DeviceType: flagtree.LookupOr(defines, MarkerDeviceType),
		FlashSize:  flagtree.LookupOr(defines, MarkerFlashSize),
		Version:    flagtree.LookupOr(defines, MarkerVersion),
		BuildID:    env.BuildEnvName(),
		UnixTime:   env.UnixTime(),
	}

	if d.Version != "" {
		if _, err := semver.NewVersion(d.Version); err != nil {
			// Legacy firmware used ad-hoc version strings; warn, don't fail.
			slog.Warn("firmware version is not valid semver",
				slog.String("version", d.Version))
		}
	}

	return d
}
