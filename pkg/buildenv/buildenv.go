// Package buildenv exposes the build system's environment context to the
// hooks. The external build system communicates build metadata through
// environment variables; an Env snapshot is constructed once at hook entry
// and threaded through explicitly rather than read ambiently.
package buildenv

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// Environment variables set by the external build system.
const (
	// VarBuildEnv names the active build environment (the build identifier).
	VarBuildEnv = "PIOENV"

	// VarBoardMCU names the target board's MCU.
	VarBoardMCU = "BOARD_MCU"

	// VarUnixTime is the build timestamp in seconds since the epoch.
	VarUnixTime = "UNIX_TIME"

	// VarBuildFlags is the raw compiler flag string for the build.
	VarBuildFlags = "BUILD_FLAGS"
)

// Env is an immutable snapshot of the build environment.
type Env struct {
	vars map[string]string
}

// FromOS snapshots the current process environment.
func FromOS() *Env {
	return &Env{vars: toMap(os.Environ())}
}

// FromMap builds an Env from an explicit variable map. Primarily useful for
// testing hooks without mutating the process environment.
func FromMap(vars map[string]string) *Env {
	snapshot := make(map[string]string, len(vars))
	for k, v := range vars {
		snapshot[k] = v
	}
	return &Env{vars: snapshot}
}

// Load snapshots the process environment merged with a dotenv file. Values
// from the process environment win over file values. A missing file is not
// an error; builds that export everything directly have no dotenv file.
func Load(envFile string) (*Env, error) {
	env := FromOS()
	if envFile == "" {
		return env, nil
	}

	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		if os.IsNotExist(err) {
			return env, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
	}

	for k, v := range fileVars {
		if _, present := env.vars[k]; !present {
			env.vars[k] = v
		}
	}
	return env, nil
}

// Get returns the value of a variable, or the empty string if unset. Absent
// metadata degrades to empty report fields rather than failing the hook.
func (e *Env) Get(key string) string {
	return e.vars[key]
}

// BuildEnvName returns the build environment identifier.
func (e *Env) BuildEnvName() string { return e.Get(VarBuildEnv) }

// BoardMCU returns the target MCU name.
func (e *Env) BoardMCU() string { return e.Get(VarBoardMCU) }

// UnixTime returns the build timestamp string.
func (e *Env) UnixTime() string { return e.Get(VarUnixTime) }

// BuildFlags returns the raw compiler flag string.
func (e *Env) BuildFlags() string { return e.Get(VarBuildFlags) }

const keyValueParts = 2 // Number of parts in a key=value pair.

func toMap(assignments []string) map[string]string {
	return lo.FromPairs(lo.FilterMap(assignments, func(item string, _ int) (lo.Entry[string, string], bool) {
		parts := strings.SplitN(item, "=", keyValueParts)
		if len(parts) != keyValueParts {
			return lo.Entry[string, string]{}, false
		}

		return lo.Entry[string, string]{Key: parts[0], Value: parts[1]}, true
	}))
}
