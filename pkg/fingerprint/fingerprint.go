// Package fingerprint renders and appends the textual trailer that marks a
// distributed firmware binary with its build metadata.
package fingerprint

import (
	"fmt"
	"os"
)

// Trailer holds the fields embedded at the end of a distributed binary.
type Trailer struct {
	Name     string // device name
	UnixTime string // build timestamp, seconds since epoch
	Version  string // firmware version
	FlashMB  string // flash size in megabytes, digits only
}

// String renders the exact trailer written to the binary:
//
//	[<name>|<unixtime>|<version>|<flash>MB]
//
// There is no length prefix or terminator beyond the brackets; tooling that
// reads the trailer back scans for the final '[' in the file.
func (t Trailer) String() string {
	return "[" + t.Name + "|" + t.UnixTime + "|" + t.Version + "|" + t.FlashMB + "MB]"
}

// Append writes the trailer to the end of the file at path in binary append
// mode. The file must already exist; Append never creates or truncates it.
func Append(path string, t Trailer) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("failed to open binary for fingerprinting: %w", err)
	}

	if _, err := f.Write([]byte(t.String())); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append fingerprint: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close fingerprinted binary: %w", err)
	}
	return nil
}
