package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("config warning: %s: %s", w.Field, w.Message)
}

// ValidationResults holds the results of configuration validation.
type ValidationResults struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are validation errors.
func (r ValidationResults) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (r ValidationResults) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrorMessage returns a combined error message for all validation errors.
func (r ValidationResults) ErrorMessage() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// WriteWarnings writes all warnings to the given writer.
func (r ValidationResults) WriteWarnings(w io.Writer) {
	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintln(w, warn.String())
	}
}

// Validate checks the configuration for errors and warnings.
// It returns errors for invalid values that would cause runtime issues,
// and warnings for issues that can be safely ignored.
func (c *Config) Validate() ValidationResults {
	var result ValidationResults

	if strings.TrimSpace(c.OutputDir) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "output_dir",
			Message: "output directory cannot be empty",
		})
	}

	// Binaries placed outside the working directory tend to surprise
	// build-server cleanup jobs.
	if filepath.IsAbs(c.OutputDir) {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "output_dir",
			Message: fmt.Sprintf("absolute path %q places binaries outside the working directory", c.OutputDir),
		})
	}

	for i, pattern := range c.ExtraArtifacts {
		if _, err := glob.Compile(pattern); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("extra_artifacts[%d]", i),
				Message: fmt.Sprintf("invalid glob pattern %q: %v", pattern, err),
			})
		}
	}

	return result
}
