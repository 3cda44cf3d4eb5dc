package hook

import (
	"fmt"
	"io"
	"os"

	"github.com/embedfoundry/firmhook/pkg/buildenv"
	"github.com/embedfoundry/firmhook/pkg/flagtree"
	"github.com/embedfoundry/firmhook/ui"
)

// PreParams configures a pre-build hook invocation.
type PreParams struct {
	// Env is the build environment snapshot. Required.
	Env *buildenv.Env

	// Defines is the parsed defines tree. When nil, it is parsed from the
	// environment's raw build flags.
	Defines *flagtree.Node

	// Stdout is where the report is written. Defaults to os.Stdout.
	Stdout io.Writer

	// EnableColor styles the banners.
	EnableColor bool
}

// Pre prints the pre-build diagnostic report. It is purely observational:
// the build system consumes no return value, missing metadata renders as
// empty fields, and nothing here can fail the build.
func Pre(params PreParams) {
	out := params.Stdout
	if out == nil {
		out = os.Stdout
	}

	desc := Describe(params.Env, params.Defines)

	label := func(text string) string { return text }
	if params.EnableColor {
		_, labelStyle := ui.GetBannerStyles()
		label = func(text string) string { return labelStyle.Render(text) }
	}

	banner(out, "PRE Build Hook BEGIN", params.EnableColor)
	_, _ = fmt.Fprintln(out, label("BUILD FLAGS:"))
	_, _ = fmt.Fprintln(out, params.Env.BuildFlags())
	_, _ = fmt.Fprintln(out, "=========================================================================================================")
	_, _ = fmt.Fprintf(out, "%s\t%s\n", label("BUILD ENV:"), desc.BuildID)
	_, _ = fmt.Fprintf(out, "%s\t%s\n", label("BOARD MCU:"), params.Env.BoardMCU())
	_, _ = fmt.Fprintf(out, "%s\t%s\n", label("DEVICE NAME:"), desc.DeviceName)
	_, _ = fmt.Fprintf(out, "%s\t%s\n", label("DEVICE TYPE:"), desc.DeviceType)
	_, _ = fmt.Fprintf(out, "%s\t%s\n", label("FLASH SIZE:"), desc.FlashSize)
	_, _ = fmt.Fprintf(out, "%s\t%s\n", label("UNIX TIME:"), desc.UnixTime)
	banner(out, "PRE Build Hook END", params.EnableColor)
}
