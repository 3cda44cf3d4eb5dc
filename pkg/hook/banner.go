package hook

import (
	"fmt"
	"io"

	"github.com/embedfoundry/firmhook/ui"
)

// banner writes a begin/end marker line in the format the build logs have
// always carried, styled when the terminal supports it.
func banner(w io.Writer, text string, colorEnabled bool) {
	line := ">---------- " + text + " ----------<"
	if colorEnabled {
		bannerStyle, _ := ui.GetBannerStyles()
		line = bannerStyle.Render(line)
	}
	_, _ = fmt.Fprintln(w, line)
}
