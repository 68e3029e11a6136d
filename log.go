package hologram

import (
	"fmt"
	"io"
	"os"
)

// LogOutput receives every diagnostic line the package writes. Set it to
// io.Discard to silence the package, or to a buffer in tests.
var LogOutput io.Writer = os.Stderr

// logf writes a single "[hologram] ..." line to LogOutput.
func logf(format string, args ...any) {
	if LogOutput == nil {
		return
	}
	_, _ = fmt.Fprintf(LogOutput, "[hologram] "+format+"\n", args...)
}
