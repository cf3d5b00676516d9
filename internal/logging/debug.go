package logging

import (
	"fmt"
	"io"
	"os"
)

// DebugEnvVar enables debug output and forces the structured logger to debug level.
const DebugEnvVar = "TODO_DEBUG"

// debugOutput is stderr so debug lines never mix with command output.
var debugOutput io.Writer = os.Stderr

// DebugEnabled returns true if debug mode is enabled via TODO_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv(DebugEnvVar) != ""
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintf(debugOutput, format, args...)
	}
}
