package config

import (
	"fmt"
	"os"
)

// Exitf reports a fatal startup error on stderr, prefixed with the process
// name, and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "intakedesk: "+format+"\n", args...)
	os.Exit(1)
}
