package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Banner is the application title shown at startup
const Banner = "PLAYHARVEST · Play catalog harvester"

var (
	mu     sync.RWMutex
	output    io.Writer = os.Stdout
	errOutput io.Writer = os.Stderr
	quiet     bool
)

// SetOutput redirects console output
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetErrorOutput redirects error messages
func SetErrorOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	errOutput = w
}

// ErrorOutput returns the writer error messages go to
func ErrorOutput() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return errOutput
}

// SetQuietMode silences everything but errors
func SetQuietMode(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// IsQuietMode reports whether console output is silenced
func IsQuietMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return quiet
}

// Output returns the console writer
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

func emit(always bool, s string) {
	mu.RLock()
	w, q := output, quiet
	mu.RUnlock()
	if q && !always {
		return
	}
	fmt.Fprintln(w, s)
}

// PrintBanner prints the boxed title with the version
func PrintBanner(version string) {
	emit(false, bannerStyle.Render(Banner+"  "+version))
}

// PrintError prints an error message in red to the error output. It is
// shown in quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(ErrorOutput(), Red("✗ "+msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	emit(false, Green("✓ "+msg))
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	emit(false, fmt.Sprintf("%s: %s", Cyan(label), Yellow(value)))
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	emit(false, Orange("⚠ "+msg))
}

// PrintHighlight prints a highlighted message
func PrintHighlight(msg string) {
	emit(false, Magenta(msg))
}
