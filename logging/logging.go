// Package logging writes the colorized, timestamped diagnostics shared by
// every o2tprep command:
//
//	[2006-01-02 15:04:05] [INFO] Loaded metadata rows: 12
//
// INFO and WARN lines go to standard output, ERROR lines to standard
// error. The level tag is colored only when its destination is a
// terminal, so piped output stays free of escape codes.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	// Out and ErrOut are the two diagnostic streams. Tests may swap them.
	Out    io.Writer = os.Stdout
	ErrOut io.Writer = os.Stderr

	infoTag  = color.New(color.FgGreen, color.Bold)
	warnTag  = color.New(color.FgYellow, color.Bold)
	errorTag = color.New(color.FgRed, color.Bold)

	exit = os.Exit
)

func init() {
	if !terminal(os.Stdout) {
		infoTag.DisableColor()
		warnTag.DisableColor()
	}
	if !terminal(os.Stderr) {
		errorTag.DisableColor()
	}
}

func terminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func emit(w io.Writer, tag *color.Color, level, message string) {
	stamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(w, "%s %s\n", tag.Sprintf("[%s] [%s]", stamp, level), message)
}

// Infof logs a progress line.
func Infof(format string, args ...interface{}) {
	emit(Out, infoTag, "INFO", fmt.Sprintf(format, args...))
}

// Warnf logs a condition that does not stop the run.
func Warnf(format string, args ...interface{}) {
	emit(Out, warnTag, "WARN", fmt.Sprintf(format, args...))
}

// Errorf logs a failure.
func Errorf(format string, args ...interface{}) {
	emit(ErrOut, errorTag, "ERROR", fmt.Sprintf(format, args...))
}

// Fatal logs err and exits with status 1.
func Fatal(err error) {
	Errorf("%v", err)
	exit(1)
}

// Fatalf logs a formatted failure and exits with status 1.
func Fatalf(format string, args ...interface{}) {
	Errorf(format, args...)
	exit(1)
}
