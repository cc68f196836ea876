// Package ui prints colorized status lines and the download progress
// bar. Color handling is delegated to fatih/color so output degrades
// cleanly when stdout is not a terminal.
package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// RunErrorCount and RunWarningCount track errors/warnings during a run.
var RunErrorCount int
var RunWarningCount int

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	blue   = color.New(color.FgBlue)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

// DisableColor turns off all color output for the process.
func DisableColor() {
	color.NoColor = true
}

// PrintSuccess prints a success message.
func PrintSuccess(msg string) {
	green.Print("✓ ")
	fmt.Println(msg)
}

// PrintError prints an error message and increments the error counter.
func PrintError(msg string) {
	RunErrorCount++
	red.Print("✗ ")
	fmt.Println(msg)
}

// PrintInfo prints an info message.
func PrintInfo(msg string) {
	blue.Print("ℹ ")
	fmt.Println(msg)
}

// PrintWarning prints a warning message and increments the warning counter.
func PrintWarning(msg string) {
	RunWarningCount++
	yellow.Print("⚠ ")
	fmt.Println(msg)
}

// PrintDownload prints a download message.
func PrintDownload(msg string) {
	cyan.Print("⬇ ")
	fmt.Println(msg)
}

// PrintMusic prints a track message.
func PrintMusic(msg string) {
	green.Print("♪ ")
	fmt.Println(msg)
}
