package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

const defaultBarWidth = 30

// PrintProgress renders a single in-place progress bar line. Sizes are
// pre-formatted by the caller (humanize strings).
func PrintProgress(percentage int, speed, downloaded, total string) {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	width := barWidth()
	filled := percentage * width / 100
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", width-filled)
	fmt.Printf("\r[%s] %3d%% %s/s %s/%s    ", bar, percentage, speed, downloaded, total)
}

func barWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return defaultBarWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w < 60 {
		return defaultBarWidth
	}
	// Leave room for the percentage, speed and size columns.
	if w-50 < defaultBarWidth {
		return defaultBarWidth
	}
	if w-50 > 60 {
		return 60
	}
	return w - 50
}
