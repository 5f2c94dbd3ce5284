// Package format provides terminal output helpers for the Strato CLI.
package format

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Color codes
const (
	Reset      = "\033[0m"
	Bold       = "\033[1m"
	Red        = "\033[31m"
	Green      = "\033[32m"
	Yellow     = "\033[33m"
	Cyan       = "\033[36m"
	White      = "\033[37m"
	BoldRed    = "\033[1;31m"
	BoldGreen  = "\033[1;32m"
	BoldYellow = "\033[1;33m"
	BoldCyan   = "\033[1;36m"
)

var useColor = true

func init() {
	if _, noColor := os.LookupEnv("STRATO_NO_COLOR"); noColor {
		useColor = false
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		useColor = false
	}
	if _, forceColor := os.LookupEnv("STRATO_FORCE_COLOR"); !forceColor {
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			useColor = false
		}
	}
}

// EnableColor enables or disables colored output globally
func EnableColor(enable bool) {
	useColor = enable
}

// IsColorEnabled returns whether colored output is enabled
func IsColorEnabled() bool {
	return useColor
}

// Colorize adds color to a string if colors are enabled
func Colorize(color, text string) string {
	if useColor {
		return color + text + Reset
	}
	return text
}

// Success formats a message as a success (green)
func Success(format string, a ...interface{}) string {
	return Colorize(Green, fmt.Sprintf(format, a...))
}

// Warning formats a message as a warning (yellow)
func Warning(format string, a ...interface{}) string {
	return Colorize(Yellow, fmt.Sprintf(format, a...))
}

// Error formats a message as an error (red)
func Error(format string, a ...interface{}) string {
	return Colorize(Red, fmt.Sprintf(format, a...))
}

// Info formats a message as info (cyan)
func Info(format string, a ...interface{}) string {
	return Colorize(Cyan, fmt.Sprintf(format, a...))
}

// Highlight formats a message as highlighted (bold cyan)
func Highlight(format string, a ...interface{}) string {
	return Colorize(BoldCyan, fmt.Sprintf(format, a...))
}

// Dim formats a message as dimmed (white)
func Dim(format string, a ...interface{}) string {
	return Colorize(White, fmt.Sprintf(format, a...))
}

// StatusSymbol returns a colorized status symbol
func StatusSymbol(success bool) string {
	if success {
		return Colorize(Green, "✓")
	}
	return Colorize(Red, "✗")
}

// StatusLabel colorizes a cluster lifecycle status for tables.
func StatusLabel(status string) string {
	switch strings.ToUpper(status) {
	case "UP":
		return Colorize(BoldGreen, status)
	case "INIT":
		return Colorize(BoldYellow, status)
	case "STOPPED":
		return Colorize(White, status)
	default:
		return Colorize(White, status)
	}
}
