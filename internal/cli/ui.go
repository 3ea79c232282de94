package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for registry URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failure messages.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Status Output
// =============================================================================

// status is the kind of a one-line progress message.
type status int

const (
	statusInfo status = iota
	statusSuccess
	statusWarning
	statusError
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// statusIcons maps each status to its icon and style.
var statusIcons = map[status]struct {
	icon  string
	style lipgloss.Style
}{
	statusInfo:    {"›", lipgloss.NewStyle().Foreground(colorGray)},
	statusSuccess: {"✓", lipgloss.NewStyle().Foreground(colorGreen)},
	statusWarning: {"!", lipgloss.NewStyle().Foreground(colorYellow)},
	statusError:   {"✗", lipgloss.NewStyle().Foreground(colorRed)},
}

const iconArrow = "→"

func printStatus(w io.Writer, st status, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if st == statusWarning {
		msg = StyleWarning.Render(msg)
	}
	i := statusIcons[st]
	fmt.Fprintln(w, i.style.Render(i.icon)+" "+msg)
}

func printSuccess(w io.Writer, format string, args ...any) {
	printStatus(w, statusSuccess, format, args...)
}

func printError(w io.Writer, format string, args ...any) {
	printStatus(w, statusError, format, args...)
}

func printWarning(w io.Writer, format string, args ...any) {
	printStatus(w, statusWarning, format, args...)
}

func printInfo(w io.Writer, format string, args ...any) {
	printStatus(w, statusInfo, format, args...)
}

// printDetail prints an indented, dimmed line under a status message,
// e.g. the registry's diagnostic for a failed publish.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printRoute prints "source → target" for a migration.
func printRoute(w io.Writer, source, target string) {
	fmt.Fprintln(w, "  "+StyleLink.Render(source)+" "+StyleDim.Render(iconArrow)+" "+StyleLink.Render(target))
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
