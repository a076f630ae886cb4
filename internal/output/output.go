// Package output provides styled terminal messages for the passgen CLI.
//
// Passwords are written to stdout by the commands themselves; everything in
// this package goes to stderr unless a writer is set, so piping passgen into
// another program only ever carries passwords.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	out      io.Writer = os.Stderr
	renderer           = lipgloss.NewRenderer(os.Stderr)

	successStyle = renderer.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = renderer.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = renderer.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = renderer.NewStyle().Foreground(lipgloss.Color("240"))
)

// SetWriter redirects messages, mainly for tests.
func SetWriter(w io.Writer) {
	out = w
}

// Success prints a success message with ✅ and green color.
//
// Example:
//
//	output.Success("Wrote passgen.yml")
func Success(msg string) {
	fmt.Fprintln(out, successStyle.Render("✅ "+msg))
}

// Error prints an error message with ❌ and red color.
//
// Example:
//
//	output.Error("template file not found: pattern.txt")
func Error(msg string) {
	fmt.Fprintln(out, errorStyle.Render("❌ "+msg))
}

// Info prints an informational message with ℹ️ and cyan color.
func Info(msg string) {
	fmt.Fprintln(out, infoStyle.Render("ℹ️  "+msg))
}

// Step prints an indented step message in gray.
func Step(msg string) {
	fmt.Fprintln(out, stepStyle.Render("   "+msg))
}

// Width returns the width of the terminal behind f, or 0 when f is not a
// terminal.
func Width(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
