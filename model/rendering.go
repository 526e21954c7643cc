package model

import (
	"io"

	"github.com/pkg/errors"
)

const (
	// frameGap separates frames on consoles that cannot be cleared.
	frameGap = "\n\n"
	// ansiClear moves the cursor home and erases the screen.
	ansiClear = "\033[H\033[2J"
)

// TerminalRenderer writes grids to a text console.
type TerminalRenderer struct {
	Out       io.Writer
	ANSIClear bool
}

// NewTerminalRenderer returns a renderer writing to out.
func NewTerminalRenderer(out io.Writer, ansiClear bool) *TerminalRenderer {
	return &TerminalRenderer{Out: out, ANSIClear: ansiClear}
}

// Display prints the grid verbatim in the snapshot format
func (r *TerminalRenderer) Display(g *Grid) error {
	if _, err := io.WriteString(r.Out, g.String()); err != nil {
		return errors.Wrap(err, "[TerminalRenderer.Display] failed to write grid")
	}
	return nil
}

// Frame clears the console, then prints the grid followed by a blank line.
func (r *TerminalRenderer) Frame(g *Grid) error {
	if err := r.Clear(); err != nil {
		return err
	}
	if err := r.Display(g); err != nil {
		return err
	}
	if _, err := io.WriteString(r.Out, "\n"); err != nil {
		return errors.Wrap(err, "[TerminalRenderer.Frame] failed to end frame")
	}
	return nil
}

// Clear prepares the console for the next frame.
func (r *TerminalRenderer) Clear() error {
	seq := frameGap
	if r.ANSIClear {
		seq = ansiClear
	}
	if _, err := io.WriteString(r.Out, seq); err != nil {
		return errors.Wrap(err, "[TerminalRenderer.Clear] failed to clear terminal")
	}
	return nil
}
