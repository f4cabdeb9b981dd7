// Package term implements interactive confirmation on a real terminal.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driven"
)

// Ensure Confirmer implements the interface.
var _ driven.Confirmer = (*Confirmer)(nil)

// Confirmer asks yes/no questions on the controlling terminal. When
// stdin is not a terminal (pipes, CI) every question is answered no,
// matching the documented decline-by-default behaviour.
type Confirmer struct {
	in  io.Reader
	out io.Writer

	// isTerminal is swapped in tests.
	isTerminal func() bool
}

// New creates a confirmer over stdin/stderr.
func New() *Confirmer {
	return &Confirmer{
		in:  os.Stdin,
		out: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Confirm prompts with "[Y/n]" semantics: empty, "y" and "yes" accept,
// anything else declines. Non-interactive environments decline.
func (c *Confirmer) Confirm(prompt string) bool {
	if !c.isTerminal() {
		return false
	}
	fmt.Fprintf(c.out, "%s [Y/n] ", prompt)

	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true
	}
	return false
}
