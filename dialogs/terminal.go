package dialogs

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Terminal asks yes/no questions on a text stream. It shares the reader with
// whatever else consumes input, so it reads exactly one line per question.
type Terminal struct {
	In  *bufio.Reader
	Out io.Writer
}

// NewTerminal wraps r and w.
func NewTerminal(r io.Reader, w io.Writer) *Terminal {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Terminal{In: br, Out: w}
}

// Confirm prints message and accepts "y" or "yes". Anything else, including
// end of input, declines.
func (t *Terminal) Confirm(message string) bool {
	fmt.Fprintf(t.Out, "%s [y/N] ", message)
	line, err := t.In.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(t.Out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Always answers every question with the same value.
type Always bool

func (a Always) Confirm(string) bool { return bool(a) }
