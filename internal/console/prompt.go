package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrNoInput     = errors.New("no input")
	ErrNotPositive = errors.New("value must be a positive integer")
)

// Prompter asks questions on out and reads one answer per line from in.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// PositiveInt prints question and parses the next line as an integer >= 1.
func (p *Prompter) PositiveInt(question string) (int, error) {
	if _, err := fmt.Fprintln(p.out, question); err != nil {
		return 0, err
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return 0, fmt.Errorf("reading answer to %q: %w", question, err)
		}
		return 0, fmt.Errorf("reading answer to %q: %w", question, ErrNoInput)
	}

	line := strings.TrimSpace(p.in.Text())
	v, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotPositive, line)
	}
	if v < 1 {
		return 0, fmt.Errorf("%w: %d", ErrNotPositive, v)
	}
	return v, nil
}
