package commands

import (
	"bufio"
	"fmt"
	"io"
)

// LineReader is the source of input lines for the interactive loop. It's
// satisfied by *readline.Instance.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// PlainReader reads lines from a non-terminal input, writing the prompt
// before each read. Lines are returned with their terminator.
type PlainReader struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

var _ LineReader = (*PlainReader)(nil)

// NewPlainReader creates a reader over in that writes prompts to out.
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *PlainReader) SetPrompt(prompt string) {
	p.prompt = prompt
}

// Readline returns the next line. A final line without a terminator is
// returned before io.EOF.
func (p *PlainReader) Readline() (string, error) {
	fmt.Fprint(p.out, p.prompt)

	line, err := p.in.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	return line, err
}
