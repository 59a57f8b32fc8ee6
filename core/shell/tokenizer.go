package shell

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxArgs is the number of arguments kept when a Tokenizer has no
// explicit limit.
const DefaultMaxArgs = 63

// OverflowPolicy decides what happens to lines with more than MaxArgs words.
type OverflowPolicy string

const (
	// OverflowTruncate drops the words past the limit.
	OverflowTruncate OverflowPolicy = "truncate"
	// OverflowReject fails the whole line.
	OverflowReject OverflowPolicy = "reject"
)

// ErrTooManyArgs is returned by Tokenize under OverflowReject.
var ErrTooManyArgs = errors.New("too many arguments")

// Tokenizer splits normalized command text into arguments. The zero value
// keeps DefaultMaxArgs arguments and truncates the rest.
type Tokenizer struct {
	MaxArgs  int
	Overflow OverflowPolicy
}

func (t *Tokenizer) maxArgs() int {
	if t.MaxArgs <= 0 {
		return DefaultMaxArgs
	}
	return t.MaxArgs
}

// Tokenize splits text on runs of spaces. It returns nil if there are no
// words.
func (t *Tokenizer) Tokenize(text string) ([]string, error) {
	limit := t.maxArgs()

	var args []string
	for _, word := range strings.Split(text, space) {
		if word == "" {
			continue
		}
		if len(args) == limit {
			if t.Overflow == OverflowReject {
				return nil, fmt.Errorf("%w (limit %d)", ErrTooManyArgs, limit)
			}
			break
		}
		args = append(args, word)
	}

	return args, nil
}
