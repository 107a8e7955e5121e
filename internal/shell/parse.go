package shell

import (
	"errors"
	"strings"

	"github.com/kballard/go-shellquote"
)

const (
	maxLineLength = 2048
	maxArgs       = 512

	commentMarker = "#"
)

var (
	ErrLineTooLong     = errors.New("syntax error: line too long")
	ErrTooManyArgs     = errors.New("syntax error: too many arguments")
	ErrMissingRedirect = errors.New("syntax error: missing redirection target")
)

// Command is one parsed input line.
type Command struct {
	Args       []string
	InputFile  string
	OutputFile string
	Background bool
}

// ParseCommand splits a line on whitespace. "<" and ">" take the following
// word as a redirection target and "&" anywhere marks the command as
// background. Nothing is quoted or expanded.
func ParseCommand(line string) (*Command, error) {
	if len(line) > maxLineLength {
		return nil, ErrLineTooLong
	}

	cmd := &Command{}
	words := strings.Fields(line)
	for i := 0; i < len(words); i++ {
		switch words[i] {
		case "<", ">":
			if i+1 >= len(words) {
				return nil, ErrMissingRedirect
			}
			if words[i] == "<" {
				cmd.InputFile = words[i+1]
			} else {
				cmd.OutputFile = words[i+1]
			}
			i++
		case "&":
			cmd.Background = true
		default:
			if len(cmd.Args) == maxArgs {
				return nil, ErrTooManyArgs
			}
			cmd.Args = append(cmd.Args, words[i])
		}
	}
	return cmd, nil
}

// Empty reports whether there is nothing to run.
func (c *Command) Empty() bool {
	return len(c.Args) == 0
}

func (c *Command) IsComment() bool {
	return !c.Empty() && strings.HasPrefix(c.Args[0], commentMarker)
}

// String renders the argument list for diagnostics.
func (c *Command) String() string {
	return shellquote.Join(c.Args...)
}
