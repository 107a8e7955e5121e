package shell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := map[string]struct {
		line string
		want Command
	}{
		"empty":       {"", Command{}},
		"blank":       {"   \t ", Command{}},
		"simple":      {"ls -l", Command{Args: []string{"ls", "-l"}}},
		"output":      {"ls -l > out.txt", Command{Args: []string{"ls", "-l"}, OutputFile: "out.txt"}},
		"input":       {"wc -l < in.txt", Command{Args: []string{"wc", "-l"}, InputFile: "in.txt"}},
		"both":        {"sort < a > b", Command{Args: []string{"sort"}, InputFile: "a", OutputFile: "b"}},
		"background":  {"sleep 5 &", Command{Args: []string{"sleep", "5"}, Background: true}},
		"bg redirect": {"cat < a > b &", Command{Args: []string{"cat"}, InputFile: "a", OutputFile: "b", Background: true}},
		"amp inside":  {"echo & hi", Command{Args: []string{"echo", "hi"}, Background: true}},
		"comment":     {"# ls", Command{Args: []string{"#", "ls"}}},
		"no quoting":  {`echo "a b"`, Command{Args: []string{"echo", `"a`, `b"`}}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	_, err := ParseCommand("cat <")
	assert.ErrorIs(t, err, ErrMissingRedirect)

	_, err = ParseCommand("ls >")
	assert.ErrorIs(t, err, ErrMissingRedirect)

	_, err = ParseCommand("echo " + strings.Repeat("x", maxLineLength))
	assert.ErrorIs(t, err, ErrLineTooLong)

	_, err = ParseCommand("echo" + strings.Repeat(" a", maxArgs))
	assert.ErrorIs(t, err, ErrTooManyArgs)
}

func TestCommandPredicates(t *testing.T) {
	cmd, err := ParseCommand("#comment here")
	require.NoError(t, err)
	assert.True(t, cmd.IsComment())
	assert.False(t, cmd.Empty())

	cmd, err = ParseCommand("echo #not")
	require.NoError(t, err)
	assert.False(t, cmd.IsComment())

	cmd, err = ParseCommand("")
	require.NoError(t, err)
	assert.True(t, cmd.Empty())
	assert.False(t, cmd.IsComment())
}

func TestCommandString(t *testing.T) {
	cmd := &Command{Args: []string{"ls", "-l", "/tmp"}}
	assert.Equal(t, "ls -l /tmp", cmd.String())

	cmd = &Command{Args: []string{"echo", "a b", "c"}}
	assert.NotEqual(t, "echo a b c", cmd.String())
}
