package shell

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"smallsh/internal/config"
	"smallsh/internal/logger"
)

// LineReader supplies one input line per call. *readline.Instance is the
// interactive implementation.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

type Shell struct {
	config     *config.Config
	logger     *logger.Logger
	reader     LineReader
	stdout     io.Writer
	jobs       *Jobs
	mode       *Mode
	banners    *banners
	signalChan chan os.Signal
	executable string
	killGroup  func() error
	done       bool
}

type Option func(*Shell)

// WithReader replaces the interactive line editor.
func WithReader(r LineReader) Option {
	return func(s *Shell) {
		s.reader = r
	}
}

// WithOutput redirects what the shell itself prints. Children always
// inherit the process's real descriptors.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(s *Shell) {
		s.stdout = stdout
		s.logger.Stdout = stdout
		s.logger.Stderr = stderr
	}
}

func New(cfg *config.Config, opts ...Option) (*Shell, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("error locating shell executable: %w", err)
	}

	s := &Shell{
		config: cfg,
		logger: &logger.Logger{
			Stdout:  os.Stdout,
			Stderr:  os.Stderr,
			Verbose: cfg.Verbose,
			Color:   cfg.Color,
		},
		stdout:     os.Stdout,
		mode:       &Mode{},
		banners:    newBanners(1, cfg.Prompt),
		executable: exe,
		killGroup:  killProcessGroup,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.jobs = NewJobs(s.stdout)

	if s.reader == nil {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:              cfg.Prompt,
			HistoryFile:         cfg.HistoryFile,
			FuncFilterInputRune: filterInput,
		})
		if err != nil {
			return nil, fmt.Errorf("error initializing readline: %w", err)
		}
		s.reader = rl
	}

	return s, nil
}

func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		raiseTSTP()
		return r, false
	}
	return r, true
}

// ForegroundOnly reports whether "&" is currently ignored.
func (s *Shell) ForegroundOnly() bool {
	return s.mode.ForegroundOnly()
}

// Run reads and executes lines until exit or end of input and returns the
// shell's exit status.
func (s *Shell) Run() int {
	s.setupSignalHandling()
	defer s.stopSignalHandling()
	defer s.reader.Close()

	for !s.done {
		s.jobs.Reap()

		line, err := s.reader.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			s.exit()
			continue
		case err != nil:
			s.logger.Errf(logger.Red, "smallsh: %v", err)
			s.exit()
			continue
		}

		if err := s.Execute(line); err != nil {
			s.logger.Errf(logger.Red, "%v", err)
		}
	}
	return 0
}

// Execute runs one input line. Every error it returns has already aborted
// only this line.
func (s *Shell) Execute(line string) error {
	cmd, err := ParseCommand(line)
	if err != nil {
		return err
	}
	if cmd.Empty() || cmd.IsComment() {
		return nil
	}

	if ok, err := s.executeBuiltin(cmd.Args); ok {
		return err
	}

	if s.mode.ForegroundOnly() {
		cmd.Background = false
	}
	return s.runExternal(cmd)
}

func (s *Shell) runExternal(cmd *Command) error {
	role := Foreground
	if cmd.Background {
		role = Background
	}

	proc, err := s.launch(cmd, role)
	if err != nil {
		return err
	}

	if role == Background {
		s.jobs.AddBackground(proc)
		s.logger.Outf(logger.Yellow, "background pid is %d", proc.Pid)
		return nil
	}

	_, err = s.jobs.WaitForeground(proc)
	return err
}
