package shell

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"smallsh/internal/logger"
)

func (s *Shell) executeBuiltin(args []string) (bool, error) {
	switch args[0] {
	case "cd":
		return true, s.changeDirectory(args[1:])
	case "exit":
		s.exit()
		return true, nil
	case "status":
		s.logger.Outf(logger.Default, "%s", s.jobs.LastStatus())
		return true, nil
	default:
		return false, nil
	}
}

func (s *Shell) changeDirectory(args []string) error {
	dir := s.config.HomeDir
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("cd: %w", err)
	}
	return nil
}

func (s *Shell) exit() {
	if err := s.killGroup(); err != nil {
		s.logger.Errf(logger.Red, "exit: %v", err)
	}
	s.done = true
}

// killProcessGroup sends SIGTERM to every process in the shell's group. The
// shell ignores it first so it can still leave with status 0.
func killProcessGroup() error {
	signal.Ignore(syscall.SIGTERM)
	return unix.Kill(0, unix.SIGTERM)
}
