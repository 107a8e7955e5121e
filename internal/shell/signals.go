package shell

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

const (
	enterForegroundOnly = "\nEntering foreground-only mode (& is now ignored)\n"
	exitForegroundOnly  = "\nExiting foreground-only mode\n"
)

// Mode holds the foreground-only flag. Only the SIGTSTP handler writes it.
type Mode struct {
	foregroundOnly atomic.Bool
}

func (m *Mode) ForegroundOnly() bool {
	return m.foregroundOnly.Load()
}

// Toggle flips the flag and returns the new value.
func (m *Mode) Toggle() bool {
	for {
		old := m.foregroundOnly.Load()
		if m.foregroundOnly.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// banners are built once so the handler only flips a flag and issues a
// single write.
type banners struct {
	fd    int
	enter []byte
	exit  []byte
}

func newBanners(fd int, prompt string) *banners {
	return &banners{
		fd:    fd,
		enter: []byte(enterForegroundOnly + prompt),
		exit:  []byte(exitForegroundOnly + prompt),
	}
}

func (s *Shell) toggleForegroundOnly() {
	msg := s.banners.exit
	if s.mode.Toggle() {
		msg = s.banners.enter
	}
	unix.Write(s.banners.fd, msg)
}

// setupSignalHandling installs the interpreter policy: SIGINT is ignored for
// the life of the process and SIGTSTP toggles foreground-only mode.
// Each call gets a fresh channel, so a shell can be run again after
// stopSignalHandling.
func (s *Shell) setupSignalHandling() {
	s.signalChan = make(chan os.Signal, 1)
	signal.Ignore(syscall.SIGINT)
	signal.Notify(s.signalChan, syscall.SIGTSTP)
	go s.handleSignals(s.signalChan)
}

func (s *Shell) stopSignalHandling() {
	signal.Stop(s.signalChan)
	close(s.signalChan)
}

func (s *Shell) handleSignals(signals <-chan os.Signal) {
	for sig := range signals {
		if sig == syscall.SIGTSTP {
			s.toggleForegroundOnly()
		}
	}
}

// applyChildSignals runs in the child before exec. Ignored dispositions
// survive exec; caught ones revert to the default.
func applyChildSignals(role Role) {
	signal.Ignore(syscall.SIGTSTP)
	if role == Background {
		signal.Ignore(syscall.SIGINT)
		return
	}
	// SIGINT may arrive ignored from the shell. Catching it here is the only
	// portable way back to SIG_DFL once the image is replaced.
	signal.Notify(make(chan os.Signal, 1), syscall.SIGINT)
}

// raiseTSTP delivers SIGTSTP to the shell itself. The line editor reads in
// raw mode, so a Ctrl-Z at the prompt never becomes a signal on its own.
func raiseTSTP() {
	unix.Kill(unix.Getpid(), unix.SIGTSTP)
}
