package shell

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"syscall"

	"golang.org/x/sys/unix"
)

type Role int

const (
	Foreground Role = iota
	Background
)

func (r Role) String() string {
	if r == Background {
		return "background"
	}
	return "foreground"
}

// Process is a spawned child that has not been reaped yet.
type Process struct {
	Pid  int
	Role Role
}

// ExitStatus is how a child finished: an exit code or a terminating signal.
type ExitStatus struct {
	Code     int
	Signal   syscall.Signal
	Signaled bool
}

func exitStatusOf(ws unix.WaitStatus) ExitStatus {
	if ws.Signaled() {
		return ExitStatus{Signal: ws.Signal(), Signaled: true}
	}
	return ExitStatus{Code: ws.ExitStatus()}
}

func (e ExitStatus) String() string {
	if e.Signaled {
		return fmt.Sprintf("terminated by signal %d", int(e.Signal))
	}
	return fmt.Sprintf("exit value %d", e.Code)
}

// Notification reports a finished background child.
type Notification struct {
	Pid    int
	Status ExitStatus
}

func (n Notification) String() string {
	return fmt.Sprintf("background pid %d is done: %s", n.Pid, n.Status)
}

var ErrForegroundBusy = errors.New("a foreground process is already being waited for")

// Jobs owns every unreaped child and the status of the last foreground one.
type Jobs struct {
	out        io.Writer
	background map[int]*Process
	foreground *Process
	last       ExitStatus
}

func NewJobs(out io.Writer) *Jobs {
	return &Jobs{
		out:        out,
		background: make(map[int]*Process),
	}
}

func (j *Jobs) AddBackground(p *Process) {
	j.background[p.Pid] = p
}

// Pending returns the pids of background children not yet reaped.
func (j *Jobs) Pending() []int {
	pids := make([]int, 0, len(j.background))
	for pid := range j.background {
		pids = append(pids, pid)
	}
	slices.Sort(pids)
	return pids
}

// LastStatus is the result of the most recently reaped foreground child.
func (j *Jobs) LastStatus() ExitStatus {
	return j.last
}

// Reap collects finished background children without blocking and prints a
// line for each. Only recorded background pids are polled, so a foreground
// child is never consumed here.
func (j *Jobs) Reap() []Notification {
	var done []Notification
	for _, pid := range j.Pending() {
		if j.foreground != nil && j.foreground.Pid == pid {
			continue
		}

		var ws unix.WaitStatus
		wpid, err := wait4(pid, &ws, unix.WNOHANG)
		switch {
		case errors.Is(err, unix.ECHILD):
			// Already gone; nothing left to report.
			delete(j.background, pid)
		case err != nil, wpid != pid:
			continue
		default:
			delete(j.background, pid)
			done = append(done, Notification{Pid: pid, Status: exitStatusOf(ws)})
		}
	}

	for _, n := range done {
		fmt.Fprintln(j.out, n)
	}
	return done
}

// WaitForeground blocks until p finishes and records its status.
func (j *Jobs) WaitForeground(p *Process) (ExitStatus, error) {
	if j.foreground != nil {
		return ExitStatus{}, ErrForegroundBusy
	}
	j.foreground = p
	defer func() { j.foreground = nil }()

	var ws unix.WaitStatus
	if _, err := wait4(p.Pid, &ws, 0); err != nil {
		return ExitStatus{}, fmt.Errorf("wait for pid %d: %w", p.Pid, err)
	}

	status := exitStatusOf(ws)
	if status.Signaled {
		fmt.Fprintln(j.out, status)
	}
	j.last = status
	return status, nil
}

func wait4(pid int, ws *unix.WaitStatus, options int) (int, error) {
	for {
		wpid, err := unix.Wait4(pid, ws, options, nil)
		if err != unix.EINTR {
			return wpid, err
		}
	}
}
