package shell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestExitStatusString(t *testing.T) {
	assert.Equal(t, "exit value 0", ExitStatus{}.String())
	assert.Equal(t, "exit value 1", ExitStatus{Code: 1}.String())
	assert.Equal(t, "terminated by signal 2", ExitStatus{Signal: unix.SIGINT, Signaled: true}.String())

	n := Notification{Pid: 4242, Status: ExitStatus{Code: 7}}
	assert.Equal(t, "background pid 4242 is done: exit value 7", n.String())
	n.Status = ExitStatus{Signal: unix.SIGTERM, Signaled: true}
	assert.Equal(t, "background pid 4242 is done: terminated by signal 15", n.String())
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "foreground", Foreground.String())
	assert.Equal(t, "background", Background.String())
}

func TestReapWithNothingPending(t *testing.T) {
	var out bytes.Buffer
	jobs := NewJobs(&out)

	assert.Empty(t, jobs.Reap())
	assert.Empty(t, out.String())
}

func TestReapForgetsUnknownChildren(t *testing.T) {
	var out bytes.Buffer
	jobs := NewJobs(&out)

	// Not our child: wait4 fails with ECHILD and the entry is dropped quietly.
	jobs.AddBackground(&Process{Pid: unix.Getpid(), Role: Background})
	assert.Empty(t, jobs.Reap())
	assert.Empty(t, jobs.Pending())
	assert.Empty(t, out.String())
}

func TestReapSkipsForegroundChild(t *testing.T) {
	var out bytes.Buffer
	jobs := NewJobs(&out)

	fg := &Process{Pid: unix.Getpid(), Role: Foreground}
	jobs.foreground = fg
	jobs.AddBackground(fg)

	assert.Empty(t, jobs.Reap())
	assert.Equal(t, []int{fg.Pid}, jobs.Pending())
}

func TestWaitForegroundIsExclusive(t *testing.T) {
	jobs := NewJobs(&bytes.Buffer{})
	jobs.foreground = &Process{Pid: 1}

	_, err := jobs.WaitForeground(&Process{Pid: 2})
	require.ErrorIs(t, err, ErrForegroundBusy)
}

func TestWaitForegroundNotAChild(t *testing.T) {
	jobs := NewJobs(&bytes.Buffer{})
	jobs.last = ExitStatus{Code: 5}

	_, err := jobs.WaitForeground(&Process{Pid: unix.Getpid()})
	require.ErrorIs(t, err, unix.ECHILD)
	assert.Equal(t, ExitStatus{Code: 5}, jobs.LastStatus(), "a failed wait keeps the previous status")
	assert.Nil(t, jobs.foreground)
}

func TestPendingIsSorted(t *testing.T) {
	jobs := NewJobs(&bytes.Buffer{})
	for _, pid := range []int{30, 10, 20} {
		jobs.AddBackground(&Process{Pid: pid, Role: Background})
	}
	assert.Equal(t, []int{10, 20, 30}, jobs.Pending())
}
