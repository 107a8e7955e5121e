package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"smallsh/internal/logger"
)

// childEnv carries the launch plan from the shell to its re-executed child.
const childEnv = "SMALLSH_CHILD"

// ExitLaunchFailure is the status of a child that could not set up its
// streams or replace its image.
const ExitLaunchFailure = 1

type childPlan struct {
	Args        []string    `json:"args"`
	Role        Role        `json:"role"`
	Redirection Redirection `json:"redirection"`
	Color       bool        `json:"color,omitempty"`
}

// launch forks one child for cmd. The child is this same binary in child
// mode (see RunChild), which finishes the setup Go cannot do between fork
// and exec. launch does not wait.
func (s *Shell) launch(cmd *Command, role Role) (*Process, error) {
	plan := childPlan{
		Args:        cmd.Args,
		Role:        role,
		Redirection: ResolveRedirection(cmd),
		Color:       s.logger.Color,
	}
	payload, err := json.Marshal(plan)
	if err != nil {
		return nil, err
	}

	s.logger.VerboseErrf(logger.Magenta, "smallsh: launching %s (%s, stdin %s, stdout %s)",
		cmd, role, plan.Redirection.Stdin.Kind, plan.Redirection.Stdout.Kind)

	pid, err := syscall.ForkExec(s.executable, []string{s.executable}, &syscall.ProcAttr{
		Env:   append(os.Environ(), childEnv+"="+string(payload)),
		Files: []uintptr{uintptr(unix.Stdin), uintptr(unix.Stdout), uintptr(unix.Stderr)},
	})
	if err != nil {
		return nil, fmt.Errorf("fork: %w", err)
	}
	return &Process{Pid: pid, Role: role}, nil
}

// RunChild must be the first thing main does. In the shell itself it
// returns immediately; in a launched child it applies the signal policy and
// redirection, then replaces the process image and never returns.
func RunChild() {
	payload, ok := os.LookupEnv(childEnv)
	if !ok {
		return
	}
	os.Unsetenv(childEnv)

	var plan childPlan
	log := &logger.Logger{Stdout: os.Stdout, Stderr: os.Stderr}
	if err := json.Unmarshal([]byte(payload), &plan); err != nil || len(plan.Args) == 0 {
		log.Errf(logger.Red, "smallsh: bad launch plan")
		os.Exit(ExitLaunchFailure)
	}
	log.Color = plan.Color

	err := execChild(plan)
	log.Errf(logger.Red, "%v", err)
	os.Exit(ExitLaunchFailure)
}

// execChild only returns on failure.
func execChild(plan childPlan) error {
	applyChildSignals(plan.Role)

	if err := plan.Redirection.apply(); err != nil {
		return err
	}

	name := plan.Args[0]
	path, err := exec.LookPath(name)
	if errors.Is(err, exec.ErrDot) {
		// execvp searches "." when PATH names it.
		err = nil
	}
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			err = execErr.Err
		}
		return fmt.Errorf("%s: %w", name, err)
	}

	err = unix.Exec(path, plan.Args, os.Environ())
	return fmt.Errorf("%s: %w", name, err)
}
