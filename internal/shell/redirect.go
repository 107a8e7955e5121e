package shell

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

type TargetKind int

const (
	Inherit TargetKind = iota
	File
	NullDevice
)

func (k TargetKind) String() string {
	switch k {
	case File:
		return "file"
	case NullDevice:
		return "null"
	default:
		return "inherit"
	}
}

// Target is where one standard stream of a child ends up.
type Target struct {
	Kind TargetKind `json:"kind"`
	Path string     `json:"path,omitempty"`
}

// Redirection is the resolved stream plan for one command.
type Redirection struct {
	Stdin  Target `json:"stdin"`
	Stdout Target `json:"stdout"`
}

// ResolveRedirection picks the stdin source and stdout destination: an
// explicit target wins, a background command falls back to the null device,
// and a foreground command inherits the shell's stream.
func ResolveRedirection(cmd *Command) Redirection {
	return Redirection{
		Stdin:  resolveTarget(cmd.InputFile, cmd.Background),
		Stdout: resolveTarget(cmd.OutputFile, cmd.Background),
	}
}

func resolveTarget(path string, background bool) Target {
	switch {
	case path != "":
		return Target{Kind: File, Path: path}
	case background:
		return Target{Kind: NullDevice}
	default:
		return Target{Kind: Inherit}
	}
}

// apply runs in the child, before the program image is replaced.
func (r Redirection) apply() error {
	return r.applyTo(unix.Stdin, unix.Stdout)
}

func (r Redirection) applyTo(stdin, stdout int) error {
	if err := r.Stdin.dupOnto(stdin, unix.O_RDONLY, 0); err != nil {
		return err
	}
	return r.Stdout.dupOnto(stdout, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC, 0o666)
}

// OpenError is a redirection target that could not be opened. Its message is
// fixed; the cause is only available through Unwrap.
type OpenError struct {
	Path   string
	Output bool
	Err    error
}

func (e *OpenError) Error() string {
	if e.Output {
		return fmt.Sprintf("cannot open %s for output", e.Path)
	}
	return fmt.Sprintf("cannot open %s for input", e.Path)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

func (t Target) path() string {
	if t.Kind == NullDevice {
		return os.DevNull
	}
	return t.Path
}

func (t Target) dupOnto(fd, mode int, perm uint32) error {
	if t.Kind == Inherit {
		return nil
	}

	src, err := unix.Open(t.path(), mode|unix.O_CLOEXEC, perm)
	if err != nil {
		return &OpenError{Path: t.path(), Output: mode&unix.O_WRONLY != 0, Err: err}
	}
	if src == fd {
		// The slot was closed and open reused it; it must survive exec.
		_, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, 0)
		return os.NewSyscallError("fcntl", err)
	}
	defer unix.Close(src)

	return os.NewSyscallError("dup2", dup2(src, fd))
}
