package shell

import "golang.org/x/sys/unix"

// dup2 is missing on some linux ports; dup3 with no flags is equivalent for
// distinct descriptors.
func dup2(oldfd, newfd int) error {
	return unix.Dup3(oldfd, newfd, 0)
}
