package cliutil

import (
	"golang.org/x/sys/unix"
)

// IsTty reports whether fd refers to a terminal, so that a command can
// tell piped input apart from an interactive invocation with no
// arguments.
func IsTty(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}
