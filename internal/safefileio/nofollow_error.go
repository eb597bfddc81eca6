//go:build !netbsd

package safefileio

import "syscall"

// Errnos returned by open(2) with O_NOFOLLOW when the final component is a
// symbolic link. FreeBSD reports EMLINK instead of ELOOP.
var noFollowErrnos = []syscall.Errno{syscall.ELOOP, syscall.EMLINK}
