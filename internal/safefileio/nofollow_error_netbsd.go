//go:build netbsd

package safefileio

import "syscall"

// NetBSD reports EFTYPE for O_NOFOLLOW on a symbolic link.
var noFollowErrnos = []syscall.Errno{syscall.EFTYPE}
