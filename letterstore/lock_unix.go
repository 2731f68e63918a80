//go:build unix

package letterstore

import "syscall"

func (l *fileLock) lock(mode lockMode) error {
	op := syscall.LOCK_SH
	if mode == lockExclusive {
		op = syscall.LOCK_EX
	}
	// blocking, no LOCK_NB
	return syscall.Flock(int(l.f.Fd()), op)
}

func (l *fileLock) unlock() error {
	return syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
}
