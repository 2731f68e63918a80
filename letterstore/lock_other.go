//go:build !unix && !windows

package letterstore

// no OS locking, only in-process mutex
func (l *fileLock) lock(mode lockMode) error {
	return nil
}

func (l *fileLock) unlock() error {
	return nil
}
