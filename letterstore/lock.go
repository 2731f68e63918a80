package letterstore

import (
	"os"
	"sync"
)

type lockMode int

const (
	lockShared lockMode = iota
	lockExclusive
)

// fileLock is an OS-level lock on the log file, shared with other processes.
// OS locks belong to the file handle, not to a goroutine, so shared locks
// are reference counted: the first reader locks and the last one unlocks.
// Exclusive locks must only be taken while holding Store.mu for writing.
type fileLock struct {
	mu      sync.Mutex
	f       *os.File
	readers int
}

func (l *fileLock) Lock(mode lockMode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	if mode == lockExclusive {
		return l.lock(lockExclusive)
	}
	if l.readers == 0 {
		if err := l.lock(lockShared); err != nil {
			return err
		}
	}
	l.readers++
	return nil
}

func (l *fileLock) Unlock(mode lockMode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	if mode == lockShared {
		l.readers--
		if l.readers > 0 {
			return nil
		}
	}
	return l.unlock()
}

// setFile(nil) waits for in-flight lock calls and disables locking.
// Used before closing the file.
func (l *fileLock) setFile(f *os.File) {
	l.mu.Lock()
	l.f = f
	l.readers = 0
	l.mu.Unlock()
}
