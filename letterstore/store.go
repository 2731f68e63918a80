package letterstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kjk/letterbox/atomicfile"
	"github.com/kjk/letterbox/csvlog"
)

const DefaultFileName = "letters.csv"

type Store struct {
	DataDir string
	// defaults to DefaultFileName
	FileName string
	// if true, fsync after every append
	SyncWrites bool
	// used by AppendLetter, time.Now if nil
	Now func() time.Time

	path string
	// O_APPEND handle, used for writing, reading and locking
	file   *os.File
	lock   *fileLock
	closed bool
	mu     sync.RWMutex
}

// OpenStore prepares s for use and creates the log file if it doesn't exist
func OpenStore(s *Store) error {
	if s.DataDir == "" {
		return fmt.Errorf("data directory is not set. For current directory, use '.'")
	}
	if s.FileName == "" {
		s.FileName = DefaultFileName
	}
	path, err := filepath.Abs(filepath.Join(s.DataDir, s.FileName))
	if err != nil {
		return fmt.Errorf("failed to get absolute path for log file: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// re-opening
	if s.file != nil {
		s.lock.setFile(nil)
		s.file.Close()
		s.file = nil
	}
	s.path = path
	s.closed = false
	return s.ensureInitialized()
}

// Path returns absolute path of the log file
func (s *Store) Path() string {
	return s.path
}

// EnsureInitialized creates the log file with just the header if it doesn't exist.
// It's safe to call multiple times.
func (s *Store) EnsureInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.ensureInitialized()
}

func (s *Store) ensureInitialized() error {
	if s.path == "" {
		return errors.New("store is not open, call OpenStore() first")
	}
	header := []byte(Header + "\n")
	if _, err := os.Stat(s.path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		// another process might create it first
		err = atomicfile.WriteNew(s.path, header)
		if err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to create '%s': %w", s.path, err)
		}
	}
	if s.file == nil {
		f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		s.file = f
		s.lock = &fileLock{f: f}
	}

	// the file might exist but be empty e.g. if created with touch
	if err := s.lock.Lock(lockExclusive); err != nil {
		return err
	}
	defer s.lock.Unlock(lockExclusive)
	st, err := s.file.Stat()
	if err != nil {
		return err
	}
	if st.Size() > 0 {
		return nil
	}
	if _, err = s.file.Write(header); err != nil {
		return fmt.Errorf("failed to write header to '%s': %w", s.path, err)
	}
	return s.file.Sync()
}

// Append writes r at the end of the log.
// Either the whole record is written or the file is left unchanged.
func (s *Store) Append(r Record) error {
	line := r.MarshalLine()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.file == nil {
		return ErrClosed
	}
	if err := s.lock.Lock(lockExclusive); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	defer s.lock.Unlock(lockExclusive)

	st, err := s.file.Stat()
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	size := st.Size()
	if size > 0 {
		// the last line might have no terminator
		var last [1]byte
		if _, err = s.file.ReadAt(last[:], size-1); err != nil {
			return &WriteError{Path: s.path, Err: err}
		}
		if last[0] != '\n' {
			line = "\n" + line
		}
	}

	_, err = s.file.WriteString(line)
	if err == nil && s.SyncWrites {
		err = s.file.Sync()
	}
	if err != nil {
		// remove partially written record
		if errTrunc := s.file.Truncate(size); errTrunc != nil {
			err = errors.Join(err, errTrunc)
		}
		return &WriteError{Path: s.path, Err: err}
	}
	return nil
}

// AppendLetter creates a record dated with s.Now() and appends it
func (s *Store) AppendLetter(name, country, email, letter string) (Record, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	r := NewRecord(name, country, email, letter, now())
	return r, s.Append(r)
}

// call with s.mu read-locked
func (s *Store) readLocked(fn func(r io.Reader) error) error {
	if s.closed || s.file == nil {
		return ErrClosed
	}
	if err := s.lock.Lock(lockShared); err != nil {
		return err
	}
	defer s.lock.Unlock(lockShared)
	st, err := s.file.Stat()
	if err != nil {
		return err
	}
	return fn(io.NewSectionReader(s.file, 0, st.Size()))
}

// ReadAll decodes all records, oldest first.
//
// If some records were malformed, returns all records (malformed ones
// padded with empty fields) and a *DecodeError. Any other error means
// the file couldn't be read and no records are returned.
func (s *Store) ReadAll() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var d []byte
	err := s.readLocked(func(r io.Reader) error {
		var err error
		d, err = io.ReadAll(r)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read '%s': %w", s.path, err)
	}
	records, problems := DecodeLog(string(d))
	if len(problems) > 0 {
		return records, &DecodeError{Path: s.path, Problems: problems}
	}
	return records, nil
}

// Snapshot copies the raw content of the log to w
func (s *Store) Snapshot(w io.Writer) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	err := s.readLocked(func(r io.Reader) error {
		var err error
		n, err = io.Copy(w, r)
		return err
	})
	return n, err
}

// Close releases the file. Store can be re-opened with OpenStore.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.file == nil {
		return nil
	}
	s.lock.setFile(nil)
	err := s.file.Close()
	s.file = nil
	return err
}

// DecodeLog decodes the content of a log file.
// The first logical line is the header and is skipped, as are blank lines.
// Problems don't stop decoding: a record that can't be fully parsed is
// padded with empty fields and a problem is reported for it.
func DecodeLog(text string) ([]Record, []error) {
	var problems []error
	lines, errSplit := csvlog.SplitNumbered(text)
	if len(lines) == 0 {
		if errSplit != nil {
			problems = append(problems, errSplit)
		}
		return nil, problems
	}
	if lines[0].Text != Header {
		problems = append(problems, &csvlog.ParseError{Line: lines[0].Num, Err: ErrUnexpectedHeader})
	}

	var records []Record
	for _, line := range lines[1:] {
		if strings.TrimSpace(line.Text) == "" {
			continue
		}
		fields, err := csvlog.DecodeLine(line.Text)
		var pe *csvlog.ParseError
		if errors.As(err, &pe) {
			problems = append(problems, &csvlog.ParseError{Line: line.Num, Column: pe.Column, Err: pe.Err})
		} else if len(fields) != NumFields {
			err = fmt.Errorf("%w: %d fields instead of %d", ErrMalformedRecord, len(fields), NumFields)
			problems = append(problems, &csvlog.ParseError{Line: line.Num, Err: err})
		}
		records = append(records, RecordFromFields(fields))
	}
	// unterminated quote at the end of file
	if errSplit != nil {
		problems = append(problems, errSplit)
	}
	return records, problems
}
