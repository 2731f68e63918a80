// Package letterstore keeps letters in an append-only CSV log file.
//
// # File Format
//
// The first line is the header:
//
//	Date,Name,Country,Email,Letter
//
// Every following logical line is one record with 5 quoted fields (see
// package csvlog). Letters can contain newlines, so a record can span
// several physical lines.
//
// # Basic Usage
//
//	s := &letterstore.Store{
//	    DataDir:    "./data",
//	    FileName:   "letters.csv",
//	    SyncWrites: true,
//	}
//	if err := letterstore.OpenStore(s); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	rec, err := s.AppendLetter("Ann", "Norway", "ann@example.com", "A bike, please")
//
//	records, err := s.ReadAll()
//	var decodeErr *letterstore.DecodeError
//	if errors.As(err, &decodeErr) {
//	    // records are still valid, decodeErr.Problems says what was wrong
//	}
//
// # Thread Safety
//
// The Store is safe for concurrent use. Appends are serialized with a mutex
// and an exclusive OS file lock, so multiple processes can share a log file.
// ReadAll holds a shared lock for the duration of the read and never sees
// a partially written record.
package letterstore
