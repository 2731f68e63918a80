package letterstore

import (
	"time"

	"github.com/kjk/letterbox/csvlog"
)

const (
	// Header is the first line of every log file
	Header = "Date,Name,Country,Email,Letter"
	// NumFields is number of fields in a record
	NumFields = 5
	// DateFormat is the format of Record.Date for new records
	DateFormat = "2006-01-02 15:04:05"
)

// Record is one letter. Records are never modified after being written.
type Record struct {
	Date    string
	Name    string
	Country string
	Email   string
	Letter  string
}

// NewRecord creates a record with Date formatted from t
func NewRecord(name, country, email, letter string, t time.Time) Record {
	return Record{
		Date:    t.Format(DateFormat),
		Name:    name,
		Country: country,
		Email:   email,
		Letter:  letter,
	}
}

// Fields returns fields in file column order
func (r Record) Fields() []string {
	return []string{r.Date, r.Name, r.Country, r.Email, r.Letter}
}

// RecordFromFields is the inverse of Fields.
// Missing trailing fields are empty, fields past the 5th are ignored.
func RecordFromFields(fields []string) Record {
	var a [NumFields]string
	copy(a[:], fields)
	return Record{
		Date:    a[0],
		Name:    a[1],
		Country: a[2],
		Email:   a[3],
		Letter:  a[4],
	}
}

// MarshalLine encodes a record as one logical line, including the terminator
func (r Record) MarshalLine() string {
	return csvlog.EncodeLine(r.Fields()...) + "\n"
}
