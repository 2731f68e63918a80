package letterstore

import (
	"testing"
	"time"

	"github.com/alecthomas/assert"
)

func TestNewRecord(t *testing.T) {
	tm := time.Date(2025, 12, 24, 9, 5, 7, 123456789, time.Local)
	r := NewRecord("Ann", "Norway", "ann@example.com", "hi", tm)
	assert.Equal(t, "2025-12-24 09:05:07", r.Date)
	assert.Equal(t, []string{"2025-12-24 09:05:07", "Ann", "Norway", "ann@example.com", "hi"}, r.Fields())
}

func TestRecordFromFields(t *testing.T) {
	r := RecordFromFields([]string{"d", "n", "c"})
	assert.Equal(t, Record{Date: "d", Name: "n", Country: "c"}, r)

	r = RecordFromFields(nil)
	assert.Equal(t, Record{}, r)

	r = RecordFromFields([]string{"1", "2", "3", "4", "5", "6"})
	assert.Equal(t, Record{Date: "1", Name: "2", Country: "3", Email: "4", Letter: "5"}, r)
}

func TestMarshalLine(t *testing.T) {
	r := Record{
		Date:    "2025-12-24 09:05:07",
		Name:    `Bob "the kid"`,
		Country: "UK",
		Email:   "b@x.org",
		Letter:  "a, b\nc",
	}
	exp := "\"2025-12-24 09:05:07\",\"Bob \"\"the kid\"\"\",\"UK\",\"b@x.org\",\"a, b\nc\"\n"
	assert.Equal(t, exp, r.MarshalLine())
}
