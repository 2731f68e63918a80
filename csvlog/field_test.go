package csvlog

import (
	"testing"

	"github.com/alecthomas/assert"
)

func TestEncodeField(t *testing.T) {
	tests := []string{
		"", `""`,
		"foo", `"foo"`,
		"a,b", `"a,b"`,
		`say "hi"`, `"say ""hi"""`,
		`"`, `""""`,
		"line one\nline two", "\"line one\nline two\"",
	}
	for i := 0; i < len(tests); i += 2 {
		got := EncodeField(tests[i])
		assert.Equal(t, tests[i+1], got, "EncodeField(%q)", tests[i])
	}
}

func TestDecodeField(t *testing.T) {
	tests := []string{
		`"foo"`, "foo",
		`foo`, "foo",
		`""`, "",
		``, "",
		`"say ""hi"""`, `say "hi"`,
		// only stripped when both quotes present
		`"foo`, `"foo`,
		`foo"`, `foo"`,
		`"`, `"`,
	}
	for i := 0; i < len(tests); i += 2 {
		got := DecodeField(tests[i])
		assert.Equal(t, tests[i+1], got, "DecodeField(%q)", tests[i])
	}
}

func TestFieldRoundtrip(t *testing.T) {
	values := []string{
		"",
		" ",
		"plain",
		"with, comma",
		`with "quotes"`,
		`"`,
		`""`,
		`"""`,
		`,"`,
		"embedded\nnewline",
		"\n",
		"crlf\r\ninside",
		`He said "hi", then left.`,
		"mixed\n\"quoted\",\nlines",
		"ünïcödé 🎅",
	}
	for _, v := range values {
		got := DecodeField(EncodeField(v))
		assert.Equal(t, v, got)
	}
}

func TestEncodeLine(t *testing.T) {
	got := EncodeLine("a", `b"c`, "")
	assert.Equal(t, `"a","b""c",""`, got)
	assert.Equal(t, "", EncodeLine())
}
