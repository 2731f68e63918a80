// Package csvlog encodes and decodes rows of a small, line-oriented CSV log.
//
// Every field is written quoted, with literal quotes doubled:
//
//	"2025-12-01 10:00:00","Ann","Norway","ann@example.com","I want a ""red"" bike"
//
// A quoted field may contain raw newlines, so one logical line (one row)
// can span several physical lines in the file. [SplitLines] rebuilds
// logical lines, [ParseLine] splits a logical line into raw tokens and
// [DecodeField] turns a raw token back into the original value.
package csvlog
