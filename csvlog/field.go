package csvlog

import "strings"

const (
	quote     = '"'
	separator = ','
)

// EncodeField doubles every quote in s and wraps the result in quotes
func EncodeField(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == quote {
			sb.WriteByte(quote)
		}
		sb.WriteByte(c)
	}
	sb.WriteByte(quote)
	return sb.String()
}

// DecodeField is the inverse of EncodeField.
// It strips one leading and one trailing quote (only if both are present)
// and collapses every doubled quote into a single one.
func DecodeField(token string) string {
	if len(token) >= 2 && token[0] == quote && token[len(token)-1] == quote {
		token = token[1 : len(token)-1]
	}
	if !strings.Contains(token, `""`) {
		return token
	}
	return strings.ReplaceAll(token, `""`, `"`)
}

// EncodeLine encodes fields as one logical line, without a line terminator
func EncodeLine(fields ...string) string {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(separator)
		}
		sb.WriteString(EncodeField(f))
	}
	return sb.String()
}
