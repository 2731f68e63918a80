package csvlog

// ParseLine splits one logical line into raw field tokens.
// Tokens keep their quotes and escaping, use DecodeField on each.
// An empty line has no fields and returns nil, nil.
// On error, tokens parsed before the problem are returned together with
// a *ParseError (Column is set, Line is 0).
func ParseLine(line string) ([]string, error) {
	if line == "" {
		return nil, nil
	}
	var tokens []string
	state := unquoted
	start := 0
	isQuoted := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if state == insideQuotedSpan {
			if c == quote {
				state = unquoted
			}
			continue
		}
		switch c {
		case separator:
			tokens = append(tokens, line[start:i])
			start = i + 1
			isQuoted = false
		case quote:
			switch {
			case i == start:
				isQuoted = true
				state = insideQuotedSpan
			case isQuoted && line[i-1] == quote:
				// "" inside a quoted field
				state = insideQuotedSpan
			case isQuoted:
				return tokens, &ParseError{Column: i + 1, Err: ErrQuote}
			default:
				return tokens, &ParseError{Column: i + 1, Err: ErrBareQuote}
			}
		default:
			if isQuoted {
				return tokens, &ParseError{Column: i + 1, Err: ErrQuote}
			}
		}
	}
	if state == insideQuotedSpan {
		return tokens, &ParseError{Column: start + 1, Err: ErrUnterminatedQuote}
	}
	tokens = append(tokens, line[start:])
	return tokens, nil
}

// DecodeLine parses a logical line and decodes every token
func DecodeLine(line string) ([]string, error) {
	tokens, err := ParseLine(line)
	for i, tok := range tokens {
		tokens[i] = DecodeField(tok)
	}
	return tokens, err
}
