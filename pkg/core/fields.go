package core

import "strings"

// isQuote reports whether c opens or closes a quoted run.
func isQuote(c byte) bool { return c == '"' || c == '\'' }

// SplitFields splits s on commas that are not inside a quoted run.
// Quotes are kept in the returned fields; an unmatched quote is an ordinary
// character. An empty string yields no fields.
func SplitFields(s string) []string {
	if s == "" {
		return nil
	}
	var (
		fields []string
		start  int
		quote  byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case isQuote(c) && strings.IndexByte(s[i+1:], c) >= 0:
			quote = c
		case c == ',':
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	return append(fields, s[start:])
}

// JoinFields is the inverse of SplitFields.
func JoinFields(fields []string) string {
	return strings.Join(fields, ",")
}
