package cli

import (
	"strings"

	fcerrors "github.com/standardbeagle/filecleaner/internal/errors"
)

// TokenizeMode selects how a raw command line is split into CLI tokens,
// per §4.4.1.
type TokenizeMode int

const (
	// ModeBasic: whitespace-separated; "..." and '...' quote runs;
	// inside double quotes \ escapes the next character literally;
	// inside single quotes there are no escapes.
	ModeBasic TokenizeMode = iota
	// ModeTerminal: POSIX-like. Outside quotes, \c decodes
	// n/t/r/\/"/'/space to their C meanings and leaves any other \c as
	// \c. Inside double quotes, \ only escapes "\$` and newline; any
	// other backslash is literal. Inside single quotes everything is
	// literal.
	ModeTerminal
)

// Tokenize splits line into tokens according to mode. An unmatched quote
// is an error in both modes; a trailing backslash is an error in
// ModeTerminal, while ModeBasic keeps it as a literal character.
func Tokenize(line string, mode TokenizeMode) ([]string, error) {
	if mode == ModeTerminal {
		return tokenizeTerminal(line)
	}
	return tokenizeBasic(line)
}

func tokenizeBasic(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inToken := false
	var quote byte

	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inToken = false
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == '\'':
			if c == '\'' {
				quote = 0
				continue
			}
			cur.WriteByte(c)
		case quote == '"':
			if c == '"' {
				quote = 0
				continue
			}
			if c == '\\' && i+1 < len(line) {
				cur.WriteByte(line[i+1])
				i++
				continue
			}
			cur.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			inToken = true
		case isSpace(c):
			flush()
		default:
			cur.WriteByte(c)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fcerrors.NewParseError(line, "unmatched quote in command line")
	}
	flush()
	return tokens, nil
}

func tokenizeTerminal(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inToken := false
	var quote byte

	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inToken = false
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == '\'':
			if c == '\'' {
				quote = 0
				continue
			}
			cur.WriteByte(c)
		case quote == '"':
			if c == '"' {
				quote = 0
				continue
			}
			if c == '\\' && i+1 < len(line) {
				next := line[i+1]
				switch next {
				case '"', '\\', '$', '`', '\n':
					cur.WriteByte(next)
					i++
					continue
				}
			}
			cur.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			inToken = true
		case c == '\\':
			if i+1 >= len(line) {
				return nil, fcerrors.NewParseError(line, "trailing backslash in command line")
			}
			next := line[i+1]
			switch next {
			case 'n':
				cur.WriteByte('\n')
			case 't':
				cur.WriteByte('\t')
			case 'r':
				cur.WriteByte('\r')
			case '\\', '"', '\'', ' ':
				cur.WriteByte(next)
			default:
				cur.WriteByte('\\')
				cur.WriteByte(next)
			}
			inToken = true
			i++
		case isSpace(c):
			flush()
		default:
			cur.WriteByte(c)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fcerrors.NewParseError(line, "unmatched quote in command line")
	}
	flush()
	return tokens, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
