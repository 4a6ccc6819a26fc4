package expr

import (
	"strings"
	"unicode"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdentifier
	tokenString
	tokenLParen
	tokenRParen
	tokenComma
)

type token struct {
	typ     tokenType
	literal string
	pos     int
}

func lex(input string) ([]token, error) {
	tokens := make([]token, 0, len(input)/4)
	pos := 0

	for pos < len(input) {
		r := rune(input[pos])
		if unicode.IsSpace(r) {
			pos++
			continue
		}

		if isIdentifierStart(r) {
			start := pos
			pos++
			for pos < len(input) && isIdentifierPart(rune(input[pos])) {
				pos++
			}
			tokens = append(tokens, token{typ: tokenIdentifier, literal: input[start:pos], pos: start})
			continue
		}

		switch input[pos] {
		case '\'', '"':
			literal, nextPos, err := lexString(input, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenString, literal: literal, pos: pos})
			pos = nextPos
		case '(':
			tokens = append(tokens, token{typ: tokenLParen, pos: pos})
			pos++
		case ')':
			tokens = append(tokens, token{typ: tokenRParen, pos: pos})
			pos++
		case ',':
			tokens = append(tokens, token{typ: tokenComma, pos: pos})
			pos++
		default:
			return nil, expressionError("unexpected character %q at position %d", input[pos], pos)
		}
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: len(input)})
	return tokens, nil
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// lexString reads a quoted string literal. Only the minimal escape set is
// interpreted; any other backslash sequence passes through verbatim so
// embedded payloads keep their own escapes for the downstream parser.
// Literals may span lines, since expressions often carry whole documents.
func lexString(input string, start int) (string, int, error) {
	quote := input[start]
	var b strings.Builder

	for pos := start + 1; pos < len(input); pos++ {
		ch := input[pos]
		if ch == quote {
			return b.String(), pos + 1, nil
		}

		if ch == '\\' {
			pos++
			if pos >= len(input) {
				return "", 0, expressionError("unterminated escape sequence at position %d", start)
			}
			switch input[pos] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '\'', '"':
				b.WriteByte(input[pos])
			default:
				b.WriteByte('\\')
				b.WriteByte(input[pos])
			}
			continue
		}

		b.WriteByte(ch)
	}

	return "", 0, expressionError("unterminated string at position %d", start)
}
