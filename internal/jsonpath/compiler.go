package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a compiled sequence of segments applied left to right.
type Path struct {
	segments []segment
}

type segmentKind uint8

const (
	segRoot segmentKind = iota
	segKey
	segWildcard
	segDescendKey
	segDescendWildcard
	segIndex
	segSlice
	segFilter
)

type segment struct {
	kind   segmentKind
	key    string
	index  int64
	slice  sliceBounds
	filter filterNode
}

type sliceBounds struct {
	start, end, step          int64
	hasStart, hasEnd, hasStep bool
}

// Compile parses path text into a Path. Any violation of the grammar yields
// an error wrapping ErrSyntax; callers treating path text as data map that
// to "zero matches".
func Compile(expr string) (Path, error) {
	i := skipSpace(expr, 0)
	if i >= len(expr) || expr[i] != '$' {
		return Path{}, fmt.Errorf("%w: path must start with '$'", ErrSyntax)
	}
	i++

	segs := []segment{{kind: segRoot}}
	for {
		i = skipSpace(expr, i)
		if i >= len(expr) {
			break
		}

		seg, next, err := parseSegment(expr, i)
		if err != nil {
			return Path{}, err
		}
		segs = append(segs, seg)
		i = next
	}

	return Path{segments: segs}, nil
}

func parseSegment(expr string, i int) (segment, int, error) {
	switch {
	case strings.HasPrefix(expr[i:], ".."):
		return parseDescendant(expr, i+2)
	case expr[i] == '.':
		return parseChild(expr, i+1)
	case expr[i] == '[':
		return parseBracket(expr, i+1)
	default:
		return segment{}, i, fmt.Errorf("%w: unexpected character %q at position %d", ErrSyntax, expr[i], i)
	}
}

// parseDescendant handles '..name' and '..*'.
func parseDescendant(expr string, i int) (segment, int, error) {
	if i < len(expr) && expr[i] == '*' {
		return segment{kind: segDescendWildcard}, i + 1, nil
	}

	name, next, err := parseIdent(expr, i)
	if err != nil {
		return segment{}, i, fmt.Errorf("%w: '..' must be followed by a name or '*'", ErrSyntax)
	}
	return segment{kind: segDescendKey, key: name}, next, nil
}

// parseChild handles '.name' and '.*'.
func parseChild(expr string, i int) (segment, int, error) {
	if i < len(expr) && expr[i] == '*' {
		return segment{kind: segWildcard}, i + 1, nil
	}

	name, next, err := parseIdent(expr, i)
	if err != nil {
		return segment{}, i, err
	}
	return segment{kind: segKey, key: name}, next, nil
}

// parseBracket handles '[*]', ['name'], [index], [slice] and [?(filter)].
// The position i is just past the opening bracket.
func parseBracket(expr string, i int) (segment, int, error) {
	i = skipSpace(expr, i)
	if i >= len(expr) {
		return segment{}, i, fmt.Errorf("%w: unterminated bracket selector", ErrSyntax)
	}

	switch expr[i] {
	case '*':
		next, err := expectByte(expr, skipSpace(expr, i+1), ']')
		if err != nil {
			return segment{}, i, err
		}
		return segment{kind: segWildcard}, next, nil

	case '\'', '"':
		name, next, err := parseQuoted(expr, i)
		if err != nil {
			return segment{}, i, err
		}
		next, err = expectByte(expr, skipSpace(expr, next), ']')
		if err != nil {
			return segment{}, i, err
		}
		return segment{kind: segKey, key: name}, next, nil

	case '?':
		return parseFilterSegment(expr, i+1)

	default:
		return parseIndexOrSlice(expr, i)
	}
}

// parseFilterSegment parses the '(<expr>)]' remainder of a '[?(...)]'
// segment. The position i is just past the '?'.
func parseFilterSegment(expr string, i int) (segment, int, error) {
	i, err := expectByte(expr, i, '(')
	if err != nil {
		return segment{}, i, err
	}

	node, next, err := parseFilterExpr(expr, i)
	if err != nil {
		return segment{}, i, err
	}

	next, err = expectByte(expr, skipSpace(expr, next), ')')
	if err != nil {
		return segment{}, i, err
	}
	next, err = expectByte(expr, skipSpace(expr, next), ']')
	if err != nil {
		return segment{}, i, err
	}

	return segment{kind: segFilter, filter: node}, next, nil
}

func parseIndexOrSlice(expr string, i int) (segment, int, error) {
	end := strings.IndexByte(expr[i:], ']')
	if end == -1 {
		return segment{}, i, fmt.Errorf("%w: unterminated bracket selector", ErrSyntax)
	}

	content := expr[i : i+end]
	next := i + end + 1

	if strings.TrimSpace(content) == "" {
		return segment{}, i, fmt.Errorf("%w: empty bracket selector", ErrSyntax)
	}

	if strings.Contains(content, ":") {
		bounds, err := parseSlice(content)
		if err != nil {
			return segment{}, i, err
		}
		return segment{kind: segSlice, slice: bounds}, next, nil
	}

	idx, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
	if err != nil {
		return segment{}, i, fmt.Errorf("%w: invalid index %q", ErrSyntax, content)
	}
	return segment{kind: segIndex, index: idx}, next, nil
}

func parseSlice(content string) (sliceBounds, error) {
	parts := strings.Split(content, ":")
	if len(parts) > 3 {
		return sliceBounds{}, fmt.Errorf("%w: too many colons in slice %q", ErrSyntax, content)
	}

	var bounds sliceBounds
	fields := []struct {
		target *int64
		set    *bool
	}{
		{&bounds.start, &bounds.hasStart},
		{&bounds.end, &bounds.hasEnd},
		{&bounds.step, &bounds.hasStep},
	}

	for i, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		v, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return sliceBounds{}, fmt.Errorf("%w: invalid slice bound %q", ErrSyntax, trimmed)
		}
		*fields[i].target = v
		*fields[i].set = true
	}

	return bounds, nil
}

// Cursor helpers shared by the path and filter parsers.

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func expectByte(s string, i int, c byte) (int, error) {
	if i >= len(s) || s[i] != c {
		return i, fmt.Errorf("%w: expected %q at position %d", ErrSyntax, string(c), i)
	}
	return i + 1, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func parseIdent(s string, i int) (string, int, error) {
	if i >= len(s) || !isIdentStart(s[i]) {
		return "", i, fmt.Errorf("%w: identifier expected at position %d", ErrSyntax, i)
	}
	start := i
	for i < len(s) && isIdentPart(s[i]) {
		i++
	}
	return s[start:i], i, nil
}

// parseQuoted reads a single- or double-quoted string with the minimal
// escape set; unrecognized escapes pass through with their backslash.
func parseQuoted(s string, i int) (string, int, error) {
	quote := s[i]
	var b strings.Builder

	for pos := i + 1; pos < len(s); pos++ {
		c := s[pos]
		if c == quote {
			return b.String(), pos + 1, nil
		}
		if c == '\\' {
			pos++
			if pos >= len(s) {
				break
			}
			switch s[pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '\'', '"':
				b.WriteByte(s[pos])
			default:
				b.WriteByte('\\')
				b.WriteByte(s[pos])
			}
			continue
		}
		b.WriteByte(c)
	}

	return "", i, fmt.Errorf("%w: unterminated string at position %d", ErrSyntax, i)
}

// parseSignedInt reads an optionally negative decimal integer.
func parseSignedInt(s string, i int) (int64, int, error) {
	start := i
	if i < len(s) && s[i] == '-' {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, start, fmt.Errorf("%w: integer expected at position %d", ErrSyntax, start)
	}
	v, err := strconv.ParseInt(s[start:i], 10, 64)
	if err != nil {
		return 0, start, fmt.Errorf("%w: invalid integer %q", ErrSyntax, s[start:i])
	}
	return v, i, nil
}
