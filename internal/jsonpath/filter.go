package jsonpath

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jacoelho/jx/internal/value"
)

// Filter AST. A filter is evaluated per candidate node with `@` bound to it.

type filterNode interface{}

type compareOp uint8

const (
	opEq compareOp = iota
	opNe
	opLt
	opLte
	opGt
	opGte
)

type logicalOp uint8

const (
	opAnd logicalOp = iota
	opOr
)

type compareNode struct {
	op    compareOp
	left  operand
	right operand
}

type logicalNode struct {
	op    logicalOp
	left  filterNode
	right filterNode
}

type notNode struct {
	inner filterNode
}

// truthyNode is a bare operand used as an existence/truthiness check,
// e.g. [?(@.isbn)].
type truthyNode struct {
	op operand
}

type operand interface{}

type literalOperand struct {
	value value.Value
}

type helperKind uint8

const (
	helperLower helperKind = iota
	helperUpper
	helperLength
)

type helperOperand struct {
	helper helperKind
	inner  operand
}

type stepKind uint8

const (
	stepKey stepKind = iota
	stepIndex
	stepWildcard
)

type accessStep struct {
	kind  stepKind
	key   string
	index int64
}

// currentOperand is a `@` reference followed by simple access steps.
type currentOperand struct {
	steps []accessStep
}

// Parsing. Precedence: || < && < ! < comparison.

func parseFilterExpr(expr string, i int) (filterNode, int, error) {
	return parseFilterOr(expr, i)
}

func parseFilterOr(expr string, i int) (filterNode, int, error) {
	left, i, err := parseFilterAnd(expr, i)
	if err != nil {
		return nil, i, err
	}

	for {
		j := skipSpace(expr, i)
		if !strings.HasPrefix(expr[j:], "||") {
			return left, i, nil
		}
		right, next, err := parseFilterAnd(expr, j+2)
		if err != nil {
			return nil, i, err
		}
		left = logicalNode{op: opOr, left: left, right: right}
		i = next
	}
}

func parseFilterAnd(expr string, i int) (filterNode, int, error) {
	left, i, err := parseFilterUnary(expr, i)
	if err != nil {
		return nil, i, err
	}

	for {
		j := skipSpace(expr, i)
		if !strings.HasPrefix(expr[j:], "&&") {
			return left, i, nil
		}
		right, next, err := parseFilterUnary(expr, j+2)
		if err != nil {
			return nil, i, err
		}
		left = logicalNode{op: opAnd, left: left, right: right}
		i = next
	}
}

func parseFilterUnary(expr string, i int) (filterNode, int, error) {
	i = skipSpace(expr, i)
	if i >= len(expr) {
		return nil, i, fmt.Errorf("%w: unexpected end of filter expression", ErrSyntax)
	}

	if expr[i] == '!' {
		inner, next, err := parseFilterUnary(expr, i+1)
		if err != nil {
			return nil, i, err
		}
		return notNode{inner: inner}, next, nil
	}

	if expr[i] == '(' {
		inner, next, err := parseFilterOr(expr, i+1)
		if err != nil {
			return nil, i, err
		}
		next, err = expectByte(expr, skipSpace(expr, next), ')')
		if err != nil {
			return nil, i, err
		}
		return inner, next, nil
	}

	return parseComparison(expr, i)
}

func parseComparison(expr string, i int) (filterNode, int, error) {
	left, i, err := parseOperand(expr, i)
	if err != nil {
		return nil, i, err
	}

	j := skipSpace(expr, i)
	op, next, found := matchCompareOp(expr, j)
	if !found {
		return truthyNode{op: left}, i, nil
	}

	right, next, err := parseOperand(expr, next)
	if err != nil {
		return nil, i, err
	}
	return compareNode{op: op, left: left, right: right}, next, nil
}

func matchCompareOp(expr string, i int) (compareOp, int, bool) {
	rest := expr[i:]
	switch {
	case strings.HasPrefix(rest, "=="):
		return opEq, i + 2, true
	case strings.HasPrefix(rest, "!="):
		return opNe, i + 2, true
	case strings.HasPrefix(rest, "<="):
		return opLte, i + 2, true
	case strings.HasPrefix(rest, ">="):
		return opGte, i + 2, true
	case strings.HasPrefix(rest, "<"):
		return opLt, i + 1, true
	case strings.HasPrefix(rest, ">"):
		return opGt, i + 1, true
	default:
		return 0, i, false
	}
}

func parseOperand(expr string, i int) (operand, int, error) {
	i = skipSpace(expr, i)
	if i >= len(expr) {
		return nil, i, fmt.Errorf("%w: operand expected at position %d", ErrSyntax, i)
	}

	switch c := expr[i]; {
	case c == '\'' || c == '"':
		text, next, err := parseQuoted(expr, i)
		if err != nil {
			return nil, i, err
		}
		return literalOperand{value: value.String(text)}, next, nil

	case c == '@':
		return parseCurrentPath(expr, i+1)

	case c == '-' || (c >= '0' && c <= '9'):
		return parseNumberLiteral(expr, i)
	}

	if next, ok := matchKeyword(expr, i, "true"); ok {
		return literalOperand{value: value.Bool(true)}, next, nil
	}
	if next, ok := matchKeyword(expr, i, "false"); ok {
		return literalOperand{value: value.Bool(false)}, next, nil
	}
	if next, ok := matchKeyword(expr, i, "null"); ok {
		return literalOperand{value: value.Null()}, next, nil
	}

	for name, helper := range map[string]helperKind{
		"lower":  helperLower,
		"upper":  helperUpper,
		"length": helperLength,
	} {
		if next, ok := matchHelperCall(expr, i, name); ok {
			inner, next, err := parseOperand(expr, next)
			if err != nil {
				return nil, i, err
			}
			next, err = expectByte(expr, skipSpace(expr, next), ')')
			if err != nil {
				return nil, i, err
			}
			return helperOperand{helper: helper, inner: inner}, next, nil
		}
	}

	return nil, i, fmt.Errorf("%w: invalid operand at position %d", ErrSyntax, i)
}

// matchKeyword matches a bare literal keyword that is not a prefix of a
// longer identifier.
func matchKeyword(expr string, i int, word string) (int, bool) {
	if !strings.HasPrefix(expr[i:], word) {
		return i, false
	}
	next := i + len(word)
	if next < len(expr) && isIdentPart(expr[next]) {
		return i, false
	}
	return next, true
}

func matchHelperCall(expr string, i int, name string) (int, bool) {
	if !strings.HasPrefix(expr[i:], name+"(") {
		return i, false
	}
	return i + len(name) + 1, true
}

func parseNumberLiteral(expr string, i int) (operand, int, error) {
	start := i
	if expr[i] == '-' {
		i++
	}
	digits := i
	for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
		i++
	}
	if i == digits {
		return nil, start, fmt.Errorf("%w: number expected at position %d", ErrSyntax, start)
	}
	if i < len(expr) && expr[i] == '.' {
		i++
		frac := i
		for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
			i++
		}
		if i == frac {
			return nil, start, fmt.Errorf("%w: invalid decimal number at position %d", ErrSyntax, start)
		}
	}

	literal := expr[start:i]
	if _, err := strconv.ParseFloat(literal, 64); err != nil {
		return nil, start, fmt.Errorf("%w: invalid number %q", ErrSyntax, literal)
	}
	return literalOperand{value: value.Number(json.Number(literal))}, i, nil
}

// parseCurrentPath reads the access steps after '@'.
func parseCurrentPath(expr string, i int) (operand, int, error) {
	var steps []accessStep

	for i < len(expr) {
		switch expr[i] {
		case '.':
			i++
			if i < len(expr) && expr[i] == '*' {
				steps = append(steps, accessStep{kind: stepWildcard})
				i++
				continue
			}
			name, next, err := parseIdent(expr, i)
			if err != nil {
				return nil, i, err
			}
			steps = append(steps, accessStep{kind: stepKey, key: name})
			i = next

		case '[':
			i = skipSpace(expr, i+1)
			if i >= len(expr) {
				return nil, i, fmt.Errorf("%w: unterminated bracket in filter path", ErrSyntax)
			}
			switch {
			case expr[i] == '*':
				next, err := expectByte(expr, skipSpace(expr, i+1), ']')
				if err != nil {
					return nil, i, err
				}
				steps = append(steps, accessStep{kind: stepWildcard})
				i = next
			case expr[i] == '\'' || expr[i] == '"':
				name, next, err := parseQuoted(expr, i)
				if err != nil {
					return nil, i, err
				}
				next, err = expectByte(expr, skipSpace(expr, next), ']')
				if err != nil {
					return nil, i, err
				}
				steps = append(steps, accessStep{kind: stepKey, key: name})
				i = next
			default:
				idx, next, err := parseSignedInt(expr, i)
				if err != nil {
					return nil, i, err
				}
				next, err = expectByte(expr, skipSpace(expr, next), ']')
				if err != nil {
					return nil, i, err
				}
				steps = append(steps, accessStep{kind: stepIndex, index: idx})
				i = next
			}

		default:
			return currentOperand{steps: steps}, i, nil
		}
	}

	return currentOperand{steps: steps}, i, nil
}

// Evaluation.

func evalFilter(node filterNode, current value.Value) bool {
	switch n := node.(type) {
	case compareNode:
		left := evalOperand(n.left, current)
		right := evalOperand(n.right, current)
		return compareValues(n.op, left, right)
	case logicalNode:
		if n.op == opAnd {
			return evalFilter(n.left, current) && evalFilter(n.right, current)
		}
		return evalFilter(n.left, current) || evalFilter(n.right, current)
	case notNode:
		return !evalFilter(n.inner, current)
	case truthyNode:
		return evalOperand(n.op, current).Truthy()
	default:
		return false
	}
}

func evalOperand(op operand, current value.Value) value.Value {
	switch o := op.(type) {
	case literalOperand:
		return o.value

	case helperOperand:
		v := evalOperand(o.inner, current)
		switch o.helper {
		case helperLower:
			return v.Lower()
		case helperUpper:
			return v.Upper()
		case helperLength:
			return value.NumberInt(int64(v.Len()))
		}
		return value.Null()

	case currentOperand:
		nodes := []value.Value{current}
		for _, step := range o.steps {
			nodes = applyStep(nodes, step)
		}
		if len(nodes) == 0 {
			return value.Null()
		}
		return nodes[0]

	default:
		return value.Null()
	}
}

func applyStep(nodes []value.Value, step accessStep) []value.Value {
	var out []value.Value
	for _, n := range nodes {
		switch step.kind {
		case stepKey:
			if obj := n.Object(); obj != nil {
				if member, ok := obj.Get(step.key); ok {
					out = append(out, member)
				}
			}
		case stepIndex:
			elems := n.Elems()
			idx := step.index
			if idx < 0 {
				idx += int64(len(elems))
			}
			if idx >= 0 && idx < int64(len(elems)) {
				out = append(out, elems[idx])
			}
		case stepWildcard:
			out = append(out, childValues(n)...)
		}
	}
	return out
}

// compareValues applies a comparison operator. Equality is deep with
// number/string coercion; ordering is numeric after coercion, falling back
// to lexicographic comparison when a string side cannot be read as a
// number. Anything else is incomparable and yields false.
func compareValues(op compareOp, a, b value.Value) bool {
	switch op {
	case opEq:
		return looseEqual(a, b)
	case opNe:
		return !looseEqual(a, b)
	}

	ord, ok := orderValues(a, b)
	if !ok {
		return false
	}
	switch op {
	case opLt:
		return ord < 0
	case opLte:
		return ord <= 0
	case opGt:
		return ord > 0
	case opGte:
		return ord >= 0
	default:
		return false
	}
}

func looseEqual(a, b value.Value) bool {
	if value.Equal(a, b) {
		return true
	}

	// A number compared against its textual form matches.
	if crossKinds(a, b, value.KindNumber, value.KindString) {
		fa, aok := coerceNumber(a)
		fb, bok := coerceNumber(b)
		return aok && bok && fa == fb
	}
	return false
}

func crossKinds(a, b value.Value, k1, k2 value.Kind) bool {
	return (a.Kind() == k1 && b.Kind() == k2) || (a.Kind() == k2 && b.Kind() == k1)
}

func orderValues(a, b value.Value) (int, bool) {
	fa, aok := coerceNumber(a)
	fb, bok := coerceNumber(b)
	if aok && bok {
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}

	if a.Kind() == value.KindString || b.Kind() == value.KindString {
		return strings.Compare(stringForm(a), stringForm(b)), true
	}

	return 0, false
}

func coerceNumber(v value.Value) (float64, bool) {
	switch v.Kind() {
	case value.KindNumber:
		return v.Float()
	case value.KindString:
		f, err := strconv.ParseFloat(v.Text(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func stringForm(v value.Value) string {
	if v.Kind() == value.KindString {
		return v.Text()
	}
	return v.JSON()
}
