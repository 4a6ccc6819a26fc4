// Package engine evaluates parsed expressions against the built-in
// function set. Evaluation is total: every failure, from malformed
// expression text to an unparseable document, collapses to Null here and
// nowhere else.
package engine

import (
	"github.com/jacoelho/jx/internal/expr"
	"github.com/jacoelho/jx/internal/jsonpath"
	"github.com/jacoelho/jx/internal/value"
)

type builtin uint8

const (
	builtinFromJSON builtin = iota
	builtinFromYAML
	builtinFirst
	builtinUnique
	builtinOrDefault
)

func lookupBuiltin(name string) (builtin, bool) {
	switch name {
	case "from_json":
		return builtinFromJSON, true
	case "from_yaml":
		return builtinFromYAML, true
	case "first":
		return builtinFirst, true
	case "unique":
		return builtinUnique, true
	case "or_default":
		return builtinOrDefault, true
	default:
		return 0, false
	}
}

// Eval parses and evaluates expression text. It never panics and never
// returns an error; anything that cannot produce a value produces Null.
func Eval(input string) value.Value {
	node, err := expr.Parse(input)
	if err != nil {
		return value.Null()
	}
	return evalNode(node)
}

func evalNode(node expr.Node) value.Value {
	switch n := node.(type) {
	case expr.StringNode:
		return value.String(n.Text)
	case expr.CallNode:
		return evalCall(n)
	default:
		return value.Null()
	}
}

func evalCall(call expr.CallNode) value.Value {
	fn, ok := lookupBuiltin(call.Name)
	if !ok {
		return value.Null()
	}

	args := make([]value.Value, len(call.Args))
	for i, arg := range call.Args {
		args[i] = evalNode(arg)
	}

	switch fn {
	case builtinFromJSON:
		doc, path, ok := twoStrings(args)
		if !ok {
			return value.Null()
		}
		return FromJSON(doc, path)
	case builtinFromYAML:
		doc, path, ok := twoStrings(args)
		if !ok {
			return value.Null()
		}
		return FromYAML(doc, path)
	case builtinFirst:
		if len(args) != 1 {
			return value.Null()
		}
		return First(args[0])
	case builtinUnique:
		if len(args) != 1 {
			return value.Null()
		}
		return Unique(args[0])
	case builtinOrDefault:
		if len(args) != 2 || args[1].Kind() != value.KindString {
			return value.Null()
		}
		return OrDefault(args[0], args[1].Text())
	default:
		return value.Null()
	}
}

// twoStrings unpacks the (document, path) argument pair shared by the
// extraction built-ins.
func twoStrings(args []value.Value) (string, string, bool) {
	if len(args) != 2 || args[0].Kind() != value.KindString || args[1].Kind() != value.KindString {
		return "", "", false
	}
	return args[0].Text(), args[1].Text(), true
}

// FromJSON parses a JSON document and applies a path query. Matches come
// back as an Array, no matches (or any parse failure) as Null.
func FromJSON(jsonText, pathText string) value.Value {
	doc, err := value.Parse(jsonText)
	if err != nil {
		return value.Null()
	}
	return jsonpath.Query(doc, pathText)
}

// FromYAML is FromJSON over a YAML document.
func FromYAML(yamlText, pathText string) value.Value {
	doc, err := value.ParseYAML(yamlText)
	if err != nil {
		return value.Null()
	}
	return jsonpath.Query(doc, pathText)
}

// First returns the first element of a non-empty Array, Null for Null or
// an empty Array, and any other value unchanged.
func First(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindNull:
		return value.Null()
	case value.KindArray:
		elems := v.Elems()
		if len(elems) == 0 {
			return value.Null()
		}
		return elems[0]
	default:
		return v
	}
}

// Unique removes duplicate Array elements, keeping the first occurrence of
// each in original order. Duplicates are judged by deep equality, so
// objects differing only in key order collapse. Non-Array values pass
// through unchanged.
func Unique(v value.Value) value.Value {
	if v.Kind() != value.KindArray {
		return v
	}

	elems := v.Elems()
	seen := make(map[string]struct{}, len(elems))
	out := make([]value.Value, 0, len(elems))
	for _, e := range elems {
		key := e.Canonical()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return value.Array(out)
}

// OrDefault substitutes a fallback when v is Null or an empty Array. The
// fallback text is parsed as JSON; if it is not valid JSON it is used
// verbatim as a String.
func OrDefault(v value.Value, defaultJSON string) value.Value {
	empty := v.IsNull() || (v.Kind() == value.KindArray && len(v.Elems()) == 0)
	if !empty {
		return v
	}

	parsed, err := value.Parse(defaultJSON)
	if err != nil {
		return value.String(defaultJSON)
	}
	return parsed
}
