// Package jx extracts values from JSON and YAML documents. One textual
// expression combines a JSONPath-like query language with a small set of
// composable helper functions:
//
//	first(from_json('{"a":[1,2]}', '$.a[*]'))
//
// Every entry point is total: malformed expressions, documents, or paths
// produce Null rather than an error, so results are always safe to
// serialize and compose.
package jx

import (
	"github.com/jacoelho/jx/internal/engine"
	"github.com/jacoelho/jx/internal/expr"
	"github.com/jacoelho/jx/internal/jsonpath"
	"github.com/jacoelho/jx/internal/value"
)

// Value is the engine's data model: a tagged variant over null, bool,
// number, string, array, and object, preserving number representation and
// object key order.
type Value = value.Value

// Null returns the null Value.
func Null() Value {
	return value.Null()
}

// Eval evaluates an expression such as first(from_json(doc, path)).
// It never panics and never fails; anything that cannot produce a value
// produces Null.
func Eval(expression string) Value {
	return engine.Eval(expression)
}

// Query parses a JSON document and applies a path query directly,
// bypassing the expression language. Matches come back as an Array, no
// matches as Null.
func Query(jsonText, pathText string) Value {
	return engine.FromJSON(jsonText, pathText)
}

// FromJSON is the from_json built-in: parse a JSON document and query it.
func FromJSON(jsonText, pathText string) Value {
	return engine.FromJSON(jsonText, pathText)
}

// FromYAML is the from_yaml built-in: parse a YAML document and query it.
func FromYAML(yamlText, pathText string) Value {
	return engine.FromYAML(yamlText, pathText)
}

// First is the first built-in: the first element of a non-empty Array,
// Null for Null or an empty Array, any other value unchanged.
func First(v Value) Value {
	return engine.First(v)
}

// Unique is the unique built-in: deduplicate an Array by deep equality,
// first occurrence wins.
func Unique(v Value) Value {
	return engine.Unique(v)
}

// OrDefault is the or_default built-in: substitute the fallback JSON text
// when v is Null or an empty Array.
func OrDefault(v Value, defaultJSON string) Value {
	return engine.OrDefault(v, defaultJSON)
}

// ValidatePath reports whether path text conforms to the query grammar
// without running it. Errors wrap jsonpath syntax failures.
func ValidatePath(pathText string) error {
	_, err := jsonpath.Compile(pathText)
	return err
}

// ValidateExpression reports whether expression text is well-formed
// without evaluating it.
func ValidateExpression(expression string) error {
	return expr.Validate(expression)
}
