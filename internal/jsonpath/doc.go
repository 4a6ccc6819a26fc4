// Package jsonpath implements the JSONPath-like query language: a byte-index
// recursive-descent compiler from path text to segments, a filter
// sub-language for `[?( ... )]` predicates, and a work-list matcher that
// walks a value tree without native call-stack recursion.
//
// Supported segments:
//   - Child `.name` and `['name']`, wildcard `.*` / `[*]`
//   - Descendant `..name` and `..*`
//   - Array index `[i]` (negative counts from the end)
//   - Python-style slices `[start:end:step]`
//   - Filters `[?(<expr>)]` with ==, !=, <, <=, >, >=, &&, ||, !, grouping,
//     literals, `lower()`, `upper()`, `length()` helpers, and current-node
//     paths `@.a['b'][0]`
//
// Compilation failures return ErrSyntax; evaluation itself never fails, it
// only prunes.
package jsonpath
