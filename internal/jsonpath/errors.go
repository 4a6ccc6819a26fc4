package jsonpath

import "errors"

// ErrSyntax indicates a path or filter expression syntax error during
// compilation.
var ErrSyntax = errors.New("jsonpath: syntax error")
