package jsonpath

import (
	"errors"
	"testing"
)

func TestCompile_Valid(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "root_only", expr: "$"},
		{name: "dot_name", expr: "$.store"},
		{name: "nested_names", expr: "$.store.book"},
		{name: "dot_wildcard", expr: "$.store.*"},
		{name: "bracket_wildcard", expr: "$.store[*]"},
		{name: "quoted_name_single", expr: "$['store']"},
		{name: "quoted_name_double", expr: `$["store"]`},
		{name: "quoted_name_with_dot", expr: "$['service.name']"},
		{name: "index", expr: "$.book[0]"},
		{name: "negative_index", expr: "$.book[-1]"},
		{name: "slice_full", expr: "$.book[1:4:2]"},
		{name: "slice_open_start", expr: "$.book[:2]"},
		{name: "slice_open_end", expr: "$.book[1:]"},
		{name: "slice_negative_step", expr: "$.book[::-1]"},
		{name: "descendant_name", expr: "$..author"},
		{name: "descendant_wildcard", expr: "$..*"},
		{name: "filter_equality", expr: "$.book[?(@.category == 'fiction')]"},
		{name: "filter_existence", expr: "$.book[?(@.isbn)]"},
		{name: "filter_logical", expr: "$.book[?(@.price < 10 && @.category == 'fiction')]"},
		{name: "filter_grouped", expr: "$.book[?((@.a == 1 || @.b == 2) && !@.c)]"},
		{name: "filter_helpers", expr: "$.book[?(lower(@.title) == 'moby dick')]"},
		{name: "filter_length", expr: "$.book[?(length(@.title) > 3)]"},
		{name: "filter_bracket_steps", expr: "$.book[?(@['title'][0] == 'x')]"},
		{name: "whitespace", expr: "$ .store [0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.expr); err != nil {
				t.Errorf("Compile(%q) error = %v, want nil", tt.expr, err)
			}
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "empty", expr: ""},
		{name: "missing_root", expr: ".store"},
		{name: "trailing_dot", expr: "$."},
		{name: "trailing_descend", expr: "$.."},
		{name: "descend_index", expr: "$..[0]"},
		{name: "unterminated_bracket", expr: "$.store["},
		{name: "unterminated_index", expr: "$.store[0"},
		{name: "empty_bracket", expr: "$.store[]"},
		{name: "bad_index", expr: "$.store[abc]"},
		{name: "too_many_colons", expr: "$.a[1:2:3:4]"},
		{name: "bad_slice_bound", expr: "$.a[x:2]"},
		{name: "empty_filter", expr: "$.a[?()]"},
		{name: "unterminated_filter", expr: "$.a[?(@.x == 1"},
		{name: "filter_missing_paren", expr: "$.a[?@.x]"},
		{name: "filter_bad_operand", expr: "$.a[?(== 1)]"},
		{name: "unterminated_quoted_name", expr: "$['store]"},
		{name: "lone_ampersand", expr: "$.a[?(@.x == 1 & @.y == 2)]"},
		{name: "unexpected_character", expr: "$#store"},
		{name: "digit_leading_name", expr: "$.0abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.expr); !errors.Is(err, ErrSyntax) {
				t.Errorf("Compile(%q) error = %v, want ErrSyntax", tt.expr, err)
			}
		})
	}
}

func TestCompile_SegmentShapes(t *testing.T) {
	path, err := Compile("$.a[*][-2][1:2]..b[?(@.c)]")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := []segmentKind{segRoot, segKey, segWildcard, segIndex, segSlice, segDescendKey, segFilter}
	if len(path.segments) != len(want) {
		t.Fatalf("segments = %d, want %d", len(path.segments), len(want))
	}
	for i, kind := range want {
		if path.segments[i].kind != kind {
			t.Errorf("segment %d kind = %d, want %d", i, path.segments[i].kind, kind)
		}
	}

	if path.segments[3].index != -2 {
		t.Errorf("index = %d, want -2", path.segments[3].index)
	}

	slice := path.segments[4].slice
	if !slice.hasStart || slice.start != 1 || !slice.hasEnd || slice.end != 2 || slice.hasStep {
		t.Errorf("slice bounds = %+v, want start=1 end=2 no step", slice)
	}
}
