package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/jacoelho/jx/internal/value"
)

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{
			name: "string_literal",
			expr: `'hello'`,
			want: `"hello"`,
		},
		{
			name: "from_json_key",
			expr: `from_json('{"a":1}', '$.a')`,
			want: `[1]`,
		},
		{
			name: "from_json_wildcard",
			expr: `from_json('{"a":[1,2,3]}', '$.a[*]')`,
			want: `[1,2,3]`,
		},
		{
			name: "from_json_slice",
			expr: `from_json('{"a":[0,1,2,3,4]}', '$.a[1:4:2]')`,
			want: `[1,3]`,
		},
		{
			name: "from_json_no_match",
			expr: `from_json('{"a":1}', '$.missing')`,
			want: `null`,
		},
		{
			name: "from_json_malformed_document",
			expr: `from_json('{"a":', '$.a')`,
			want: `null`,
		},
		{
			name: "from_json_malformed_path",
			expr: `from_json('{"a":1}', 'a.b')`,
			want: `null`,
		},
		{
			name: "from_yaml",
			expr: "from_yaml('a:\n  b: 7', '$.a.b')",
			want: `[7]`,
		},
		{
			name: "first_of_matches",
			expr: `first(from_json('{"a":[1,2]}', '$.a[*]'))`,
			want: `1`,
		},
		{
			name: "first_of_null",
			expr: `first(from_json('{"a":1}', '$.missing'))`,
			want: `null`,
		},
		{
			name: "first_of_string",
			expr: `first('x')`,
			want: `"x"`,
		},
		{
			name: "unique_dedup",
			expr: `unique(from_json('{"a":[1,1,2,2]}', '$.a[*]'))`,
			want: `[1,2]`,
		},
		{
			name: "or_default_fallback",
			expr: `or_default(from_json('{"a":1}', '$.missing'), '{"fallback":true}')`,
			want: `{"fallback":true}`,
		},
		{
			name: "or_default_passthrough",
			expr: `or_default(from_json('{"a":1}', '$.a'), '0')`,
			want: `[1]`,
		},
		{
			name: "or_default_raw_text",
			expr: `or_default(from_json('{}', '$.x'), 'not json')`,
			want: `"not json"`,
		},
		{
			name: "otel_attribute",
			expr: `first(from_json('{"otel":{"resourceSpans":[{"resource":{"attributes":[{"key":"service.name","value":"nexa"}]}}]}}', "$.otel.resourceSpans[*].resource.attributes[?(@.key=='service.name')].value"))`,
			want: `"nexa"`,
		},
		{
			name: "unknown_function",
			expr: `last(from_json('{"a":[1]}', '$.a[*]'))`,
			want: `null`,
		},
		{
			name: "wrong_arity",
			expr: `from_json('{"a":1}')`,
			want: `null`,
		},
		{
			name: "non_string_document_argument",
			expr: `from_json(from_json('{"a":1}', '$.a'), '$')`,
			want: `null`,
		},
		{
			name: "parse_failure",
			expr: `first('a'`,
			want: `null`,
		},
		{
			name: "empty_input",
			expr: ``,
			want: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Eval(tt.expr)
			if got.JSON() != tt.want {
				t.Errorf("Eval(%q) = %s, want %s", tt.expr, got.JSON(), tt.want)
			}
		})
	}
}

func TestFirst(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		want string
	}{
		{name: "null", in: value.Null(), want: "null"},
		{name: "empty_array", in: value.Array(nil), want: "null"},
		{name: "array", in: value.Array([]value.Value{value.NumberInt(1), value.NumberInt(2)}), want: "1"},
		{name: "string_passthrough", in: value.String("x"), want: `"x"`},
		{name: "bool_passthrough", in: value.Bool(true), want: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := First(tt.in); got.JSON() != tt.want {
				t.Errorf("First() = %s, want %s", got.JSON(), tt.want)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	mustParse := func(text string) value.Value {
		v, err := value.Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", text, err)
		}
		return v
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "numbers", in: `[1,1,2,2]`, want: `[1,2]`},
		{name: "first_occurrence_wins", in: `[3,1,3,2,1]`, want: `[3,1,2]`},
		{name: "numeric_value_equality", in: `[1,1.0,1.00]`, want: `[1]`},
		{name: "key_order_insensitive", in: `[{"a":1,"b":2},{"b":2,"a":1}]`, want: `[{"a":1,"b":2}]`},
		{name: "mixed_kinds_distinct", in: `[1,"1",true]`, want: `[1,"1",true]`},
		{name: "non_array_identity", in: `"abc"`, want: `"abc"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unique(mustParse(tt.in)); got.JSON() != tt.want {
				t.Errorf("Unique(%s) = %s, want %s", tt.in, got.JSON(), tt.want)
			}
		})
	}
}

func TestOrDefault(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		def  string
		want string
	}{
		{name: "null_uses_default", in: value.Null(), def: `{"fallback":true}`, want: `{"fallback":true}`},
		{name: "empty_array_uses_default", in: value.Array(nil), def: `[1]`, want: `[1]`},
		{name: "invalid_default_is_raw_string", in: value.Null(), def: `oops`, want: `"oops"`},
		{name: "value_passthrough", in: value.NumberInt(7), def: `0`, want: `7`},
		{name: "non_empty_array_passthrough", in: value.Array([]value.Value{value.Bool(false)}), def: `0`, want: `[false]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OrDefault(tt.in, tt.def); got.JSON() != tt.want {
				t.Errorf("OrDefault() = %s, want %s", got.JSON(), tt.want)
			}
		})
	}
}

func TestEval_PropertyNeverPanics(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("evaluation never panics regardless of input", prop.ForAll(
		func(input string) bool {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Eval(%q) panicked: %v", input, r)
				}
			}()

			_ = Eval(input)
			return true
		},
		gen.AnyString(),
	))

	properties.Property("evaluation never panics on call-shaped input", prop.ForAll(
		func(name, doc, path string) bool {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Eval panicked: %v", r)
				}
			}()

			input := fmt.Sprintf("%s(%q, %q)", name, doc, path)
			_ = Eval(input)
			return true
		},
		gen.Identifier(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestUnique_PropertyIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("unique is idempotent", prop.ForAll(
		func(nums []int) bool {
			elems := make([]value.Value, len(nums))
			for i, n := range nums {
				elems[i] = value.NumberInt(int64(n))
			}
			arr := value.Array(elems)

			once := Unique(arr)
			twice := Unique(once)
			return value.Equal(once, twice)
		},
		gen.SliceOf(gen.IntRange(-5, 5)),
	))

	properties.TestingRun(t)
}

func TestFromJSON_PropertyWildcardPreservesElements(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("array wildcard returns elements in order", prop.ForAll(
		func(nums []int) bool {
			doc, err := json.Marshal(map[string][]int{"a": nums})
			if err != nil {
				return false
			}

			got := FromJSON(string(doc), "$.a[*]")
			if len(nums) == 0 {
				return got.IsNull()
			}

			elems := got.Elems()
			if len(elems) != len(nums) {
				return false
			}
			for i, n := range nums {
				if !value.Equal(elems[i], value.NumberInt(int64(n))) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int()),
	))

	properties.TestingRun(t)
}

func TestFromJSON_PropertySliceMatchesReference(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("slice selection matches reference slicing", prop.ForAll(
		func(n int, start, end, step int) bool {
			nums := make([]int, n)
			parts := make([]string, n)
			for i := range nums {
				nums[i] = i
				parts[i] = fmt.Sprintf("%d", i)
			}
			doc := fmt.Sprintf(`{"a":[%s]}`, strings.Join(parts, ","))

			path := fmt.Sprintf("$.a[%d:%d:%d]", start, end, step)
			got := FromJSON(doc, path)

			want := referenceSlice(nums, start, end, step)
			if len(want) == 0 {
				return got.IsNull()
			}

			elems := got.Elems()
			if len(elems) != len(want) {
				return false
			}
			for i, w := range want {
				if !value.Equal(elems[i], value.NumberInt(int64(w))) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 12),
		gen.IntRange(-15, 15),
		gen.IntRange(-15, 15),
		gen.IntRange(-4, 4),
	))

	properties.TestingRun(t)
}

// referenceSlice mirrors Python list slicing for explicit bounds.
func referenceSlice(in []int, start, end, step int) []int {
	n := len(in)
	if step == 0 {
		return nil
	}

	clamp := func(v int) int {
		if v < 0 {
			v += n
		}
		if v < 0 {
			if step < 0 {
				return -1
			}
			return 0
		}
		if v >= n {
			if step < 0 {
				return n - 1
			}
			return n
		}
		return v
	}

	start, end = clamp(start), clamp(end)

	var out []int
	if step > 0 {
		for i := start; i < end; i += step {
			out = append(out, in[i])
		}
	} else {
		for i := start; i > end; i += step {
			out = append(out, in[i])
		}
	}
	return out
}
