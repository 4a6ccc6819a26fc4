// Package value implements the tagged JSON value model used by the query
// engine: a closed set of variants with deep structural equality, ordered
// object members, and the length/case-fold semantics filters rely on.
package value

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a single JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	number  json.Number
	text    string
	elems   []Value
	object  *Object
}

// Object holds members in insertion order. Equality and membership are
// key-set based; order only affects iteration and serialization.
type Object struct {
	keys    []string
	members map[string]Value
}

func NewObject() *Object {
	return &Object{members: make(map[string]Value)}
}

// Set adds or replaces a member. A replaced key keeps its original position.
func (o *Object) Set(key string, v Value) {
	if _, exists := o.members[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.members[key] = v
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.members[key]
	return v, ok
}

// Keys returns member names in insertion order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

func (o *Object) Len() int {
	return len(o.keys)
}

func Null() Value {
	return Value{kind: KindNull}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// Number wraps a decimal-preserving JSON number literal.
func Number(n json.Number) Value {
	return Value{kind: KindNumber, number: n}
}

func NumberInt(i int64) Value {
	return Value{kind: KindNumber, number: json.Number(strconv.FormatInt(i, 10))}
}

func NumberFloat(f float64) Value {
	return Value{kind: KindNumber, number: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

func String(s string) Value {
	return Value{kind: KindString, text: s}
}

func Array(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, elems: elems}
}

func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, object: o}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// BoolVal reports the boolean content; false for any other variant.
func (v Value) BoolVal() bool {
	return v.kind == KindBool && v.boolean
}

// Text returns string content; empty for any other variant.
func (v Value) Text() string {
	if v.kind != KindString {
		return ""
	}
	return v.text
}

// RawNumber returns the number literal as written in the source document.
func (v Value) RawNumber() json.Number {
	return v.number
}

// Float reports the numeric value of a Number variant.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.number.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Elems returns array elements; nil for any other variant.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.elems
}

// Object returns the ordered member set; nil for any other variant.
func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.object
}

// Len implements the engine's length semantics: element count for arrays,
// member count for objects, rune count for strings, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindObject:
		return v.object.Len()
	case KindString:
		return utf8.RuneCountInString(v.text)
	default:
		return 0
	}
}

// Lower case-folds a string value; any other variant is returned unchanged.
func (v Value) Lower() Value {
	if v.kind != KindString {
		return v
	}
	return String(strings.ToLower(v.text))
}

// Upper case-folds a string value; any other variant is returned unchanged.
func (v Value) Upper() Value {
	if v.kind != KindString {
		return v
	}
	return String(strings.ToUpper(v.text))
}

// Truthy reports the value's truthiness: null is false, booleans are
// themselves, numbers are non-zero, strings and containers are non-empty.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		f, ok := v.Float()
		return ok && f != 0
	case KindString:
		return v.text != ""
	case KindArray:
		return len(v.elems) > 0
	case KindObject:
		return v.object.Len() > 0
	default:
		return false
	}
}

// Equal reports deep structural equality. Arrays compare element-wise in
// order; objects compare by key set regardless of member order; numbers
// compare by numeric value, not representation.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber:
		return numberEqual(a.number, b.number)
	case KindString:
		return a.text == b.text
	case KindArray:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.object.Len() != b.object.Len() {
			return false
		}
		for _, key := range a.object.keys {
			other, ok := b.object.Get(key)
			if !ok {
				return false
			}
			member, _ := a.object.Get(key)
			if !Equal(member, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Equal reports deep equality with another value.
func (v Value) Equal(other Value) bool {
	return Equal(v, other)
}

func numberEqual(a, b json.Number) bool {
	fa, errA := a.Float64()
	fb, errB := b.Float64()
	if errA == nil && errB == nil {
		return fa == fb
	}
	return a.String() == b.String()
}

// Canonical returns a deterministic serialization: object keys sorted,
// numbers in normalized form. Values are deep-equal exactly when their
// canonical forms coincide, which makes it usable as a dedup key.
func (v Value) Canonical() string {
	var b strings.Builder
	v.appendCanonical(&b)
	return b.String()
}

func (v Value) appendCanonical(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		if f, ok := v.Float(); ok {
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		} else {
			b.WriteString(v.number.String())
		}
	case KindString:
		b.Write(appendQuoted(nil, v.text))
	case KindArray:
		b.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				b.WriteByte(',')
			}
			e.appendCanonical(b)
		}
		b.WriteByte(']')
	case KindObject:
		keys := v.object.Keys()
		slices.Sort(keys)
		b.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.Write(appendQuoted(nil, key))
			b.WriteByte(':')
			member, _ := v.object.Get(key)
			member.appendCanonical(b)
		}
		b.WriteByte('}')
	}
}

// JSON returns the value serialized as JSON text with object members in
// insertion order.
func (v Value) JSON() string {
	return string(v.AppendJSON(nil))
}

// AppendJSON appends the JSON serialization to dst and returns it.
func (v Value) AppendJSON(dst []byte) []byte {
	switch v.kind {
	case KindNull:
		return append(dst, "null"...)
	case KindBool:
		return strconv.AppendBool(dst, v.boolean)
	case KindNumber:
		return append(dst, v.number.String()...)
	case KindString:
		return appendQuoted(dst, v.text)
	case KindArray:
		dst = append(dst, '[')
		for i, e := range v.elems {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = e.AppendJSON(dst)
		}
		return append(dst, ']')
	case KindObject:
		dst = append(dst, '{')
		for i, key := range v.object.keys {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendQuoted(dst, key)
			dst = append(dst, ':')
			member, _ := v.object.Get(key)
			dst = member.AppendJSON(dst)
		}
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

// MarshalJSON serializes with object members in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.AppendJSON(nil), nil
}

func appendQuoted(dst []byte, s string) []byte {
	quoted, err := json.Marshal(s)
	if err != nil {
		// Marshal of a string cannot fail; keep the contract total anyway.
		return append(dst, `""`...)
	}
	return append(dst, quoted...)
}
