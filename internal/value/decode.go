package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed indicates the input text is not a single well-formed JSON value.
var ErrMalformed = errors.New("value: malformed JSON")

// Parse decodes a single JSON value from text, preserving object member
// order and number representations. Exactly one top-level value is allowed.
func Parse(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	v, err := decodeValue(dec, tok)
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("%w: trailing input after value", ErrMalformed)
	}

	return v, nil
}

func decodeValue(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return Value{}, fmt.Errorf("%w: unexpected delimiter %q", ErrMalformed, t.String())
		}
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("%w: unexpected token %v", ErrMalformed, tok)
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := NewObject()
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		if d, ok := tok.(json.Delim); ok && d == '}' {
			return ObjectValue(obj), nil
		}

		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: object key is not a string", ErrMalformed)
		}

		valueTok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		member, err := decodeValue(dec, valueTok)
		if err != nil {
			return Value{}, err
		}
		obj.Set(key, member)
	}
}

func decodeArray(dec *json.Decoder) (Value, error) {
	elems := []Value{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		if d, ok := tok.(json.Delim); ok && d == ']' {
			return Array(elems), nil
		}

		elem, err := decodeValue(dec, tok)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, elem)
	}
}
