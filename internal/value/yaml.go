package value

import (
	"errors"
	"fmt"
	"strings"

	yaml "github.com/goccy/go-yaml"
)

// ErrMalformedYAML indicates the input text is not a well-formed YAML document.
var ErrMalformedYAML = errors.New("value: malformed YAML")

// ParseYAML decodes a single YAML document into a Value. Mappings decode as
// ordered objects so traversal order follows the document.
func ParseYAML(text string) (Value, error) {
	dec := yaml.NewDecoder(strings.NewReader(text), yaml.UseOrderedMap())

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrMalformedYAML, err)
	}

	return fromYAML(doc), nil
}

func fromYAML(doc any) Value {
	switch d := doc.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(d)
	case int:
		return NumberInt(int64(d))
	case int64:
		return NumberInt(d)
	case uint64:
		return NumberFloat(float64(d))
	case float64:
		return NumberFloat(d)
	case string:
		return String(d)
	case []any:
		elems := make([]Value, 0, len(d))
		for _, item := range d {
			elems = append(elems, fromYAML(item))
		}
		return Array(elems)
	case yaml.MapSlice:
		obj := NewObject()
		for _, item := range d {
			obj.Set(fmt.Sprint(item.Key), fromYAML(item.Value))
		}
		return ObjectValue(obj)
	default:
		// Remaining scalar kinds (timestamps and friends) keep their
		// rendered form.
		return String(fmt.Sprint(d))
	}
}
