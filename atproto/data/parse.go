package data

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parses a generic document, which must be an object, in either JSON or YAML.
//
// Input that starts with '{' (after whitespace) is parsed as JSON, everything else as YAML.
func Unmarshal(b []byte) (*Object, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return UnmarshalJSON(b)
	}
	return UnmarshalYAML(b)
}

// Parses a generic JSON object, preserving key order.
func UnmarshalJSON(b []byte) (*Object, error) {
	if len(b) > MAX_DOCUMENT_SIZE {
		return nil, fmt.Errorf("document too large: %d bytes", len(b))
	}
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(b, utf8BOM)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty JSON document")
		}
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("JSON document must be an object")
	}
	obj, err := parseJSONObject(dec, 1)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected data after top-level JSON object")
	}
	return obj, nil
}

func parseJSONValue(dec *json.Decoder, tok json.Token, depth int) (any, error) {
	switch v := tok.(type) {
	case json.Delim:
		if depth >= MAX_NESTED_LEVELS {
			return nil, fmt.Errorf("data nested too deeply")
		}
		switch v {
		case '{':
			return parseJSONObject(dec, depth+1)
		case '[':
			return parseJSONArray(dec, depth+1)
		default:
			return nil, fmt.Errorf("unexpected JSON delimiter: %s", v)
		}
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		if len(v) > MAX_STRING_LEN {
			return nil, fmt.Errorf("string too long: %d", len(v))
		}
		return v, nil
	case json.Number:
		return parseNumber(string(v))
	case float64:
		return parseNumber(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		return nil, fmt.Errorf("unexpected JSON token: %v", tok)
	}
}

func parseJSONObject(dec *json.Decoder, depth int) (*Object, error) {
	obj := NewObject()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected JSON object key, got: %v", tok)
		}
		if len(key) > MAX_OBJECT_KEY_LEN {
			return nil, fmt.Errorf("object key too long: %d", len(key))
		}
		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := parseJSONValue(dec, tok, depth)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
		if obj.Len() > MAX_CONTAINER_LEN {
			return nil, fmt.Errorf("data object has too many fields: %d", obj.Len())
		}
	}
}

func parseJSONArray(dec *json.Decoder, depth int) ([]any, error) {
	out := []any{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return out, nil
		}
		val, err := parseJSONValue(dec, tok, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
		if len(out) > MAX_CONTAINER_LEN {
			return nil, fmt.Errorf("data array length too long: %d", len(out))
		}
	}
}

// integral numbers become int64 (when they fit), everything else float64
func parseNumber(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number: %s", s)
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f), nil
	}
	return f, nil
}

// Parses a generic YAML mapping, preserving key order. JSON is a subset of YAML, so this also accepts JSON objects.
func UnmarshalYAML(b []byte) (*Object, error) {
	if len(b) > MAX_DOCUMENT_SIZE {
		return nil, fmt.Errorf("document too large: %d bytes", len(b))
	}
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, fmt.Errorf("empty YAML document")
	}
	v, err := new(yamlParser).parseNode(&root, 0)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("YAML document must be a mapping")
	}
	return obj, nil
}

// aliases are expanded in place, so the parser counts values across the whole document
type yamlParser struct {
	values int
}

func (p *yamlParser) parseNode(n *yaml.Node, depth int) (any, error) {
	if depth > MAX_NESTED_LEVELS {
		return nil, fmt.Errorf("data nested too deeply")
	}
	p.values++
	if p.values > MAX_DOCUMENT_VALUES {
		return nil, fmt.Errorf("document has too many values (after expanding YAML aliases): more than %d", MAX_DOCUMENT_VALUES)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, fmt.Errorf("empty YAML document")
		}
		return p.parseNode(n.Content[0], depth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("YAML alias without anchor (line %d)", n.Line)
		}
		return p.parseNode(n.Alias, depth+1)
	case yaml.MappingNode:
		if len(n.Content)/2 > MAX_CONTAINER_LEN {
			return nil, fmt.Errorf("data object has too many fields: %d", len(n.Content)/2)
		}
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn, vn := n.Content[i], n.Content[i+1]
			if kn.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("YAML mapping keys must be scalars (line %d)", kn.Line)
			}
			if len(kn.Value) > MAX_OBJECT_KEY_LEN {
				return nil, fmt.Errorf("object key too long: %d", len(kn.Value))
			}
			val, err := p.parseNode(vn, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(kn.Value, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		if len(n.Content) > MAX_CONTAINER_LEN {
			return nil, fmt.Errorf("data array length too long: %d", len(n.Content))
		}
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := p.parseNode(c, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.ScalarNode:
		return parseYAMLScalar(n)
	default:
		return nil, fmt.Errorf("unexpected YAML node kind: %d (line %d)", n.Kind, n.Line)
	}
}

func parseYAMLScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return f, nil
		}
		return parseNumber(strconv.FormatFloat(f, 'g', -1, 64))
	default:
		if len(n.Value) > MAX_STRING_LEN {
			return nil, fmt.Errorf("string too long: %d", len(n.Value))
		}
		return n.Value, nil
	}
}
