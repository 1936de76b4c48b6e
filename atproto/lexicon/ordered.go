package lexicon

import (
	"bytes"
	"iter"

	"github.com/goccy/go-json"
)

// Insertion-ordered mapping from name to schema definition.
//
// Used for a file's "defs", and for object and params "properties", where source order determines
// output order. A nil *OrderedDefs behaves as an empty mapping for reads.
type OrderedDefs struct {
	keys []string
	defs map[string]SchemaDef
}

func NewOrderedDefs() *OrderedDefs {
	return &OrderedDefs{
		defs: make(map[string]SchemaDef),
	}
}

// Sets a definition. Re-setting an existing name replaces the value but keeps the original position.
func (o *OrderedDefs) Set(name string, def SchemaDef) {
	if _, ok := o.defs[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.defs[name] = def
}

func (o *OrderedDefs) Get(name string) (SchemaDef, bool) {
	if o == nil {
		return SchemaDef{}, false
	}
	d, ok := o.defs[name]
	return d, ok
}

func (o *OrderedDefs) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

func (o *OrderedDefs) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Returns a copy of the names, in insertion order.
func (o *OrderedDefs) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Iterates over (name, definition) pairs in insertion order.
func (o *OrderedDefs) All() iter.Seq2[string, SchemaDef] {
	return func(yield func(string, SchemaDef) bool) {
		if o == nil {
			return
		}
		for _, k := range o.keys {
			if !yield(k, o.defs[k]) {
				return
			}
		}
	}
}

func (o *OrderedDefs) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.defs[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
