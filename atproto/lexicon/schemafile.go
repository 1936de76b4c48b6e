package lexicon

import (
	"fmt"

	"github.com/bluesky-social/blexicon/atproto/data"

	"gopkg.in/yaml.v3"
)

// Top-level Lexicon schema document (file).
//
// Defs preserves the order definitions appear in the source document. Decode with [ParseSchemaFile],
// [UnmarshalSchemaFile], or the JSON/YAML unmarshal methods; all of them preserve order.
type SchemaFile struct {
	Lexicon     int          `json:"lexicon"`
	ID          string       `json:"id"`
	Revision    *string      `json:"revision,omitempty"`
	Description *string      `json:"description,omitempty"`
	Defs        *OrderedDefs `json:"defs"`
}

// Decodes a schema file from generic (already parsed) data.
//
// Any structural problem anywhere in the document is returned as a *DecodeError; there is no partial result.
func ParseSchemaFile(obj *data.Object) (*SchemaFile, error) {
	if obj == nil {
		return nil, &DecodeError{Msg: "empty schema document"}
	}
	r := fieldReader{obj: obj}

	ver, ok, err := obj.GetInt("lexicon")
	if err != nil {
		return nil, &DecodeError{Path: "lexicon", Err: err}
	}
	if !ok {
		return nil, &DecodeError{Path: "lexicon", Msg: "required field missing"}
	}
	if ver < 0 {
		return nil, &DecodeError{Path: "lexicon", Msg: fmt.Sprintf("lexicon version must not be negative: %d", ver)}
	}

	sf := SchemaFile{
		Lexicon:     int(ver),
		ID:          r.reqString("id"),
		Revision:    r.optScalarString("revision"),
		Description: r.optString("description"),
	}
	defsObj := r.reqObject("defs")
	if r.err != nil {
		return nil, r.err
	}

	sf.Defs = NewOrderedDefs()
	for name, val := range defsObj.All() {
		p := joinPath("defs", name)
		vobj, ok := val.(*data.Object)
		if !ok {
			return nil, &DecodeError{Path: p, Msg: fmt.Sprintf("expected object, got %s", data.TypeName(val))}
		}
		def, err := parseDef(vobj, p)
		if err != nil {
			return nil, err
		}
		sf.Defs.Set(name, def)
	}
	return &sf, nil
}

// Parses raw JSON or YAML bytes in to a schema file. Syntax errors are wrapped as *DecodeError.
func UnmarshalSchemaFile(b []byte) (*SchemaFile, error) {
	obj, err := data.Unmarshal(b)
	if err != nil {
		return nil, &DecodeError{Msg: "invalid document", Err: err}
	}
	return ParseSchemaFile(obj)
}

func (sf *SchemaFile) UnmarshalJSON(b []byte) error {
	obj, err := data.UnmarshalJSON(b)
	if err != nil {
		return &DecodeError{Msg: "invalid JSON", Err: err}
	}
	parsed, err := ParseSchemaFile(obj)
	if err != nil {
		return err
	}
	*sf = *parsed
	return nil
}

func (sf *SchemaFile) UnmarshalYAML(node *yaml.Node) error {
	b, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	obj, err := data.UnmarshalYAML(b)
	if err != nil {
		return &DecodeError{Msg: "invalid YAML", Err: err}
	}
	parsed, err := ParseSchemaFile(obj)
	if err != nil {
		return err
	}
	*sf = *parsed
	return nil
}

func (s *SchemaDef) UnmarshalJSON(b []byte) error {
	obj, err := data.UnmarshalJSON(b)
	if err != nil {
		return &DecodeError{Msg: "invalid JSON", Err: err}
	}
	def, err := ParseSchemaDef(obj)
	if err != nil {
		return err
	}
	*s = def
	return nil
}
