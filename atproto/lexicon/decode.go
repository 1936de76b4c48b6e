package lexicon

import (
	"fmt"
	"strconv"

	"github.com/bluesky-social/blexicon/atproto/data"
)

// Decodes a single schema definition from generic data.
//
// Dispatches on the "type" field; an unknown or missing type is an error.
func ParseSchemaDef(obj *data.Object) (SchemaDef, error) {
	return parseDef(obj, "")
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// helper for reading fields off a generic object. the first error "sticks" and later reads are no-ops.
type fieldReader struct {
	obj  *data.Object
	path string
	err  error
}

func (r *fieldReader) fail(key string, msg string, err error) {
	if r.err == nil {
		r.err = &DecodeError{Path: joinPath(r.path, key), Msg: msg, Err: err}
	}
}

func (r *fieldReader) optString(key string) *string {
	if r.err != nil {
		return nil
	}
	s, ok, err := r.obj.GetString(key)
	if err != nil {
		r.fail(key, "", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &s
}

func (r *fieldReader) reqString(key string) string {
	if r.err != nil {
		return ""
	}
	s := r.optString(key)
	if s == nil {
		r.fail(key, "required field missing", nil)
		return ""
	}
	return *s
}

func (r *fieldReader) optInt(key string) *int64 {
	if r.err != nil {
		return nil
	}
	i, ok, err := r.obj.GetInt(key)
	if err != nil {
		r.fail(key, "", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &i
}

func (r *fieldReader) optBool(key string) *bool {
	if r.err != nil {
		return nil
	}
	b, ok, err := r.obj.GetBool(key)
	if err != nil {
		r.fail(key, "", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &b
}

// missing lists decode as nil (empty)
func (r *fieldReader) stringList(key string) []string {
	if r.err != nil {
		return nil
	}
	l, _, err := r.obj.GetStringList(key)
	if err != nil {
		r.fail(key, "", err)
		return nil
	}
	return l
}

func (r *fieldReader) intList(key string) []int64 {
	if r.err != nil {
		return nil
	}
	l, _, err := r.obj.GetIntList(key)
	if err != nil {
		r.fail(key, "", err)
		return nil
	}
	return l
}

func (r *fieldReader) optObject(key string) *data.Object {
	if r.err != nil {
		return nil
	}
	o, _, err := r.obj.GetObject(key)
	if err != nil {
		r.fail(key, "", err)
		return nil
	}
	return o
}

func (r *fieldReader) reqObject(key string) *data.Object {
	if r.err != nil {
		return nil
	}
	o := r.optObject(key)
	if o == nil && r.err == nil {
		r.fail(key, "required field missing", nil)
	}
	return o
}

func (r *fieldReader) reqList(key string) []any {
	if r.err != nil {
		return nil
	}
	l, ok, err := r.obj.GetList(key)
	if err != nil {
		r.fail(key, "", err)
		return nil
	}
	if !ok {
		r.fail(key, "required field missing", nil)
	}
	return l
}

// accepts either a string or an integer, normalized to string
func (r *fieldReader) optScalarString(key string) *string {
	if r.err != nil {
		return nil
	}
	v, ok := r.obj.Get(key)
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		return &t
	case int64:
		s := strconv.FormatInt(t, 10)
		return &s
	default:
		r.fail(key, fmt.Sprintf("expected string or integer, got %s", data.TypeName(v)), nil)
		return nil
	}
}

// recursive decode of a nested definition held in the given field
func (r *fieldReader) reqDef(key string) SchemaDef {
	obj := r.reqObject(key)
	if r.err != nil {
		return SchemaDef{}
	}
	def, err := parseDef(obj, joinPath(r.path, key))
	if err != nil {
		r.err = err
	}
	return def
}

func (r *fieldReader) optDef(key string) *SchemaDef {
	obj := r.optObject(key)
	if r.err != nil || obj == nil {
		return nil
	}
	def, err := parseDef(obj, joinPath(r.path, key))
	if err != nil {
		r.err = err
		return nil
	}
	return &def
}

func (r *fieldReader) properties(key string) *OrderedDefs {
	obj := r.reqObject(key)
	if r.err != nil {
		return nil
	}
	base := joinPath(r.path, key)
	props := NewOrderedDefs()
	for name, val := range obj.All() {
		p := joinPath(base, name)
		vobj, ok := val.(*data.Object)
		if !ok {
			r.err = &DecodeError{Path: p, Msg: fmt.Sprintf("expected object, got %s", data.TypeName(val))}
			return nil
		}
		def, err := parseDef(vobj, p)
		if err != nil {
			r.err = err
			return nil
		}
		props.Set(name, def)
	}
	return props
}

func (r *fieldReader) errorList(key string) []SchemaError {
	if r.err != nil {
		return nil
	}
	l, ok, err := r.obj.GetList(key)
	if err != nil {
		r.fail(key, "", err)
		return nil
	}
	if !ok {
		return nil
	}
	out := make([]SchemaError, 0, len(l))
	for i, v := range l {
		p := joinPath(joinPath(r.path, key), strconv.Itoa(i))
		obj, ok := v.(*data.Object)
		if !ok {
			r.err = &DecodeError{Path: p, Msg: fmt.Sprintf("expected object, got %s", data.TypeName(v))}
			return nil
		}
		er := fieldReader{obj: obj, path: p}
		se := SchemaError{
			Name:        er.reqString("name"),
			Description: er.optString("description"),
		}
		if er.err != nil {
			r.err = er.err
			return nil
		}
		out = append(out, se)
	}
	return out
}

func (r *fieldReader) body(key string) *SchemaBody {
	obj := r.optObject(key)
	if r.err != nil || obj == nil {
		return nil
	}
	br := fieldReader{obj: obj, path: joinPath(r.path, key)}
	b := SchemaBody{
		Description: br.optString("description"),
		Encoding:    br.reqString("encoding"),
		Schema:      br.optDef("schema"),
	}
	if br.err != nil {
		r.err = br.err
		return nil
	}
	return &b
}

func (r *fieldReader) message(key string) *SchemaMessage {
	obj := r.optObject(key)
	if r.err != nil || obj == nil {
		return nil
	}
	mr := fieldReader{obj: obj, path: joinPath(r.path, key)}
	m := SchemaMessage{
		Description: mr.optString("description"),
		Schema:      mr.reqDef("schema"),
	}
	if mr.err != nil {
		r.err = mr.err
		return nil
	}
	return &m
}

// "parameters" blocks are declared as type "params", but older schemas used "object"; both decode the same way
func (r *fieldReader) params(key string) *SchemaParams {
	obj := r.optObject(key)
	if r.err != nil || obj == nil {
		return nil
	}
	p := joinPath(r.path, key)
	pr := fieldReader{obj: obj, path: p}
	t := pr.optString("type")
	if t != nil && *t != "params" && *t != "object" {
		r.err = &DecodeError{Path: joinPath(p, "type"), Msg: fmt.Sprintf("parameters must have type params, got: %s", *t)}
		return nil
	}
	sp := SchemaParams{
		Type:        "params",
		Description: pr.optString("description"),
		Properties:  pr.properties("properties"),
		Required:    pr.stringList("required"),
	}
	if pr.err != nil {
		r.err = pr.err
		return nil
	}
	return &sp
}

func (r *fieldReader) object() SchemaObject {
	return SchemaObject{
		Type:        "object",
		Description: r.optString("description"),
		Properties:  r.properties("properties"),
		Required:    r.stringList("required"),
		Nullable:    r.stringList("nullable"),
	}
}

func parseDef(obj *data.Object, path string) (SchemaDef, error) {
	if obj == nil {
		return SchemaDef{}, &DecodeError{Path: path, Msg: "missing schema definition"}
	}
	r := fieldReader{obj: obj, path: path}
	t, ok, err := obj.GetString("type")
	if err != nil {
		return SchemaDef{}, &DecodeError{Path: joinPath(path, "type"), Err: err}
	}
	if !ok {
		return SchemaDef{}, &DecodeError{Path: joinPath(path, "type"), Msg: "schema definition has no type"}
	}

	var inner any
	switch t {
	case "boolean":
		inner = SchemaBoolean{
			Type:        t,
			Description: r.optString("description"),
			Default:     r.optBool("default"),
			Const:       r.optBool("const"),
		}
	case "integer":
		inner = SchemaInteger{
			Type:        t,
			Description: r.optString("description"),
			Minimum:     r.optInt("minimum"),
			Maximum:     r.optInt("maximum"),
			Enum:        r.intList("enum"),
			Default:     r.optInt("default"),
			Const:       r.optInt("const"),
		}
	case "string":
		inner = SchemaString{
			Type:         t,
			Description:  r.optString("description"),
			Format:       r.optString("format"),
			MinLength:    r.optInt("minLength"),
			MaxLength:    r.optInt("maxLength"),
			MinGraphemes: r.optInt("minGraphemes"),
			MaxGraphemes: r.optInt("maxGraphemes"),
			KnownValues:  r.stringList("knownValues"),
			Enum:         r.stringList("enum"),
			Default:      r.optString("default"),
			Const:        r.optString("const"),
		}
	case "bytes":
		inner = SchemaBytes{
			Type:        t,
			Description: r.optString("description"),
			MinLength:   r.optInt("minLength"),
			MaxLength:   r.optInt("maxLength"),
		}
	case "blob":
		inner = SchemaBlob{
			Type:        t,
			Description: r.optString("description"),
			Accept:      r.stringList("accept"),
			MaxSize:     r.optInt("maxSize"),
		}
	case "unknown":
		inner = SchemaUnknown{Type: t, Description: r.optString("description")}
	case "cid-link":
		inner = SchemaCIDLink{Type: t, Description: r.optString("description")}
	case "null":
		inner = SchemaNull{Type: t, Description: r.optString("description")}
	case "token":
		inner = SchemaToken{Type: t, Description: r.optString("description")}
	case "array":
		inner = SchemaArray{
			Type:        t,
			Description: r.optString("description"),
			Items:       r.reqDef("items"),
			MinLength:   r.optInt("minLength"),
			MaxLength:   r.optInt("maxLength"),
		}
	case "object":
		inner = r.object()
	case "record":
		rec := SchemaRecord{
			Type:        t,
			Description: r.optString("description"),
			Key:         r.reqString("key"),
		}
		recDef := r.reqDef("record")
		if r.err == nil {
			o, ok := recDef.Inner.(SchemaObject)
			if !ok {
				return SchemaDef{}, &DecodeError{Path: joinPath(path, "record"), Msg: fmt.Sprintf("record schema must be an object, got: %s", recDef.Kind())}
			}
			rec.Record = o
		}
		inner = rec
	case "params":
		inner = SchemaParams{
			Type:        t,
			Description: r.optString("description"),
			Properties:  r.properties("properties"),
			Required:    r.stringList("required"),
		}
	case "union":
		refs := r.reqList("refs")
		u := SchemaUnion{
			Type:        t,
			Description: r.optString("description"),
			Refs:        make([]string, 0, len(refs)),
			Closed:      r.optBool("closed"),
		}
		for i, v := range refs {
			s, ok := v.(string)
			if !ok {
				return SchemaDef{}, &DecodeError{Path: joinPath(joinPath(path, "refs"), strconv.Itoa(i)), Msg: fmt.Sprintf("expected string, got %s", data.TypeName(v))}
			}
			u.Refs = append(u.Refs, s)
		}
		inner = u
	case "ref":
		inner = SchemaRef{
			Type:        t,
			Description: r.optString("description"),
			Ref:         r.reqString("ref"),
		}
	case "query":
		inner = SchemaQuery{
			Type:        t,
			Description: r.optString("description"),
			Parameters:  r.params("parameters"),
			Output:      r.body("output"),
			Errors:      r.errorList("errors"),
		}
	case "procedure":
		inner = SchemaProcedure{
			Type:        t,
			Description: r.optString("description"),
			Parameters:  r.params("parameters"),
			Input:       r.body("input"),
			Output:      r.body("output"),
			Errors:      r.errorList("errors"),
		}
	case "subscription":
		inner = SchemaSubscription{
			Type:        t,
			Description: r.optString("description"),
			Parameters:  r.params("parameters"),
			Message:     r.message("message"),
			Errors:      r.errorList("errors"),
		}
	default:
		return SchemaDef{}, &DecodeError{Path: joinPath(path, "type"), Msg: fmt.Sprintf("unexpected schema type: %s", t)}
	}
	if r.err != nil {
		return SchemaDef{}, r.err
	}
	return SchemaDef{Inner: inner}, nil
}
