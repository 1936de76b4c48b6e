package lex

import (
	"github.com/bluesky-social/blexicon/atproto/lexicon"
)

// Maps a property definition to a field type.
//
// parent is the name of the enclosing declaration and prop the property name; together they name inline objects.
// The mapping is total: kinds with no structural mapping (unions, blobs, unknown, tokens, etc) fall back to text,
// and the second return value is false.
func FieldType(parent, prop string, def lexicon.SchemaDef) (TypeRef, bool) {
	switch v := def.Inner.(type) {
	case lexicon.SchemaString:
		return textType, true
	case lexicon.SchemaInteger:
		return int64Type, true
	case lexicon.SchemaBoolean:
		return boolType, true
	case lexicon.SchemaBytes:
		return bytesType, true
	case lexicon.SchemaCIDLink:
		return textType, true
	case lexicon.SchemaRef:
		return namedType(RefTail(v.Ref)), true
	case lexicon.SchemaArray:
		elem, ok := FieldType(parent, prop, v.Items)
		return seqType(elem), ok
	case lexicon.SchemaObject:
		return namedType(NestedTypeName(parent, prop)), true
	default:
		return textType, false
	}
}

// Returns the inline object behind a property, looking through arrays, if there is one.
func inlineObject(def lexicon.SchemaDef) (lexicon.SchemaObject, bool) {
	switch v := def.Inner.(type) {
	case lexicon.SchemaObject:
		return v, true
	case lexicon.SchemaArray:
		return inlineObject(v.Items)
	default:
		return lexicon.SchemaObject{}, false
	}
}

// Returns the reference behind a property, looking through arrays, if there is one.
func propertyRef(def lexicon.SchemaDef) (string, bool) {
	switch v := def.Inner.(type) {
	case lexicon.SchemaRef:
		return v.Ref, true
	case lexicon.SchemaArray:
		return propertyRef(v.Items)
	default:
		return "", false
	}
}
