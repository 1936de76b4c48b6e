package lex

import (
	"fmt"
)

// Kind of a field type in the declaration IR.
type TypeKind int

const (
	TypeText TypeKind = iota
	TypeInt64
	TypeBool
	TypeBytes
	TypeNamed
	TypeSeq
)

// Target-neutral description of a field type.
type TypeRef struct {
	Kind TypeKind
	// only for TypeNamed
	Name string
	// only for TypeSeq
	Elem *TypeRef
}

var (
	textType  = TypeRef{Kind: TypeText}
	int64Type = TypeRef{Kind: TypeInt64}
	boolType  = TypeRef{Kind: TypeBool}
	bytesType = TypeRef{Kind: TypeBytes}
)

func namedType(name string) TypeRef {
	return TypeRef{Kind: TypeNamed, Name: name}
}

func seqType(elem TypeRef) TypeRef {
	return TypeRef{Kind: TypeSeq, Elem: &elem}
}

func (t TypeRef) String() string {
	switch t.Kind {
	case TypeText:
		return "text"
	case TypeInt64:
		return "int64"
	case TypeBool:
		return "bool"
	case TypeBytes:
		return "bytes"
	case TypeNamed:
		return t.Name
	case TypeSeq:
		if t.Elem == nil {
			return "seq<?>"
		}
		return fmt.Sprintf("seq<%s>", t.Elem)
	default:
		return fmt.Sprintf("TypeKind(%d)", int(t.Kind))
	}
}

// A single generated declaration. Implemented by *StructDecl, *EnumDecl and *PlaceholderDecl.
type Decl interface {
	DeclName() string
}

// Record declaration, for object and record definitions (and synthesized nested objects).
type StructDecl struct {
	Name        string
	Description string
	Fields      []Field
	// set for declarations synthesized from an inline object property
	Nested bool
}

type Field struct {
	Ident string
	// property name as it appears in the schema
	WireName string
	Renamed  bool
	Type     TypeRef
	Optional bool
	// listed in the object's "nullable" set; implies Optional
	Nullable    bool
	Description string
}

// Tagged-union declaration, for union definitions.
type EnumDecl struct {
	Name        string
	Description string
	Variants    []Variant
}

type Variant struct {
	// local name of the reference (see RefTail)
	Name string
	Ref  string
}

// Marker for a definition with no declaration mapping.
type PlaceholderDecl struct {
	Name        string
	Kind        string
	Description string
}

func (d *StructDecl) DeclName() string      { return d.Name }
func (d *EnumDecl) DeclName() string        { return d.Name }
func (d *PlaceholderDecl) DeclName() string { return d.Name }
