package lex

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bluesky-social/blexicon/atproto/lexicon"
)

// Renders declarations as serde-annotated Rust structs and enums.
type RustTarget struct{}

func (t *RustTarget) Name() string {
	return "rust"
}

func (t *RustTarget) Render(sf *lexicon.SchemaFile, decls []Decl) ([]byte, error) {
	buf := new(bytes.Buffer)
	for _, d := range decls {
		if err := t.WriteDecl(buf, d); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Writes a single declaration block, including the trailing blank line.
func (t *RustTarget) WriteDecl(w io.Writer, d Decl) error {
	pf := printerf(w)

	switch v := d.(type) {
	case *StructDecl:
		writeRustDoc(pf, "", v.Description)
		pf("#[derive(Debug, Clone, Serialize, Deserialize)]\n")
		pf("pub struct %s {\n", rustTypeName(v.Name))
		for _, f := range v.Fields {
			writeRustDoc(pf, "    ", f.Description)
			ident, renamed := rustIdent(f.Ident)
			if f.Renamed || renamed {
				pf("    #[serde(rename = %q)]\n", f.WireName)
			}
			typ := rustType(f.Type)
			if f.Optional {
				typ = "Option<" + typ + ">"
			}
			pf("    pub %s: %s,\n", ident, typ)
		}
		pf("}\n\n")
	case *EnumDecl:
		writeRustDoc(pf, "", v.Description)
		pf("#[derive(Debug, Clone, Serialize, Deserialize)]\n")
		pf("#[serde(tag = \"type\")]\n")
		pf("pub enum %s {\n", rustTypeName(v.Name))
		for _, vr := range v.Variants {
			sanitized, renamed := SanitizeIdent(vr.Name)
			ident, escaped := rustIdent(sanitized)
			if renamed || escaped {
				pf("    #[serde(rename = %q)]\n", vr.Name)
			}
			pf("    %s,\n", ident)
		}
		pf("}\n\n")
	case *PlaceholderDecl:
		pf("/* %s: %s - not generated */\n\n", v.Name, v.Kind)
	default:
		return fmt.Errorf("unhandled declaration type: %T", d)
	}
	return nil
}

func writeRustDoc(pf func(string, ...any), indent, desc string) {
	for _, l := range descLines(desc) {
		if l == "" {
			pf("%s///\n", indent)
			continue
		}
		pf("%s/// %s\n", indent, l)
	}
}

func rustType(t TypeRef) string {
	switch t.Kind {
	case TypeInt64:
		return "i64"
	case TypeBool:
		return "bool"
	case TypeBytes:
		return "Vec<u8>"
	case TypeNamed:
		return rustTypeName(t.Name)
	case TypeSeq:
		if t.Elem == nil {
			return "Vec<String>"
		}
		return "Vec<" + rustType(*t.Elem) + ">"
	default:
		return "String"
	}
}

func rustTypeName(name string) string {
	ident, _ := SanitizeIdent(name)
	ident, _ = rustIdent(ident)
	return ident
}

// keywords which can't be used as raw identifiers
var rustReserved = map[string]bool{
	"self":  true,
	"Self":  true,
	"super": true,
	"crate": true,
}

var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true, "continue": true, "dyn": true,
	"else": true, "enum": true, "extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true, "mod": true, "move": true,
	"mut": true, "pub": true, "ref": true, "return": true, "static": true, "struct": true, "trait": true,
	"true": true, "type": true, "unsafe": true, "use": true, "where": true, "while": true,
	"abstract": true, "become": true, "box": true, "do": true, "final": true, "macro": true,
	"override": true, "priv": true, "try": true, "typeof": true, "unsized": true, "virtual": true, "yield": true,
}

// Escapes identifiers which collide with Rust keywords. The second return value is true when the result
// no longer serializes under the same name.
func rustIdent(ident string) (string, bool) {
	if rustReserved[ident] {
		return ident + "_", true
	}
	if rustKeywords[ident] {
		return "r#" + ident, false
	}
	return ident, false
}
