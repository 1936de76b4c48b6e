package lex

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bluesky-social/blexicon/atproto/lexicon"

	"golang.org/x/tools/imports"
)

// Renders declarations as Go structs with json and cborgen field tags.
type GoTarget struct {
	// when set, output is a complete source file with this package clause, formatted with goimports
	Package string
}

func (t *GoTarget) Name() string {
	return "go"
}

func (t *GoTarget) Render(sf *lexicon.SchemaFile, decls []Decl) ([]byte, error) {
	buf := new(bytes.Buffer)
	pf := printerf(buf)

	if t.Package != "" {
		pf("// Code generated by blexicon; DO NOT EDIT.\n\n")
		pf("package %s\n\n", t.Package)
		pf("// schema: %s\n\n", sf.ID)
	}
	for _, d := range decls {
		if err := t.writeDecl(buf, sf.ID, d); err != nil {
			return nil, err
		}
	}
	if t.Package == "" {
		return buf.Bytes(), nil
	}

	formatted, err := imports.Process(sf.ID+".go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to format output: %w", err)
	}
	return formatted, nil
}

func (t *GoTarget) writeDecl(w io.Writer, id string, d Decl) error {
	pf := printerf(w)

	switch v := d.(type) {
	case *StructDecl:
		name := goName(v.Name)
		if v.Nested {
			pf("// %s is an inline object in the %s schema.\n", name, id)
		} else {
			pf("// %s is a %q in the %s schema.\n", name, v.Name, id)
		}
		if lines := descLines(v.Description); len(lines) > 0 {
			pf("//\n")
			for _, l := range lines {
				pf("// %s\n", l)
			}
		}
		pf("type %s struct {\n", name)
		for _, f := range v.Fields {
			tname := goType(f.Type)

			var ptr, omit string
			if f.Optional {
				omit = ",omitempty"
				if f.Type.Kind != TypeSeq && f.Type.Kind != TypeBytes {
					ptr = "*"
				}
			}
			if f.Nullable {
				omit = ""
			}

			if f.Description != "" {
				pf("\t// %s: %s\n", f.WireName, firstLine(f.Description))
			}
			pf("\t%s %s%s `json:\"%s%s\" cborgen:\"%s%s\"`\n", goName(f.Ident), ptr, tname, f.WireName, omit, f.WireName, omit)
		}
		pf("}\n\n")
	case *EnumDecl:
		name := goName(v.Name)
		pf("// %s is a %q in the %s schema.\n", name, v.Name, id)
		if lines := descLines(v.Description); len(lines) > 0 {
			pf("//\n")
			for _, l := range lines {
				pf("// %s\n", l)
			}
		}
		pf("type %s struct {\n", name)
		for _, vr := range v.Variants {
			vname := goName(vr.Name)
			pf("\t%s *%s\n", vname, vname)
		}
		pf("}\n\n")
	case *PlaceholderDecl:
		pf("// %s: %s - not generated\n\n", v.Name, v.Kind)
	default:
		return fmt.Errorf("unhandled declaration type: %T", d)
	}
	return nil
}

func goType(t TypeRef) string {
	switch t.Kind {
	case TypeInt64:
		return "int64"
	case TypeBool:
		return "bool"
	case TypeBytes:
		return "[]byte"
	case TypeNamed:
		return goName(t.Name)
	case TypeSeq:
		if t.Elem == nil {
			return "[]string"
		}
		return "[]" + goType(*t.Elem)
	default:
		return "string"
	}
}

// Exported Go identifier for a schema name.
func goName(name string) string {
	ident, _ := SanitizeIdent(name)
	return upperFirst(ident)
}

func firstLine(s string) string {
	lines := descLines(s)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
