package lex

import (
	"github.com/xlab/treeprint"
)

// Renders lowered declarations as an indented tree, for inspecting what the generator produced independent of
// any target.
func DeclTree(id string, decls []Decl) string {
	tree := treeprint.NewWithRoot(id)
	for _, d := range decls {
		switch v := d.(type) {
		case *StructDecl:
			meta := "struct"
			if v.Nested {
				meta = "nested struct"
			}
			b := tree.AddMetaBranch(meta, v.Name)
			for _, f := range v.Fields {
				t := f.Type.String()
				if f.Optional {
					t = "optional " + t
				}
				b.AddMetaNode(t, f.WireName)
			}
		case *EnumDecl:
			b := tree.AddMetaBranch("enum", v.Name)
			for _, vr := range v.Variants {
				b.AddMetaNode(vr.Ref, vr.Name)
			}
		case *PlaceholderDecl:
			tree.AddMetaNode(v.Kind, v.Name)
		}
	}
	return tree.String()
}
