package lex

import (
	"fmt"
	"log/slog"

	"github.com/bluesky-social/blexicon/atproto/lexicon"
)

type Options struct {
	// lower top-level "record" definitions to a struct of their object payload; otherwise records get a placeholder
	Records bool
}

func DefaultOptions() Options {
	return Options{
		Records: true,
	}
}

// Generates declarations for Lexicon schema files.
//
// A Generator is read-only once configured, and safe to use from multiple goroutines.
type Generator struct {
	Target Target
	// optional; used to check cross-document references
	Catalog lexicon.Catalog
	Options Options
	Logger  *slog.Logger
}

func NewGenerator(target Target) *Generator {
	return &Generator{
		Target:  target,
		Options: DefaultOptions(),
		Logger:  slog.Default(),
	}
}

// Output of generating one schema document.
type Result struct {
	// name of the input (eg, file path); may be empty
	Name        string
	ID          string
	Text        string
	Decls       []Decl
	Diagnostics []Diagnostic
	// structural decode failure; when set, the other fields (except Name) are empty
	Err error
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func (g *Generator) target() Target {
	if g.Target != nil {
		return g.Target
	}
	return &RustTarget{}
}

// Generates the declarations for every definition in the file, in definition order.
func (g *Generator) GenerateFile(sf *lexicon.SchemaFile) (*Result, error) {
	return g.generate(sf, g.Catalog)
}

func (g *Generator) generate(sf *lexicon.SchemaFile, cat lexicon.Catalog) (*Result, error) {
	decls, diags := g.lower(sf, cat)
	text, err := g.target().Render(sf, decls)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", sf.ID, err)
	}
	g.logger().Debug("generated lexicon declarations", "id", sf.ID, "target", g.target().Name(), "decls", len(decls), "diagnostics", len(diags))
	return &Result{
		ID:          sf.ID,
		Text:        string(text),
		Decls:       decls,
		Diagnostics: diags,
	}, nil
}

// Lowers every definition in the file to target-neutral declarations, without rendering.
func (g *Generator) Lower(sf *lexicon.SchemaFile) ([]Decl, []Diagnostic) {
	return g.lower(sf, g.Catalog)
}

func (g *Generator) lower(sf *lexicon.SchemaFile, cat lexicon.Catalog) ([]Decl, []Diagnostic) {
	l := &lowerer{
		opts:    g.Options,
		sf:      sf,
		cat:     cat,
		emitted: make(map[string]bool),
	}
	if sf.Lexicon != 1 {
		l.report("", LevelWarn, "lexicon-version", fmt.Sprintf("unsupported Lexicon language version: %d", sf.Lexicon))
	}
	for name, def := range sf.Defs.All() {
		l.lowerDef(name, def)
	}
	return l.decls, l.diags
}

// per-document lowering state
type lowerer struct {
	opts Options
	sf   *lexicon.SchemaFile
	cat  lexicon.Catalog

	// top-level definition currently being lowered
	def string
	// synthesized nested type names already emitted
	emitted map[string]bool

	decls []Decl
	diags []Diagnostic
}

func (l *lowerer) report(def, level, name, msg string) {
	l.diags = append(l.diags, Diagnostic{
		Document: l.sf.ID,
		Def:      def,
		Level:    level,
		Name:     name,
		Message:  msg,
	})
}

func (l *lowerer) placeholder(name string, def lexicon.SchemaDef) {
	l.report(name, LevelInfo, "unsupported-definition", fmt.Sprintf("no declaration mapping for %s definition", def.Kind()))
	l.decls = append(l.decls, &PlaceholderDecl{
		Name:        name,
		Kind:        def.Kind(),
		Description: def.Description(),
	})
}

func (l *lowerer) lowerDef(name string, def lexicon.SchemaDef) {
	l.def = name
	switch v := def.Inner.(type) {
	case lexicon.SchemaObject:
		l.lowerObject(name, v, def.Description(), false)
	case lexicon.SchemaRecord:
		if !l.opts.Records {
			l.placeholder(name, def)
			return
		}
		desc := def.Description()
		if desc == "" && v.Record.Description != nil {
			desc = *v.Record.Description
		}
		l.lowerObject(name, v.Record, desc, false)
	case lexicon.SchemaUnion:
		l.lowerUnion(name, v, def.Description())
	default:
		l.placeholder(name, def)
	}
}

type pendingNested struct {
	name string
	obj  lexicon.SchemaObject
	desc string
}

func (l *lowerer) lowerObject(name string, obj lexicon.SchemaObject, desc string, nested bool) {
	for _, k := range obj.Required {
		if !obj.Properties.Has(k) {
			l.report(l.def, LevelWarn, "required-not-property", fmt.Sprintf("%s: required field not in properties: %s", name, k))
		}
	}
	for _, k := range obj.Nullable {
		if !obj.Properties.Has(k) {
			l.report(l.def, LevelWarn, "nullable-not-property", fmt.Sprintf("%s: nullable field not in properties: %s", name, k))
		}
	}

	sd := &StructDecl{
		Name:        name,
		Description: desc,
		Nested:      nested,
	}
	idents := make(map[string]string)
	var pending []pendingNested
	for prop, pdef := range obj.Properties.All() {
		t, ok := FieldType(name, prop, pdef)
		if !ok {
			l.report(l.def, LevelInfo, "field-fallback", fmt.Sprintf("%s.%s: no field mapping for %s, using text", name, prop, pdef.Kind()))
		}
		ident, renamed := SanitizeIdent(prop)
		if other, ok := idents[ident]; ok {
			l.report(l.def, LevelWarn, "duplicate-field", fmt.Sprintf("%s: properties %q and %q both map to field %s", name, other, prop, ident))
		}
		idents[ident] = prop

		sd.Fields = append(sd.Fields, Field{
			Ident:       ident,
			WireName:    prop,
			Renamed:     renamed,
			Type:        t,
			Optional:    !obj.IsRequired(prop) || obj.IsNullable(prop),
			Nullable:    obj.IsNullable(prop),
			Description: pdef.Description(),
		})

		if ref, ok := propertyRef(pdef); ok {
			l.checkRef(ref)
		}
		if inner, ok := inlineObject(pdef); ok {
			pending = append(pending, pendingNested{
				name: NestedTypeName(name, prop),
				obj:  inner,
				desc: pdef.Description(),
			})
		}
	}
	l.decls = append(l.decls, sd)

	// nested declarations follow their parent, depth-first
	for _, p := range pending {
		if l.emitted[p.name] {
			l.report(l.def, LevelInfo, "duplicate-nested-type", fmt.Sprintf("nested type already generated: %s", p.name))
			continue
		}
		l.emitted[p.name] = true
		if l.sf.Defs.Has(p.name) {
			l.report(l.def, LevelWarn, "nested-name-collision", fmt.Sprintf("nested type name is also a definition name: %s", p.name))
		}
		l.lowerObject(p.name, p.obj, p.desc, true)
	}
}

func (l *lowerer) lowerUnion(name string, u lexicon.SchemaUnion, desc string) {
	ed := &EnumDecl{
		Name:        name,
		Description: desc,
		Variants:    make([]Variant, 0, len(u.Refs)),
	}
	if len(u.Refs) == 0 {
		l.report(l.def, LevelWarn, "empty-union", "union has no refs")
	}
	seen := make(map[string]string)
	for _, ref := range u.Refs {
		tail := RefTail(ref)
		if tail == "" {
			l.report(l.def, LevelWarn, "empty-variant", fmt.Sprintf("ref has no name to use for a variant: %q", ref))
			continue
		}
		if other, ok := seen[tail]; ok {
			l.report(l.def, LevelWarn, "duplicate-variant", fmt.Sprintf("refs %q and %q both resolve to variant %s", other, ref, tail))
		}
		seen[tail] = ref
		l.checkRef(ref)
		ed.Variants = append(ed.Variants, Variant{
			Name: tail,
			Ref:  ref,
		})
	}
	l.decls = append(l.decls, ed)
}

func (l *lowerer) checkRef(ref string) {
	if !l.resolves(ref) {
		l.report(l.def, LevelWarn, "unresolved-ref", fmt.Sprintf("reference does not resolve to a known definition: %s", ref))
	}
}

// References in to the current document are always checked; references to other documents are only checked
// when there is a catalog to check against.
func (l *lowerer) resolves(ref string) bool {
	id, frag := lexicon.SplitRef(ref)
	if id == "" || id == l.sf.ID {
		if frag == "" {
			frag = "main"
		}
		return l.sf.Defs.Has(frag)
	}
	if frag == "" && l.sf.Defs.Has(id) {
		// bare local name
		return true
	}
	if l.cat == nil {
		return true
	}
	_, err := l.cat.Resolve(ref)
	return err == nil
}
