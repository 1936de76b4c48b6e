package lexicon

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Interface type for a resolver or container of lexicon schemas.
type Catalog interface {
	// Looks up a schema reference (NSID string with optional fragment) to a Schema object.
	Resolve(ref string) (*Schema, error)
}

// A single named definition, as held by a Catalog.
type Schema struct {
	// fully-qualified name, eg "com.example.profile#main"
	ID  string
	Def SchemaDef
}

// Trivial in-memory Lexicon Catalog implementation.
//
// Not safe for concurrent mutation, but concurrent Resolve calls are fine once loading is done.
type BaseCatalog struct {
	schemas map[string]Schema
}

// Creates a new empty BaseCatalog
func NewBaseCatalog() *BaseCatalog {
	return &BaseCatalog{
		schemas: make(map[string]Schema),
	}
}

// Splits a reference string in to document ID and fragment. Either part may be empty.
//
// "com.example.foo#bar" -> ("com.example.foo", "bar"); "#bar" -> ("", "bar"); "com.example.foo" -> ("com.example.foo", "")
func SplitRef(ref string) (string, string) {
	if i := strings.LastIndex(ref, "#"); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return ref, ""
}

// Expands a reference to a fully-qualified "<id>#<name>" string. Local references ("#name") are relative to base,
// and a reference without a fragment refers to the "main" definition.
func QualifyRef(base, ref string) string {
	id, frag := SplitRef(ref)
	if id == "" {
		id = base
	}
	if frag == "" {
		frag = "main"
	}
	return id + "#" + frag
}

// Returns a schema definition for a Lexicon reference.
//
// A Lexicon ref string is an NSID with an optional #-separated fragment. If the fragment isn't specified, '#main' is used by default.
func (c *BaseCatalog) Resolve(ref string) (*Schema, error) {
	if ref == "" {
		return nil, fmt.Errorf("tried to resolve empty string name")
	}
	if strings.HasPrefix(ref, "#") {
		return nil, fmt.Errorf("%w: local reference without base: %s", ErrSchemaNotFound, ref)
	}
	s, ok := c.schemas[QualifyRef("", ref)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, ref)
	}
	return &s, nil
}

// Catalog which supplements an in-memory BaseCatalog with a second, fallback catalog.
type LayeredCatalog struct {
	Base     *BaseCatalog
	Fallback Catalog
}

func (lc *LayeredCatalog) Resolve(ref string) (*Schema, error) {
	// first try the base catalog
	schema, err := lc.Base.Resolve(ref)
	if nil == err {
		return schema, nil
	}
	if lc.Fallback == nil || !errors.Is(err, ErrSchemaNotFound) {
		return nil, err
	}
	return lc.Fallback.Resolve(ref)
}

func (c *BaseCatalog) Len() int {
	return len(c.schemas)
}

// Inserts every definition of a schema file in to the catalog.
//
// Fails (without inserting anything) if any definition name is already present.
func (c *BaseCatalog) AddSchemaFile(sf *SchemaFile) error {
	if sf.ID == "" {
		return fmt.Errorf("schema file has no id")
	}
	for frag := range sf.Defs.All() {
		if len(frag) == 0 || strings.Contains(frag, "#") {
			return fmt.Errorf("schema name invalid: %q", frag)
		}
		name := sf.ID + "#" + frag
		if _, ok := c.schemas[name]; ok {
			return fmt.Errorf("catalog already contained a schema with name: %s", name)
		}
	}
	for frag, def := range sf.Defs.All() {
		name := sf.ID + "#" + frag
		c.schemas[name] = Schema{
			ID:  name,
			Def: def,
		}
	}
	return nil
}

// Recursively loads all '.json', '.yaml' and '.yml' files from a directory in to the catalog.
func (c *BaseCatalog) LoadDirectory(dirPath string) error {
	walkFunc := func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsSchemaPath(p) {
			return nil
		}
		slog.Debug("loading Lexicon schema file", "path", p)
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		sf, err := UnmarshalSchemaFile(b)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		return c.AddSchemaFile(sf)
	}
	return filepath.WalkDir(dirPath, walkFunc)
}

// Whether a file path looks like a schema document (by extension).
func IsSchemaPath(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
