package lex

import (
	"os"
	"testing"

	"github.com/bluesky-social/blexicon/atproto/lexicon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, doc string) *lexicon.SchemaFile {
	sf, err := lexicon.UnmarshalSchemaFile([]byte(doc))
	require.NoError(t, err)
	return sf
}

func loadDoc(t *testing.T, p string) *lexicon.SchemaFile {
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	sf, err := lexicon.UnmarshalSchemaFile(b)
	require.NoError(t, err)
	return sf
}

func declNames(decls []Decl) []string {
	out := make([]string, len(decls))
	for i, d := range decls {
		out[i] = d.DeclName()
	}
	return out
}

func diagNames(diags []Diagnostic) []string {
	out := []string{}
	for _, d := range diags {
		out = append(out, d.Name)
	}
	return out
}

func findStruct(t *testing.T, decls []Decl, name string) *StructDecl {
	for _, d := range decls {
		if sd, ok := d.(*StructDecl); ok && sd.Name == name {
			return sd
		}
	}
	t.Fatalf("no struct declaration named %s", name)
	return nil
}

func findField(t *testing.T, sd *StructDecl, wire string) Field {
	for _, f := range sd.Fields {
		if f.WireName == wire {
			return f
		}
	}
	t.Fatalf("no field %s in %s", wire, sd.Name)
	return Field{}
}

const profileRust = `/// Profile view
#[derive(Debug, Clone, Serialize, Deserialize)]
pub struct Profile {
    /// Display name
    pub name: String,
    pub bio: Option<String>,
    pub tags: Vec<String>,
    #[serde(rename = "created-at")]
    pub created_at: String,
    pub address: Option<ProfileAddress>,
    pub pinned: Option<post>,
    pub friends: Option<Vec<view>>,
    pub avatar: Option<String>,
    pub banner: Option<Vec<u8>>,
    pub verified: Option<bool>,
    pub extra: Option<String>,
}

#[derive(Debug, Clone, Serialize, Deserialize)]
pub struct ProfileAddress {
    pub city: String,
    #[serde(rename = "zip.code")]
    pub zip_code: Option<i64>,
}

#[derive(Debug, Clone, Serialize, Deserialize)]
pub struct post {
    pub text: String,
    pub likeCount: Option<i64>,
}

#[derive(Debug, Clone, Serialize, Deserialize)]
#[serde(tag = "type")]
pub enum embed {
    post,
    view,
}

/* getProfile: query - not generated */

/// A status update.
#[derive(Debug, Clone, Serialize, Deserialize)]
pub struct status {
    pub text: String,
}

`

func TestGenerateProfile(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator(&RustTarget{})
	res, err := g.GenerateFile(loadDoc(t, "testdata/profile.json"))
	require.NoError(t, err)

	assert.Equal("com.example.profile", res.ID)
	assert.Equal(profileRust, res.Text)
	assert.Equal([]string{"Profile", "ProfileAddress", "post", "embed", "getProfile", "status"}, declNames(res.Decls))
	assert.Equal([]string{"field-fallback", "unsupported-definition"}, diagNames(res.Diagnostics))
	assert.Equal("Profile", res.Diagnostics[0].Def)
	assert.Equal("getProfile", res.Diagnostics[1].Def)
}

func TestGenerateDeterministic(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator(nil)
	sf := loadDoc(t, "testdata/profile.json")
	first, err := g.GenerateFile(sf)
	require.NoError(t, err)
	second, err := g.GenerateFile(loadDoc(t, "testdata/profile.json"))
	require.NoError(t, err)
	assert.Equal(first.Text, second.Text)

	// default target is Rust
	assert.Equal(profileRust, first.Text)
}

func TestGenerateJSONYAMLIdentical(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator(&RustTarget{})
	fromJSON, err := g.GenerateFile(loadDoc(t, "testdata/profile.json"))
	require.NoError(t, err)
	fromYAML, err := g.GenerateFile(loadDoc(t, "testdata/profile.yaml"))
	require.NoError(t, err)
	assert.Equal(fromJSON.Text, fromYAML.Text)
	assert.Equal(fromJSON.Diagnostics, fromYAML.Diagnostics)
}

func TestScenarios(t *testing.T) {
	assert := assert.New(t)
	g := NewGenerator(&RustTarget{})

	// required string
	decls, _ := g.Lower(parseDoc(t, `{"lexicon": 1, "id": "com.example.a", "defs": {"Profile": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}}}`))
	f := findField(t, findStruct(t, decls, "Profile"), "name")
	assert.Equal(textType, f.Type)
	assert.False(f.Optional)

	// not required
	decls, _ = g.Lower(parseDoc(t, `{"lexicon": 1, "id": "com.example.a", "defs": {"Profile": {"type": "object", "properties": {"name": {"type": "string"}}}}}`))
	f = findField(t, findStruct(t, decls, "Profile"), "name")
	assert.Equal(textType, f.Type)
	assert.True(f.Optional)

	// array of strings
	decls, _ = g.Lower(parseDoc(t, `{"lexicon": 1, "id": "com.example.a", "defs": {"Profile": {"type": "object", "required": ["tags"], "properties": {"tags": {"type": "array", "items": {"type": "string"}}}}}}`))
	f = findField(t, findStruct(t, decls, "Profile"), "tags")
	assert.Equal(seqType(textType), f.Type)
	assert.Equal("seq<text>", f.Type.String())
	assert.False(f.Optional)

	// union variants in order
	decls, diags := g.Lower(parseDoc(t, `{"lexicon": 1, "id": "com.example.a", "defs": {"u": {"type": "union", "refs": ["#foo", "#bar"]}, "foo": {"type": "token"}, "bar": {"type": "token"}}}`))
	ed, ok := decls[0].(*EnumDecl)
	require.True(t, ok)
	assert.Equal([]Variant{{Name: "foo", Ref: "#foo"}, {Name: "bar", Ref: "#bar"}}, ed.Variants)
	assert.NotContains(diagNames(diags), "unresolved-ref")

	// query placeholder doesn't stop later definitions
	res, err := g.GenerateFile(parseDoc(t, `{"lexicon": 1, "id": "com.example.a", "defs": {"q": {"type": "query"}, "after": {"type": "object", "properties": {}}}}`))
	require.NoError(t, err)
	assert.Equal("/* q: query - not generated */\n\n#[derive(Debug, Clone, Serialize, Deserialize)]\npub struct after {\n}\n\n", res.Text)

	// inline object
	decls, _ = g.Lower(parseDoc(t, `{"lexicon": 1, "id": "com.example.a", "defs": {"Profile": {"type": "object", "properties": {"address": {"type": "object", "properties": {"city": {"type": "string"}}}}}}}`))
	f = findField(t, findStruct(t, decls, "Profile"), "address")
	assert.Equal(namedType("ProfileAddress"), f.Type)
	nested := findStruct(t, decls, "ProfileAddress")
	assert.True(nested.Nested)
}

func TestOptionality(t *testing.T) {
	assert := assert.New(t)

	sf := parseDoc(t, `{
		"lexicon": 1,
		"id": "com.example.opt",
		"defs": {
			"main": {
				"type": "object",
				"required": ["reqOnly", "reqNull"],
				"nullable": ["reqNull", "nullOnly"],
				"properties": {
					"reqOnly": {"type": "string"},
					"reqNull": {"type": "string"},
					"neither": {"type": "string"},
					"nullOnly": {"type": "string"}
				}
			}
		}
	}`)
	decls, diags := NewGenerator(nil).Lower(sf)
	assert.Empty(diags)
	sd := findStruct(t, decls, "main")

	testVec := []struct {
		wire     string
		optional bool
		nullable bool
	}{
		{"reqOnly", false, false},
		{"reqNull", true, true},
		{"neither", true, false},
		{"nullOnly", true, true},
	}
	for _, tv := range testVec {
		f := findField(t, sd, tv.wire)
		assert.Equal(tv.optional, f.Optional, tv.wire)
		assert.Equal(tv.nullable, f.Nullable, tv.wire)
	}
}

func TestFieldTypes(t *testing.T) {
	assert := assert.New(t)

	sf := parseDoc(t, `{
		"lexicon": 1,
		"id": "com.example.types",
		"defs": {
			"main": {
				"type": "object",
				"properties": {
					"str": {"type": "string"},
					"int": {"type": "integer"},
					"bool": {"type": "boolean"},
					"raw": {"type": "bytes"},
					"cid": {"type": "cid-link"},
					"ref": {"type": "ref", "ref": "com.example.other#thing"},
					"refs": {"type": "array", "items": {"type": "ref", "ref": "com.example.other"}},
					"matrix": {"type": "array", "items": {"type": "array", "items": {"type": "integer"}}},
					"entries": {"type": "array", "items": {"type": "object", "properties": {"k": {"type": "string"}}}},
					"choice": {"type": "union", "refs": ["#a"]},
					"choices": {"type": "array", "items": {"type": "union", "refs": ["#a"]}},
					"img": {"type": "blob"},
					"any": {"type": "unknown"}
				}
			}
		}
	}`)
	decls, diags := NewGenerator(nil).Lower(sf)
	sd := findStruct(t, decls, "main")

	testVec := []struct {
		wire string
		typ  string
	}{
		{"str", "text"},
		{"int", "int64"},
		{"bool", "bool"},
		{"raw", "bytes"},
		{"cid", "text"},
		{"ref", "thing"},
		{"refs", "seq<com.example.other>"},
		{"matrix", "seq<seq<int64>>"},
		{"entries", "seq<mainEntries>"},
		{"choice", "text"},
		{"choices", "seq<text>"},
		{"img", "text"},
		{"any", "text"},
	}
	for _, tv := range testVec {
		assert.Equal(tv.typ, findField(t, sd, tv.wire).Type.String(), tv.wire)
	}

	assert.Equal([]string{"main", "mainEntries"}, declNames(decls))

	fallbacks := 0
	for _, d := range diags {
		if d.Name == "field-fallback" {
			fallbacks++
			assert.Equal(LevelInfo, d.Level)
		}
	}
	assert.Equal(4, fallbacks)
}

func TestNestedOrdering(t *testing.T) {
	assert := assert.New(t)

	sf := parseDoc(t, `{
		"lexicon": 1,
		"id": "com.example.nested",
		"defs": {
			"Outer": {
				"type": "object",
				"properties": {
					"a": {"type": "object", "properties": {"inner": {"type": "object", "properties": {"x": {"type": "string"}}}}},
					"b": {"type": "object", "properties": {"y": {"type": "integer"}}}
				}
			},
			"Last": {"type": "token"}
		}
	}`)
	decls, _ := NewGenerator(nil).Lower(sf)
	assert.Equal([]string{"Outer", "OuterA", "OuterAInner", "OuterB", "Last"}, declNames(decls))
}

func TestNestedDeduplication(t *testing.T) {
	assert := assert.New(t)

	sf := parseDoc(t, `{
		"lexicon": 1,
		"id": "com.example.dedupe",
		"defs": {
			"Foo": {"type": "object", "properties": {"barBaz": {"type": "object", "properties": {"x": {"type": "string"}}}}},
			"FooBar": {"type": "object", "properties": {"baz": {"type": "object", "properties": {"y": {"type": "integer"}}}}}
		}
	}`)
	decls, diags := NewGenerator(nil).Lower(sf)
	assert.Equal([]string{"Foo", "FooBarBaz", "FooBar"}, declNames(decls))
	assert.Equal([]string{"duplicate-nested-type"}, diagNames(diags))
	assert.Equal("FooBar", diags[0].Def)

	// the field still names the type
	f := findField(t, findStruct(t, decls, "FooBar"), "baz")
	assert.Equal(namedType("FooBarBaz"), f.Type)
}

func TestNestedNameCollision(t *testing.T) {
	assert := assert.New(t)

	sf := parseDoc(t, `{
		"lexicon": 1,
		"id": "com.example.collide",
		"defs": {
			"Foo": {"type": "object", "properties": {"bar": {"type": "object", "properties": {}}}},
			"FooBar": {"type": "object", "properties": {"z": {"type": "string"}}}
		}
	}`)
	decls, diags := NewGenerator(nil).Lower(sf)
	assert.Equal([]string{"Foo", "FooBar", "FooBar"}, declNames(decls))
	assert.Equal([]string{"nested-name-collision"}, diagNames(diags))
	assert.Equal(LevelWarn, diags[0].Level)
}

func TestSchemaInconsistencies(t *testing.T) {
	assert := assert.New(t)

	sf := parseDoc(t, `{
		"lexicon": 1,
		"id": "com.example.bad",
		"defs": {
			"main": {
				"type": "object",
				"required": ["name", "ghost"],
				"nullable": ["phantom"],
				"properties": {
					"name": {"type": "string"},
					"a-b": {"type": "string"},
					"a.b": {"type": "string"},
					"link": {"type": "ref", "ref": "#nowhere"}
				}
			},
			"choice": {"type": "union", "refs": ["#main", "com.example.other#main", "#missing"]},
			"empty": {"type": "union", "refs": []}
		}
	}`)
	decls, diags := NewGenerator(nil).Lower(sf)
	assert.Equal([]string{"main", "choice", "empty"}, declNames(decls))
	assert.Equal([]string{
		"required-not-property",
		"nullable-not-property",
		"duplicate-field",
		"unresolved-ref",
		"duplicate-variant",
		"unresolved-ref",
		"empty-union",
	}, diagNames(diags))
	for _, d := range diags {
		assert.Equal("com.example.bad", d.Document)
	}
	assert.Equal("choice", diags[4].Def)
	assert.Contains(diags[5].Message, "#missing")

	// duplicate tails are kept
	ed := decls[1].(*EnumDecl)
	assert.Equal([]string{"main", "main", "missing"}, []string{ed.Variants[0].Name, ed.Variants[1].Name, ed.Variants[2].Name})
}

func TestCatalogRefs(t *testing.T) {
	assert := assert.New(t)

	cat := lexicon.NewBaseCatalog()
	require.NoError(t, cat.AddSchemaFile(loadDoc(t, "testdata/actor.json")))

	g := NewGenerator(&RustTarget{})
	g.Catalog = cat
	sf := parseDoc(t, `{
		"lexicon": 1,
		"id": "com.example.refs",
		"defs": {
			"u": {"type": "union", "refs": ["com.example.actor#view", "com.example.actor#gone", "com.example.unknown"]}
		}
	}`)
	_, diags := g.Lower(sf)
	require.Len(t, diags, 2)
	assert.Contains(diags[0].Message, "com.example.actor#gone")
	assert.Contains(diags[1].Message, "com.example.unknown")
}

func TestRecordsOption(t *testing.T) {
	assert := assert.New(t)

	sf := loadDoc(t, "testdata/profile.json")

	g := NewGenerator(&RustTarget{})
	decls, _ := g.Lower(sf)
	rec := findStruct(t, decls, "status")
	assert.Equal("A status update.", rec.Description)

	g.Options.Records = false
	res, err := g.GenerateFile(sf)
	require.NoError(t, err)
	assert.Contains(res.Text, "/* status: record - not generated */\n\n")
	assert.NotContains(res.Text, "pub struct status")
}

func TestLexiconVersion(t *testing.T) {
	assert := assert.New(t)

	_, diags := NewGenerator(nil).Lower(parseDoc(t, `{"lexicon": 2, "id": "com.example.v2", "defs": {}}`))
	assert.Equal([]string{"lexicon-version"}, diagNames(diags))
	assert.Equal("com.example.v2 [warn] lexicon-version: unsupported Lexicon language version: 2", diags[0].String())
}
