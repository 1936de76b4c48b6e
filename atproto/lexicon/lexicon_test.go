package lexicon

import (
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func loadFixture(t *testing.T, p string) *SchemaFile {
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	sf, err := UnmarshalSchemaFile(b)
	require.NoError(t, err)
	return sf
}

func TestBasicProfileLexicon(t *testing.T) {
	assert := assert.New(t)

	sf := loadFixture(t, "testdata/catalog/com/example/profile.json")
	assert.Equal(1, sf.Lexicon)
	assert.Equal("com.example.profile", sf.ID)
	require.NotNil(t, sf.Revision)
	assert.Equal("2", *sf.Revision)
	assert.Equal([]string{"main", "Profile", "post", "embed", "getProfile", "visibility", "flag"}, sf.Defs.Keys())

	main, ok := sf.Defs.Get("main")
	require.True(t, ok)
	rec, ok := main.Inner.(SchemaRecord)
	require.True(t, ok)
	assert.Equal("literal:self", rec.Key)
	assert.Equal([]string{"displayName", "avatar", "labels"}, rec.Record.Properties.Keys())

	prof, _ := sf.Defs.Get("Profile")
	obj, ok := prof.Inner.(SchemaObject)
	require.True(t, ok)
	assert.Equal("Profile view", prof.Description())
	assert.Equal([]string{"name", "bio", "tags", "created-at", "address", "pinned", "friends", "avatar", "banner", "verified", "extra"}, obj.Properties.Keys())
	assert.True(obj.IsRequired("name"))
	assert.False(obj.IsRequired("bio"))
	assert.True(obj.IsNullable("bio"))

	tags, _ := obj.Properties.Get("tags")
	arr, ok := tags.Inner.(SchemaArray)
	require.True(t, ok)
	assert.Equal("string", arr.Items.Kind())
	require.NotNil(t, arr.MaxLength)
	assert.Equal(int64(8), *arr.MaxLength)

	addr, _ := obj.Properties.Get("address")
	addrObj, ok := addr.Inner.(SchemaObject)
	require.True(t, ok)
	assert.Equal([]string{"city", "zip.code"}, addrObj.Properties.Keys())

	embed, _ := sf.Defs.Get("embed")
	u, ok := embed.Inner.(SchemaUnion)
	require.True(t, ok)
	assert.Equal([]string{"#post", "com.example.actor#view"}, u.Refs)
	assert.True(u.IsClosed())

	q, _ := sf.Defs.Get("getProfile")
	query, ok := q.Inner.(SchemaQuery)
	require.True(t, ok)
	require.NotNil(t, query.Parameters)
	assert.Equal([]string{"actor", "limit"}, query.Parameters.Properties.Keys())
	assert.True(query.Parameters.IsRequired("actor"))
	require.NotNil(t, query.Output)
	assert.Equal("application/json", query.Output.Encoding)
	require.NotNil(t, query.Output.Schema)
	assert.Equal("ref", query.Output.Schema.Kind())
	require.Len(t, query.Errors, 2)
	assert.Equal("NotFound", query.Errors[0].Name)
	assert.Nil(query.Errors[1].Description)

	vis, _ := sf.Defs.Get("visibility")
	str, ok := vis.Inner.(SchemaString)
	require.True(t, ok)
	assert.Equal([]string{"public", "private"}, str.KnownValues)

	flag, _ := sf.Defs.Get("flag")
	assert.Equal("token", flag.Kind())
	assert.Equal("A marker token", flag.Description())
}

func TestYAMLLexicon(t *testing.T) {
	assert := assert.New(t)

	sf := loadFixture(t, "testdata/catalog/com/example/actor.yaml")
	assert.Equal("com.example.actor", sf.ID)
	assert.Nil(sf.Revision)
	assert.Equal([]string{"view", "putActor", "subscribeActors"}, sf.Defs.Keys())

	p, _ := sf.Defs.Get("putActor")
	proc, ok := p.Inner.(SchemaProcedure)
	require.True(t, ok)
	assert.Nil(proc.Parameters)
	require.NotNil(t, proc.Input)
	require.NotNil(t, proc.Input.Schema)
	assert.Equal("object", proc.Input.Schema.Kind())
	require.NotNil(t, proc.Output)
	assert.Nil(proc.Output.Schema)
	assert.Empty(proc.Errors)

	s, _ := sf.Defs.Get("subscribeActors")
	sub, ok := s.Inner.(SchemaSubscription)
	require.True(t, ok)
	require.NotNil(t, sub.Message)
	assert.Equal("union", sub.Message.Schema.Kind())
	require.Len(t, sub.Errors, 1)
	assert.Equal("FutureCursor", sub.Errors[0].Name)
}

func TestDefaults(t *testing.T) {
	assert := assert.New(t)

	sf, err := UnmarshalSchemaFile([]byte(`{"lexicon": 1, "id": "com.example.defaults", "defs": {
		"obj": {"type": "object", "properties": {"a": {"type": "string"}}},
		"u": {"type": "union", "refs": ["#obj"]},
		"q": {"type": "query"}
	}}`))
	require.NoError(t, err)

	o, _ := sf.Defs.Get("obj")
	obj := o.Inner.(SchemaObject)
	assert.Empty(obj.Required)
	assert.Empty(obj.Nullable)

	u, _ := sf.Defs.Get("u")
	union := u.Inner.(SchemaUnion)
	assert.Nil(union.Closed)
	assert.False(union.IsClosed())

	q, _ := sf.Defs.Get("q")
	query := q.Inner.(SchemaQuery)
	assert.Empty(query.Errors)
	assert.Nil(query.Parameters)
	assert.Nil(query.Output)
}

func TestStdlibStyleUnmarshal(t *testing.T) {
	assert := assert.New(t)

	b, err := os.ReadFile("testdata/catalog/com/example/profile.json")
	require.NoError(t, err)

	var fromJSON SchemaFile
	require.NoError(t, json.Unmarshal(b, &fromJSON))
	assert.Equal([]string{"main", "Profile", "post", "embed", "getProfile", "visibility", "flag"}, fromJSON.Defs.Keys())

	var fromYAML SchemaFile
	require.NoError(t, yaml.Unmarshal(b, &fromYAML))
	assert.Equal(fromJSON.Defs.Keys(), fromYAML.Defs.Keys())
}

func TestRoundTripJSON(t *testing.T) {
	assert := assert.New(t)

	sf := loadFixture(t, "testdata/catalog/com/example/profile.json")
	out, err := json.Marshal(sf)
	require.NoError(t, err)

	again, err := UnmarshalSchemaFile(out)
	require.NoError(t, err)
	assert.Equal(sf.Defs.Keys(), again.Defs.Keys())

	out2, err := json.Marshal(again)
	require.NoError(t, err)
	assert.Equal(string(out), string(out2))
}
