package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefTail(t *testing.T) {
	assert := assert.New(t)

	testVec := []struct {
		ref  string
		tail string
	}{
		{"com.example.foo#bar", "bar"},
		{"#bar", "bar"},
		{"com.example.foo", "com.example.foo"},
		{"bar", "bar"},
		{"a#b#c", "c"},
		{"com.example.foo#", ""},
		{"", ""},
	}

	for _, tv := range testVec {
		assert.Equal(tv.tail, RefTail(tv.ref), tv.ref)
		// idempotent
		assert.Equal(RefTail(tv.ref), RefTail(RefTail(tv.ref)), tv.ref)
	}
}

func TestSanitizeIdent(t *testing.T) {
	assert := assert.New(t)

	ident, renamed := SanitizeIdent("created-at")
	assert.Equal("created_at", ident)
	assert.True(renamed)

	ident, renamed = SanitizeIdent("zip.code-plus.4")
	assert.Equal("zip_code_plus_4", ident)
	assert.True(renamed)

	ident, renamed = SanitizeIdent("displayName")
	assert.Equal("displayName", ident)
	assert.False(renamed)

	// already-sanitized names are left alone
	ident, renamed = SanitizeIdent("created_at")
	assert.Equal("created_at", ident)
	assert.False(renamed)
}

func TestNestedTypeName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ProfileAddress", NestedTypeName("Profile", "address"))
	assert.Equal("ProfileAddress", NestedTypeName("Profile", "Address"))
	assert.Equal("postEmbed", NestedTypeName("post", "embed"))
	assert.Equal("ProfileÉtat", NestedTypeName("Profile", "état"))
	// combining accent stays with its base letter
	assert.Equal("ProfileE\u0301tat", NestedTypeName("Profile", "e\u0301tat"))
	assert.Equal("Profile", NestedTypeName("Profile", ""))
	assert.Equal("ProfileCreated-at", NestedTypeName("Profile", "created-at"))
}
