package lexicon

import (
	"fmt"

	"github.com/goccy/go-json"
)

// enum type to represent any of the schema fields
//
// Inner is always exactly one of the Schema* variant structs in this file (by value, not pointer).
type SchemaDef struct {
	Inner any
}

func (s SchemaDef) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Inner)
}

// Returns the "type" discriminator string for the definition.
func (s *SchemaDef) Kind() string {
	switch s.Inner.(type) {
	case SchemaRecord:
		return "record"
	case SchemaQuery:
		return "query"
	case SchemaProcedure:
		return "procedure"
	case SchemaSubscription:
		return "subscription"
	case SchemaNull:
		return "null"
	case SchemaBoolean:
		return "boolean"
	case SchemaInteger:
		return "integer"
	case SchemaString:
		return "string"
	case SchemaBytes:
		return "bytes"
	case SchemaCIDLink:
		return "cid-link"
	case SchemaArray:
		return "array"
	case SchemaObject:
		return "object"
	case SchemaBlob:
		return "blob"
	case SchemaParams:
		return "params"
	case SchemaToken:
		return "token"
	case SchemaRef:
		return "ref"
	case SchemaUnion:
		return "union"
	case SchemaUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("%T", s.Inner)
	}
}

// Returns the description of the definition, or an empty string if there is none.
func (s *SchemaDef) Description() string {
	var desc *string

	switch v := s.Inner.(type) {
	case SchemaRecord:
		desc = v.Description
	case SchemaQuery:
		desc = v.Description
	case SchemaProcedure:
		desc = v.Description
	case SchemaSubscription:
		desc = v.Description
	case SchemaNull:
		desc = v.Description
	case SchemaBoolean:
		desc = v.Description
	case SchemaInteger:
		desc = v.Description
	case SchemaString:
		desc = v.Description
	case SchemaBytes:
		desc = v.Description
	case SchemaCIDLink:
		desc = v.Description
	case SchemaArray:
		desc = v.Description
	case SchemaObject:
		desc = v.Description
	case SchemaBlob:
		desc = v.Description
	case SchemaParams:
		desc = v.Description
	case SchemaToken:
		desc = v.Description
	case SchemaRef:
		desc = v.Description
	case SchemaUnion:
		desc = v.Description
	case SchemaUnknown:
		desc = v.Description
	}
	if desc != nil {
		return *desc
	}
	return ""
}

type SchemaRecord struct {
	Type        string       `json:"type"` // "record"
	Description *string      `json:"description,omitempty"`
	Key         string       `json:"key"`
	Record      SchemaObject `json:"record"`
}

type SchemaQuery struct {
	Type        string        `json:"type"` // "query"
	Description *string       `json:"description,omitempty"`
	Parameters  *SchemaParams `json:"parameters,omitempty"`
	Output      *SchemaBody   `json:"output,omitempty"`
	Errors      []SchemaError `json:"errors,omitempty"`
}

type SchemaProcedure struct {
	Type        string        `json:"type"` // "procedure"
	Description *string       `json:"description,omitempty"`
	Parameters  *SchemaParams `json:"parameters,omitempty"`
	Input       *SchemaBody   `json:"input,omitempty"`
	Output      *SchemaBody   `json:"output,omitempty"`
	Errors      []SchemaError `json:"errors,omitempty"`
}

type SchemaSubscription struct {
	Type        string         `json:"type"` // "subscription"
	Description *string        `json:"description,omitempty"`
	Parameters  *SchemaParams  `json:"parameters,omitempty"`
	Message     *SchemaMessage `json:"message,omitempty"`
	Errors      []SchemaError  `json:"errors,omitempty"`
}

// Input or output of a query or procedure.
type SchemaBody struct {
	Description *string    `json:"description,omitempty"`
	Encoding    string     `json:"encoding"` // required, mimetype
	Schema      *SchemaDef `json:"schema,omitempty"`
}

type SchemaMessage struct {
	Description *string   `json:"description,omitempty"`
	Schema      SchemaDef `json:"schema"`
}

type SchemaError struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type SchemaNull struct {
	Type        string  `json:"type"` // "null"
	Description *string `json:"description,omitempty"`
}

type SchemaBoolean struct {
	Type        string  `json:"type"` // "boolean"
	Description *string `json:"description,omitempty"`
	Default     *bool   `json:"default,omitempty"`
	Const       *bool   `json:"const,omitempty"`
}

type SchemaInteger struct {
	Type        string  `json:"type"` // "integer"
	Description *string `json:"description,omitempty"`
	Minimum     *int64  `json:"minimum,omitempty"`
	Maximum     *int64  `json:"maximum,omitempty"`
	Enum        []int64 `json:"enum,omitempty"`
	Default     *int64  `json:"default,omitempty"`
	Const       *int64  `json:"const,omitempty"`
}

type SchemaString struct {
	Type         string   `json:"type"` // "string"
	Description  *string  `json:"description,omitempty"`
	Format       *string  `json:"format,omitempty"`
	MinLength    *int64   `json:"minLength,omitempty"`
	MaxLength    *int64   `json:"maxLength,omitempty"`
	MinGraphemes *int64   `json:"minGraphemes,omitempty"`
	MaxGraphemes *int64   `json:"maxGraphemes,omitempty"`
	KnownValues  []string `json:"knownValues,omitempty"`
	Enum         []string `json:"enum,omitempty"`
	Default      *string  `json:"default,omitempty"`
	Const        *string  `json:"const,omitempty"`
}

type SchemaBytes struct {
	Type        string  `json:"type"` // "bytes"
	Description *string `json:"description,omitempty"`
	MinLength   *int64  `json:"minLength,omitempty"`
	MaxLength   *int64  `json:"maxLength,omitempty"`
}

type SchemaCIDLink struct {
	Type        string  `json:"type"` // "cid-link"
	Description *string `json:"description,omitempty"`
}

type SchemaArray struct {
	Type        string    `json:"type"` // "array"
	Description *string   `json:"description,omitempty"`
	Items       SchemaDef `json:"items"`
	MinLength   *int64    `json:"minLength,omitempty"`
	MaxLength   *int64    `json:"maxLength,omitempty"`
}

type SchemaObject struct {
	Type        string       `json:"type"` // "object"
	Description *string      `json:"description,omitempty"`
	Properties  *OrderedDefs `json:"properties"`
	Required    []string     `json:"required,omitempty"`
	Nullable    []string     `json:"nullable,omitempty"`
}

func (s *SchemaObject) IsRequired(name string) bool {
	return contains(s.Required, name)
}

func (s *SchemaObject) IsNullable(name string) bool {
	return contains(s.Nullable, name)
}

type SchemaBlob struct {
	Type        string   `json:"type"` // "blob"
	Description *string  `json:"description,omitempty"`
	Accept      []string `json:"accept,omitempty"`
	MaxSize     *int64   `json:"maxSize,omitempty"`
}

type SchemaParams struct {
	Type        string       `json:"type"` // "params"
	Description *string      `json:"description,omitempty"`
	Properties  *OrderedDefs `json:"properties"`
	Required    []string     `json:"required,omitempty"`
}

func (s *SchemaParams) IsRequired(name string) bool {
	return contains(s.Required, name)
}

type SchemaToken struct {
	Type        string  `json:"type"` // "token"
	Description *string `json:"description,omitempty"`
}

type SchemaRef struct {
	Type        string  `json:"type"` // "ref"
	Description *string `json:"description,omitempty"`
	Ref         string  `json:"ref"`
}

type SchemaUnion struct {
	Type        string   `json:"type"` // "union"
	Description *string  `json:"description,omitempty"`
	Refs        []string `json:"refs"`
	// nil means "open"
	Closed *bool `json:"closed,omitempty"`
}

func (s *SchemaUnion) IsClosed() bool {
	return s.Closed != nil && *s.Closed
}

type SchemaUnknown struct {
	Type        string  `json:"type"` // "unknown"
	Description *string `json:"description,omitempty"`
}

func contains(l []string, s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
