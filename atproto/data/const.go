package data

const (
	// maximum serialized size of a schema document, in any supported format
	MAX_DOCUMENT_SIZE = 5 * 1024 * 1024
	// maximum size of any individual string inside a document
	MAX_STRING_LEN = 1 * 1024 * 1024
	// limit on depth of nested containers (objects or arrays)
	MAX_NESTED_LEVELS = 64
	// maximum number of elements in an object or array
	MAX_CONTAINER_LEN = 128 * 1024
	// maximum number of values in a decoded document, counting every expansion of a YAML alias
	MAX_DOCUMENT_VALUES = 1024 * 1024
	// maximum length of string (UTF-8 bytes) of an object key
	MAX_OBJECT_KEY_LEN = 8192
)
