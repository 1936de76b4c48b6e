package lexicon

import (
	"errors"
	"fmt"
)

// Wrapped by every structural decoding failure (bad document syntax, unknown "type", missing or mis-typed field).
var ErrStructuralDecode = errors.New("lexicon structural decode error")

// Returned by a Catalog when a reference does not resolve to any known definition.
var ErrSchemaNotFound = errors.New("schema not found in catalog")

// Structural decode failure at a specific location in a schema document.
type DecodeError struct {
	// dotted path to the failing node, eg "defs.main.record.properties.tags.items"
	Path string
	Msg  string
	Err  error
}

func (e *DecodeError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg != "" {
			msg = msg + ": " + e.Err.Error()
		} else {
			msg = e.Err.Error()
		}
	}
	if e.Path == "" {
		return fmt.Sprintf("lexicon decode: %s", msg)
	}
	return fmt.Sprintf("lexicon decode (%s): %s", e.Path, msg)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrStructuralDecode
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
