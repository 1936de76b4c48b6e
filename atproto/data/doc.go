/*
Package data supports schema-less, order-preserving deserialization of Lexicon schema documents

Lexicon documents are JSON (or YAML) objects whose key order is meaningful: definitions, object
properties, and parameters are all emitted in the order they were written. The standard library
decodes objects in to map[string]any, which loses that order, so this package has its own generic
object type (Object) which keeps keys in insertion order.

Values inside an Object are one of: nil, bool, int64, float64, string, []any, or *Object. Integral
numbers are always int64; other numbers are float64.

Both decoders enforce a small number of limits on the shape of the data (container sizes, key
lengths, nesting depth), similar to the atproto data model.
*/
package data
