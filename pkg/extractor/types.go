// Package extractor finds declaration blocks in component source and reads
// the runtime prop and emit schemas they contain.
package extractor

import (
	"errors"

	"github.com/gnana997/sfcfix/pkg/literal"
)

var (
	// ErrBlockNotFound means the declaration call does not appear in the text.
	ErrBlockNotFound = errors.New("declaration block not found")
	// ErrMalformedBlock means the call was found but its argument could not be read.
	ErrMalformedBlock = errors.New("malformed declaration block")
)

// TypeTag names the constructor used as a runtime type in a prop schema.
type TypeTag string

// The four constructors that map to a TypeScript primitive. Any other
// identifier (Array, Function, Date, a class name) is carried as-is and
// renders as unknown.
const (
	TagString  TypeTag = "String"
	TagNumber  TypeTag = "Number"
	TagBoolean TypeTag = "Boolean"
	TagObject  TypeTag = "Object"
)

// TypeSpec is the declared type of a prop: one tag, or an ordered list of tags
// when the schema used an array.
type TypeSpec struct {
	Tags  []TypeTag
	Union bool
}

// FieldDescriptor describes one declared prop.
type FieldDescriptor struct {
	Key string

	// HasDefault is true iff the schema declares a default that is neither
	// null nor undefined.
	HasDefault bool
	Default    literal.Value

	Type TypeSpec
}

// SchemaMapping is the ordered set of props from one defineProps block.
// Order follows the source and decides the order of the rendered output.
type SchemaMapping struct {
	Fields []FieldDescriptor
}

// Keys returns the prop names in order.
func (m SchemaMapping) Keys() []string {
	keys := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the descriptor for key.
func (m SchemaMapping) Get(key string) (FieldDescriptor, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Len returns the number of props.
func (m SchemaMapping) Len() int {
	return len(m.Fields)
}

// Brackets is the bracket pair that wraps a declaration call's argument.
type Brackets struct {
	Open  byte
	Close byte
}

var (
	Braces = Brackets{Open: '{', Close: '}'}
	Square = Brackets{Open: '[', Close: ']'}
)

// BlockSpan locates a declaration call in a text snapshot.
type BlockSpan struct {
	// Start and End delimit the whole construct, assignment prefix included,
	// as a half-open byte range.
	Start int
	End   int

	// Inner is the text between the brackets; InnerStart is its offset.
	Inner      string
	InnerStart int

	// Binding is the name from a leading `const <name> = `, or "".
	Binding string
}
