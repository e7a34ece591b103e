// Package literal reads the object and array literals found in component
// declaration blocks without evaluating them.
//
// The grammar is the literal subset of JavaScript: objects, arrays, strings,
// numbers, true/false/null/undefined and bare identifiers (type tags such as
// String or Number). Anything else in value position, like an arrow function
// used as a default factory, is kept verbatim as a Raw value. Object members
// may also use the shorthand and method forms.
package literal

// Kind classifies a parsed Value.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
	KindUndefined
	KindIdent
	KindRaw
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindIdent:
		return "identifier"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Value is one parsed literal.
type Value struct {
	Kind Kind

	// Source is the exact text the value was parsed from.
	Source string

	// Str holds the decoded contents of a string or the name of an identifier.
	Str string

	Num  float64
	Bool bool

	// Elems holds array elements in order.
	Elems []Value

	// Method marks a Raw value written as an object method, `name(args) {...}`.
	// Source keeps the member as written; Str holds the equivalent arrow
	// function, `(args) => {...}`.
	Method bool

	// Shorthand marks an identifier written as a shorthand property, `{ name }`.
	Shorthand bool

	fields []Field
}

// Field is one key of an object literal.
type Field struct {
	Key   string
	Value Value
}

// Fields returns the object's fields in source order. A key that appears
// twice keeps its first position and its last value.
func (v Value) Fields() []Field {
	return v.fields
}

// Keys returns the object's keys in source order.
func (v Value) Keys() []string {
	keys := make([]string, len(v.fields))
	for i, f := range v.fields {
		keys[i] = f.Key
	}
	return keys
}

// Get looks up a key of an object value.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// IsNullish reports whether the value is null or undefined.
func (v Value) IsNullish() bool {
	return v.Kind == KindNull || v.Kind == KindUndefined
}

func (v *Value) set(key string, val Value) {
	for i := range v.fields {
		if v.fields[i].Key == key {
			v.fields[i].Value = val
			return
		}
	}
	v.fields = append(v.fields, Field{Key: key, Value: val})
}
