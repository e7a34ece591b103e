package extractor

import (
	"fmt"

	"github.com/gnana997/sfcfix/pkg/literal"
)

// Call-site keywords of the two declaration macros.
const (
	PropsKeyword = "defineProps"
	EmitsKeyword = "defineEmits"
)

// PropsBlock is a located and parsed defineProps({...}) call.
type PropsBlock struct {
	Span   BlockSpan
	Schema SchemaMapping
}

// EmitsBlock is a located and parsed defineEmits([...]) call.
type EmitsBlock struct {
	Span   BlockSpan
	Events []string
}

// ExtractProps locates the runtime props declaration in text and reads its
// schema. It returns ErrBlockNotFound when there is no such call and an error
// wrapping ErrMalformedBlock when the argument cannot be read.
func ExtractProps(text string) (*PropsBlock, error) {
	span, ok := Locate(text, PropsKeyword, Braces)
	if !ok {
		return nil, ErrBlockNotFound
	}

	schema, err := ExtractSchema(span.Inner)
	if err != nil {
		return nil, err
	}
	return &PropsBlock{Span: span, Schema: schema}, nil
}

// ExtractEmits locates the runtime emits declaration in text and reads the
// event names.
func ExtractEmits(text string) (*EmitsBlock, error) {
	span, ok := Locate(text, EmitsKeyword, Square)
	if !ok {
		return nil, ErrBlockNotFound
	}

	events, err := ExtractEvents(span.Inner)
	if err != nil {
		return nil, err
	}
	return &EmitsBlock{Span: span, Events: events}, nil
}

// ExtractSchema reads the inner text of a props object literal.
//
// Each field is either a descriptor object ({ type, default, ... }) or the
// shorthand form where the value is the type itself (String, [String, Number]).
func ExtractSchema(inner string) (SchemaMapping, error) {
	obj, err := literal.Parse("{" + inner + "\n}")
	if err != nil {
		return SchemaMapping{}, fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}

	fields := obj.Fields()
	mapping := SchemaMapping{Fields: make([]FieldDescriptor, 0, len(fields))}
	for _, f := range fields {
		fd, err := describe(f.Key, f.Value)
		if err != nil {
			return SchemaMapping{}, err
		}
		mapping.Fields = append(mapping.Fields, fd)
	}
	return mapping, nil
}

// describe reads one prop. A descriptor whose type cannot be read from the
// literal (a variable, a call, a method) makes the whole block malformed.
func describe(key string, v literal.Value) (FieldDescriptor, error) {
	fd := FieldDescriptor{Key: key}

	if v.Kind != literal.KindObject {
		if !readableType(v) {
			return fd, fmt.Errorf("%w: prop %q: unreadable descriptor %q", ErrMalformedBlock, key, v.Source)
		}
		fd.Type = typeSpec(v)
		return fd, nil
	}

	if def, ok := v.Get("default"); ok && !def.IsNullish() {
		if def.Shorthand {
			return fd, fmt.Errorf("%w: prop %q: shorthand default", ErrMalformedBlock, key)
		}
		fd.HasDefault = true
		fd.Default = def
	}
	if t, ok := v.Get("type"); ok {
		if !readableType(t) {
			return fd, fmt.Errorf("%w: prop %q: unreadable type %q", ErrMalformedBlock, key, t.Source)
		}
		fd.Type = typeSpec(t)
	}
	return fd, nil
}

// readableType reports whether v is a type tag, a list of them, or null.
func readableType(v literal.Value) bool {
	switch {
	case v.Shorthand:
		return false
	case v.Kind == literal.KindIdent, v.IsNullish():
		return true
	case v.Kind == literal.KindArray:
		for _, e := range v.Elems {
			if e.Kind != literal.KindIdent {
				return false
			}
		}
		return true
	}
	return false
}

func typeSpec(v literal.Value) TypeSpec {
	switch v.Kind {
	case literal.KindArray:
		spec := TypeSpec{Union: true, Tags: make([]TypeTag, len(v.Elems))}
		for i, e := range v.Elems {
			spec.Tags[i] = tagOf(e)
		}
		return spec
	default:
		return TypeSpec{Tags: []TypeTag{tagOf(v)}}
	}
}

// tagOf returns the identifier used as a type, or "" for anything that is not
// a bare identifier.
func tagOf(v literal.Value) TypeTag {
	if v.Kind == literal.KindIdent {
		return TypeTag(v.Str)
	}
	return ""
}

// ExtractEvents reads the inner text of an emits array literal. Every element
// must be a string literal.
func ExtractEvents(inner string) ([]string, error) {
	arr, err := literal.Parse("[" + inner + "\n]")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}

	events := make([]string, 0, len(arr.Elems))
	for i, e := range arr.Elems {
		if e.Kind != literal.KindString {
			return nil, fmt.Errorf("%w: element %d is %s, want string", ErrMalformedBlock, i, e.Kind)
		}
		events = append(events, e.Str)
	}
	return events, nil
}
