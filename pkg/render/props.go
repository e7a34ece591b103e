// Package render turns extracted declaration schemas into the type-based
// declaration syntax.
package render

import (
	"strings"

	"github.com/gnana997/sfcfix/pkg/extractor"
	"github.com/gnana997/sfcfix/pkg/literal"
)

// primitiveTypes maps the known constructor tags to TypeScript types.
var primitiveTypes = map[extractor.TypeTag]string{
	extractor.TagString:  "string",
	extractor.TagNumber:  "number",
	extractor.TagBoolean: "boolean",
	extractor.TagObject:  "Record<string, unknown>",
}

const unknownType = "unknown"

// Props renders a typed defineProps declaration that destructures every prop,
// with defaults, in schema order.
func Props(schema extractor.SchemaMapping) string {
	defaults := make([]string, schema.Len())
	types := make([]string, schema.Len())
	for i, f := range schema.Fields {
		defaults[i] = DefaultClause(f)
		types[i] = TypeClause(f)
	}

	var b strings.Builder
	b.WriteString("const {\n  ")
	b.WriteString(strings.Join(defaults, ",\n  "))
	b.WriteString("\n} = defineProps<{\n  ")
	b.WriteString(strings.Join(types, ";\n  "))
	b.WriteString("\n}>()")
	return b.String()
}

// DefaultClause renders the destructuring entry for one prop: the bare key, or
// `key = <default>` when the schema declares a default.
func DefaultClause(f extractor.FieldDescriptor) string {
	if !f.HasDefault {
		return f.Key
	}
	return f.Key + " = " + Default(f.Default)
}

// Default renders a default value. Strings are re-quoted with double quotes
// and a method-form factory becomes an arrow function; every other literal
// keeps its source text.
func Default(v literal.Value) string {
	switch {
	case v.Kind == literal.KindString:
		return quote(v.Str)
	case v.Method:
		return v.Str
	}
	return v.Source
}

// TypeClause renders the type-literal member for one prop. Props with a
// default are optional.
func TypeClause(f extractor.FieldDescriptor) string {
	key := f.Key
	if f.HasDefault {
		key += "?"
	}
	return key + ": " + Type(f.Type)
}

// Type renders a type spec. A union renders as an array of the union.
func Type(spec extractor.TypeSpec) string {
	if !spec.Union {
		if len(spec.Tags) == 0 {
			return unknownType
		}
		return primitive(spec.Tags[0])
	}

	members := make([]string, len(spec.Tags))
	for i, tag := range spec.Tags {
		members[i] = primitive(tag)
	}
	if len(members) == 0 {
		return unknownType + "[]"
	}
	return "(" + strings.Join(members, "|") + ")[]"
}

func primitive(tag extractor.TypeTag) string {
	if t, ok := primitiveTypes[tag]; ok {
		return t
	}
	return unknownType
}

var doubleQuoteEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quote(s string) string {
	return `"` + doubleQuoteEscaper.Replace(s) + `"`
}
