package render

import (
	"strings"
)

// DefaultEmitBinding names the emit function when the source did not assign one.
const DefaultEmitBinding = "emit"

// Emits renders a typed defineEmits declaration with one call signature per
// event, in order. An empty binding falls back to DefaultEmitBinding.
func Emits(binding string, events []string) string {
	if binding == "" {
		binding = DefaultEmitBinding
	}

	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = EventSignature(e)
	}

	var b strings.Builder
	b.WriteString("const ")
	b.WriteString(binding)
	b.WriteString(" = defineEmits<{\n  ")
	b.WriteString(strings.Join(lines, "\n  "))
	b.WriteString("\n}>()")
	return b.String()
}

var singleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// EventSignature renders the call signature for one event with no payload.
func EventSignature(event string) string {
	return "(e: '" + singleQuoteEscaper.Replace(event) + "'): void;"
}
