package parser

import "strings"

// Language is a script grammar the parser can load.
type Language int

const (
	// LanguageTypeScript covers lang="ts" and lang="tsx" script blocks.
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers script blocks with no lang attribute.
	LanguageJavaScript
	// LanguageUnknown is any other lang value (coffee, etc).
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// ScriptLanguage maps the value of a script tag's lang attribute to a grammar.
// An empty value is JavaScript. The bool reports whether JSX is enabled.
func ScriptLanguage(lang string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "js", "javascript", "jsx":
		return LanguageJavaScript, false
	case "ts", "typescript":
		return LanguageTypeScript, false
	case "tsx":
		return LanguageTypeScript, true
	default:
		return LanguageUnknown, false
	}
}
