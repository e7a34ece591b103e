// Package scripttag adds a language attribute to a component's script tag.
package scripttag

import (
	"regexp"
	"strings"

	"github.com/gnana997/sfcfix/pkg/document"
)

// DefaultLang is the language marker written by Annotate callers that do not
// configure one.
const DefaultLang = "ts"

var (
	openTag = regexp.MustCompile(`<script(\s[^>]*)?>`)
	// attrToken matches one attribute, with or without a value.
	attrToken = regexp.MustCompile(`[^\s=]+(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'=]+))?`)
	// attrAssign matches the name and the spacing around its `=`.
	attrAssign = regexp.MustCompile(`^([^\s=]+)\s*=\s*`)
)

// Tag is the first opening script tag of a document.
type Tag struct {
	Start int
	End   int
	// Attrs holds the attributes in order, one token each, written as
	// name=value with no spacing around `=`.
	Attrs []string
}

// Find returns the first `<script ...>` opening tag in text.
func Find(text string) (Tag, bool) {
	m := openTag.FindStringSubmatchIndex(text)
	if m == nil {
		return Tag{}, false
	}

	tag := Tag{Start: m[0], End: m[1]}
	if m[2] >= 0 {
		tag.Attrs = splitAttrs(text[m[2]:m[3]])
	}
	return tag, true
}

func splitAttrs(s string) []string {
	tokens := attrToken.FindAllString(s, -1)
	for i, tok := range tokens {
		tokens[i] = attrAssign.ReplaceAllString(tok, "${1}=")
	}
	return tokens
}

// HasLang reports whether the tag already declares lang, quoted or not.
func (t Tag) HasLang(lang string) bool {
	return t.Lang() == lang
}

// Render re-emits the tag with lang placed right after the tag name. Any other
// lang attribute is dropped; the remaining tokens keep their order.
func (t Tag) Render(lang string) string {
	parts := []string{"<script", `lang="` + lang + `"`}
	for _, a := range t.Attrs {
		if strings.HasPrefix(a, "lang=") {
			continue
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ") + ">"
}

// Annotate returns the edit that marks the first script tag as lang. It
// returns false when there is no script tag or the marker is already present.
func Annotate(text, lang string) (document.Edit, bool) {
	if lang == "" {
		lang = DefaultLang
	}

	tag, ok := Find(text)
	if !ok || tag.HasLang(lang) {
		return document.Edit{}, false
	}
	return document.Edit{Start: tag.Start, End: tag.End, Text: tag.Render(lang)}, true
}

// Lang returns the value of the tag's lang attribute, or "" when absent.
func (t Tag) Lang() string {
	for _, a := range t.Attrs {
		v, ok := strings.CutPrefix(a, "lang=")
		if !ok {
			continue
		}
		if len(v) >= 2 {
			if q := v[0]; (q == '"' || q == '\'') && v[len(v)-1] == q {
				return v[1 : len(v)-1]
			}
		}
		return v
	}
	return ""
}

// Body returns the byte range of the script content that follows the tag, up
// to the next closing tag. An unclosed tag runs to the end of text.
func (t Tag) Body(text string) (start, end int) {
	start = t.End
	if i := strings.Index(text[start:], "</script>"); i >= 0 {
		return start, start + i
	}
	return start, len(text)
}
