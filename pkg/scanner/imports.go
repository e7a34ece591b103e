package scanner

import (
	"fmt"
	"regexp"
	"strings"
)

// Default path conventions.
const (
	DefaultAlias         = "~"
	DefaultExtension     = ".vue"
	DefaultComponentsDir = "components"
	DefaultCardsDir      = "components/Cards"
)

// DefaultCardComponents are the card components that live under the cards
// directory instead of the top-level components directory.
var DefaultCardComponents = []string{
	"LoadingCard",
	"SimpleCard",
	"CardWithLoadingBackground",
	"CancelCard",
}

// ImportTable classifies tag names into import statements. Rules are tried
// in order and the first match wins; the last rule should be a catch-all.
type ImportTable struct {
	Rules     []ImportRule
	Alias     string
	Extension string
}

// TableOptions customizes DefaultImportTable. Zero values keep the defaults.
type TableOptions struct {
	Alias          string
	Extension      string
	ComponentsDir  string
	CardsDir       string
	CardComponents []string
}

// DefaultImportTable returns the standard classification: card components,
// framework primitives, router primitives, then local components.
func DefaultImportTable() *ImportTable {
	return NewImportTable(TableOptions{})
}

// NewImportTable builds the standard rule list with opts applied. Extra card
// component names are added to the defaults, not substituted for them.
func NewImportTable(opts TableOptions) *ImportTable {
	if opts.Alias == "" {
		opts.Alias = DefaultAlias
	}
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if opts.ComponentsDir == "" {
		opts.ComponentsDir = DefaultComponentsDir
	}
	if opts.CardsDir == "" {
		opts.CardsDir = DefaultCardsDir
	}

	cards := append([]string(nil), DefaultCardComponents...)
	for _, c := range opts.CardComponents {
		if !contains(cards, c) {
			cards = append(cards, c)
		}
	}

	return &ImportTable{
		Alias:     opts.Alias,
		Extension: opts.Extension,
		Rules: []ImportRule{
			{Name: "card", Names: cards, Kind: DefaultImport, Source: opts.CardsDir},
			{Name: "vue", Names: []string{"Transition", "TransitionGroup", "Teleport"}, Kind: NamedImport, Source: "vue"},
			{Name: "vue-router", Names: []string{"RouterLink", "RouterView"}, Kind: NamedImport, Source: "vue-router"},
			{Name: "component", Kind: DefaultImport, Source: opts.ComponentsDir},
		},
	}
}

// Classify returns the first rule that matches name. The bool is false only
// for a table without a catch-all rule.
func (t *ImportTable) Classify(name string) (ImportRule, bool) {
	for _, r := range t.Rules {
		if r.Matches(name) {
			return r, true
		}
	}
	return ImportRule{}, false
}

// Statement renders the import statement for a tag name. A name no rule
// matches falls back to a local component import.
func (t *ImportTable) Statement(name string) string {
	name = strings.TrimSpace(name)
	rule, ok := t.Classify(name)
	if !ok {
		rule = ImportRule{Kind: DefaultImport, Source: DefaultComponentsDir}
	}
	return t.render(rule, name)
}

func (t *ImportTable) render(rule ImportRule, name string) string {
	if rule.Kind == NamedImport {
		return fmt.Sprintf("import { %s } from '%s';", name, rule.Source)
	}

	path := strings.Trim(rule.Source, "/")
	if t.Alias != "" {
		path = t.Alias + "/" + path
	}
	return fmt.Sprintf("import %s from '%s/%s%s';", name, path, name, t.Extension)
}

// Synthesize returns an import for every tag that text does not import yet,
// in tag order.
func (t *ImportTable) Synthesize(text string, tags []string) []ComponentImport {
	imported := ImportedNames(text)

	var out []ComponentImport
	for _, tag := range tags {
		if _, ok := imported[tag]; ok {
			continue
		}
		rule, _ := t.Classify(tag)
		out = append(out, ComponentImport{
			Tag:       tag,
			Rule:      rule.Name,
			Statement: t.Statement(tag),
		})
	}
	return out
}

var (
	importClause = regexp.MustCompile(`\bimport\s+([^'";]+?)\s+from\s*['"]`)
	bindingName  = regexp.MustCompile(`[\w$]+`)
)

// ImportedNames returns the local binding names introduced by import
// statements in text. For `import { A as B }` the local name B is reported.
func ImportedNames(text string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, m := range importClause.FindAllStringSubmatch(text, -1) {
		clause := m[1]
		for _, spec := range strings.Split(strings.NewReplacer("{", ",", "}", ",").Replace(clause), ",") {
			spec = strings.TrimSpace(spec)
			if spec == "" {
				continue
			}
			spec = strings.TrimPrefix(spec, "type ")
			if i := strings.Index(spec, " as "); i >= 0 {
				spec = spec[i+len(" as "):]
			}
			if id := bindingName.FindString(spec); id != "" && id != "type" {
				names[id] = struct{}{}
			}
		}
	}
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
