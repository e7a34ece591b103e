package transform

import (
	"errors"

	"github.com/gnana997/sfcfix/pkg/extractor"
	"github.com/gnana997/sfcfix/pkg/scanner"
	"github.com/gnana997/sfcfix/pkg/scripttag"
)

// ScriptChecker checks a script block body written in lang (the value of
// its lang attribute, "" for none). A Verifier that also implements it lets
// Scan report syntax errors.
type ScriptChecker interface {
	CheckScript(body, lang string) error
}

// Report describes what the migrations would find in a component.
type Report struct {
	Tags   []TagReport  `json:"tags"`
	Script ScriptReport `json:"script"`
	Props  BlockReport  `json:"props"`
	Emits  BlockReport  `json:"emits"`
}

// TagReport is one component tag and the import it maps to.
type TagReport struct {
	Tag       string `json:"tag"`
	Rule      string `json:"rule"`
	Statement string `json:"statement"`
	Imported  bool   `json:"imported"`
}

// ScriptReport describes the first script block.
type ScriptReport struct {
	Present     bool   `json:"present"`
	Lang        string `json:"lang,omitempty"`
	SyntaxError string `json:"syntax_error,omitempty"`
}

// BlockReport describes a runtime declaration block.
type BlockReport struct {
	Found bool     `json:"found"`
	Names []string `json:"names,omitempty"`
	Error string   `json:"error,omitempty"`
}

// Scan reports the tags, script block and declaration blocks in text without
// changing anything.
func (m *Migrator) Scan(text string) Report {
	var r Report

	missing := make(map[string]string)
	for _, imp := range m.MissingImports(text) {
		missing[imp.Tag] = imp.Statement
	}
	for _, tag := range scanner.ScanTags(text) {
		rule, _ := m.cfg.Imports.Classify(tag)
		_, needed := missing[tag]
		r.Tags = append(r.Tags, TagReport{
			Tag:       tag,
			Rule:      rule.Name,
			Statement: m.cfg.Imports.Statement(tag),
			Imported:  !needed,
		})
	}

	if tag, ok := scripttag.Find(text); ok {
		r.Script = ScriptReport{Present: true, Lang: tag.Lang()}
		if checker, ok := m.verifier.(ScriptChecker); ok {
			start, end := tag.Body(text)
			if err := checker.CheckScript(text[start:end], r.Script.Lang); err != nil {
				r.Script.SyntaxError = err.Error()
			}
		}
	}

	if block, err := extractor.ExtractProps(text); err == nil {
		r.Props = BlockReport{Found: true, Names: block.Schema.Keys()}
	} else {
		r.Props = blockError(err)
	}
	if block, err := extractor.ExtractEmits(text); err == nil {
		r.Emits = BlockReport{Found: true, Names: block.Events}
	} else {
		r.Emits = blockError(err)
	}
	return r
}

func blockError(err error) BlockReport {
	if errors.Is(err, extractor.ErrBlockNotFound) {
		return BlockReport{}
	}
	return BlockReport{Found: true, Error: err.Error()}
}
