package transform

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gnana997/sfcfix/pkg/document"
	"github.com/gnana997/sfcfix/pkg/extractor"
	"github.com/gnana997/sfcfix/pkg/render"
	"github.com/gnana997/sfcfix/pkg/scanner"
	"github.com/gnana997/sfcfix/pkg/scripttag"
)

// Verifier checks a rendered declaration before it is written.
type Verifier interface {
	Verify(src string) error
}

// Migrator computes edit batches for both migrations. All methods are pure
// functions of their input text and safe for concurrent use.
type Migrator struct {
	cfg      Config
	logger   *slog.Logger
	verifier Verifier
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithLogger sets the logger used for skipped stages.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Migrator) { m.logger = logger }
}

// WithVerifier makes ConvertEdits drop rendered declarations that v rejects.
func WithVerifier(v Verifier) Option {
	return func(m *Migrator) { m.verifier = v }
}

// NewMigrator creates a Migrator. Zero fields of cfg take their defaults,
// except Qualifier, which is taken as given.
func NewMigrator(cfg Config, opts ...Option) *Migrator {
	if cfg.Lang == "" {
		cfg.Lang = scripttag.DefaultLang
	}
	if cfg.Imports == nil {
		cfg.Imports = scanner.DefaultImportTable()
	}

	m := &Migrator{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Config returns the migrator's configuration.
func (m *Migrator) Config() Config {
	return m.cfg
}

// MissingImports returns the imports text needs for the component tags it
// uses but does not import yet.
func (m *Migrator) MissingImports(text string) []scanner.ComponentImport {
	return m.cfg.Imports.Synthesize(text, scanner.ScanTags(text))
}

// ImportEdits returns the insertion that adds every missing import. The
// statements go on their own lines right after the first script opening tag,
// or at the end of the first line when there is none.
func (m *Migrator) ImportEdits(text string) []document.Edit {
	imports := m.MissingImports(text)
	if len(imports) == 0 {
		return nil
	}

	statements := make([]string, len(imports))
	for i, imp := range imports {
		statements[i] = imp.Statement
	}

	at := importOffset(text)
	return []document.Edit{{
		Start: at,
		End:   at,
		Text:  "\n" + strings.Join(statements, "\n") + "\n",
	}}
}

func importOffset(text string) int {
	if tag, ok := scripttag.Find(text); ok {
		return tag.End
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return i
	}
	return len(text)
}

// ConvertEdits returns the batch that migrates text to typed declarations:
// the script tag marker, the props block, the emits block and the qualifier
// strip. Each stage is independent; one that finds nothing adds no edit.
func (m *Migrator) ConvertEdits(text string) []document.Edit {
	var edits []document.Edit

	add := func(stage string, e document.Edit) {
		if document.Overlaps(edits, e.Start, e.End) {
			m.skip(stage, "overlaps an earlier edit")
			return
		}
		edits = append(edits, e)
	}

	if e, ok := scripttag.Annotate(text, m.cfg.Lang); ok {
		add("script-tag", e)
	}

	if block, err := extractor.ExtractProps(text); err != nil {
		m.skipErr("props", err)
	} else if out, ok := m.checked("props", render.Props(block.Schema)); ok {
		add("props", document.Edit{Start: block.Span.Start, End: block.Span.End, Text: out})
	}

	if block, err := extractor.ExtractEmits(text); err != nil {
		m.skipErr("emits", err)
	} else if out, ok := m.checked("emits", render.Emits(block.Span.Binding, block.Events)); ok {
		add("emits", document.Edit{Start: block.Span.Start, End: block.Span.End, Text: out})
	}

	edits = append(edits, m.qualifierEdits(text, edits)...)
	return edits
}

// qualifierEdits deletes every `<qualifier>.` that starts a member access and
// is not inside a span already being replaced.
func (m *Migrator) qualifierEdits(text string, replaced []document.Edit) []document.Edit {
	if m.cfg.Qualifier == "" {
		return nil
	}
	needle := m.cfg.Qualifier + "."

	var edits []document.Edit
	for from := 0; ; {
		i := strings.Index(text[from:], needle)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(needle)
		from = end

		if start > 0 && isMemberPrefix(text[start-1]) {
			continue
		}
		if document.Overlaps(replaced, start, end) {
			continue
		}
		edits = append(edits, document.Edit{Start: start, End: end})
	}
	return edits
}

// isMemberPrefix reports whether c, directly before the qualifier, makes it
// part of a longer name or a property of something else.
func isMemberPrefix(c byte) bool {
	return c == '.' || c == '$' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (m *Migrator) checked(stage, rendered string) (string, bool) {
	if m.verifier == nil {
		return rendered, true
	}
	if err := m.verifier.Verify(rendered); err != nil {
		m.logger.Warn("rendered declaration rejected", "stage", stage, "error", err)
		return "", false
	}
	return rendered, true
}

func (m *Migrator) skipErr(stage string, err error) {
	if errors.Is(err, extractor.ErrBlockNotFound) {
		m.skip(stage, "no declaration block")
		return
	}
	m.skip(stage, err.Error())
}

func (m *Migrator) skip(stage, reason string) {
	m.logger.Debug("stage skipped", "stage", stage, "reason", reason)
}

// CleanupComponents inserts the missing component imports into the host's
// active document. Without an active document it does nothing.
func (m *Migrator) CleanupComponents(ctx context.Context, host document.Host) error {
	return m.apply(ctx, host, m.ImportEdits)
}

// ConvertToTyped migrates the host's active document to typed declarations.
// Without an active document it does nothing.
func (m *Migrator) ConvertToTyped(ctx context.Context, host document.Host) error {
	return m.apply(ctx, host, m.ConvertEdits)
}

func (m *Migrator) apply(ctx context.Context, host document.Host, plan func(string) []document.Edit) error {
	doc, ok := host.ActiveDocument()
	if !ok {
		m.logger.Debug("no active document")
		return nil
	}
	return doc.Apply(ctx, plan(doc.Text()))
}
