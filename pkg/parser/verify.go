package parser

import (
	"errors"
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// ErrSyntax is matched by every *SyntaxError.
var ErrSyntax = errors.New("syntax error")

// SyntaxError is the first error or missing node found in a parse tree.
// Line and Column are 1-based.
type SyntaxError struct {
	Language Language
	Line     int
	Column   int
	Missing  bool
}

func (e *SyntaxError) Error() string {
	what := "unexpected input"
	if e.Missing {
		what = "missing token"
	}
	return fmt.Sprintf("%s %s: %s at %d:%d", e.Language, ErrSyntax, what, e.Line, e.Column)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Verifier checks code fragments for syntax errors.
type Verifier struct {
	manager *ParserManager
	logger  *slog.Logger
}

// NewVerifier creates a verifier backed by manager.
func NewVerifier(manager *ParserManager, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{manager: manager, logger: logger}
}

// Verify parses src as TypeScript.
func (v *Verifier) Verify(src string) error {
	return v.Check(src, LanguageTypeScript, false)
}

// Check parses src with the given grammar and returns a *SyntaxError
// describing the first problem, or nil when the tree is clean.
func (v *Verifier) Check(src string, lang Language, isTSX bool) error {
	tree, err := v.manager.Parse([]byte(src), lang, isTSX)
	if err != nil {
		return err
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	bad := firstErrorNode(root)
	if bad == nil {
		bad = root
	}
	pos := bad.StartPosition()
	serr := &SyntaxError{
		Language: lang,
		Line:     int(pos.Row) + 1,
		Column:   int(pos.Column) + 1,
		Missing:  bad.IsMissing(),
	}
	v.logger.Debug("syntax check failed", "error", serr)
	return serr
}

// firstErrorNode returns the first ERROR or MISSING node in document order.
func firstErrorNode(node *ts.Node) *ts.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// CheckScript checks a script block body given the value of its lang
// attribute.
func (v *Verifier) CheckScript(body, lang string) error {
	l, isTSX := ScriptLanguage(lang)
	if l == LanguageUnknown {
		return fmt.Errorf("unsupported script language %q", lang)
	}
	return v.Check(body, l, isTSX)
}
