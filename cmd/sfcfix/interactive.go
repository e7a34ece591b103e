package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/gnana997/sfcfix/pkg/document"
)

// confirmFunc asks a yes/no question.
type confirmFunc func(message string) (bool, error)

func surveyConfirm(message string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{Message: message, Default: true}, &ok)
	return ok, err
}

// confirmDocument shows a batch of edits and applies it only when the user
// agrees. A declined batch leaves the file untouched.
type confirmDocument struct {
	*document.File
	confirm confirmFunc
	out     io.Writer
}

func (d *confirmDocument) Apply(ctx context.Context, edits []document.Edit) error {
	if len(edits) == 0 {
		return nil
	}
	next, err := document.ApplyEdits(d.Text(), edits)
	if err != nil {
		return err
	}
	if next == d.Text() {
		return nil
	}

	describeEdits(d.out, d.Path, d.Text(), edits)
	ok, err := d.confirm(fmt.Sprintf("Apply %d edit(s) to %s?", len(edits), d.Path))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return d.File.Apply(ctx, edits)
}

// describeEdits prints each edit with its line number, the text it removes
// and the text it inserts.
func describeEdits(w io.Writer, path, text string, edits []document.Edit) {
	fmt.Fprintf(w, "%s\n", path)
	for _, e := range edits {
		line := strings.Count(text[:e.Start], "\n") + 1
		fmt.Fprintf(w, "  line %d\n", line)
		if old := text[e.Start:e.End]; old != "" {
			writePrefixed(w, "  - ", old)
		}
		if e.Text != "" {
			writePrefixed(w, "  + ", e.Text)
		}
	}
}

func writePrefixed(w io.Writer, prefix, s string) {
	for _, l := range strings.Split(strings.Trim(s, "\n"), "\n") {
		fmt.Fprintf(w, "%s%s\n", prefix, l)
	}
}
