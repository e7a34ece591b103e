package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gnana997/sfcfix/pkg/scanner"
	"github.com/gnana997/sfcfix/pkg/transform"
	"github.com/gnana997/sfcfix/pkg/util"
)

// fileReport pairs a scanned file with its report.
type fileReport struct {
	File string `json:"file"`
	transform.Report
}

// runScan prints what the migrations would find in each target without
// changing anything.
func (a *app) runScan(paths []string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	files, err := scanner.ResolveTargets(paths, a.project.scanConfig())
	if err != nil {
		return err
	}

	reports := make([]fileReport, 0, len(files))
	for _, f := range files {
		text, err := util.ReadSource(f, a.logger)
		if err != nil {
			return err
		}
		reports = append(reports, fileReport{File: f, Report: a.migrator.Scan(text)})
	}

	if a.opts.json {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, r := range reports {
		printReport(a.stdout, r)
	}
	return nil
}

func printReport(w io.Writer, r fileReport) {
	fmt.Fprintln(w, r.File)

	script := "none"
	if r.Script.Present {
		script = "lang=" + r.Script.Lang
		if r.Script.Lang == "" {
			script = "no lang"
		}
		if r.Script.SyntaxError != "" {
			script += " (" + r.Script.SyntaxError + ")"
		}
	}
	fmt.Fprintf(w, "  script: %s\n", script)
	fmt.Fprintf(w, "  props:  %s\n", blockSummary(r.Props))
	fmt.Fprintf(w, "  emits:  %s\n", blockSummary(r.Emits))

	if len(r.Tags) == 0 {
		fmt.Fprintln(w, "  tags:   none")
		return
	}
	fmt.Fprintln(w, "  tags:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range r.Tags {
		state := "missing"
		if t.Imported {
			state = "imported"
		}
		fmt.Fprintf(tw, "    %s\t%s\t%s\n", t.Tag, state, t.Statement)
	}
	tw.Flush()
}

func blockSummary(b transform.BlockReport) string {
	switch {
	case !b.Found:
		return "none"
	case b.Error != "":
		return "unreadable (" + b.Error + ")"
	case len(b.Names) == 0:
		return "empty"
	}
	return strings.Join(b.Names, ", ")
}
