package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/runescan/runescan/pkg/types"
)

// reporter formats matches for humans or machines.
type reporter struct {
	out  io.Writer
	json bool

	path *color.Color
	expr *color.Color
	span *color.Color
	text *color.Color
}

func newReporter(out io.Writer, jsonOut bool) *reporter {
	// colors are pointless when piping
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		color.NoColor = true
	}
	return &reporter{
		out:  out,
		json: jsonOut,
		path: color.New(color.Bold, color.FgHiWhite),
		expr: color.New(color.Bold, color.FgHiBlue),
		span: color.New(color.FgHiGreen),
		text: color.New(color.FgYellow),
	}
}

type matchJSON struct {
	Path    string `json:"path"`
	ID      int    `json:"id"`
	Pattern string `json:"pattern"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Text    string `json:"text,omitempty"`
}

func (r *reporter) report(path string, matches []types.Match) error {
	if r.json {
		enc := json.NewEncoder(r.out)
		for _, m := range matches {
			record := matchJSON{
				Path:    path,
				ID:      m.Expression.ID(),
				Pattern: m.Expression.Pattern(),
				Start:   m.Start,
				End:     m.End,
				Text:    m.Text,
			}
			if err := enc.Encode(record); err != nil {
				return err
			}
		}
		return nil
	}

	r.path.Fprintf(r.out, "%s\n", path)
	for _, m := range matches {
		r.expr.Fprintf(r.out, "  %s", m.Expression.Pattern())
		r.span.Fprintf(r.out, " [%d,%d]", m.Start, m.End)
		if m.Text != "" {
			r.text.Fprintf(r.out, " %q", m.Text)
		}
		fmt.Fprintln(r.out)
	}
	return nil
}
