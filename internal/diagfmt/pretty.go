package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pomorg/internal/diag"
	"pomorg/internal/source"
)

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.loc, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty renders bag.Items() (callers sort the bag first) as
//
//	<path>:<line>:<col>: <severity> <CODE>: <message>
//
// optionally followed by the source line with a ^~~~ underline and the notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	var b strings.Builder
	for _, d := range bag.Items() {
		fmt.Fprintf(&b, "%s %s %s: %s\n",
			p.loc.Sprint(location(fs, d.Primary, opts.PathMode)+":"),
			p.severity(d.Severity).Sprint(d.Severity.Label()),
			d.Code.ID(),
			d.Message)
		if opts.ShowSource {
			writeSnippet(&b, fs, d.Primary, p)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "  %s %s %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode)+":", n.Msg)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath(mode.format(), fs.BaseDir()), start.Line, start.Col)
}

// writeSnippet prints the first line of span and underlines the covered
// part of it.
func writeSnippet(b *strings.Builder, fs *source.FileSet, span source.Span, p palette) {
	f := fs.Get(span.File)
	if f == nil || int(span.Start) > len(f.Content) {
		return
	}
	content := f.Content
	start := int(span.Start)
	lineStart := start
	for lineStart > 0 && content[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := start
	for lineEnd < len(content) && content[lineEnd] != '\n' {
		lineEnd++
	}
	end := min(int(span.End), lineEnd)
	if end < start {
		end = start
	}

	line := strings.TrimRight(string(content[lineStart:lineEnd]), " \t")
	pos, _ := fs.Resolve(span)
	num := fmt.Sprintf("%d", pos.Line)
	pad := strings.Repeat(" ", len(num))

	lead := runewidth.StringWidth(strings.ReplaceAll(string(content[lineStart:start]), "\t", "    "))
	width := max(runewidth.StringWidth(string(content[start:end])), 1)
	marker := "^" + strings.Repeat("~", width-1)

	fmt.Fprintf(b, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), strings.ReplaceAll(line, "\t", "    "))
	fmt.Fprintf(b, " %s %s %s%s\n", pad, p.gutter.Sprint("|"), strings.Repeat(" ", lead), p.caret.Sprint(marker))
}
