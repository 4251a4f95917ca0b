package diag

import (
	"fmt"
	"path/filepath"
	"strings"

	"pomorg/internal/source"
)

// FormatShort renders diagnostics one per line as
// "path:line:col: severity ID message". Notes follow their diagnostic when
// includeNotes is set. Diagnostics whose span cannot be resolved are printed
// without a location.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	for _, d := range diags {
		writeLine(&b, fs, d.Primary, d.Severity.Label(), d.Code.ID(), d.Message)
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			writeLine(&b, fs, note.Span, "note", d.Code.ID(), note.Msg)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeLine(b *strings.Builder, fs *source.FileSet, span source.Span, sev, code, msg string) {
	if loc, ok := resolveSpan(fs, span); ok {
		fmt.Fprintf(b, "%s:%d:%d: ", loc.Path, loc.Line, loc.Column)
	}
	fmt.Fprintf(b, "%s %s %s\n", sev, code, sanitizeMessage(msg))
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (resolvedSpan, bool) {
	if fs == nil {
		return resolvedSpan{}, false
	}
	file := fs.Get(span.File)
	if file == nil || int(span.Start) > len(file.Content) {
		return resolvedSpan{}, false
	}
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   filepath.ToSlash(file.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
