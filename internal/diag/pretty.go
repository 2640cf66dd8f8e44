package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"minicc/internal/source"
)

// PrettyOpts controls Pretty rendering.
type PrettyOpts struct {
	Color   bool
	Context bool // print the offending source line with a caret underline
}

type palette struct {
	err, warn, info, code, caret, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan),
		code:  color.New(color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
		path:  color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.caret, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s Severity) *color.Color {
	switch s {
	case SevError:
		return p.err
	case SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders every diagnostic in bag as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed, when opts.Context is set, by the source line and a ^~~~ underline.
// The bag is expected to be sorted by the caller.
func Pretty(w io.Writer, bag *Bag, files *source.FileSet, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, d, files, opts, p); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d Diagnostic, files *source.FileSet, opts PrettyOpts, p palette) error {
	loc, file, start, end := locate(d.Primary, files)
	if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(loc),
		p.severity(d.Severity).Sprint(d.Severity),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	); err != nil {
		return err
	}
	if opts.Context && file != nil {
		if err := underline(w, file, start, end, p); err != nil {
			return err
		}
	}
	for _, n := range d.Notes {
		noteLoc, _, _, _ := locate(n.Span, files)
		if _, err := fmt.Fprintf(w, "  %s: note: %s\n", noteLoc, n.Msg); err != nil {
			return err
		}
	}
	return nil
}

func locate(sp source.Span, files *source.FileSet) (string, *source.File, source.LineCol, source.LineCol) {
	if files == nil {
		return sp.String(), nil, source.LineCol{}, source.LineCol{}
	}
	f := files.Get(sp.File)
	if f == nil {
		return sp.String(), nil, source.LineCol{}, source.LineCol{}
	}
	start, end := files.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col), f, start, end
}

func underline(w io.Writer, f *source.File, start, end source.LineCol, p palette) error {
	line := f.Line(start.Line)
	if line == "" {
		return nil
	}
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	}
	pad := strings.Repeat(" ", int(start.Col-1))
	mark := "^" + strings.Repeat("~", width-1)
	_, err := fmt.Fprintf(w, "  %s\n  %s%s\n", line, pad, p.caret.Sprint(mark))
	return err
}
