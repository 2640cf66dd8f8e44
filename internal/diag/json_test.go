package diag_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"minicc/internal/diag"
	"minicc/internal/source"
)

func TestJSON(t *testing.T) {
	files := source.NewFileSet()
	id := files.AddVirtual("unit.c", []byte("int f()\n{\n    return x;\n}\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.LowUnresolvedIdentifier, source.Span{File: id, Start: 21, End: 22}, `unresolved identifier: "x"`).
		WithNote(source.Span{File: id, Start: 0, End: 3}, "in function f"))
	bag.Add(diag.NewError(diag.LowInternal, source.Span{File: id}, "second"))

	var buf bytes.Buffer
	if err := diag.JSON(&buf, bag, files, diag.JSONOpts{Max: 1, IncludeNotes: true, IncludePositions: true}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out diag.DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("Max not honored: %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "LOW4003" || d.Severity != "ERROR" || d.Location.File != "unit.c" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Location.StartLine != 3 || d.Location.StartCol != 12 {
		t.Fatalf("position = %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "in function f" {
		t.Fatalf("notes = %+v", d.Notes)
	}

	buf.Reset()
	if err := diag.JSON(&buf, bag, files, diag.JSONOpts{}); err != nil {
		t.Fatalf("json: %v", err)
	}
	out = diag.DiagnosticsOutput{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 || out.Diagnostics[0].Notes != nil || out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("defaults should drop notes and positions: %+v", out)
	}
}
