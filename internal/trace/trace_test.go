package trace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"minicc/internal/trace"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want trace.Level
		ok   bool
	}{
		{"off", trace.LevelOff, true},
		{"PHASE", trace.LevelPhase, true},
		{"detail", trace.LevelDetail, true},
		{"debug", trace.LevelDebug, true},
		{"loud", trace.LevelOff, false},
	}
	for _, tt := range tests {
		got, err := trace.ParseLevel(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelScopes(t *testing.T) {
	if trace.LevelPhase.ShouldEmit(trace.ScopeFunction) {
		t.Fatalf("phase level must drop function scope")
	}
	if !trace.LevelDetail.ShouldEmit(trace.ScopeFunction) {
		t.Fatalf("detail level must keep function scope")
	}
	if trace.LevelDetail.ShouldEmit(trace.ScopeNode) {
		t.Fatalf("detail level must drop node scope")
	}
	if !trace.LevelDebug.ShouldEmit(trace.ScopeNode) {
		t.Fatalf("debug level must keep node scope")
	}
	if trace.LevelOff.ShouldEmit(trace.ScopeDriver) {
		t.Fatalf("off level emits nothing")
	}
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText)

	root := trace.Begin(tr, trace.ScopePass, "lower", 0)
	fn := trace.Begin(tr, trace.ScopeFunction, "fn:add", root.ID())
	fn.WithExtra("params", "2").End("")
	trace.Point(tr, trace.ScopeNode, "node", "dropped", fn.ID())
	root.End("ok")

	out := buf.String()
	for _, want := range []string{"→ lower", "  → fn:add", "← fn:add {params=2}", "← lower (ok)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "dropped") {
		t.Fatalf("node point leaked at detail level:\n%s", out)
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelPhase, trace.FormatNDJSON)
	trace.Begin(tr, trace.ScopePass, "parse", 0).End("3 decls")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind   string `json:"kind"`
		Scope  string `json:"scope"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if ev.Kind != "end" || ev.Scope != "pass" || ev.Name != "parse" || ev.Detail != "3 decls" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestRingWraps(t *testing.T) {
	r := trace.NewRingTracer(3, trace.LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		trace.Point(r, trace.ScopeNode, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Fatalf("snap[%d] = %q, want %q", i, snap[i].Name, want)
		}
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, trace.FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump should have 3 lines:\n%s", buf.String())
	}
}

func TestNewModes(t *testing.T) {
	tr, err := trace.New(trace.Config{Level: trace.LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must give a disabled tracer, err=%v", err)
	}

	var buf bytes.Buffer
	tr, err = trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	multi, ok := tr.(*trace.MultiTracer)
	if !ok {
		t.Fatalf("both mode should give a MultiTracer, got %T", tr)
	}
	trace.Begin(tr, trace.ScopeDriver, "compile", 0).End("")
	ring, ok := multi.Ring()
	if !ok || len(ring.Snapshot()) != 2 {
		t.Fatalf("ring should hold both events")
	}
	if !strings.Contains(buf.String(), "compile") {
		t.Fatalf("stream should have the span: %q", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := trace.New(trace.Config{Level: trace.LevelPhase}); err == nil {
		t.Fatalf("missing mode should fail")
	}
	if _, err := trace.ParseMode("disk"); err == nil {
		t.Fatalf("ParseMode should reject unknown modes")
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	if trace.FromContext(ctx) != trace.Nop {
		t.Fatalf("empty context should give Nop")
	}
	r := trace.NewRingTracer(8, trace.LevelPhase)
	ctx = trace.WithTracer(ctx, r)
	if trace.FromContext(ctx) != trace.Tracer(r) {
		t.Fatalf("tracer not propagated")
	}
	span := trace.Begin(r, trace.ScopePass, "lex", 0)
	ctx = trace.WithParent(ctx, span)
	if trace.ParentSpan(ctx) != span.ID() || span.ID() == 0 {
		t.Fatalf("parent span not propagated")
	}
}

func TestInertSpan(t *testing.T) {
	span := trace.Begin(trace.Nop, trace.ScopeDriver, "x", 0)
	if span.ID() != 0 || span.WithExtra("k", "v").End("") != 0 {
		t.Fatalf("nop span should be inert")
	}
}

func TestHeartbeat(t *testing.T) {
	if trace.StartHeartbeat(trace.Nop, time.Millisecond) != nil {
		t.Fatalf("disabled tracer should not start a heartbeat")
	}
	r := trace.NewRingTracer(64, trace.LevelPhase)
	hb := trace.StartHeartbeat(r, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(r.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()
	snap := r.Snapshot()
	if len(snap) == 0 || snap[0].Kind != trace.KindHeartbeat {
		t.Fatalf("expected heartbeat events, got %d", len(snap))
	}
}
