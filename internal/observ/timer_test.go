package observ_test

import (
	"strings"
	"testing"

	"minicc/internal/observ"
)

func TestTimerPhases(t *testing.T) {
	tm := observ.NewTimer()
	lex := tm.Begin("lex")
	tm.End(lex, "12 tokens")
	parse := tm.Begin("parse")
	tm.End(parse, "")
	tm.End(42, "ignored")

	phases := tm.Phases()
	if len(phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(phases))
	}
	if phases[0].Name != "lex" || phases[0].Note != "12 tokens" {
		t.Fatalf("unexpected first phase: %+v", phases[0])
	}
	if _, ok := tm.Lookup("parse"); !ok {
		t.Fatalf("parse phase not found")
	}
	if _, ok := tm.Lookup("lower"); ok {
		t.Fatalf("lower phase should not exist")
	}

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("report phases = %d", len(rep.Phases))
	}
	sum := rep.Phases[0].DurationMS + rep.Phases[1].DurationMS
	if rep.TotalMS != sum {
		t.Fatalf("total %v != sum %v", rep.TotalMS, sum)
	}

	s := tm.Summary()
	for _, want := range []string{"timings:", "lex", "// 12 tokens", "total"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestEmptyReport(t *testing.T) {
	rep := observ.NewTimer().Report()
	if rep.TotalMS != 0 || len(rep.Phases) != 0 {
		t.Fatalf("expected empty report, got %+v", rep)
	}
}
