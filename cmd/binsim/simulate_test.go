package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/binsim/internal/sim"
)

func TestPrintRunErrors(t *testing.T) {
	var buf bytes.Buffer
	printRunErrors(&buf, &sim.Result{FramesRun: 10})
	if buf.Len() != 0 {
		t.Errorf("expected no output for a clean run, got %q", buf.String())
	}

	result := &sim.Result{
		FramesRun: 3,
		Errors:    []error{&sim.SimError{Frame: 3, Particle: 7, Wrapped: sim.ErrUnstable}},
	}
	printRunErrors(&buf, result)
	out := buf.String()
	if !strings.Contains(out, "warning: run stopped after 3 frames") {
		t.Errorf("missing warning in %q", out)
	}
	if !strings.Contains(out, "particle 7") {
		t.Errorf("missing error detail in %q", out)
	}
}

func TestParseSearch(t *testing.T) {
	names, ranges, err := parseSearch([]string{"repulsion=0.1, 0.2", "damping=1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "repulsion" || len(ranges[0]) != 2 || ranges[0][1] != 0.2 {
		t.Errorf("unexpected parse %v %v", names, ranges)
	}
	if _, _, err := parseSearch([]string{"repulsion"}); err == nil {
		t.Error("expected error for missing values")
	}
	if _, _, err := parseSearch([]string{"repulsion=x"}); err == nil {
		t.Error("expected error for a bad number")
	}
}
