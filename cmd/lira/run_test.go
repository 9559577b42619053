package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gitrdm/lira/internal/config"
	"github.com/gitrdm/lira/pkg/lira"
)

func TestRunScriptSatisfiableAssertionsReportSup(t *testing.T) {
	script := strings.NewReader(strings.Join([]string{
		"declare x",
		"assert x >= 0",
		"assert x <= 3",
		"sup x",
		"status",
	}, "\n"))

	var out bytes.Buffer
	status, err := runScript(&out, script, config.Config{})
	if err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if status != lira.StatusSat {
		t.Fatalf("status = %v, want Sat", status)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != "3" {
		t.Errorf("sup x = %q, want 3", lines[0])
	}
}

func TestRunScriptContradictionReportsUnsatAndCoreSize(t *testing.T) {
	script := strings.NewReader(strings.Join([]string{
		"declare x",
		"assert x >= 5",
		"assert x <= 2",
	}, "\n"))

	var out bytes.Buffer
	status, err := runScript(&out, script, config.Config{})
	if err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if status != lira.StatusUnsat {
		t.Fatalf("status = %v, want Unsat", status)
	}
	if !strings.Contains(out.String(), "unsat") {
		t.Errorf("output = %q, want an unsat line", out.String())
	}
}

func TestRunScriptUnknownVerbIsScriptError(t *testing.T) {
	script := strings.NewReader("bogus-verb foo")
	var out bytes.Buffer
	_, err := runScript(&out, script, config.Config{})
	var se *scriptError
	if !errors.As(err, &se) {
		t.Fatalf("runScript err = %v, want *scriptError", err)
	}
}

func TestRunScriptSaveAndUndoRoundTrips(t *testing.T) {
	script := strings.NewReader(strings.Join([]string{
		"declare x",
		"assert x >= 0",
		"save",
		"assert x = 9",
		"find x",
		"undo",
		"sup x",
	}, "\n"))

	var out bytes.Buffer
	status, err := runScript(&out, script, config.Config{})
	if err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if status != lira.StatusSat {
		t.Fatalf("status = %v, want Sat", status)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// lines: [0]=save handle, [1]=find x (9), [2]=sup x (unbounded, after undo).
	if lines[len(lines)-1] != "unbounded" {
		t.Errorf("sup x after undo = %q, want unbounded", lines[len(lines)-1])
	}
}

func TestRunScriptCommentsAndBlankLinesAreSkipped(t *testing.T) {
	script := strings.NewReader(strings.Join([]string{
		"# a comment",
		"",
		"declare x",
		"  ",
		"assert x = 1",
		"find x",
	}, "\n"))

	var out bytes.Buffer
	status, err := runScript(&out, script, config.Config{})
	if err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if status != lira.StatusSat {
		t.Fatalf("status = %v, want Sat", status)
	}
	if got := strings.TrimSpace(out.String()); got != "1" {
		t.Errorf("find x = %q, want 1", got)
	}
}

func TestRunScriptIntegerDisequalitySplitRaisesInf(t *testing.T) {
	script := strings.NewReader(strings.Join([]string{
		"declare x int",
		"assert x >= 0",
		"assert x <= 2",
		"assert x != 0",
		"inf x",
	}, "\n"))

	var out bytes.Buffer
	status, err := runScript(&out, script, config.Config{})
	if err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if status != lira.StatusSat {
		t.Fatalf("status = %v, want Sat", status)
	}
	if got := strings.TrimSpace(out.String()); got != "1" {
		t.Errorf("inf x after x!=0 on [0,2] = %q, want 1", got)
	}
}
