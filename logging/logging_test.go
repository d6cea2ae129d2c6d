package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelsRouteAndTag(t *testing.T) {
	var out, errOut bytes.Buffer
	origOut, origErrOut := Out, ErrOut
	Out, ErrOut = &out, &errOut
	defer func() { Out, ErrOut = origOut, origErrOut }()

	Infof("rows: %d", 12)
	Warnf("skipped %d", 3)
	Errorf("boom")

	if !strings.Contains(out.String(), "[INFO] rows: 12") {
		t.Fatalf("stdout = %q", out.String())
	}
	if !strings.Contains(out.String(), "[WARN] skipped 3") {
		t.Fatalf("stdout = %q", out.String())
	}
	if strings.Contains(out.String(), "boom") {
		t.Fatalf("error leaked to stdout: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[ERROR] boom") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}

func TestFatalfExits(t *testing.T) {
	var errOut bytes.Buffer
	origErrOut, origExit := ErrOut, exit
	ErrOut = &errOut
	code := 0
	exit = func(c int) { code = c }
	defer func() { ErrOut, exit = origErrOut, origExit }()

	Fatalf("gone: %s", "x")

	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "[ERROR] gone: x") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}
