package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"schemecore/pkg/algebra"
	"schemecore/pkg/scheme"
)

func writeSnapshot(t *testing.T, doc scheme.WorkspaceDoc) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	path := filepath.Join(t.TempDir(), "workspace.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func chainSnapshot(t *testing.T) scheme.WorkspaceDoc {
	t.Helper()
	x := algebra.Var(3, 0)
	y := algebra.Var(3, 1)
	z := algebra.Var(3, 2)
	pres := algebra.NewPresentation([]string{"x", "y", "z"}, []algebra.Polynomial{z.Sub(x.Mul(y))})
	patch := scheme.NewRootPatch("affine-xyz", pres)
	atlas := scheme.NewAtlas("cover")
	if err := atlas.Add(patch); err != nil {
		t.Fatalf("add patch: %v", err)
	}
	u1 := scheme.Restrict(patch, pres.Gen(0))
	u2 := scheme.Simplify(u1, algebra.EliminationSimplifier{})
	u3 := scheme.Restrict(u2, u2.Presentation().Gen(1))
	return scheme.EncodeWorkspace([]*scheme.Atlas{atlas}, []scheme.DerivedScheme{u3})
}

func TestCLIResolvesChain(t *testing.T) {
	path := writeSnapshot(t, chainSnapshot(t))
	var stdout, stderr bytes.Buffer
	code := cli([]string{"-snapshot", path, "-v"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected success, got %d: %s%s", code, stdout.String(), stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "4 nodes checked, 0 failures") {
		t.Fatalf("unexpected summary: %s", out)
	}
	if !strings.Contains(out, "equations=2") {
		t.Fatalf("leaf should resolve with 2 equations: %s", out)
	}
}

func TestCLIFlagsOrphanedChain(t *testing.T) {
	doc := chainSnapshot(t)
	// A root outside every atlas plus a view over it.
	orphan := scheme.NewRootPatch("orphan", algebra.NewPresentation([]string{"t"}, nil))
	view := scheme.Restrict(orphan, orphan.Presentation().Gen(0))
	extra := scheme.EncodeWorkspace(nil, []scheme.DerivedScheme{view})
	doc.Nodes = append(doc.Nodes, extra.Nodes...)

	path := writeSnapshot(t, doc)
	var stdout, stderr bytes.Buffer
	code := cli([]string{"-snapshot", path}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected failure exit, got %d: %s", code, stdout.String())
	}
	if !strings.Contains(stdout.String(), "FAIL") {
		t.Fatalf("expected FAIL lines: %s", stdout.String())
	}
}

func TestCLIMalformedSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-snapshot", path}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1 for malformed snapshot, got %d", code)
	}
	if stderr.Len() == 0 {
		t.Fatalf("expected an error on stderr")
	}
}

func TestCLIMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-snapshot", filepath.Join(t.TempDir(), "absent.json")}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1 for missing snapshot, got %d", code)
	}
}

func TestCLIBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-definitely-not-a-flag"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2 for flag error, got %d", code)
	}
}

func TestMainUsesExitFunc(t *testing.T) {
	prevExit := exitFunc
	prevArgs := os.Args
	defer func() {
		exitFunc = prevExit
		os.Args = prevArgs
	}()
	var got int
	exitFunc = func(code int) { got = code }
	os.Args = []string{"atlas-check", "-snapshot", filepath.Join(t.TempDir(), "absent.json")}
	main()
	if got != 1 {
		t.Fatalf("expected exit 1, got %d", got)
	}
}
