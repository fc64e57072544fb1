package main

import (
	"testing"
)

func TestParseSteps(t *testing.T) {
	t.Parallel()

	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("default steps: got=%d err=%v want=1", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("explicit steps: got=%d err=%v want=3", got, err)
	}
	for _, raw := range []string{"0", "-1", "x"} {
		if _, err := parseSteps([]string{raw}); err == nil {
			t.Fatalf("expected error for steps %q", raw)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	t.Parallel()

	if got, err := parseVersion("1"); err != nil || got != 1 {
		t.Fatalf("parse version: got=%d err=%v", got, err)
	}
	if _, err := parseVersion("-2"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	if got, err := parseTarget("7"); err != nil || got != 7 {
		t.Fatalf("parse target: got=%d err=%v", got, err)
	}
	if _, err := parseTarget("-7"); err == nil {
		t.Fatalf("expected error for negative target")
	}
}

func TestResolveMigrationsDir_Override(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := resolveMigrationsDir(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != dir {
		t.Fatalf("unexpected dir: got=%s want=%s", got, dir)
	}
}
