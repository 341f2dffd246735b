package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRunEndToEndProducesSnapshotStream(t *testing.T) {
	dir := t.TempDir()
	gpath := writeTemp(t, dir, "graph.txt", "4 4\n0 1\n0 2\n1 3\n2 3\n")
	rpath := writeTemp(t, dir, "rats.txt", "4 4\n0\n0\n0\n0\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-g", gpath, "-r", rpath, "-n", "2", "-s", "1", "-u", "s"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "STEP 4 4") {
		t.Fatalf("stdout missing STEP header: %q", out)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "DONE") {
		t.Fatalf("stdout does not end with DONE: %q", out)
	}
}

func TestRunQuietSuppressesSnapshots(t *testing.T) {
	dir := t.TempDir()
	gpath := writeTemp(t, dir, "graph.txt", "4 4\n0 1\n0 2\n1 3\n2 3\n")
	rpath := writeTemp(t, dir, "rats.txt", "4 4\n0\n0\n0\n0\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-g", gpath, "-r", rpath, "-q"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected no stdout output in quiet mode, got %q", stdout.String())
	}
}

func TestRunMissingGraphFlagFailsWithUsage(t *testing.T) {
	dir := t.TempDir()
	rpath := writeTemp(t, dir, "rats.txt", "4 1\n0\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-r", rpath}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Fatalf("stderr missing usage text: %q", stderr.String())
	}
}

func TestRunMalformedGraphHeaderFails(t *testing.T) {
	dir := t.TempDir()
	gpath := writeTemp(t, dir, "graph.txt", "abc\n")
	rpath := writeTemp(t, dir, "rats.txt", "4 1\n0\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-g", gpath, "-r", rpath}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Malformed graph file header") {
		t.Fatalf("stderr missing required S6 substring: %q", stderr.String())
	}
}

func TestRunUnknownFileFails(t *testing.T) {
	dir := t.TempDir()
	rpath := writeTemp(t, dir, "rats.txt", "4 1\n0\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-g", filepath.Join(dir, "missing.txt"), "-r", rpath}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "couldn't open file") {
		t.Fatalf("stderr missing open-failure message: %q", stderr.String())
	}
}
