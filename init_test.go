package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"
)

// TestApplySectionCreate verifies that applySection on empty content wraps the
// section in sentinels with a trailing newline.
func TestApplySectionCreate(t *testing.T) {
	t.Parallel()
	section := sentinelStart + "\nbody\n" + sentinelEnd
	got := applySection("", section)
	if !strings.Contains(got, sentinelStart) {
		t.Error("missing sentinel start")
	}
	if !strings.Contains(got, sentinelEnd) {
		t.Error("missing sentinel end")
	}
	if !strings.HasSuffix(got, sentinelEnd+"\n") {
		t.Error("missing trailing newline")
	}
}

// TestApplySectionAppend verifies that existing variables without a sentinel
// block are preserved and the section is appended.
func TestApplySectionAppend(t *testing.T) {
	t.Parallel()
	existing := "DATABASE_URL=postgres://localhost/app"
	section := sentinelStart + "\nnew content\n" + sentinelEnd
	got := applySection(existing, section)

	if !strings.HasPrefix(got, existing+"\n\n") {
		t.Errorf("existing content should be preserved at start:\n%s", got)
	}
	if !strings.Contains(got, "new content") {
		t.Error("new content missing")
	}
}

// TestApplySectionUpdate verifies that an existing sentinel block is replaced
// precisely, leaving surrounding content intact.
func TestApplySectionUpdate(t *testing.T) {
	t.Parallel()
	before := "APP_ENV=local\n\n"
	after := "\n\nPORT=8080\n"
	old := before + sentinelStart + "\nold content\n" + sentinelEnd + after

	section := sentinelStart + "\nnew content\n" + sentinelEnd
	got := applySection(old, section)

	if !strings.HasPrefix(got, before) {
		t.Errorf("content before sentinel should be preserved:\n%s", got)
	}
	if !strings.HasSuffix(got, after) {
		t.Errorf("content after sentinel should be preserved:\n%s", got)
	}
	if strings.Contains(got, "old content") {
		t.Error("old content should be replaced")
	}
}

// TestInitCreatesFile verifies that runInit creates the target file and that
// the result is a valid dotenv file that sets nothing.
func TestInitCreatesFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	var stdout, stderr bytes.Buffer
	if err := runInit([]string{path}, &stdout, &stderr); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	vals, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("created file is not valid dotenv: %v", err)
	}
	if len(vals) != 0 {
		t.Errorf("settings should be commented out, got %v", vals)
	}
	if !strings.Contains(stderr.String(), path) {
		t.Errorf("stderr should name the file, got %q", stderr.String())
	}
}

// TestInitKeepsExistingVariables verifies that variables around the block
// survive and still parse.
func TestInitKeepsExistingVariables(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("KASKARA_WORKERS=4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := runInit([]string{path}, &buf, &buf); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if vals["KASKARA_WORKERS"] != "4" {
		t.Errorf("KASKARA_WORKERS = %q, want 4", vals["KASKARA_WORKERS"])
	}
}

// TestInitDryRun verifies that --dry-run prints the full would-be file content
// to stdout and does not create or modify the target file.
func TestInitDryRun(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	var stdout, stderr bytes.Buffer
	if err := runInit([]string{"--dry-run", path}, &stdout, &stderr); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	if _, err := os.Stat(path); err == nil {
		t.Error("--dry-run should not create the file")
	}
	out := stdout.String()
	if !strings.Contains(out, sentinelStart) || !strings.Contains(out, sentinelEnd) {
		t.Errorf("dry-run output missing sentinels:\n%s", out)
	}
}

// TestInitDryRunNoPath verifies that --dry-run without a path prints just the
// generated section to stdout without touching any file.
func TestInitDryRunNoPath(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := runInit([]string{"--dry-run"}, &stdout, &stderr); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	out := stdout.String()
	if !strings.HasPrefix(out, sentinelStart) {
		t.Errorf("output should start with the section, got:\n%s", out)
	}
}

// TestInitIdempotent verifies that running init twice produces identical output.
func TestInitIdempotent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	var buf bytes.Buffer
	if err := runInit([]string{path}, &buf, &buf); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, _ := os.ReadFile(path)

	if err := runInit([]string{path}, &buf, &buf); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, _ := os.ReadFile(path)

	if string(first) != string(second) {
		t.Errorf("init is not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

// TestInitSectionListsSettings verifies every setting config reads appears in
// the generated block.
func TestInitSectionListsSettings(t *testing.T) {
	t.Parallel()
	section := generateSection()

	for _, key := range []string{
		"KASKARA_LANGS",
		"KASKARA_CACHE",
		"KASKARA_MAX_FILE_SIZE=1000000",
		"KASKARA_WORKERS",
		"KASKARA_STRICT",
		"KASKARA_VERBOSE",
	} {
		if !strings.Contains(section, key) {
			t.Errorf("generated section missing %q", key)
		}
	}
}
