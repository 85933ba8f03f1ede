package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"grepast/internal/config"
	"grepast/internal/treectx"
)

func TestParseAndApply(t *testing.T) {
	content := []byte(`
margin: 0
line_number: true
header_max: 6
fuzzy_threshold: 70
`)
	f, err := config.Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts := treectx.DefaultOptions()
	f.Apply(&opts)

	if opts.Margin != 0 {
		t.Errorf("Margin = %d, want 0", opts.Margin)
	}
	if !opts.LineNumber {
		t.Error("LineNumber not applied")
	}
	if opts.HeaderMax != 6 {
		t.Errorf("HeaderMax = %d, want 6", opts.HeaderMax)
	}
	// Absent keys keep their defaults.
	if opts.LOIPad != 1 {
		t.Errorf("LOIPad = %d, want default 1", opts.LOIPad)
	}
	if !opts.ParentContext {
		t.Error("ParentContext should stay at its default")
	}

	if f.FuzzyThreshold == nil || *f.FuzzyThreshold != 70 {
		t.Errorf("FuzzyThreshold = %v, want 70", f.FuzzyThreshold)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := config.Parse([]byte("margin: [nope")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("loi_pad: 3\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts := treectx.DefaultOptions()
	f.Apply(&opts)
	if opts.LOIPad != 3 {
		t.Errorf("LOIPad = %d, want 3", opts.LOIPad)
	}
}
