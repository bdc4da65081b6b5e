package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "narration-manifest.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `{"segments":[{"text":"first"},{"text":"second"},{"text":"third"}]}`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	texts := m.Texts()
	if len(texts) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(texts))
	}
	if texts[0] != "first" || texts[2] != "third" {
		t.Fatalf("segment order not preserved: %v", texts)
	}
}

func TestLoadIgnoresExtraKeys(t *testing.T) {
	path := writeManifest(t, `{"title":"ep1","segments":[{"text":"a","note":"x"}]}`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Segments) != 1 || m.Segments[0].Text != "a" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
}

func TestLoadEmptySegments(t *testing.T) {
	path := writeManifest(t, `{"segments":[]}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty segments")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeManifest(t, `{"segments":`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
