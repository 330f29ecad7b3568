package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	ID       string   `json:"id" yaml:"id"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

func TestDecodeFile_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "a.json")
	if err := os.WriteFile(jsonPath, []byte(`{"id":"python","keywords":["python","py"]}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	yamlPath := filepath.Join(dir, "a.yml")
	if err := os.WriteFile(yamlPath, []byte("id: python\nkeywords:\n  - python\n  - py\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, p := range []string{jsonPath, yamlPath} {
		var s sample
		if err := DecodeFile(p, &s); err != nil {
			t.Fatalf("decode %s: %v", p, err)
		}
		if s.ID != "python" || len(s.Keywords) != 2 {
			t.Fatalf("unexpected decode result for %s: %+v", p, s)
		}
	}
}

func TestDecodeFile_RejectsUnknownFields(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.json")
	if err := os.WriteFile(p, []byte(`{"id":"x","keyword":["typo"]}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var s sample
	if err := DecodeFile(p, &s); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestFormatFromPath_Unsupported(t *testing.T) {
	if _, err := FormatFromPath("catalog.toml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
