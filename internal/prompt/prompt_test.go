package prompt

import (
	"testing"
	"testing/fstest"
)

func TestLoadYAMLDir(t *testing.T) {
	fsys := fstest.MapFS{
		"prompts/analysis.yml": &fstest.MapFile{Data: []byte("system: classify waste\nuser: here is a photo\n")},
		"prompts/chat.yaml":    &fstest.MapFile{Data: []byte("system: you are ecofy\n")},
		"prompts/notes.txt":    &fstest.MapFile{Data: []byte("ignored")},
	}

	loaded, err := LoadYAMLDir(fsys, "prompts")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 prompt files, got %d", len(loaded))
	}
	if loaded["analysis"]["system"] != "classify waste" {
		t.Fatalf("unexpected analysis prompt: %+v", loaded["analysis"])
	}
}

func TestGetAndField(t *testing.T) {
	prompts := map[string]map[string]string{"chat": {"system": "persona"}}

	data, err := Get(prompts, "chat", "chat")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := Field(data, "system", "chat.system"); err != nil {
		t.Fatalf("field: %v", err)
	}
	if _, err := Field(data, "missing", "chat.missing"); err == nil {
		t.Fatalf("expected error for missing field")
	}
	if _, err := Get(prompts, "nope", "chat"); err == nil {
		t.Fatalf("expected error for unknown prompt")
	}
}

func TestFormatTemplate(t *testing.T) {
	out, err := FormatTemplate("hello {name}, {{literal}}", map[string]string{"name": "ecofy"})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if out != "hello ecofy, {literal}" {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, err := FormatTemplate("broken {key", nil); err == nil {
		t.Fatalf("expected error for unterminated placeholder")
	}
	if _, err := FormatTemplate("missing {key}", map[string]string{}); err == nil {
		t.Fatalf("expected error for missing value")
	}
}
