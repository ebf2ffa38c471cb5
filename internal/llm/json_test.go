package llm

import "testing"

func TestStripCodeFencesPlain(t *testing.T) {
	got := StripCodeFences(`[{"heading": "A"}]`)
	if got != `[{"heading": "A"}]` {
		t.Errorf("expected unchanged text, got %q", got)
	}
}

func TestStripCodeFencesJSONFence(t *testing.T) {
	got := StripCodeFences("```json\n[{\"heading\": \"A\"}]\n```")
	if got != `[{"heading": "A"}]` {
		t.Errorf("expected fences stripped, got %q", got)
	}
}

func TestStripCodeFencesPlainFence(t *testing.T) {
	got := StripCodeFences("```\n{\"key\": \"value\"}\n```")
	if got != `{"key": "value"}` {
		t.Errorf("expected fences stripped, got %q", got)
	}
}

func TestStripCodeFencesWhitespace(t *testing.T) {
	got := StripCodeFences("  \n  [1, 2]  \n  ")
	if got != "[1, 2]" {
		t.Errorf("expected trimmed text, got %q", got)
	}
}

func TestStripCodeFencesEmpty(t *testing.T) {
	if got := StripCodeFences(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
