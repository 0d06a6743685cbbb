package prompts

import (
	"encoding/json"
	"testing"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"a":1}]`, `[{"a":1}]`},
		{"prose around", "Here is the analysis:\n[{\"a\":1}]\nLet me know!", `[{"a":1}]`},
		{"fenced", "```json\n[1,2,3]\n```", "[1,2,3]"},
		{"no array", "I could not analyze these items.", ""},
		{"only opener", "[oops", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONArray(tt.in); got != tt.want {
				t.Errorf("ExtractJSONArray(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	got := ExtractJSONObject("Sure! Here is the brief:\n{\"title\":\"x\"}\nEnjoy.")
	if got != `{"title":"x"}` {
		t.Errorf("got %q", got)
	}
	if ExtractJSONObject("no json here") != "" {
		t.Error("expected empty string for prose-only input")
	}
}

func TestFormatSystemFallback(t *testing.T) {
	if FormatSystem("experimento") != ExperimentoSystem {
		t.Error("known id returned wrong system prompt")
	}
	if FormatSystem("nope") != GuiaPracticaSystem {
		t.Error("unknown id should fall back to guia_practica")
	}
	if FormatSystem("") != GuiaPracticaSystem {
		t.Error("empty id should fall back to guia_practica")
	}
}

func TestFormatsAreWellFormed(t *testing.T) {
	if len(Formats) != 5 {
		t.Fatalf("got %d formats, want 5", len(Formats))
	}
	for _, f := range Formats {
		if f.ID == "" || f.Name == "" || f.Desc == "" {
			t.Errorf("incomplete format entry: %+v", f)
		}
		if _, ok := formatSystems[f.ID]; !ok {
			t.Errorf("format %s has no system prompt", f.ID)
		}
	}
	// The list is what the API serves; it has to marshal cleanly.
	if _, err := json.Marshal(Formats); err != nil {
		t.Fatalf("marshal formats: %v", err)
	}
}

func TestOrNA(t *testing.T) {
	if OrNA("") != "N/A" || OrNA("  ") != "N/A" {
		t.Error("blank values should become N/A")
	}
	if OrNA("hook") != "hook" {
		t.Error("non-blank value should pass through")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("ab", 10); got != "ab" {
		t.Errorf("got %q", got)
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("  hola   mundo \n tres "); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
	if got := WordCount(""); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}
