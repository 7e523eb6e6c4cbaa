package langdetect_test

import (
	"testing"

	"github.com/yaklabco/markwire/pkg/langdetect"
)

func TestKnownAlias(t *testing.T) {
	t.Parallel()

	tests := []struct {
		alias    string
		expected string
		known    bool
	}{
		{"go", "go", true},
		{"golang", "go", true},
		{"py", "python", true},
		{"python", "python", true},
		{"js", "javascript", true},
		{"sh", "bash", true},
		{"bash", "bash", true},
		{"rust", "rust", true},
		{"json", "json", true},
		{"yaml", "yaml", true},
		{"", "", false},
		{"   ", "", false},
		{"notalanguage", "", false},
		{"zzzz-unknown", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			t.Parallel()

			got, known := langdetect.KnownAlias(tt.alias)
			if known != tt.known {
				t.Fatalf("KnownAlias(%q) known = %v, want %v", tt.alias, known, tt.known)
			}
			if got != tt.expected {
				t.Errorf("KnownAlias(%q) = %q, want %q", tt.alias, got, tt.expected)
			}
		})
	}
}

func TestKnownAliasTrimsWhitespace(t *testing.T) {
	t.Parallel()

	got, known := langdetect.KnownAlias("  go  ")
	if !known || got != "go" {
		t.Errorf("KnownAlias with padding = %q, %v; want %q, true", got, known, "go")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := langdetect.Normalize("Shell"); got != "bash" {
		t.Errorf("Normalize(Shell) = %q, want bash", got)
	}
	if got := langdetect.Normalize("Go"); got != "go" {
		t.Errorf("Normalize(Go) = %q, want go", got)
	}
}
