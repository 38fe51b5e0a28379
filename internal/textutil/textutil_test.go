package textutil

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Pretty good", "pretty-good"},
		{"Rice", "rice"},
		{"St. Mary's  B-Team", "st-mary-s-b-team"},
		{"  --Lions--  ", "lions"},
		{"ABC 123", "abc-123"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Pretty good", "st-mary-s-b-team", "A  B  C", "x"}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q != %q", in, twice, once)
		}
		if strings.HasPrefix(once, "-") || strings.HasSuffix(once, "-") {
			t.Errorf("Slugify(%q) = %q has leading/trailing hyphen", in, once)
		}
		for _, r := range once {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			if !ok {
				t.Errorf("Slugify(%q) = %q contains invalid rune %q", in, once, r)
			}
		}
	}
}

func TestSanitizePath(t *testing.T) {
	got, err := SanitizePath("  \"/tmp/export.html\"  ")
	if err != nil {
		t.Fatalf("SanitizePath error: %v", err)
	}
	if got != "/tmp/export.html" {
		t.Errorf("SanitizePath = %q, want /tmp/export.html", got)
	}

	got, err = SanitizePath("'/tmp/export.html'")
	if err != nil {
		t.Fatalf("SanitizePath error: %v", err)
	}
	if got != "/tmp/export.html" {
		t.Errorf("SanitizePath = %q, want /tmp/export.html", got)
	}

	// Mismatched quotes are kept.
	got, err = SanitizePath(`"/tmp/export.html'`)
	if err != nil {
		t.Fatalf("SanitizePath error: %v", err)
	}
	if filepath.Base(got) != "export.html'" {
		t.Errorf("SanitizePath stripped mismatched quotes: %q", got)
	}

	// Relative paths become absolute.
	got, err = SanitizePath("export.html")
	if err != nil {
		t.Fatalf("SanitizePath error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("SanitizePath(%q) = %q, want absolute", "export.html", got)
	}
}

func TestSanitizePathHome(t *testing.T) {
	got, err := SanitizePath("~/exports/game.html")
	if err != nil {
		t.Fatalf("SanitizePath error: %v", err)
	}
	if strings.HasPrefix(got, "~") {
		t.Errorf("SanitizePath did not expand home marker: %q", got)
	}
	if !strings.HasSuffix(got, filepath.Join("exports", "game.html")) {
		t.Errorf("SanitizePath(%q) = %q, want .../exports/game.html", "~/exports/game.html", got)
	}
}
