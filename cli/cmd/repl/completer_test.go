package repl

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/hbctx/scope"
)

func TestWordBounds_ExprOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"in_ternary", "x ? fo", 6, "fo", 4, 6},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"after_minus", "total-co", 8, "co", 6, 8},
		{"after_brace", "{a: fo", 6, "fo", 4, 6},
		{"in_string", "'fo", 3, "fo", 1, 3},
		{"underscore", "user_na", 7, "user_na", 0, 7},
		// After dot is an empty word (for triggering child completions).
		{"empty_after_dot", "config.", 7, "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath_WithOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x = a.b.", 8, "a.b"},
		{"after_minus", "x-a.b.", 6, "a.b"},
		{"word_started", "a.b.c", 4, "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	root := scope.Wrap(map[string]any{
		"site": map[string]any{"title": "home", "author": "ann"},
	})
	s := root.Child(map[string]any{"page": 1})

	tests := []struct {
		name   string
		parent string
		want   []string
	}{
		{"member", "site", []string{"author", "title"}},
		{"missing", "nope", nil},
		{"scalar", "page", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := childCandidates(s, tt.parent)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("childCandidates(%q) mismatch (-want +got):\n%s",
					tt.parent, diff)
			}
		})
	}

	top := childCandidates(s, "")
	for _, want := range []string{"page", "site", "this", "upper"} {
		if !slices.Contains(top, want) {
			t.Errorf("childCandidates(\"\") = %v, missing %q", top, want)
		}
	}

	if childCandidates(nil, "") != nil {
		t.Error("childCandidates(nil) should be nil")
	}
}

func TestFormatPreview(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "<nil>"},
		{map[string]any{"a": 1, "b": 2}, "{ 2 items }"},
		{[]any{1, 2, 3}, "[ 3 items ]"},
		{"hi", `"hi"`},
		{42, "42"},
		{func(string) int { return 0 }, "func(string) int"},
	}

	for _, tt := range tests {
		if got := formatPreview(tt.in); got != tt.want {
			t.Errorf("formatPreview(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 10); got != "abcdef" {
		t.Errorf("truncate short = %q", got)
	}

	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncate long = %q, want %q", got, "abc...")
	}
}
