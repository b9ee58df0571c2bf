package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNegationOrder(t *testing.T) {
	m, err := NewMatcher([]string{"foo", "!foo"})
	if err != nil {
		t.Fatalf("NewMatcher() failed: %v", err)
	}
	if m.Ignored("foo") {
		t.Errorf("negation after pattern should unignore foo")
	}

	m, err = NewMatcher([]string{"!foo", "foo"})
	if err != nil {
		t.Fatalf("NewMatcher() failed: %v", err)
	}
	if !m.Ignored("foo") {
		t.Errorf("pattern after negation should keep foo ignored")
	}
}

func TestDirectoryPatternWithNegation(t *testing.T) {
	m, err := NewMatcher([]string{"build/", "!build/keep.txt"})
	if err != nil {
		t.Fatalf("NewMatcher() failed: %v", err)
	}

	if !m.Ignored("build/a.o") {
		t.Errorf("build/a.o should be ignored")
	}
	if m.Ignored("build/keep.txt") {
		t.Errorf("build/keep.txt should be unignored by negation")
	}
	if m.Ignored("src/main.go") {
		t.Errorf("src/main.go should not be ignored")
	}
}

func TestWildcards(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.log", "debug.log", true},
		{"*.log", "logs/debug.log", true},
		{"*.log", "debug.logx", false},
		{"?.txt", "a.txt", true},
		// Unanchored patterns match anywhere along the path, so "?.txt"
		// matches the "b.txt" tail of "ab.txt".
		{"?.txt", "ab.txt", true},
		{"doc/**/notes.txt", "doc/a/b/notes.txt", true},
		{"doc/**/notes.txt", "doc/notes.txtx", false},
		{"/vendor", "vendor", true},
		{"/vendor", "third_party/vendor", false},
		{"temp", "temp/inner/file.txt", true},
	}

	for _, tc := range cases {
		m, err := NewMatcher([]string{tc.pattern})
		if err != nil {
			t.Fatalf("NewMatcher(%q) failed: %v", tc.pattern, err)
		}
		if got := m.Ignored(tc.path); got != tc.want {
			t.Errorf("pattern %q against %q: got %v, want %v", tc.pattern, tc.path, got, tc.want)
		}
	}
}

func TestCommentsAndBlanksSkipped(t *testing.T) {
	m, err := NewMatcher([]string{"", "# a comment", "  ", "foo"})
	if err != nil {
		t.Fatalf("NewMatcher() failed: %v", err)
	}
	if !m.Ignored("foo") {
		t.Errorf("foo should be ignored")
	}
	if m.Ignored("# a comment") {
		t.Errorf("comment lines must not act as patterns")
	}
}

func TestMetadataAlwaysIgnored(t *testing.T) {
	m, err := NewMatcher([]string{"!.bittrack"})
	if err != nil {
		t.Fatalf("NewMatcher() failed: %v", err)
	}
	if !m.Ignored(".bittrack/index") {
		t.Errorf("metadata directory must stay ignored even with a negation")
	}
}

func TestLoadMatcher(t *testing.T) {
	testDir, err := os.MkdirTemp("", "bittrack-ignore-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(testDir)

	content := "build/\n!build/keep.txt\n"
	if err := os.WriteFile(filepath.Join(testDir, ".bitignore"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadMatcher(testDir)
	if err != nil {
		t.Fatalf("LoadMatcher() failed: %v", err)
	}
	if !m.Ignored("build/a.o") {
		t.Errorf("build/a.o should be ignored")
	}
	if m.Ignored("build/keep.txt") {
		t.Errorf("build/keep.txt should be unignored")
	}
}
