package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Ahmadalmuhidat/bittrack/core"
)

// Pattern is one compiled line from the ignore file.
type Pattern struct {
	Raw      string // the line as written, minus prefixes/suffixes
	Negate   bool   // leading '!' unignores matching paths
	DirOnly  bool   // trailing '/' restricts the match to directories
	Anchored bool   // leading '/' anchors the match at the repository root
	re       *regexp.Regexp
}

// Matcher evaluates a path against an ordered pattern list. The last
// matching pattern decides the outcome.
type Matcher struct {
	patterns []Pattern
}

// LoadMatcher reads the ignore file at the repository root. A missing file
// yields an empty matcher.
func LoadMatcher(repoRoot string) (*Matcher, error) {
	ignorePath := filepath.Join(repoRoot, core.IgnoreFileName)
	if !core.FileExists(ignorePath) {
		return &Matcher{}, nil
	}

	file, err := os.Open(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", core.IgnoreFileName, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", core.IgnoreFileName, err)
	}
	return NewMatcher(lines)
}

// NewMatcher compiles raw pattern lines, skipping blanks and comments.
func NewMatcher(lines []string) (*Matcher, error) {
	m := &Matcher{}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		p, err := compilePattern(trimmed)
		if err != nil {
			return nil, err
		}
		m.patterns = append(m.patterns, *p)
	}
	return m, nil
}

// Ignored reports whether relPath is excluded from staging. The metadata
// directory is hard-ignored and cannot be negated away.
func (m *Matcher) Ignored(relPath string) bool {
	normalized := core.NormalizePath(relPath)
	if core.IsMetadataPath(normalized) {
		return true
	}

	ignored := false
	for _, p := range m.patterns {
		if p.matches(normalized) {
			ignored = !p.Negate
		}
	}
	return ignored
}

func (p *Pattern) matches(normalized string) bool {
	if p.DirOnly {
		if normalized == p.Raw || strings.HasPrefix(normalized, p.Raw+"/") {
			return true
		}
	}
	return p.re.MatchString(normalized)
}

// compilePattern translates one ignore pattern into a regular expression:
// '**' crosses path components, '*' and '?' stop at '/', and everything
// regex-special is escaped.
func compilePattern(raw string) (*Pattern, error) {
	p := &Pattern{}

	if strings.HasPrefix(raw, "!") {
		p.Negate = true
		raw = raw[1:]
	}
	if strings.HasSuffix(raw, "/") {
		p.DirOnly = true
		raw = strings.TrimSuffix(raw, "/")
	}
	if strings.HasPrefix(raw, "/") {
		p.Anchored = true
		raw = strings.TrimPrefix(raw, "/")
	}
	p.Raw = raw

	var b strings.Builder
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		case '.', '+', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			b.WriteRune('\\')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}

	expr := b.String()
	if p.Anchored {
		expr = "^" + expr
	} else {
		expr = ".*" + expr
	}
	if p.DirOnly {
		expr += "/.*$"
	} else {
		// A bare name matches the file itself or anything beneath a
		// directory of that name.
		expr += "(/.*)?$"
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore pattern %q: %w", raw, err)
	}
	p.re = re
	return p, nil
}
