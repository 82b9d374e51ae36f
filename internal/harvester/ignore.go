package harvester

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreRule is one parsed line of an ignore file. Exactly one of the
// flags is meaningful for any given rule:
//   - Root:     the rule matches only the first path segment under the
//     project root ("/name" syntax).
//   - Folder:   the rule matches any intermediate path segment
//     ("name" or "name/" syntax, not root-anchored).
//   - Wildcard: the rule is a doublestar glob ("*" or "?" present).
type IgnoreRule struct {
	Pattern  string
	Folder   bool
	Root     bool
	Wildcard bool
}

// IgnoreSet is an ordered collection of ignore rules applied by the
// harvester to every candidate path before it is emitted.
type IgnoreSet struct {
	rules []IgnoreRule
}

// NewIgnoreSet returns an empty rule set.
func NewIgnoreSet() *IgnoreSet {
	return &IgnoreSet{}
}

// LoadIgnoreFile discovers and parses the project's ignore file per §6.4:
// prefer ".gitignore" at root, otherwise the first file matching
// "*ignore*" in root, bounded to 20 candidates. Returns an empty, valid
// IgnoreSet if no ignore file exists.
func LoadIgnoreFile(root string) (*IgnoreSet, error) {
	set := NewIgnoreSet()

	gitignore := filepath.Join(root, ".gitignore")
	if f, err := os.Open(gitignore); err == nil {
		defer f.Close()
		if err := set.parse(f); err != nil {
			return nil, err
		}
		return set, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return set, nil
	}
	checked := 0
	for _, e := range entries {
		if e.IsDir() || checked >= 20 {
			continue
		}
		if strings.Contains(strings.ToLower(e.Name()), "ignore") {
			checked++
			f, err := os.Open(filepath.Join(root, e.Name()))
			if err != nil {
				continue
			}
			err = set.parse(f)
			f.Close()
			if err != nil {
				return nil, err
			}
			break
		}
	}
	return set, nil
}

func (s *IgnoreSet) parse(f *os.File) error {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern parses one ignore-file line into a rule and appends it.
func (s *IgnoreSet) AddPattern(line string) {
	rule := IgnoreRule{}

	if strings.ContainsAny(line, "*?") {
		rule.Wildcard = true
		rule.Pattern = filepath.ToSlash(line)
		s.rules = append(s.rules, rule)
		return
	}

	if strings.HasPrefix(line, "/") {
		rule.Root = true
		rule.Pattern = strings.TrimSuffix(strings.TrimPrefix(line, "/"), "/")
		s.rules = append(s.rules, rule)
		return
	}

	rule.Folder = true
	rule.Pattern = strings.TrimSuffix(line, "/")
	s.rules = append(s.rules, rule)
}

// ShouldIgnore reports whether relPath (forward-slash, relative to the
// project root) is excluded by any rule in the set.
func (s *IgnoreSet) ShouldIgnore(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	segments := strings.Split(relPath, "/")

	for _, rule := range s.rules {
		switch {
		case rule.Wildcard:
			if ok, _ := doublestar.Match(rule.Pattern, relPath); ok {
				return true
			}
			if base := segments[len(segments)-1]; base != relPath {
				if ok, _ := doublestar.Match(rule.Pattern, base); ok {
					return true
				}
			}
		case rule.Root:
			if len(segments) > 0 && segments[0] == rule.Pattern {
				return true
			}
		case rule.Folder:
			for _, seg := range segments {
				if seg == rule.Pattern {
					return true
				}
			}
		}
	}
	return false
}
