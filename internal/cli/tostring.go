package cli

import (
	"strings"

	"github.com/standardbeagle/filecleaner/internal/variant"
)

const shellSpecial = " \"'\\()|&;<>*?[]{}$`"

// ToString reconstructs a shell-safe argv string from n's parsed values:
// boolean true values become -name, everything else becomes --name
// value, with values containing shell-special characters quoted and
// escaped.
func ToString(n *Node) string {
	var parts []string
	for _, name := range n.Values.Names() {
		for _, v := range n.Values.GetAll(name) {
			parts = append(parts, toStringOne(name, v))
		}
	}
	if active := n.Active(); active != nil {
		parts = append(parts, active.Name)
		if rest := ToString(active); rest != "" {
			parts = append(parts, rest)
		}
	}
	return strings.Join(parts, " ")
}

func toStringOne(name string, v variant.Variant) string {
	if v.IsBool() && v.AsBool() {
		return "-" + name
	}
	return "--" + name + " " + quoteIfNeeded(v.AsString())
}

func quoteIfNeeded(s string) string {
	if s != "" && !strings.ContainsAny(s, shellSpecial) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}
