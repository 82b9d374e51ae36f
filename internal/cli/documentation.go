package cli

import (
	"fmt"
	"strings"
)

// DocKind tags what a documentation callback is being told about.
type DocKind int

const (
	DocCommand DocKind = iota
	DocOption
	DocFlag
)

// DocCallback is invoked once per command/option/flag during callback-mode
// emission, per §4.4.4, so a caller can render documentation anywhere —
// terminal, GUI, or an IDE output pane.
type DocCallback func(kind DocKind, name, description string, opt *Option)

const docColumn = 25

// Emit walks n via cb, visiting n itself as a DocCommand, then its
// options (DocFlag for boolean flags, DocOption otherwise), then
// recursing into subcommands.
func Emit(n *Node, cb DocCallback) {
	cb(DocCommand, n.Name, n.Description, nil)
	for _, o := range n.Options {
		kind := DocOption
		if o.isFlag() {
			kind = DocFlag
		}
		cb(kind, o.Name, o.Description, o)
	}
	for _, sub := range n.Subcommands {
		Emit(sub, cb)
	}
}

// Table renders one line per option of n, name padded to docColumn
// columns with the description wrapped in italics markers.
func Table(n *Node) string {
	var b strings.Builder
	for _, o := range n.Options {
		pad(&b, optionLabel(o), docColumn)
		b.WriteString("_")
		b.WriteString(o.Description)
		b.WriteString("_\n")
	}
	return b.String()
}

// Dense renders an 80-column help block: a "## name" header, an options
// block aligned to docColumn columns, then a "global options" block
// drawn from the parent node (if any).
func Dense(n *Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", n.Name)
	if n.Description != "" {
		b.WriteString(wrap80(n.Description))
		b.WriteString("\n\n")
	}
	if len(n.Options) > 0 {
		b.WriteString("options\n")
		for _, o := range n.Options {
			pad(&b, "  "+optionLabel(o), docColumn)
			b.WriteString(o.Description)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if n.Parent != nil && len(n.Parent.Options) > 0 {
		b.WriteString("global options\n")
		for _, o := range n.Parent.Options {
			pad(&b, "  "+optionLabel(o), docColumn)
			b.WriteString(o.Description)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Verbose renders a multi-section help page covering n and every
// descendant command, with nested indentation.
func Verbose(n *Node) string {
	var b strings.Builder
	verboseNode(&b, n, 0)
	return b.String()
}

func verboseNode(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s — %s\n", indent, n.Name, n.Description)
	for _, o := range n.Options {
		fmt.Fprintf(b, "%s  %s  %s\n", indent, optionLabel(o), o.Description)
	}
	for _, sub := range n.Subcommands {
		verboseNode(b, sub, depth+1)
	}
}

func optionLabel(o *Option) string {
	label := "--" + o.Name
	if o.HasLetter {
		label = fmt.Sprintf("-%c, %s", o.Letter, label)
	}
	return label
}

func pad(b *strings.Builder, s string, width int) {
	b.WriteString(s)
	for i := len(s); i < width; i++ {
		b.WriteByte(' ')
	}
}

func wrap80(s string) string {
	words := strings.Fields(s)
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if lineLen > 0 && lineLen+1+len(w) > 80 {
			b.WriteString("\n")
			lineLen = 0
		} else if i > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(w)
		lineLen += len(w)
	}
	return b.String()
}
