package cli

import "github.com/standardbeagle/filecleaner/internal/variant"

// NodeFlags are the per-node bit flags from §3.3.
type NodeFlags uint8

const (
	NodeActive NodeFlags = 1 << iota
	NodeParent           // unknown options fall back to the parent tree
	NodeUnchecked
	NodeSingleDash // enable -abc flag bundling for this node
)

// Node is one command or subcommand in the tree. Nodes are mutated only
// by Parse and by the code building the tree; they are never shared
// across goroutines without external synchronization.
type Node struct {
	Name        string
	Description string
	Options     []*Option
	Subcommands []*Node
	Values      *variant.Arguments
	Flags       NodeFlags
	FirstToken  int
	Parent      *Node
}

// NewNode returns an empty command node with its own value store.
func NewNode(name, description string) *Node {
	return &Node{Name: name, Description: description, Values: variant.New()}
}

// AddOption appends a child option and returns the node for chaining.
func (n *Node) AddOption(o *Option) *Node {
	n.Options = append(n.Options, o)
	return n
}

// AddSubcommand appends a child command node, wiring its Parent pointer.
func (n *Node) AddSubcommand(child *Node) *Node {
	child.Parent = n
	n.Subcommands = append(n.Subcommands, child)
	return n
}

// WithParentLookup enables falling back to the parent tree for unknown
// long options.
func (n *Node) WithParentLookup() *Node {
	n.Flags |= NodeParent
	return n
}

// WithUnchecked makes unknown options silently attach to the next value
// instead of erroring.
func (n *Node) WithUnchecked() *Node {
	n.Flags |= NodeUnchecked
	return n
}

// WithSingleDash enables -abc flag-letter bundling on this node.
func (n *Node) WithSingleDash() *Node {
	n.Flags |= NodeSingleDash
	return n
}

func (n *Node) isActive() bool   { return n.Flags&NodeActive != 0 }
func (n *Node) hasParent() bool  { return n.Flags&NodeParent != 0 }
func (n *Node) unchecked() bool  { return n.Flags&NodeUnchecked != 0 }
func (n *Node) singleDash() bool { return n.Flags&NodeSingleDash != 0 }

// findLong resolves a long option name against this node's own options.
func (n *Node) findLong(name string) *Option {
	for _, o := range n.Options {
		if o.matchesLong(name) {
			return o
		}
	}
	return nil
}

// findLetter resolves a single-character alias against this node's own
// options.
func (n *Node) findLetter(letter byte) *Option {
	for _, o := range n.Options {
		if o.matchesLetter(letter) {
			return o
		}
	}
	return nil
}

// findSubcommand resolves a subcommand by name.
func (n *Node) findSubcommand(name string) *Node {
	for _, c := range n.Subcommands {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Active returns the single subcommand marked active, if any — the
// deepest node reached during argv parsing.
func (n *Node) Active() *Node {
	for _, c := range n.Subcommands {
		if c.isActive() {
			if deeper := c.Active(); deeper != nil {
				return deeper
			}
			return c
		}
	}
	return nil
}

// GetVariantView returns the first value bound to name on this node; when
// an active subcommand exists and dispatch is requested, callers should
// call GetVariantView on Active() directly (§4.4.3's tag-active form).
func (n *Node) GetVariantView(name string) variant.Variant {
	return n.Values.GetFirst(name)
}

// GetAll returns every value bound to name on this node, in insertion
// order.
func (n *Node) GetAll(name string) []variant.Variant {
	return n.Values.GetAll(name)
}

func (n *Node) optionByPositional(index int) *Option {
	for _, o := range n.Options {
		if o.positional == index {
			return o
		}
	}
	return nil
}
