// Package cli implements the hierarchical CLI options engine: a command
// tree with subcommands, positional/named arguments, short/long forms,
// flag bundling, two tokenizer modes, and three documentation emission
// modes, modeled on the original gd::cli options/option pair.
package cli

import "github.com/standardbeagle/filecleaner/internal/variant"

// OptionFlags are the per-option bit flags from §3.2.
type OptionFlags uint8

const (
	FlagGlobal OptionFlags = 1 << iota
	FlagSingle             // consumes a single value (not a flag)
	FlagFlag               // boolean, never consumes a value
	FlagOption             // a named, valued option
)

// ValueType is the declared type tag an option's value is coerced to.
type ValueType int

const (
	TypeBool ValueType = iota
	TypeInt
	TypeUint
	TypeString
)

// Option is a named input a command accepts. Options are created when
// the command tree is built and are immutable once parsing starts.
type Option struct {
	Name        string
	Letter      byte // 0 if no single-character alias
	HasLetter   bool
	Type        ValueType
	Flags       OptionFlags
	Description string
	Rules       *variant.Arguments // validation rules, e.g. {min, max, enum}
	positional  int                // -1 if this option cannot be filled positionally
}

// NewOption returns a valued, long-form-only option.
func NewOption(name string, t ValueType, description string) *Option {
	return &Option{Name: name, Type: t, Flags: FlagOption, Description: description, positional: -1}
}

// NewFlag returns a boolean flag option: it never consumes a value.
func NewFlag(name string, description string) *Option {
	return &Option{Name: name, Type: TypeBool, Flags: FlagFlag, Description: description, positional: -1}
}

// WithLetter sets the option's single-character alias.
func (o *Option) WithLetter(letter byte) *Option {
	o.Letter = letter
	o.HasLetter = true
	return o
}

// WithGlobal sets FlagGlobal on the option. Parent lookup does not consult
// this flag: every option of the root is visible to a node that has
// parent lookup enabled.
func (o *Option) WithGlobal() *Option {
	o.Flags |= FlagGlobal
	return o
}

// WithPositional marks the option fillable at the given 0-based
// positional index before any named option has been seen.
func (o *Option) WithPositional(index int) *Option {
	o.positional = index
	return o
}

func (o *Option) isFlag() bool {
	return o.Flags&FlagFlag != 0
}

func (o *Option) matchesLong(name string) bool {
	return o.Name == name
}

func (o *Option) matchesLetter(letter byte) bool {
	return o.HasLetter && o.Letter == letter
}
