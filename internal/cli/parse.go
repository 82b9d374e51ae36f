package cli

import (
	"strconv"
	"strings"

	fcerrors "github.com/standardbeagle/filecleaner/internal/errors"
	"github.com/standardbeagle/filecleaner/internal/variant"
)

// Parse walks tokens against node, applying the five precedence rules of
// §4.4.2. root is passed down for parent-tree lookups on nodes flagged
// NodeParent; pass node itself for a top-level call.
func Parse(node *Node, tokens []string, root *Node) error {
	if root == nil {
		root = node
	}
	positionalOK := true
	positionalIndex := 0
	var pending *Option

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		switch {
		case pending != nil:
			if err := bindValue(node, pending, tok); err != nil {
				return err
			}
			pending = nil
			i++

		case strings.HasPrefix(tok, "--"):
			name := tok[2:]
			opt := node.findLong(name)
			if opt == nil && node.hasParent() {
				opt = root.findLong(name)
			}
			if opt == nil {
				if node.unchecked() {
					pending = unknownValueOption(name)
					i++
					continue
				}
				msg := "Unknown option: " + tok
				if hint := suggest(name, longOptionNames(node, root)); hint != "" {
					msg += " (did you mean --" + hint + "?)"
				}
				return fcerrors.NewParseError(tok, msg)
			}
			positionalOK = false
			if opt.isFlag() {
				node.Values.Append(opt.Name, variant.FromBool(true))
				i++
				continue
			}
			pending = opt
			i++

		case strings.HasPrefix(tok, "-") && node.singleDash() && len(tok) > 1:
			rest := tok[1:]
			if opt := node.findLetter(rest[0]); opt != nil && len(rest) == 1 && !opt.isFlag() {
				positionalOK = false
				pending = opt
				i++
				continue
			}
			if err := expandFlagPack(node, rest); err != nil {
				return err
			}
			positionalOK = false
			i++

		default:
			if sub := node.findSubcommand(tok); sub != nil {
				sub.Flags |= NodeActive
				sub.FirstToken = i + 1
				return Parse(sub, tokens[i+1:], root)
			}
			if positionalOK {
				if opt := node.optionByPositional(positionalIndex); opt != nil {
					if err := bindValue(node, opt, tok); err != nil {
						return err
					}
					positionalIndex++
					i++
					continue
				}
			}
			if pending != nil {
				if err := bindValue(node, pending, tok); err != nil {
					return err
				}
				pending = nil
				i++
				continue
			}
			msg := "No active option for value: " + tok
			if len(node.Subcommands) > 0 {
				if hint := suggest(tok, subcommandNames(node)); hint != "" {
					msg = "Unknown subcommand: " + tok + " (did you mean " + hint + "?)"
				}
			}
			return fcerrors.NewParseError(tok, msg)
		}
	}

	if pending != nil {
		return fcerrors.NewParseError("", "miss match arguments and values")
	}
	return nil
}

// unknownValueOption builds a throwaway string option used to capture an
// unchecked long option's following token without validating it.
func unknownValueOption(name string) *Option {
	return NewOption(name, TypeString, "")
}

func expandFlagPack(node *Node, letters string) error {
	matched := make([]*Option, 0, len(letters))
	for i := 0; i < len(letters); i++ {
		opt := node.findLetter(letters[i])
		if opt == nil || !opt.isFlag() {
			if node.unchecked() {
				continue
			}
			return fcerrors.NewParseError("-"+letters, "Unknown option: -"+string(letters[i]))
		}
		matched = append(matched, opt)
	}
	for _, opt := range matched {
		node.Values.Append(opt.Name, variant.FromBool(true))
	}
	return nil
}

func bindValue(node *Node, opt *Option, raw string) error {
	v, err := coerce(opt.Type, raw)
	if err != nil {
		return err
	}
	node.Values.Append(opt.Name, v)
	return nil
}

func coerce(t ValueType, raw string) (variant.Variant, error) {
	switch t {
	case TypeInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return variant.Null(), fcerrors.NewParseError(raw, "expected an integer")
		}
		return variant.FromInt(n), nil
	case TypeUint:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return variant.Null(), fcerrors.NewParseError(raw, "expected a non-negative integer")
		}
		return variant.FromUint(n), nil
	case TypeBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return variant.Null(), fcerrors.NewParseError(raw, "expected a boolean")
		}
		return variant.FromBool(b), nil
	default:
		return variant.FromString(raw), nil
	}
}
