package cli

import (
	"strings"
	"testing"
)

func buildCountListTree() *Node {
	root := NewNode("prog", "file cleaner")

	count := NewNode("count", "count matches")
	count.WithSingleDash()
	count.AddOption(NewOption("source", TypeString, "source path").WithLetter('s'))
	count.AddOption(NewOption("pattern", TypeString, "pattern").WithLetter('p'))
	count.AddOption(NewFlag("R", "recursive").WithLetter('R'))

	list := NewNode("list", "list matches")
	list.WithSingleDash()
	list.AddOption(NewOption("source", TypeString, "source path").WithLetter('s'))

	root.AddSubcommand(count)
	root.AddSubcommand(list)
	return root
}

func TestParseSubcommand(t *testing.T) {
	root := buildCountListTree()
	argv := []string{"count", "-s", "./src", "-p", "TODO", "-R"}

	if err := Parse(root, argv, nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	active := root.Active()
	if active == nil || active.Name != "count" {
		t.Fatalf("expected active subcommand count, got %+v", active)
	}
	if got := active.GetVariantView("source").AsString(); got != "./src" {
		t.Errorf("source = %q, want ./src", got)
	}
	if got := active.GetVariantView("pattern").AsString(); got != "TODO" {
		t.Errorf("pattern = %q, want TODO", got)
	}
	if !active.GetVariantView("R").AsBool() {
		t.Errorf("R = false, want true")
	}
}

func TestParseUnknownOptionErrors(t *testing.T) {
	root := buildCountListTree()
	if err := Parse(root, []string{"count", "--bogus"}, nil); err == nil {
		t.Errorf("expected an error for an unknown option")
	}
}

func TestParseUnknownOptionSuggestsClosestName(t *testing.T) {
	root := buildCountListTree()
	err := Parse(root, []string{"count", "--patern"}, nil)
	if err == nil {
		t.Fatalf("expected an error for an unknown option")
	}
	if !strings.Contains(err.Error(), "did you mean --pattern") {
		t.Errorf("error %q does not suggest a close option name", err.Error())
	}
}

func TestParseUnknownSubcommandSuggestsClosestName(t *testing.T) {
	root := buildCountListTree()
	err := Parse(root, []string{"cuont"}, nil)
	if err == nil {
		t.Fatalf("expected an error for an unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean count") {
		t.Errorf("error %q does not suggest the closest subcommand", err.Error())
	}
}

func TestParseMissingValueErrors(t *testing.T) {
	root := buildCountListTree()
	if err := Parse(root, []string{"count", "-s"}, nil); err == nil {
		t.Errorf("expected an error for a missing value")
	}
}

func TestToStringRoundtrip(t *testing.T) {
	root := buildCountListTree()
	argv := []string{"count", "-s", "./src", "-p", "TODO", "-R"}
	if err := Parse(root, argv, nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	reparsed := buildCountListTree()
	rebuilt := ToString(root)
	tokens, err := Tokenize(rebuilt, ModeBasic)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", rebuilt, err)
	}
	if err := Parse(reparsed, tokens, nil); err != nil {
		t.Fatalf("Parse(%q): %v", tokens, err)
	}

	activeA := root.Active()
	activeB := reparsed.Active()
	if activeA == nil || activeB == nil || activeA.Name != activeB.Name {
		t.Fatalf("active subcommand mismatch: %+v vs %+v", activeA, activeB)
	}
	if activeA.GetVariantView("source").AsString() != activeB.GetVariantView("source").AsString() {
		t.Errorf("source mismatch after roundtrip")
	}
	if activeA.GetVariantView("R").AsBool() != activeB.GetVariantView("R").AsBool() {
		t.Errorf("R mismatch after roundtrip")
	}
}
