package variant

import "testing"

func TestArgumentsInsertionOrder(t *testing.T) {
	a := New()
	a.Append("source", FromString("./src"))
	a.Append("pattern", FromString("TODO"))
	a.Append("pattern", FromString("FIXME"))

	names := a.Names()
	want := []string{"source", "pattern"}
	if len(names) != len(want) {
		t.Fatalf("expected %d distinct names, got %d", len(want), len(names))
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("name[%d] = %q, want %q", i, names[i], n)
		}
	}
}

func TestFindArgumentKth(t *testing.T) {
	a := New()
	a.Append("pattern", FromString("TODO"))
	a.Append("pattern", FromString("FIXME"))

	v0, ok := a.FindArgument("pattern", 0)
	if !ok || v0.AsString() != "TODO" {
		t.Errorf("expected TODO at index 0, got %q ok=%v", v0.AsString(), ok)
	}
	v1, ok := a.FindArgument("pattern", 1)
	if !ok || v1.AsString() != "FIXME" {
		t.Errorf("expected FIXME at index 1, got %q ok=%v", v1.AsString(), ok)
	}
	if _, ok := a.FindArgument("pattern", 2); ok {
		t.Errorf("expected no third pattern")
	}
}

func TestGetFirstMissingIsNull(t *testing.T) {
	a := New()
	v := a.GetFirst("missing")
	if !v.IsNull() {
		t.Errorf("expected null variant for missing name")
	}
}

func TestSetFirstOverwritesOnlyFirst(t *testing.T) {
	a := New()
	a.Append("R", FromBool(false))
	a.Append("R", FromBool(true))
	a.SetFirst("R", FromBool(true))

	all := a.GetAll("R")
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if !all[0].AsBool() || !all[1].AsBool() {
		t.Errorf("expected both entries true, got %v %v", all[0].AsBool(), all[1].AsBool())
	}
}

func TestRemoveByName(t *testing.T) {
	a := New()
	a.Append("a", FromInt(1))
	a.Append("b", FromInt(2))
	a.Append("a", FromInt(3))

	removed := a.RemoveByName("a")
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if a.Has("a") {
		t.Errorf("expected 'a' fully removed")
	}
	if !a.Has("b") {
		t.Errorf("expected 'b' to remain")
	}
}

func TestMerge(t *testing.T) {
	a := New()
	a.Append("x", FromInt(1))
	b := New()
	b.Append("y", FromInt(2))

	a.Merge(b)
	if a.Len() != 2 {
		t.Errorf("expected merged length 2, got %d", a.Len())
	}
}
