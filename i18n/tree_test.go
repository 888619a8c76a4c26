package i18n_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ralim/studybook/i18n"
)

func TestMerge_LayersActiveOverBase(t *testing.T) {
	t.Parallel()
	base := i18n.Tree{
		"a": i18n.Leaf("1"),
		"b": i18n.Branch(i18n.Tree{"c": i18n.Leaf("2")}),
	}
	active := i18n.Tree{
		"b": i18n.Branch(i18n.Tree{"c": i18n.Leaf("3")}),
	}
	result := i18n.Tree{}
	if err := i18n.Merge(result, base); err != nil {
		t.Fatal(err)
	}
	if err := i18n.Merge(result, active); err != nil {
		t.Fatal(err)
	}
	want := i18n.Tree{
		"a": i18n.Leaf("1"),
		"b": i18n.Branch(i18n.Tree{"c": i18n.Leaf("3")}),
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(i18n.Tree{"c": i18n.Leaf("2")}, base["b"].Sub); diff != "" {
		t.Errorf("merge should not modify the source (-want +got):\n%s", diff)
	}
}

func TestMerge_KeepsTargetOnlyKeys(t *testing.T) {
	t.Parallel()
	dst := i18n.Tree{
		"x": i18n.Branch(i18n.Tree{"keep": i18n.Leaf("k"), "swap": i18n.Leaf("old")}),
	}
	src := i18n.Tree{
		"x": i18n.Branch(i18n.Tree{"swap": i18n.Leaf("new")}),
	}
	if err := i18n.Merge(dst, src); err != nil {
		t.Fatal(err)
	}
	if text, _ := dst.Lookup("x.keep"); text != "k" {
		t.Error("keys missing in the source should stay")
	}
	if text, _ := dst.Lookup("x.swap"); text != "new" {
		t.Error("leaves in the source should replace the target")
	}
}

func TestMerge_BranchReplacesLeafAndLeafReplacesBranch(t *testing.T) {
	t.Parallel()
	dst := i18n.Tree{
		"leaf":   i18n.Leaf("text"),
		"branch": i18n.Branch(i18n.Tree{"a": i18n.Leaf("1")}),
	}
	src := i18n.Tree{
		"leaf":   i18n.Branch(i18n.Tree{"b": i18n.Leaf("2")}),
		"branch": i18n.Leaf("flat"),
	}
	if err := i18n.Merge(dst, src); err != nil {
		t.Fatal(err)
	}
	if text, _ := dst.Lookup("leaf.b"); text != "2" {
		t.Error("branch should replace leaf")
	}
	if text, _ := dst.Lookup("branch"); text != "flat" {
		t.Error("leaf should replace branch")
	}
}

func deepTree(depth int) i18n.Tree {
	tree := i18n.Tree{"leaf": i18n.Leaf("x")}
	for i := 0; i < depth; i++ {
		tree = i18n.Tree{"n": i18n.Branch(tree)}
	}
	return tree
}

func TestMerge_DepthGuard(t *testing.T) {
	t.Parallel()
	if err := i18n.Merge(i18n.Tree{}, deepTree(i18n.MaxDepth+1)); !errors.Is(err, i18n.ErrTooDeep) {
		t.Errorf("expected ErrTooDeep, got %v", err)
	}
	if err := i18n.Merge(i18n.Tree{}, deepTree(3)); err != nil {
		t.Errorf("shallow tree should merge, got %v", err)
	}
}

func TestFromMap(t *testing.T) {
	t.Parallel()
	tree, err := i18n.FromMap(map[string]any{
		"Title": "T",
		"Nested": map[string]any{
			"Inner": "I",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := i18n.Tree{
		"Title":  i18n.Leaf("T"),
		"Nested": i18n.Branch(i18n.Tree{"Inner": i18n.Leaf("I")}),
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("FromMap mismatch (-want +got):\n%s", diff)
	}

	_, err = i18n.FromMap(map[string]any{"Count": 5})
	if !errors.Is(err, i18n.ErrBadValue) {
		t.Errorf("numbers should be rejected, got %v", err)
	}
}

func TestLookupAndFlatten(t *testing.T) {
	t.Parallel()
	tree := i18n.Tree{
		"A": i18n.Branch(i18n.Tree{"B": i18n.Leaf("ab")}),
		"C": i18n.Leaf("c"),
	}
	if text, ok := tree.Lookup("A.B"); !ok || text != "ab" {
		t.Error("should find nested text")
	}
	if _, ok := tree.Lookup("A"); ok {
		t.Error("branches are not texts")
	}
	if _, ok := tree.Lookup("C.D"); ok {
		t.Error("cannot descend into a leaf")
	}
	want := map[string]string{"A/B": "ab", "C": "c"}
	if diff := cmp.Diff(want, tree.Flatten("/")); diff != "" {
		t.Errorf("flatten mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A.B", "C"}, tree.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestClone(t *testing.T) {
	t.Parallel()
	tree := i18n.Tree{"A": i18n.Branch(i18n.Tree{"B": i18n.Leaf("1")})}
	clone := tree.Clone()
	clone["A"].Sub["B"] = i18n.Leaf("2")
	if text, _ := tree.Lookup("A.B"); text != "1" {
		t.Error("clone should be deep")
	}
}

func TestSubstitute(t *testing.T) {
	t.Parallel()
	cases := []struct {
		text   string
		values map[string]any
		want   string
	}{
		{"Hello $name$", map[string]any{"name": "Ann"}, "Hello Ann"},
		{"Hi $x$", map[string]any{}, "Hi $x$"},
		{"Hi $x$", nil, "Hi $x$"},
		{"$a$ and $a$", map[string]any{"a": 1}, "1 and 1"},
		{"Page $page$ of $total$", map[string]any{"page": 2, "total": 10}, "Page 2 of 10"},
		{"$known$ $unknown$", map[string]any{"known": "k"}, "k $unknown$"},
	}
	for _, c := range cases {
		if got := i18n.Substitute(c.text, c.values); got != c.want {
			t.Errorf("Substitute(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}
