package issue_test

import (
	"errors"
	"testing"

	"github.com/xraph/herald/issue"
)

func TestSnapshotFieldAccess(t *testing.T) {
	snap := &issue.Snapshot{
		Fields:  map[string]any{"Stage": map[string]any{"name": "Done"}, "Due": nil},
		Prior:   map[string]any{"Stage": map[string]any{"name": "Backlog"}},
		Changed: []string{"Stage"},
	}

	if _, ok := snap.Field("Stage"); !ok {
		t.Fatal("expected Stage to be present")
	}
	if _, ok := snap.Field("Due"); ok {
		t.Fatal("null field should be absent")
	}
	if _, ok := snap.PriorValue("Priority"); ok {
		t.Fatal("missing prior should be absent")
	}
	if !snap.IsChanged("Stage") || snap.IsChanged("Priority") {
		t.Fatal("unexpected changed set")
	}
}

func TestSnapshotZeroValueIsSafe(t *testing.T) {
	var snap issue.Snapshot
	if _, ok := snap.Field("x"); ok {
		t.Fatal("zero snapshot has no fields")
	}
	if snap.IsChanged("x") {
		t.Fatal("zero snapshot has no changes")
	}
	if len(snap.TagsNamed("Star")) != 0 {
		t.Fatal("zero snapshot has no tags")
	}
}

func TestTagsNamedKeepsOrder(t *testing.T) {
	snap := &issue.Snapshot{Tags: []issue.Tag{
		{Name: "Star", Owner: issue.User{Login: "a"}},
		{Name: "bug", Owner: issue.User{Login: "b"}},
		{Name: "Star", Owner: issue.User{Login: "c"}},
	}}

	got := snap.TagsNamed("Star")
	if len(got) != 2 || got[0].Owner.Login != "a" || got[1].Owner.Login != "c" {
		t.Fatalf("unexpected tags: %+v", got)
	}
}

func TestAttr(t *testing.T) {
	v, err := issue.Attr(map[string]any{"name": "Done"}, "name")
	if err != nil || v != "Done" {
		t.Fatalf("got %v, %v", v, err)
	}

	for _, in := range []any{nil, "plain", map[string]any{"other": 1}} {
		if _, err := issue.Attr(in, "name"); !errors.Is(err, issue.ErrNoAttribute) {
			t.Fatalf("Attr(%v): expected ErrNoAttribute, got %v", in, err)
		}
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{"", false},
		{"x", true},
		{0.0, false},
		{2.0, true},
		{false, false},
		{true, true},
		{map[string]any{}, true},
	}
	for _, c := range cases {
		if got := issue.Truthy(c.in); got != c.want {
			t.Errorf("Truthy(%#v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestText(t *testing.T) {
	if issue.Text(nil) != "" {
		t.Fatal("nil should render empty")
	}
	if issue.Text(3.0) != "3" {
		t.Fatalf("got %q", issue.Text(3.0))
	}
	if issue.Text("Done") != "Done" {
		t.Fatal("strings render as-is")
	}
}
