package catalog_test

import (
	"testing"

	"github.com/xraph/herald/catalog"
	"github.com/xraph/herald/issue"
)

func titles(drafts []catalog.Draft) []string {
	out := make([]string, len(drafts))
	for i, d := range drafts {
		out[i] = d.Title
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := catalog.Default()
	if c.Len() != 7 {
		t.Fatalf("expected 7 built-in events, got %d", c.Len())
	}

	t.Run("stage moves fire both stage events", func(t *testing.T) {
		snap := &issue.Snapshot{
			Fields:  map[string]any{"Stage": map[string]any{"name": "Done"}},
			Prior:   map[string]any{"Stage": map[string]any{"name": "Review"}},
			Changed: []string{"Stage"},
		}
		drafts, err := c.Match(snap)
		if err != nil {
			t.Fatal(err)
		}
		got := titles(drafts)
		if len(got) != 2 || got[0] != "Stage Changed" || got[1] != "Card Moved" {
			t.Fatalf("unexpected drafts: %v", got)
		}
		if drafts[1].Description != "Card moved from Review to Done." {
			t.Errorf("Description = %q", drafts[1].Description)
		}
	})

	t.Run("assignee uses visible name", func(t *testing.T) {
		snap := &issue.Snapshot{
			Fields:  map[string]any{"Assignee": map[string]any{"visibleName": "Ada Lovelace"}},
			Changed: []string{"Assignee"},
		}
		drafts, err := c.Match(snap)
		if err != nil {
			t.Fatal(err)
		}
		if len(drafts) != 1 || drafts[0].Description != "Assignee set to Ada Lovelace." {
			t.Fatalf("unexpected drafts: %+v", drafts)
		}
	})

	t.Run("comment added", func(t *testing.T) {
		snap := &issue.Snapshot{
			Comments: issue.Comments{
				Changed: true,
				Added:   []issue.Comment{{Text: "looks good"}, {Text: "second"}},
			},
		}
		drafts, err := c.Match(snap)
		if err != nil {
			t.Fatal(err)
		}
		if len(drafts) != 1 || drafts[0].Description != "looks good" {
			t.Fatalf("unexpected drafts: %+v", drafts)
		}
	})

	t.Run("edited comment does not fire", func(t *testing.T) {
		snap := &issue.Snapshot{Comments: issue.Comments{Changed: true}}
		drafts, err := c.Match(snap)
		if err != nil {
			t.Fatal(err)
		}
		if len(drafts) != 0 {
			t.Fatalf("unexpected drafts: %+v", drafts)
		}
	})

	t.Run("resolution is positive", func(t *testing.T) {
		snap := &issue.Snapshot{ID: "PRJ-4", BecomesResolved: true}
		drafts, err := c.Match(snap)
		if err != nil {
			t.Fatal(err)
		}
		if len(drafts) != 1 {
			t.Fatalf("unexpected drafts: %+v", drafts)
		}
		if drafts[0].Color != catalog.ColorPositive {
			t.Errorf("Color = %q", drafts[0].Color)
		}
		if drafts[0].Description != "The issue with the ID PRJ-4 has been resolved." {
			t.Errorf("Description = %q", drafts[0].Description)
		}
	})

	t.Run("creation", func(t *testing.T) {
		snap := &issue.Snapshot{ID: "PRJ-5", BecomesReported: true}
		drafts, err := c.Match(snap)
		if err != nil {
			t.Fatal(err)
		}
		if got := titles(drafts); len(got) != 1 || got[0] != "Issue Created" {
			t.Fatalf("unexpected drafts: %v", got)
		}
	})
}
