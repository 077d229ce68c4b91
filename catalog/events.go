package catalog

import (
	"github.com/xraph/herald/issue"
	"github.com/xraph/herald/message"
)

// ColorPositive is the accent used by the built-in "Issue Resolved" event.
const ColorPositive message.Color = "43B581"

// CommentAdded reports whether the mutation created at least one comment.
// Edited comments do not count.
func CommentAdded(snap *issue.Snapshot) bool {
	return snap.Comments.Changed && len(snap.Comments.Added) >= 1
}

// CommentText returns the text of the first added comment.
func CommentText(snap *issue.Snapshot) any {
	if len(snap.Comments.Added) == 0 {
		return nil
	}
	return snap.Comments.Added[0].Text
}

// BecomesReported reports whether the issue was created by this mutation.
func BecomesReported(snap *issue.Snapshot) bool { return snap.BecomesReported }

// BecomesResolved reports whether the issue was resolved by this mutation.
func BecomesResolved(snap *issue.Snapshot) bool { return snap.BecomesResolved }

// IssueID returns the issue's readable identifier.
func IssueID(snap *issue.Snapshot) any { return snap.ID }

// DefaultDescriptors returns the built-in event table.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Title:             "Stage Changed",
			NewDescription:    "Stage set to $newValue.",
			ChangeDescription: "Stage changed from $oldValue to $newValue.",
			FieldKey:          "Stage",
			NameKey:           "name",
		},
		{
			Title:             "Card Moved",
			NewDescription:    "Card moved to $newValue.",
			ChangeDescription: "Card moved from $oldValue to $newValue.",
			FieldKey:          "Stage",
			NameKey:           "name",
		},
		{
			Title:             "Assignee Changed",
			NewDescription:    "Assignee set to $newValue.",
			ChangeDescription: "Assignee changed from $oldValue to $newValue.",
			FieldKey:          "Assignee",
			NameKey:           "visibleName",
		},
		{
			Title:          "Comment Added",
			NewDescription: "$newValue",
			Match:          CommentAdded,
			Value:          CommentText,
		},
		{
			Title:             "Priority Changed",
			NewDescription:    "The issue priority was set to $newValue.",
			ChangeDescription: "The issue priority was changed from $oldValue to $newValue.",
			FieldKey:          "Priority",
			NameKey:           "name",
		},
		{
			Title:          "Issue Created",
			NewDescription: "The issue with the ID $newValue was created.",
			Match:          BecomesReported,
			Value:          IssueID,
		},
		{
			Title:          "Issue Resolved",
			NewDescription: "The issue with the ID $newValue has been resolved.",
			Color:          ColorPositive,
			Match:          BecomesResolved,
			Value:          IssueID,
		},
	}
}

// Default returns a catalog holding the built-in event table.
func Default() *Catalog {
	return MustNew(DefaultDescriptors()...)
}
