package catalog

import (
	"strings"

	"github.com/xraph/herald/issue"
)

// Template placeholders.
const (
	OldValue = "$oldValue"
	NewValue = "$newValue"
)

// Render substitutes the first $oldValue and then the first $newValue in
// tpl. Later occurrences of either placeholder are left untouched.
func Render(tpl string, oldValue, newValue any) string {
	out := strings.Replace(tpl, OldValue, issue.Text(oldValue), 1)
	return strings.Replace(out, NewValue, issue.Text(newValue), 1)
}
