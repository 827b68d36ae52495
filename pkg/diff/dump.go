package diff

import (
	"fmt"
	"strings"
)

// Dump renders the changes in the textual interchange format used to
// compare results across implementations of this pipeline: one line per
// change with its line ranges, then one indented line per inner change.
func (d *LinesDiff) Dump() string {
	var b strings.Builder
	for _, c := range d.Changes {
		n := len(c.InnerChanges)
		plural := "s"
		if n == 1 {
			plural = ""
		}
		fmt.Fprintf(&b, "Lines %d-%d -> Lines %d-%d (%d inner change%s)\n",
			c.Original.Start, c.Original.End,
			c.Modified.Start, c.Modified.End,
			n, plural)
		for _, ic := range c.InnerChanges {
			fmt.Fprintf(&b, "     Inner: %v -> %v\n", ic.Original, ic.Modified)
		}
	}
	return b.String()
}
