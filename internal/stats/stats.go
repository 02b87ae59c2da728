// Package stats collects the tag/name/value counters the engine reports
// under --stats, printed in insertion order with a divider between tags.
package stats

import (
	"fmt"
	"strings"
)

type stat struct {
	tag   string
	name  string
	value int
}

// Stats accumulates counters across the scanner, parse tree, NFA, path, and
// test-generation stages.
type Stats struct {
	list []stat
}

// New returns an empty Stats collector.
func New() *Stats {
	return &Stats{}
}

// Add records one counter under the given tag.
func (s *Stats) Add(tag, name string, value int) {
	s.list = append(s.list, stat{tag: tag, name: name, value: value})
}

const width = 30

// String renders the stats table, a divider line drawn whenever the tag
// changes from the previous entry.
func (s *Stats) String() string {
	var b strings.Builder
	prevTag := ""
	for _, st := range s.list {
		if st.tag != prevTag && prevTag != "" {
			b.WriteString(strings.Repeat("-", width+8))
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-*s| %d\n", width, st.name, st.value)
		prevTag = st.tag
	}
	return b.String()
}
