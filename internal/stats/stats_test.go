package stats

import (
	"strings"
	"testing"
)

func TestStatsPreservesInsertionOrder(t *testing.T) {
	s := New()
	s.Add("Scanner", "Tokens", 7)
	s.Add("NFA", "NFA states", 12)
	s.Add("NFA", "NFA edges", 15)

	out := s.String()
	ti := strings.Index(out, "Tokens")
	si := strings.Index(out, "NFA states")
	ei := strings.Index(out, "NFA edges")
	if ti == -1 || si == -1 || ei == -1 || !(ti < si && si < ei) {
		t.Errorf("rows out of order:\n%s", out)
	}
}

func TestStatsDividerBetweenTags(t *testing.T) {
	s := New()
	s.Add("Scanner", "Tokens", 7)
	s.Add("NFA", "NFA states", 12)

	out := s.String()
	if !strings.Contains(out, "----") {
		t.Errorf("expected a divider between tag groups:\n%s", out)
	}

	single := New()
	single.Add("Scanner", "Tokens", 7)
	if strings.Contains(single.String(), "----") {
		t.Error("single tag group needs no divider")
	}
}
