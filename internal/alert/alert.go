// Package alert defines the diagnostic Alert type the checker emits and a
// Sink that deduplicates them and, in check mode, suppresses warnings.
package alert

import "github.com/elarsonSU/egret/internal/loc"

// Kind identifies which of the checker's rules raised an alert.
type Kind string

const (
	KindAnchorUsage          Kind = "anchor usage"
	KindAnchorInMiddle       Kind = "anchor middle"
	KindCharsetSeparator     Kind = "charset sep"
	KindDuplicateChar        Kind = "duplicate char"
	KindBadRange             Kind = "bad range"
	KindCharsetBrace         Kind = "charset brace"
	KindDuplicatePunctuation Kind = "duplicate punc charset"
	KindOptionalBrace        Kind = "optional brace"
	KindWildPunctuation      Kind = "wild punctuation"
	KindRepeatPunctuation    Kind = "repeat punctuation"
	KindDigitTooOptional     Kind = "digit too optional"
	KindIgnored              Kind = "ignored"
)

// Severity distinguishes a hard violation from a softer warning; warnings
// are suppressed entirely in check mode.
type Severity int

const (
	Violation Severity = iota
	Warning
)

// Alert is one diagnostic: a message anchored at a primary location in the
// regex source, with an optional second location, suggested fix, and
// example accepted string.
type Alert struct {
	Kind     Kind
	Severity Severity
	Message  string

	Suggest    string
	HasSuggest bool

	Example    string
	HasExample bool

	Loc1 loc.Location
	Loc2 loc.Location // loc.None or the zero Location when unused; a zero Loc2 is never highlighted
}

// dedupKey identifies an alert for suppression purposes: at most one alert
// of a given kind is kept per primary-location start offset, regardless of
// how many paths independently raise it.
type dedupKey struct {
	kind  Kind
	start int
}

// Sink accumulates alerts in first-raised order, deduplicating by
// (kind, primary location start) and dropping warnings when checkMode is
// set. A warning is still marked seen even when suppressed, so a later,
// differently-worded alert for the same spot doesn't reappear.
type Sink struct {
	checkMode bool
	seen      map[dedupKey]bool
	alerts    []Alert
}

// NewSink returns an empty Sink.
func NewSink(checkMode bool) *Sink {
	return &Sink{checkMode: checkMode, seen: map[dedupKey]bool{}}
}

// Add records a, unless its (kind, location) has already been seen, or it is
// a warning and the sink is in check mode.
func (s *Sink) Add(a Alert) {
	key := dedupKey{a.Kind, a.Loc1.Start}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	if a.Severity == Warning && s.checkMode {
		return
	}
	s.alerts = append(s.alerts, a)
}

// Alerts returns every alert kept so far, in first-raised order.
func (s *Sink) Alerts() []Alert {
	return s.alerts
}
