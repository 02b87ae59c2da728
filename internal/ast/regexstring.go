package ast

// RegexString represents a CharSet collapsed with an unbounded repetition
// into a single "string atom" edge, e.g. the whole of "\w+" becomes one
// RegexString rather than a loop over a single-character CharSet edge.
type RegexString struct {
	ID    int
	Set   *CharSet
	Lower int
	Upper int // -1 means unbounded
}

// IsWildCandidate reports whether this atom interests the "wild
// punctuation" check: its set is the "." class or complemented.
func (r *RegexString) IsWildCandidate() bool {
	return r.Set.IsWildcard() || r.Set.Complement
}

// IsValidCharacter reports whether c could appear in this string atom.
func (r *RegexString) IsValidCharacter(c rune) bool {
	return r.Set.IsWildcard() || r.Set.IsValidCharacter(c)
}

// IsRepeatPuncCandidate reports whether the underlying set degenerates to a
// single punctuation character, the shape "repeat punctuation" looks for.
func (r *RegexString) IsRepeatPuncCandidate() bool {
	return r.Set.IsRepeatPuncCandidate()
}

// EvilPerturbations returns the fixed set of perturbation substrings for a
// string atom, given the substring it contributed to a path (the caller
// appends prefix/suffix framing and the collected punctuation marks
// separately).
func EvilPerturbations(substring string) []string {
	out := []string{"", "_", "6", " "}
	if substring == "" {
		return out
	}
	out = append(out, substring[:1])

	half := len(substring) / 2
	before, after := substring[:half], substring[half:]
	out = append(out, before+"4"+after, before+" "+after, before+"_"+after)

	upper := []rune(substring)
	lower := []rune(substring)
	mixed := []rune(substring)
	for i := range upper {
		upper[i] = toUpper(upper[i])
		lower[i] = toLower(lower[i])
		switch i {
		case 0:
			mixed[i] = toLower(mixed[i])
		case 1:
			mixed[i] = toUpper(mixed[i])
		}
	}
	out = append(out, string(upper), string(lower), string(mixed))
	return out
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
