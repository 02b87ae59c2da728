package ast

import "strings"

// IsGoodRange reports whether lo-hi is a legitimate a-z, A-Z, or 0-9
// range. The low end must sit below the class's last member and the high
// end above its first, so degenerate ranges at a class's ends ("a-a", "z-z")
// are not sanctioned, while one inside a class ("b-b") is. A
// complemented set additionally sanctions any range ending at or below
// 0x1F, since those only restrict the excluded control characters. The
// "|-|" and ",-," shapes are a single repeated separator character, not a
// malformed range.
func (c *CharSet) IsGoodRange(lo, hi rune) bool {
	if lo == '|' && hi == '|' {
		return true
	}
	if lo == ',' && hi == ',' {
		return true
	}
	switch {
	case lo >= 'a' && lo < 'z' && hi > 'a' && hi <= 'z':
		return true
	case lo >= 'A' && lo < 'Z' && hi > 'A' && hi <= 'Z':
		return true
	case lo >= '0' && lo < '9' && hi > '0' && hi <= '9':
		return true
	}
	if c.Complement && hi <= 0x1F {
		return true
	}
	return false
}

// badRangeSplits maps each recognized cross-class range to the two ranges
// its author likely meant: the first entry covers the range's start class,
// the second its end class.
var badRangeSplits = map[[2]rune][2]string{
	{'A', 'z'}: {"A-Z", "a-z"},
	{'A', '9'}: {"A-Z", "0-9"},
	{'a', 'Z'}: {"a-z", "A-Z"},
	{'a', '9'}: {"a-z", "0-9"},
	{'0', 'Z'}: {"0-9", "A-Z"},
	{'0', 'z'}: {"0-9", "a-z"},
	{'1', 'Z'}: {"0-9", "A-Z"},
	{'1', 'z'}: {"0-9", "a-z"},
}

// FixBadRange renders the whole set with the bad range lo-hi replaced by
// the split its author likely meant: when the set already carries a range
// of one endpoint's class elsewhere, only the missing class is added;
// otherwise both halves appear.
func (c *CharSet) FixBadRange(lo, hi rune) string {
	var b strings.Builder
	b.WriteByte('[')
	if c.Complement {
		b.WriteByte('^')
	}
	for _, it := range c.Items {
		if it.Kind == ItemRange && it.Lo == lo && it.Hi == hi {
			b.WriteString(c.badRangeReplacement(lo, hi))
			continue
		}
		writeItem(&b, it)
	}
	b.WriteByte(']')
	return b.String()
}

func (c *CharSet) badRangeReplacement(lo, hi rune) string {
	pair, ok := badRangeSplits[[2]rune{lo, hi}]
	if !ok {
		return string(lo) + "-" + string(hi)
	}
	first, second := pair[0], pair[1]
	switch {
	case c.hasRangeInClass(first, lo, hi):
		return second
	case c.hasRangeInClass(second, lo, hi):
		return first
	default:
		return first + second
	}
}

// hasRangeInClass reports whether some other range item of the set lies
// entirely within the class span describes (e.g. "A-Z").
func (c *CharSet) hasRangeInClass(span string, skipLo, skipHi rune) bool {
	bounds := []rune(span)
	for _, it := range c.Items {
		if it.Kind != ItemRange || (it.Lo == skipLo && it.Hi == skipHi) {
			continue
		}
		if it.Lo >= bounds[0] && it.Hi <= bounds[2] {
			return true
		}
	}
	return false
}

func writeItem(b *strings.Builder, it CharSetItem) {
	switch it.Kind {
	case ItemCharacter:
		b.WriteRune(it.Char)
	case ItemClass:
		b.WriteByte('\\')
		b.WriteRune(it.Char)
	case ItemRange:
		b.WriteRune(it.Lo)
		b.WriteByte('-')
		b.WriteRune(it.Hi)
	}
}

// fullClassPairs are the separator shapes that read as a whole class, the
// only ones the comma fix rewrites to a hyphenated range.
var fullClassPairs = map[[2]rune]bool{
	{'0', '9'}: true,
	{'a', 'z'}: true,
	{'A', 'Z'}: true,
}

// FixCommaBarCharset rewrites a 3-item set whose middle item is a literal
// "|" or "," into an equivalent shape without the stray separator. Content
// shaped like a whole class ("0,9") becomes a hyphenated range; anything
// else just drops the separator.
func (c *CharSet) FixCommaBarCharset(sep rune) string {
	if len(c.Items) != 3 {
		return c.GetCharsetAsString()
	}
	first, third := c.Items[0], c.Items[2]
	if first.Kind == ItemCharacter && third.Kind == ItemCharacter {
		if fullClassPairs[[2]rune{first.Char, third.Char}] {
			return string(first.Char) + "-" + string(third.Char)
		}
		return string(first.Char) + string(third.Char)
	}
	return c.GetCharsetAsString()
}

// ReplaceWithParens rewrites the set's surrounding "[" and "]" to "(" and
// ")" in place, leaving its contents untouched. Used as the "|"-alternation
// rewrite suggestion ("[a|b]" -> "(a|b)").
func (c *CharSet) ReplaceWithParens(regexSrc string) string {
	span := []byte(regexSrc[c.Loc.Start : c.Loc.End+1])
	span[0] = '('
	span[len(span)-1] = ')'
	return string(span)
}

// IsRepeatPuncCandidate reports whether this set is a single punctuation
// character (the only shape the "repeat punctuation" check cares about).
func (c *CharSet) IsRepeatPuncCandidate() bool {
	if c.Complement || len(c.Items) != 1 || c.Items[0].Kind != ItemCharacter {
		return false
	}
	return isPunctRune(c.Items[0].Char)
}

// IsDigitTooOptionalCandidate reports whether this set is [0-9], [1-9], or
// the \d shorthand, the shapes the "digit too optional" check looks for
// when directly wrapped in a {0,n} repeat.
func (c *CharSet) IsDigitTooOptionalCandidate() bool {
	if c.Complement {
		return false
	}
	if len(c.Items) == 1 && c.Items[0].Kind == ItemClass && c.Items[0].Char == 'd' {
		return true
	}
	if len(c.Items) == 1 && c.Items[0].Kind == ItemRange {
		r := c.Items[0]
		return (r.Lo == '0' || r.Lo == '1') && r.Hi == '9'
	}
	return false
}

// checkBraceMismatch reports, for a bracket pair (open, close), whether the
// set contains the open character but not the close, or vice versa.
func (c *CharSet) checkBraceMismatch(open, close rune) (openOnly, closeOnly bool) {
	hasOpen := c.HasCharacterItem(open)
	hasClose := c.HasCharacterItem(close)
	return hasOpen && !hasClose, hasClose && !hasOpen
}

// BraceMismatches returns one message per unbalanced bracket pair found
// across (), {}, [].
func (c *CharSet) BraceMismatches() []string {
	var out []string
	for _, pair := range [][2]rune{{'(', ')'}, {'{', '}'}, {'[', ']'}} {
		open, close := string(pair[0]), string(pair[1])
		openOnly, closeOnly := c.checkBraceMismatch(pair[0], pair[1])
		switch {
		case openOnly:
			out = append(out, "Found "+open+" in charset but not "+close+", could lead to unbalanced "+open+close)
		case closeOnly:
			out = append(out, "Found "+close+" in charset but not "+open+", could lead to unbalanced "+open+close)
		}
	}
	return out
}

// DuplicateChars returns the set of characters that appear more than once
// among the set's explicit Character items, excluding '|' and ',' (those
// are handled by the charset-sep check instead).
func (c *CharSet) DuplicateChars() []rune {
	counts := map[rune]int{}
	var order []rune
	for _, it := range c.Items {
		if it.Kind != ItemCharacter {
			continue
		}
		if it.Char == '|' || it.Char == ',' {
			continue
		}
		if counts[it.Char] == 0 {
			order = append(order, it.Char)
		}
		counts[it.Char]++
	}
	var dups []rune
	for _, r := range order {
		if counts[r] > 1 {
			dups = append(dups, r)
		}
	}
	return dups
}

// MiddleSeparator reports whether this is a 3-item non-complemented set
// whose middle item is a literal '|' or ',' (checker rule 3's first case),
// returning the separator rune if so.
func (c *CharSet) MiddleSeparator() (rune, bool) {
	if c.Complement || len(c.Items) != 3 {
		return 0, false
	}
	mid := c.Items[1]
	if mid.Kind != ItemCharacter {
		return 0, false
	}
	if mid.Char == '|' || mid.Char == ',' {
		return mid.Char, true
	}
	return 0, false
}

// BadRanges returns every ItemRange in the set whose bounds are not one of
// the sanctioned classes.
func (c *CharSet) BadRanges() []CharSetItem {
	var out []CharSetItem
	for _, it := range c.Items {
		if it.Kind == ItemRange && !c.IsGoodRange(it.Lo, it.Hi) {
			out = append(out, it)
		}
	}
	return out
}

// String renders the set back to regex source syntax, used by rewrite
// suggestions and debug printing.
func (c *CharSet) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if c.Complement {
		b.WriteByte('^')
	}
	for _, it := range c.Items {
		switch it.Kind {
		case ItemCharacter:
			b.WriteRune(it.Char)
		case ItemClass:
			b.WriteByte('\\')
			b.WriteRune(it.Char)
		case ItemRange:
			b.WriteRune(it.Lo)
			b.WriteByte('-')
			b.WriteRune(it.Hi)
		}
	}
	b.WriteByte(']')
	return b.String()
}
