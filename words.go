package rawline

import "unicode"

// WordSeparator reports whether r ends a word for Ctrl-W, Alt-B and Alt-F.
type WordSeparator func(r rune) bool

// SpaceSeparator (default) returns true if r is a unicode space.
func SpaceSeparator(r rune) bool {
	return unicode.IsSpace(r)
}

// PunctSeparator returns true if r is a unicode punctuation character.
func PunctSeparator(r rune) bool {
	return unicode.IsPunct(r)
}

// CombineSeparators returns a WordSeparator matching any of seps, e.g.
//
//	ed.WordSeparator = rawline.CombineSeparators(rawline.SpaceSeparator, rawline.PunctSeparator)
func CombineSeparators(seps ...WordSeparator) WordSeparator {
	return func(r rune) bool {
		for _, isSep := range seps {
			if isSep(r) {
				return true
			}
		}
		return false
	}
}

// eraseWordBack returns the position Ctrl-W deletes back to: trailing
// separators first, then the word before them.
func eraseWordBack(line []rune, pos int, isSep WordSeparator) int {
	for pos > 0 && isSep(line[pos-1]) {
		pos--
	}
	for pos > 0 && !isSep(line[pos-1]) {
		pos--
	}
	return pos
}

// wordStartLeft returns the start of the word at or before pos.
func wordStartLeft(line []rune, pos int, isSep WordSeparator) int {
	return eraseWordBack(line, pos, isSep)
}

// wordEndRight returns the end of the word at or after pos.
func wordEndRight(line []rune, pos int, isSep WordSeparator) int {
	for pos < len(line) && isSep(line[pos]) {
		pos++
	}
	for pos < len(line) && !isSep(line[pos]) {
		pos++
	}
	return pos
}
