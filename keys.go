package rawline

import (
	"bufio"
	"strconv"
)

const (
	ctrlA = 1
	ctrlB = 2
	ctrlC = 3
	ctrlD = 4
	ctrlE = 5
	ctrlF = 6
	ctrlH = 8
	tab   = 9
	lf    = 10
	ctrlK = 11
	ctrlL = 12
	cr    = 13
	ctrlN = 14
	ctrlP = 16
	ctrlU = 21
	ctrlW = 23
	esc   = 27
	bs    = 127
	beep  = '\a'
)

type action int

const (
	left action = iota
	right
	up
	down
	home
	end
	insert
	del
	pageUp
	pageDown
	wordLeft
	wordRight
	unknown
)

// readKey returns the next rune typed, or an action for a recognised escape
// sequence. Terminals write a whole sequence at once, so an ESC with nothing
// buffered behind it is a lone Escape key press.
func readKey(r *bufio.Reader) (interface{}, error) {
	c, _, err := r.ReadRune()
	if err != nil {
		return nil, err
	}
	if c != esc || r.Buffered() == 0 {
		return c, nil
	}

	flag, _, err := r.ReadRune()
	if err != nil {
		return nil, err
	}
	switch flag {
	case '[':
		return readCSI(r)
	case 'O':
		if r.Buffered() == 0 {
			return unknown, nil
		}
		code, _, err := r.ReadRune()
		if err != nil {
			return nil, err
		}
		switch code {
		case 'H':
			return home, nil
		case 'F':
			return end, nil
		}
		return unknown, nil
	case 'b':
		return wordLeft, nil
	case 'f':
		return wordRight, nil
	}
	// Not a sequence we know: hand back the ESC and leave the next rune for
	// the following call.
	r.UnreadRune()
	return rune(esc), nil
}

func readCSI(r *bufio.Reader) (interface{}, error) {
	if r.Buffered() == 0 {
		return unknown, nil
	}
	code, _, err := r.ReadRune()
	if err != nil {
		return nil, err
	}
	switch code {
	case 'A':
		return up, nil
	case 'B':
		return down, nil
	case 'C':
		return right, nil
	case 'D':
		return left, nil
	case 'H':
		return home, nil
	case 'F':
		return end, nil
	}
	if code < '0' || code > '9' {
		return unknown, nil
	}

	num := []rune{code}
	for {
		if r.Buffered() == 0 {
			return unknown, nil
		}
		code, _, err = r.ReadRune()
		if err != nil {
			return nil, err
		}
		if code < '0' || code > '9' {
			break
		}
		num = append(num, code)
	}
	if code != '~' {
		// modified keys (e.g. "1;5C") are swallowed up to their final byte
		for (code < 0x40 || code > 0x7e) && r.Buffered() > 0 {
			if code, _, err = r.ReadRune(); err != nil {
				return nil, err
			}
		}
		return unknown, nil
	}

	x, _ := strconv.Atoi(string(num))
	switch x {
	case 1, 7:
		return home, nil
	case 2:
		return insert, nil
	case 3:
		return del, nil
	case 4, 8:
		return end, nil
	case 5:
		return pageUp, nil
	case 6:
		return pageDown, nil
	}
	return unknown, nil
}
