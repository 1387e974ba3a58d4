package rawline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// LineReader reads one line of input after displaying prompt. history and
// completer are optional.
type LineReader interface {
	ReadLine(prompt string, history HistorySource, completer Completer) (string, error)
}

// HistorySource supplies earlier lines for Up/Down navigation, oldest first.
type HistorySource interface {
	Entries() []string
}

// Completer takes the currently edited line and returns a list of
// completion candidates.
type Completer func(line string) []string

const defaultColumns = 80

// Editor is a single-line editor. It expects its input to be a terminal
// already in raw mode; switching modes is the Controller's job.
type Editor struct {
	// WordSeparator decides word boundaries. Defaults to SpaceSeparator.
	WordSeparator WordSeparator

	r       *bufio.Reader
	w       io.Writer
	columns func() int
}

// NewEditor returns an Editor reading keys from in and drawing on out.
func NewEditor(in io.Reader, out io.Writer) *Editor {
	e := &Editor{
		WordSeparator: SpaceSeparator,
		r:             bufio.NewReader(in),
		w:             out,
		columns:       func() int { return defaultColumns },
	}
	if f, ok := out.(interface{ Fd() uintptr }); ok {
		fd := int(f.Fd())
		e.columns = func() int {
			if w, _, err := term.GetSize(fd); err == nil && w > 0 {
				return w
			}
			return defaultColumns
		}
	}
	return e
}

// ReadLine displays prompt and edits a line until Enter is pressed. It
// returns ErrPromptAborted on Ctrl-C and io.EOF on Ctrl-D at an empty line.
func (e *Editor) ReadLine(prompt string, history HistorySource, completer Completer) (string, error) {
	isSep := e.WordSeparator
	if isSep == nil {
		isSep = SpaceSeparator
	}

	p := []rune(prompt)
	var line []rune
	pos := 0

	var entries []string
	if history != nil {
		entries = history.Entries()
	}
	histPos := len(entries)
	var saved []rune

	if err := e.refresh(p, line, pos); err != nil {
		return "", err
	}
	for {
		key, err := readKey(e.r)
		if err != nil {
			return "", err
		}

		switch k := key.(type) {
		case rune:
			switch k {
			case cr, lf:
				if err := e.print("\r\n"); err != nil {
					return "", err
				}
				return string(line), nil
			case ctrlC:
				e.print("^C\r\n")
				return "", ErrPromptAborted
			case ctrlD:
				if len(line) == 0 {
					e.print("\r\n")
					return "", io.EOF
				}
				if pos < len(line) {
					line = append(line[:pos], line[pos+1:]...)
				} else {
					e.beep()
				}
			case bs, ctrlH:
				if pos == 0 {
					e.beep()
					break
				}
				line = append(line[:pos-1], line[pos:]...)
				pos--
			case ctrlA:
				pos = 0
			case ctrlE:
				pos = len(line)
			case ctrlB:
				pos = e.move(pos, -1, len(line))
			case ctrlF:
				pos = e.move(pos, 1, len(line))
			case ctrlK:
				line = line[:pos]
			case ctrlU:
				line = append(line[:0], line[pos:]...)
				pos = 0
			case ctrlW:
				start := eraseWordBack(line, pos, isSep)
				if start == pos {
					e.beep()
					break
				}
				line = append(line[:start], line[pos:]...)
				pos = start
			case ctrlL:
				if err := e.print("\x1b[H\x1b[2J"); err != nil {
					return "", err
				}
			case ctrlP:
				line, pos, histPos, saved = e.historyPrev(entries, line, histPos, saved)
			case ctrlN:
				line, pos, histPos = e.historyNext(entries, line, pos, histPos, saved)
			case tab:
				line, pos = e.complete(completer, line, pos)
			case esc:
			default:
				if !unicode.IsPrint(k) {
					e.beep()
					break
				}
				line = append(line, 0)
				copy(line[pos+1:], line[pos:])
				line[pos] = k
				pos++
			}
		case action:
			switch k {
			case left:
				pos = e.move(pos, -1, len(line))
			case right:
				pos = e.move(pos, 1, len(line))
			case home:
				pos = 0
			case end:
				pos = len(line)
			case del:
				if pos < len(line) {
					line = append(line[:pos], line[pos+1:]...)
				} else {
					e.beep()
				}
			case wordLeft:
				pos = wordStartLeft(line, pos, isSep)
			case wordRight:
				pos = wordEndRight(line, pos, isSep)
			case up:
				line, pos, histPos, saved = e.historyPrev(entries, line, histPos, saved)
			case down:
				line, pos, histPos = e.historyNext(entries, line, pos, histPos, saved)
			}
		}

		if err := e.refresh(p, line, pos); err != nil {
			return "", err
		}
	}
}

func (e *Editor) move(pos, delta, n int) int {
	next := pos + delta
	if next < 0 || next > n {
		e.beep()
		return pos
	}
	return next
}

func (e *Editor) historyPrev(entries []string, line []rune, histPos int, saved []rune) ([]rune, int, int, []rune) {
	if histPos == 0 {
		e.beep()
		return line, len(line), histPos, saved
	}
	if histPos == len(entries) {
		saved = append([]rune(nil), line...)
	}
	histPos--
	line = []rune(entries[histPos])
	return line, len(line), histPos, saved
}

func (e *Editor) historyNext(entries []string, line []rune, pos, histPos int, saved []rune) ([]rune, int, int) {
	if histPos >= len(entries) {
		e.beep()
		return line, pos, histPos
	}
	histPos++
	if histPos == len(entries) {
		line = append([]rune(nil), saved...)
	} else {
		line = []rune(entries[histPos])
	}
	return line, len(line), histPos
}

// complete replaces the line with the only candidate, or extends it to the
// candidates' longest common prefix.
func (e *Editor) complete(completer Completer, line []rune, pos int) ([]rune, int) {
	if completer == nil {
		e.beep()
		return line, pos
	}
	candidates := completer(string(line))
	if len(candidates) == 0 {
		e.beep()
		return line, pos
	}
	prefix := candidates[0]
	for _, c := range candidates[1:] {
		for !strings.HasPrefix(c, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
	}
	if len(candidates) > 1 && len([]rune(prefix)) <= len(line) {
		e.beep()
		return line, pos
	}
	line = []rune(prefix)
	return line, len(line)
}

// refresh redraws the prompt and line, scrolling horizontally so the cursor
// stays on screen.
func (e *Editor) refresh(prompt, line []rune, pos int) error {
	cols := e.columns()
	pLen := runewidth.StringWidth(string(prompt))

	start, stop := 0, len(line)
	for start < pos && pLen+runesWidth(line[start:pos]) >= cols {
		start++
	}
	for stop > pos && pLen+runesWidth(line[start:stop]) >= cols {
		stop--
	}

	var b strings.Builder
	b.WriteString("\r")
	b.WriteString(string(prompt))
	b.WriteString(string(line[start:stop]))
	b.WriteString("\x1b[0K\r")
	if x := pLen + runesWidth(line[start:pos]); x > 0 {
		fmt.Fprintf(&b, "\x1b[%dC", x)
	}
	return e.print(b.String())
}

func runesWidth(r []rune) int {
	return runewidth.StringWidth(string(r))
}

func (e *Editor) print(s string) error {
	_, err := io.WriteString(e.w, s)
	return err
}

func (e *Editor) beep() {
	e.print(string(rune(beep)))
}
