package cmdtree

import (
	"strings"
)

// ArgumentSeparator is the rune required to separate tokens in command input.
const ArgumentSeparator rune = ' '

// CommandInput is a restartable character cursor over an input string. It is
// the only mutable state a parser ever touches directly; snapshotting it is a
// cheap value copy, never an allocation, since the cursor is just an offset
// into an immutable backing string.
type CommandInput struct {
	Cursor int
	String string
}

// NewCommandInput returns a CommandInput positioned at the start of s.
func NewCommandInput(s string) *CommandInput { return &CommandInput{String: s} }

// CanRead reports whether at least one more rune can be read.
func (r *CommandInput) CanRead() bool { return r.CanReadLen(1) }

// CanReadLen reports whether length more runes can be read.
func (r *CommandInput) CanReadLen(length int) bool { return r.Cursor+length <= len(r.String) }

// PeekString returns the next rune without consuming it.
func (r *CommandInput) PeekString() rune { return rune(r.String[r.Cursor]) }

// PeekAt returns the rune at Cursor+offset without consuming anything. It
// reports ok=false if that position is out of range.
func (r *CommandInput) PeekAt(offset int) (c rune, ok bool) {
	i := r.Cursor + offset
	if i < 0 || i >= len(r.String) {
		return 0, false
	}
	return rune(r.String[i]), true
}

// Skip advances the cursor by one rune.
func (r *CommandInput) Skip() { r.Cursor++ }

// Read returns the next rune and advances the cursor.
func (r *CommandInput) Read() rune {
	c := r.String[r.Cursor]
	r.Cursor++
	return rune(c)
}

// SkipWhitespace advances the cursor past any run of ArgumentSeparator runes.
func (r *CommandInput) SkipWhitespace() {
	for r.CanRead() && r.PeekString() == ArgumentSeparator {
		r.Skip()
	}
}

// ReadWhile consumes and returns the longest prefix of the remaining input for
// which pred holds, without consuming the first rune that fails pred.
func (r *CommandInput) ReadWhile(pred func(rune) bool) string {
	start := r.Cursor
	for r.CanRead() && pred(r.PeekString()) {
		r.Skip()
	}
	return r.String[start:r.Cursor]
}

// ReadString reads the next whitespace-delimited token: a quoted or unquoted
// string, exactly as the legacy argument types expect.
func (r *CommandInput) ReadString() (string, error) {
	if !r.CanRead() {
		return "", nil
	}
	next := r.PeekString()
	if IsQuotedStringStart(next) {
		r.Skip()
		return r.ReadStringUntil(next)
	}
	return r.ReadUnquotedString(), nil
}

// ReadStringUntil reads runes up to and including terminator, unescaping
// SyntaxEscape sequences along the way.
func (r *CommandInput) ReadStringUntil(terminator rune) (string, error) {
	var (
		result  strings.Builder
		escaped bool
	)
	for r.CanRead() {
		c := r.Read()
		switch {
		case escaped:
			if c == terminator || c == SyntaxEscape {
				result.WriteRune(c)
				escaped = false
			} else {
				r.Cursor--
				return "", &CommandSyntaxError{Err: &InputError{
					Err:   &InvalidValueError{Value: string(c), Err: ErrInvalidEscape},
					Input: r,
				}}
			}
		case c == SyntaxEscape:
			escaped = true
		case c == terminator:
			return result.String(), nil
		default:
			result.WriteRune(c)
		}
	}
	return "", &CommandSyntaxError{Err: &InputError{Err: ErrExpectedEndOfQuote, Input: r}}
}

// ReadUnquotedString reads a maximal run of IsAllowedInUnquotedString runes.
func (r *CommandInput) ReadUnquotedString() string {
	return r.ReadWhile(IsAllowedInUnquotedString)
}

// Remaining returns the unread suffix of the backing string.
func (r *CommandInput) Remaining() string { return r.String[r.Cursor:] }

// RemainingLen returns the number of unread runes (bytes; input is ASCII-safe
// command syntax).
func (r *CommandInput) RemainingLen() int { return len(r.String) - r.Cursor }

// Checkpoint returns a restore point for the cursor; Restore rewinds to it.
// Both are cheap integer copies.
func (r *CommandInput) Checkpoint() int    { return r.Cursor }
func (r *CommandInput) Restore(mark int)   { r.Cursor = mark }

// Copy returns an independent CommandInput sharing the same backing string,
// positioned at the same cursor — used for lookahead that must not disturb
// the original on failure.
func (r *CommandInput) Copy() *CommandInput {
	return &CommandInput{Cursor: r.Cursor, String: r.String}
}

const (
	SyntaxDoubleQuote rune = '"'
	SyntaxSingleQuote rune = '\''
	SyntaxEscape      rune = '\\'
)

// IsQuotedStringStart reports whether c opens a quoted string.
func IsQuotedStringStart(c rune) bool { return c == SyntaxDoubleQuote || c == SyntaxSingleQuote }

// IsAllowedInUnquotedString reports whether c may appear in an unquoted
// string/word token.
func IsAllowedInUnquotedString(c rune) bool {
	return c >= '0' && c <= '9' ||
		c >= 'A' && c <= 'Z' ||
		c >= 'a' && c <= 'z' ||
		c == '_' || c == '-' || c == '.' || c == '+'
}

// IsAllowedNumber reports whether c may appear in an unparsed numeric token.
func IsAllowedNumber(c rune) bool { return c >= '0' && c <= '9' || c == '.' || c == '-' }

// StringRange is a [Start, End) byte range into a command input string.
type StringRange struct{ Start, End int }

// IsEmpty reports whether the range spans zero bytes.
func (r StringRange) IsEmpty() bool { return r.Start == r.End }

// Get returns the substring of s denoted by the range.
func (r StringRange) Get(s string) string { return s[r.Start:r.End] }

// Encompassing returns the smallest range containing both a and b.
func Encompassing(a, b StringRange) StringRange {
	return StringRange{Start: min(a.Start, b.Start), End: max(a.End, b.End)}
}

func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func max(x, y int) int {
	if x > y {
		return x
	}
	return y
}
