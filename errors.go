package cmdtree

import (
	"errors"
	"fmt"
)

// Sentinel errors. They are wrapped by the typed error structs below so
// callers can use errors.Is against the sentinel or errors.As against the
// richer struct.
var (
	ErrUnknownCommand          = errors.New("cmdtree: unknown command")
	ErrUnknownArgument         = errors.New("cmdtree: unknown argument")
	ErrExpectedArgumentSeparator = errors.New("cmdtree: expected argument separator")
	ErrExpectedBool            = errors.New("cmdtree: expected bool")
	ErrExpectedInt             = errors.New("cmdtree: expected int")
	ErrExpectedFloat           = errors.New("cmdtree: expected float")
	ErrInvalidInt              = errors.New("cmdtree: invalid int")
	ErrInvalidFloat            = errors.New("cmdtree: invalid float")
	ErrInvalidEscape           = errors.New("cmdtree: invalid escape character")
	ErrExpectedEndOfQuote      = errors.New("cmdtree: expected end of quote")
	ErrExpectedStartOfQuote    = errors.New("cmdtree: expected start of quote")
	ErrIntegerTooLow           = errors.New("cmdtree: integer too low")
	ErrIntegerTooHigh          = errors.New("cmdtree: integer too high")
	ErrFloatTooLow             = errors.New("cmdtree: float too low")
	ErrFloatTooHigh            = errors.New("cmdtree: float too high")

	ErrNoNodeBeforeCursor = errors.New("cmdtree: no node before cursor")
)

// CommandSyntaxError wraps any error that prevented a successful parse at a
// particular node, i.e. spec.md's "Syntax errors" / "Parser errors" kinds.
type CommandSyntaxError struct{ Err error }

func (e *CommandSyntaxError) Unwrap() error { return e.Err }
func (e *CommandSyntaxError) Error() string { return e.Err.Error() }

// InputError pins a wrapped error to the CommandInput position it occurred at.
type InputError struct {
	Err   error
	Input *CommandInput
}

func (e *InputError) Unwrap() error { return e.Err }
func (e *InputError) Error() string { return e.Err.Error() }

// InvalidValueError indicates a syntactically well-formed token that failed
// to convert to the expected value (wrong type, out of range literal, etc).
type InvalidValueError struct {
	Value string
	Err   error
}

func (e *InvalidValueError) Unwrap() error { return e.Err }
func (e *InvalidValueError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("cmdtree: invalid value %q", e.Value)
}

// IncorrectLiteralError indicates a literal child did not match the token.
type IncorrectLiteralError struct{ Literal string }

func (e *IncorrectLiteralError) Error() string {
	return fmt.Sprintf("cmdtree: incorrect literal %q", e.Literal)
}

// InvalidSyntaxError is returned by the Parser Engine (spec.md §4.3/§7) when
// no child matches the current node and cursor position. It carries the node
// at which the failure occurred and the unmatched remaining input so callers
// can point a user at exactly where the command stopped being valid.
type InvalidSyntaxError struct {
	Node      CommandNode
	Remaining string
}

func (e *InvalidSyntaxError) Error() string {
	if e.Remaining == "" {
		return "cmdtree: invalid syntax: expected more input"
	}
	return fmt.Sprintf("cmdtree: invalid syntax at %q", e.Remaining)
}

// NoPermissionError is surfaced instead of a generic unknown-command error
// when a node exists and would otherwise match but the sender's permission
// check rejects it (spec.md §4.3/§7).
type NoPermissionError struct {
	Command *Command
}

func (e *NoPermissionError) Error() string { return "cmdtree: sender lacks permission" }

// SenderTypeError is surfaced when the sender's dynamic type does not satisfy
// a command's required sender type.
type SenderTypeError struct {
	Command *Command
}

func (e *SenderTypeError) Error() string { return "cmdtree: sender type not permitted" }

// Registration errors (spec.md §4.1). All are returned synchronously from
// Register/RegisterProxy; they never propagate into a parse.

// AmbiguousNodeError is returned when inserting a command would create a
// second argument child at the same tree level.
type AmbiguousNodeError struct {
	Parent CommandNode
	Name   string
}

func (e *AmbiguousNodeError) Error() string {
	return fmt.Sprintf("cmdtree: ambiguous argument node %q: a sibling argument already exists", e.Name)
}

// DuplicateCommandError is returned when the chain being registered ends at a
// node that is already terminal for a different command.
type DuplicateCommandError struct{ Chain []string }

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("cmdtree: duplicate command registered for chain %v", e.Chain)
}

// DuplicateCommandChainError is returned when two literal siblings would
// share a name or alias.
type DuplicateCommandChainError struct {
	Parent CommandNode
	Name   string
}

func (e *DuplicateCommandChainError) Error() string {
	return fmt.Sprintf("cmdtree: duplicate literal name/alias %q among siblings", e.Name)
}

// Flag errors (spec.md §4.4/§7).

// UnknownFlagError is returned for an unrecognized --flag/-f token, unless
// LIBERAL_FLAG_PARSING yields control back to the calling greedy parser
// instead.
type UnknownFlagError struct{ Token string }

func (e *UnknownFlagError) Error() string { return fmt.Sprintf("cmdtree: unknown flag %q", e.Token) }

// DuplicateFlagError is returned when a non-repeatable flag appears twice.
type DuplicateFlagError struct{ Name string }

func (e *DuplicateFlagError) Error() string {
	return fmt.Sprintf("cmdtree: flag %q set more than once", e.Name)
}

// MissingFlagValueError is returned when a value flag is named with no
// following token to consume.
type MissingFlagValueError struct{ Name string }

func (e *MissingFlagValueError) Error() string {
	return fmt.Sprintf("cmdtree: flag %q requires a value", e.Name)
}

// ClusterValueFlagError is returned when a short cluster like "-xyz" names a
// value flag among its characters. Short clusters resolve every character to
// a presence flag only (spec.md §4.4), and a lone "-f" is a one-character
// cluster; a value flag must be spelled out in long form, "--flag value" or
// "--flag=value".
type ClusterValueFlagError struct{ Name string }

func (e *ClusterValueFlagError) Error() string {
	return fmt.Sprintf("cmdtree: flag %q is a value flag and cannot appear in a short cluster", e.Name)
}

// ArgumentParseError wraps a leaf parser's failure with the argument name and
// input position, per spec.md §7 "Parser errors".
type ArgumentParseError struct {
	Name string
	Err  error
}

func (e *ArgumentParseError) Unwrap() error { return e.Err }
func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("cmdtree: argument %q: %v", e.Name, e.Err)
}

// CommandExecutionError wraps any non-framework error raised by a user
// handler (spec.md §4.6/§7). Framework errors (anything already one of the
// types in this file) are rethrown unwrapped.
type CommandExecutionError struct{ Err error }

func (e *CommandExecutionError) Unwrap() error { return e.Err }
func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("cmdtree: command execution failed: %v", e.Err)
}

// isFrameworkError reports whether err is already one of this package's typed
// errors (and therefore should be rethrown as-is rather than wrapped in a
// CommandExecutionError).
func isFrameworkError(err error) bool {
	switch {
	case errors.As(err, new(*CommandSyntaxError)),
		errors.As(err, new(*InvalidSyntaxError)),
		errors.As(err, new(*NoPermissionError)),
		errors.As(err, new(*SenderTypeError)),
		errors.As(err, new(*AmbiguousNodeError)),
		errors.As(err, new(*DuplicateCommandError)),
		errors.As(err, new(*DuplicateCommandChainError)),
		errors.As(err, new(*UnknownFlagError)),
		errors.As(err, new(*DuplicateFlagError)),
		errors.As(err, new(*MissingFlagValueError)),
		errors.As(err, new(*ClusterValueFlagError)),
		errors.As(err, new(*ArgumentParseError)),
		errors.As(err, new(*CommandExecutionError)):
		return true
	default:
		return false
	}
}
