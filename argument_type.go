package cmdtree

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ArgumentType is the capability every leaf parser implements (spec.md §6
// "Parser contract"). Parse must consume exactly the accepted prefix on
// success and must leave the cursor untouched on failure.
type ArgumentType interface {
	Parse(in *CommandInput) (any, error)
	String() string
}

// SuggestionProvider optionally augments an ArgumentType (or a custom
// per-argument override) with completion suggestions for a partial token.
type SuggestionProvider interface {
	Suggestions(ctx *CommandContext, builder *SuggestionsBuilder) *Suggestions
}

// ProvideSuggestions returns i's Suggestions if it implements
// SuggestionProvider, else the empty set.
func ProvideSuggestions(i any, ctx *CommandContext, builder *SuggestionsBuilder) *Suggestions {
	if i == nil {
		return emptySuggestions
	}
	if p, ok := i.(SuggestionProvider); ok {
		return p.Suggestions(ctx, builder)
	}
	return emptySuggestions
}

// CanProvideSuggestions reports whether i implements SuggestionProvider.
func CanProvideSuggestions(i any) bool {
	if i == nil {
		return false
	}
	_, ok := i.(SuggestionProvider)
	return ok
}

// ArgumentTypeFuncs is a convenience ArgumentType built from plain functions.
type ArgumentTypeFuncs struct {
	Name          string
	ParseFn       func(in *CommandInput) (any, error)
	SuggestionsFn func(ctx *CommandContext, builder *SuggestionsBuilder) *Suggestions
}

func (t *ArgumentTypeFuncs) Parse(in *CommandInput) (any, error) { return t.ParseFn(in) }
func (t *ArgumentTypeFuncs) String() string                      { return t.Name }
func (t *ArgumentTypeFuncs) Suggestions(ctx *CommandContext, b *SuggestionsBuilder) *Suggestions {
	if t.SuggestionsFn == nil {
		return emptySuggestions
	}
	return t.SuggestionsFn(ctx, b)
}

// Builtin numeric range bounds.
const (
	MinInt32   = math.MinInt32
	MaxInt32   = math.MaxInt32
	MinInt64   = math.MinInt64
	MaxInt64   = math.MaxInt64
	MinFloat32 = -math.MaxFloat32
	MaxFloat32 = math.MaxFloat32
	MinFloat64 = -math.MaxFloat64
	MaxFloat64 = math.MaxFloat64
)

// Builtin argument types, plus the two domain-stack additions (ByteSize,
// Duration) described in SPEC_FULL.md §7.
var (
	StringWord   ArgumentType = stringType(stringWord)
	String       ArgumentType = stringType(stringQuotable)
	StringPhrase ArgumentType = stringType(stringGreedy)

	Bool ArgumentType = &boolArgumentType{}

	Int32 ArgumentType = &int32ArgumentType{Min: MinInt32, Max: MaxInt32}
	Int64 ArgumentType = &int64ArgumentType{Min: MinInt64, Max: MaxInt64}
	Int                = Int32

	Float32 ArgumentType = &float32ArgumentType{Min: MinFloat32, Max: MaxFloat32}
	Float64 ArgumentType = &float64ArgumentType{Min: MinFloat64, Max: MaxFloat64}
)

// Int32Range, Int64Range, Float32Range and Float64Range build a numeric
// ArgumentType restricted to [min, max] (spec.md §8 scenario 5's
// ":int(5..100)" notation), each still offering digit-completion
// Suggestions over that narrowed range.
func Int32Range(min, max int32) ArgumentType     { return &int32ArgumentType{Min: min, Max: max} }
func Int64Range(min, max int64) ArgumentType     { return &int64ArgumentType{Min: min, Max: max} }
func Float32Range(min, max float32) ArgumentType { return &float32ArgumentType{Min: min, Max: max} }
func Float64Range(min, max float64) ArgumentType { return &float64ArgumentType{Min: min, Max: max} }

var (
	// ByteSize parses human-readable byte quantities ("4MB", "512Ki", "0")
	// via github.com/dustin/go-humanize, the domain-stack replacement for a
	// hand-rolled byte-size parser.
	ByteSize ArgumentType = &byteSizeArgumentType{}

	// Duration parses Go duration syntax ("1h30m") via stdlib
	// time.ParseDuration — no pack dependency offers duration parsing, and
	// this format is the one every Go reader already expects.
	Duration ArgumentType = &durationArgumentType{}
)

type stringType uint8

const (
	stringWord stringType = iota
	stringQuotable
	stringGreedy
)

func (stringType) String() string { return "string" }

func (t stringType) Parse(in *CommandInput) (any, error) {
	switch t {
	case stringGreedy:
		text := in.Remaining()
		in.Cursor = len(in.String)
		return text, nil
	case stringWord:
		return in.ReadUnquotedString(), nil
	default:
		return in.ReadString()
	}
}

type boolArgumentType struct{}

func (t *boolArgumentType) String() string { return "bool" }
func (t *boolArgumentType) Parse(in *CommandInput) (any, error) { return in.readBool() }

func (t *boolArgumentType) Suggestions(_ *CommandContext, b *SuggestionsBuilder) *Suggestions {
	if strings.HasPrefix("true", b.RemainingLowerCase) {
		b.Suggest("true")
	}
	if strings.HasPrefix("false", b.RemainingLowerCase) {
		b.Suggest("false")
	}
	return b.Build()
}

func (r *CommandInput) readBool() (bool, error) {
	start := r.Cursor
	value, err := r.ReadString()
	if err != nil {
		return false, err
	}
	if value == "" {
		return false, &CommandSyntaxError{Err: &InputError{Err: ErrExpectedBool, Input: r}}
	}
	if strings.EqualFold(value, "true") {
		return true, nil
	}
	if strings.EqualFold(value, "false") {
		return false, nil
	}
	r.Cursor = start
	return false, &CommandSyntaxError{Err: &InputError{
		Err:   &InvalidValueError{Value: value, Err: ErrExpectedBool},
		Input: r,
	}}
}

type int32ArgumentType struct{ Min, Max int32 }
type int64ArgumentType struct{ Min, Max int64 }
type float32ArgumentType struct{ Min, Max float32 }
type float64ArgumentType struct{ Min, Max float64 }

func (t *int32ArgumentType) String() string { return "int32" }
func (t *int32ArgumentType) Parse(in *CommandInput) (any, error) {
	i, err := parseInt(in, 32, int64(t.Min), int64(t.Max))
	return int32(i), err
}

func (t *int32ArgumentType) Suggestions(_ *CommandContext, b *SuggestionsBuilder) *Suggestions {
	return numericDigitSuggestions(b, func(s string) bool {
		v, err := strconv.ParseInt(s, 10, 32)
		return err == nil && int32(v) >= t.Min && int32(v) <= t.Max
	})
}

func (t *int64ArgumentType) String() string { return "int64" }
func (t *int64ArgumentType) Parse(in *CommandInput) (any, error) {
	return parseInt(in, 64, t.Min, t.Max)
}

func (t *int64ArgumentType) Suggestions(_ *CommandContext, b *SuggestionsBuilder) *Suggestions {
	return numericDigitSuggestions(b, func(s string) bool {
		v, err := strconv.ParseInt(s, 10, 64)
		return err == nil && v >= t.Min && v <= t.Max
	})
}

// numericDigitSuggestions completes a partial numeric token by offering the
// token itself (if it already parses within range) plus the token with each
// decimal digit appended, again filtered to range (spec.md §8 scenario 5:
// suggest("numbers ") -> "0".."9", suggest("numbers 1") -> "1","10".."19").
func numericDigitSuggestions(b *SuggestionsBuilder, inRange func(string) bool) *Suggestions {
	if b.Remaining != "" && inRange(b.Remaining) {
		// Appended directly: Suggest skips text equal to the remaining token.
		b.Result = append(b.Result, &Suggestion{Range: StringRange{Start: b.Start, End: len(b.Input)}, Text: b.Remaining})
	}
	for d := byte('0'); d <= '9'; d++ {
		candidate := b.Remaining + string(d)
		if inRange(candidate) {
			b.Suggest(candidate)
		}
	}
	return b.Build()
}

func parseInt(in *CommandInput, bitSize int, lo, hi int64) (int64, error) {
	start := in.Cursor
	number := in.ReadWhile(IsAllowedNumber)
	if number == "" {
		return 0, &CommandSyntaxError{Err: &InputError{Err: ErrExpectedInt, Input: in}}
	}
	v, err := strconv.ParseInt(number, 0, bitSize)
	if err != nil {
		in.Cursor = start
		return 0, &CommandSyntaxError{Err: &InputError{
			Err:   &InvalidValueError{Value: number, Err: fmt.Errorf("%w: %v", ErrInvalidInt, err)},
			Input: in,
		}}
	}
	if v < lo {
		in.Cursor = start
		return 0, &CommandSyntaxError{Err: fmt.Errorf("%w (%d < %d)", ErrIntegerTooLow, v, lo)}
	}
	if v > hi {
		in.Cursor = start
		return 0, &CommandSyntaxError{Err: fmt.Errorf("%w (%d > %d)", ErrIntegerTooHigh, v, hi)}
	}
	return v, nil
}

func (t *float32ArgumentType) String() string { return "float32" }
func (t *float32ArgumentType) Parse(in *CommandInput) (any, error) {
	f, err := parseFloat(in, 32, float64(t.Min), float64(t.Max))
	return float32(f), err
}

func (t *float32ArgumentType) Suggestions(_ *CommandContext, b *SuggestionsBuilder) *Suggestions {
	return numericDigitSuggestions(b, func(s string) bool {
		v, err := strconv.ParseFloat(s, 32)
		return err == nil && float32(v) >= t.Min && float32(v) <= t.Max
	})
}

func (t *float64ArgumentType) String() string { return "float64" }
func (t *float64ArgumentType) Parse(in *CommandInput) (any, error) {
	return parseFloat(in, 64, t.Min, t.Max)
}

func (t *float64ArgumentType) Suggestions(_ *CommandContext, b *SuggestionsBuilder) *Suggestions {
	return numericDigitSuggestions(b, func(s string) bool {
		v, err := strconv.ParseFloat(s, 64)
		return err == nil && v >= t.Min && v <= t.Max
	})
}

func parseFloat(in *CommandInput, bitSize int, lo, hi float64) (float64, error) {
	start := in.Cursor
	number := in.ReadWhile(IsAllowedNumber)
	if number == "" {
		return 0, &CommandSyntaxError{Err: &InputError{Err: ErrExpectedFloat, Input: in}}
	}
	f, err := strconv.ParseFloat(number, bitSize)
	if err != nil {
		in.Cursor = start
		return 0, &CommandSyntaxError{Err: &InputError{
			Err:   &InvalidValueError{Value: number, Err: fmt.Errorf("%w: %v", ErrInvalidFloat, err)},
			Input: in,
		}}
	}
	if f < lo {
		in.Cursor = start
		return 0, &CommandSyntaxError{Err: fmt.Errorf("%w (%f < %f)", ErrFloatTooLow, f, lo)}
	}
	if f > hi {
		in.Cursor = start
		return 0, &CommandSyntaxError{Err: fmt.Errorf("%w (%f > %f)", ErrFloatTooHigh, f, hi)}
	}
	return f, nil
}

type byteSizeArgumentType struct{}

func (t *byteSizeArgumentType) String() string { return "bytes" }

func (t *byteSizeArgumentType) Parse(in *CommandInput) (any, error) {
	start := in.Cursor
	token := in.ReadUnquotedString()
	if token == "" {
		return nil, &CommandSyntaxError{Err: &InputError{Err: ErrExpectedInt, Input: in}}
	}
	n, err := humanize.ParseBytes(token)
	if err != nil {
		in.Cursor = start
		return nil, &CommandSyntaxError{Err: &InputError{
			Err:   &InvalidValueError{Value: token, Err: err},
			Input: in,
		}}
	}
	return n, nil
}

type durationArgumentType struct{}

func (t *durationArgumentType) String() string { return "duration" }

func (t *durationArgumentType) Parse(in *CommandInput) (any, error) {
	start := in.Cursor
	token := in.ReadUnquotedString()
	if token == "" {
		return nil, &CommandSyntaxError{Err: &InputError{Err: ErrExpectedInt, Input: in}}
	}
	d, err := time.ParseDuration(token)
	if err != nil {
		in.Cursor = start
		return nil, &CommandSyntaxError{Err: &InputError{
			Err:   &InvalidValueError{Value: token, Err: err},
			Input: in,
		}}
	}
	return d, nil
}
