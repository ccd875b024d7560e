package cmdtree

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"
)

// Suggestions is a set of completions anchored to the input range they
// would replace (spec.md §4.5).
type Suggestions struct {
	Range       StringRange
	Suggestions []*Suggestion
}

// Suggestion is a single completion candidate.
type Suggestion struct {
	Range   StringRange
	Text    string
	Tooltip fmt.Stringer
}

// SuggestionContext names the node whose children should be asked for
// suggestions, and the input offset their suggestions are anchored at.
type SuggestionContext struct {
	Parent CommandNode
	Start  int
}

// SuggestionsBuilder accumulates Suggestion values for one node's
// contribution to a completion request.
type SuggestionsBuilder struct {
	Input              string
	InputLowerCase     string
	Start              int
	Remaining          string
	RemainingLowerCase string
	Result             []*Suggestion
}

// Suggest appends text as a candidate unless it equals the remaining token
// verbatim (nothing to complete).
func (b *SuggestionsBuilder) Suggest(text string) *SuggestionsBuilder {
	if text != b.Remaining {
		b.Result = append(b.Result, &Suggestion{Range: StringRange{Start: b.Start, End: len(b.Input)}, Text: text})
	}
	return b
}

// Build finalizes the builder into a Suggestions.
func (b *SuggestionsBuilder) Build() *Suggestions { return CreateSuggestion(b.Input, b.Result) }

var emptySuggestions = &Suggestions{}

// MergeSuggestions combines multiple Suggestions computed against the same
// command string into one, deduplicating by text.
func MergeSuggestions(command string, input []*Suggestions) *Suggestions {
	if len(input) == 0 {
		return emptySuggestions
	}
	if len(input) == 1 {
		return input[0]
	}
	seen := make(map[string]struct{}, len(input))
	all := make([]*Suggestion, 0, len(input))
	for _, s := range input {
		if s == nil {
			continue
		}
		for _, sug := range s.Suggestions {
			if _, ok := seen[sug.Text]; !ok {
				seen[sug.Text] = struct{}{}
				all = append(all, sug)
			}
		}
	}
	return CreateSuggestion(command, all)
}

// CreateSuggestion builds a Suggestions from a flat slice, expanding every
// entry to the widest range any of them spans and sorting case-insensitively.
func CreateSuggestion(command string, suggestions []*Suggestion) *Suggestions {
	if len(suggestions) == 0 {
		return emptySuggestions
	}
	start, end := math.MaxInt32, math.MinInt32
	for _, s := range suggestions {
		start = min(s.Range.Start, start)
		end = max(s.Range.End, end)
	}
	r := StringRange{Start: start, End: end}
	seen := make(map[string]struct{}, len(suggestions))
	all := make([]*Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if _, ok := seen[s.Text]; !ok {
			seen[s.Text] = struct{}{}
			all = append(all, s.expand(command, r))
		}
	}
	sort.Slice(all, func(i, j int) bool { return strings.ToLower(all[i].Text) < strings.ToLower(all[j].Text) })
	return &Suggestions{Range: r, Suggestions: all}
}

func (s *Suggestion) expand(command string, r StringRange) *Suggestion {
	if r == s.Range {
		return s
	}
	var b strings.Builder
	if r.Start < s.Range.Start {
		b.WriteString(command[r.Start:s.Range.Start])
	}
	b.WriteString(s.Text)
	if r.End > s.Range.End {
		b.WriteString(command[s.Range.End:r.End])
	}
	return &Suggestion{Range: r, Text: b.String(), Tooltip: s.Tooltip}
}

// FindSuggestionContext locates the node whose children should contribute
// suggestions for a completion request at cursor, replaying ctx.Nodes
// (spec.md §4.5's "in-progress token" vs "between tokens" distinction).
func FindSuggestionContext(ctx *CommandContext, cursor int) (*SuggestionContext, error) {
	if ctx.Range.Start > cursor {
		return nil, ErrNoNodeBeforeCursor
	}
	if ctx.Range.End < cursor {
		if len(ctx.Nodes) != 0 {
			last := ctx.Nodes[len(ctx.Nodes)-1]
			return &SuggestionContext{Parent: last.Node, Start: last.Range.End + 1}, nil
		}
		return &SuggestionContext{Parent: ctx.RootNode, Start: ctx.Range.Start}, nil
	}
	prev := ctx.RootNode
	for _, n := range ctx.Nodes {
		if n.Range.Start <= cursor && cursor <= n.Range.End {
			return &SuggestionContext{Parent: prev, Start: n.Range.Start}, nil
		}
		prev = n.Node
	}
	if prev == nil {
		return nil, ErrNoNodeBeforeCursor
	}
	return &SuggestionContext{Parent: prev, Start: ctx.Range.Start}, nil
}

// SuggestionProcessor post-filters/reorders a candidate set against the
// token the user has typed so far. CompletionSuggestionsCursor does not run
// one: the prefix matching it returns is done by each child's own
// Suggestions method. PrefixSuggestionProcessor and
// FuzzySuggestionProcessor are for callers to apply to candidate texts.
type SuggestionProcessor func(remaining string, candidates []string) []string

// PrefixSuggestionProcessor keeps candidates whose lower-cased text starts
// with remaining, preserving input order.
func PrefixSuggestionProcessor(remaining string, candidates []string) []string {
	lowerRemaining := strings.ToLower(remaining)
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), lowerRemaining) {
			out = append(out, c)
		}
	}
	return out
}

// FuzzySuggestionProcessor ranks candidates by github.com/sahilm/fuzzy
// match score against remaining, most relevant first. Useful for large flag
// or subcommand sets where users expect typo-tolerant completion.
func FuzzySuggestionProcessor(remaining string, candidates []string) []string {
	if remaining == "" {
		return candidates
	}
	matches := fuzzy.Find(remaining, candidates)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

// CompletionSuggestions computes suggestions for the end of parse's input.
func CompletionSuggestions(ctx context.Context, parse *ParseResults) (*Suggestions, error) {
	return CompletionSuggestionsCursor(ctx, parse, len(parse.Input.String))
}

// CompletionSuggestionsCursor computes suggestions as if the cursor were at
// the given offset into parse's original input, fanning out to every
// candidate child concurrently via errgroup (spec.md §4.5: "a future
// resolved when all contributing providers resolve").
func CompletionSuggestionsCursor(ctx context.Context, parse *ParseResults, cursor int) (*Suggestions, error) {
	found, err := FindSuggestionContext(parse.Context, cursor)
	if err != nil {
		return nil, err
	}
	parent := found.Parent
	start := min(found.Start, cursor)

	fullInput := parse.Input.String
	truncated := fullInput[:cursor]
	truncatedLower := strings.ToLower(truncated)

	children := parent.ChildrenOrdered()
	results := make([]*Suggestions, len(children))

	g, gctx := errgroup.WithContext(ctx)
	for i, child := range children {
		i, child := i, child
		if !CanProvideSuggestions(child) {
			continue
		}
		if err := checkAccess(child, parse.Context.Sender); err != nil {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			childCtx := parse.Context.Copy()
			childCtx.Input = truncated
			results[i] = child.Suggestions(childCtx, &SuggestionsBuilder{
				Input:              truncated,
				InputLowerCase:     truncatedLower,
				Start:              start,
				Remaining:          truncated[start:],
				RemainingLowerCase: truncatedLower[start:],
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	merged := MergeSuggestions(fullInput, results)
	if len(merged.Suggestions) == 0 && parse.Context.Settings.ForceSuggestion {
		return CreateSuggestion(fullInput, []*Suggestion{{Range: StringRange{Start: cursor, End: cursor}, Text: ""}}), nil
	}
	return merged, nil
}
