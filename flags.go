package cmdtree

import (
	"strings"
	"unicode/utf8"
)

// flagGroupName is the internal sentinel key a flag group occupies in a
// node's children map; it can never collide with a user literal/argument
// name since those are restricted to IsAllowedInUnquotedString runes.
const flagGroupName = "\x00flags\x00"

// CommandFlag is one declared flag within a FlagGroup (spec.md §4.4):
// "--name"/"-x" for presence flags, or "--name value"/"--name=value" when
// ValueType is set (a value flag's short form is rejected, see
// ClusterValueFlagError).
type CommandFlag struct {
	Name       string
	Short      rune // 0 if this flag has no short form
	ValueType  ArgumentType
	Repeatable bool
}

func (f *CommandFlag) isPresenceFlag() bool { return f.ValueType == nil }

// flagGroupNode is the pseudo-component holding every flag declared for the
// commands reachable through its parent (spec.md §4.4). It is always the
// last child tried, after literals and the argument child.
type flagGroupNode struct {
	Node
	flags   []*CommandFlag
	byName  map[string]*CommandFlag
	byShort map[rune]*CommandFlag
}

func newFlagGroupNode() *flagGroupNode {
	return &flagGroupNode{
		Node:    newNode(),
		byName:  map[string]*CommandFlag{},
		byShort: map[rune]*CommandFlag{},
	}
}

func (n *flagGroupNode) Name() string      { return flagGroupName }
func (n *flagGroupNode) UsageText() string { return "[--flags]" }

func (n *flagGroupNode) addFlag(f *CommandFlag) error {
	if _, ok := n.byName[f.Name]; ok {
		return &DuplicateFlagError{Name: f.Name}
	}
	if f.Short != 0 {
		if _, ok := n.byShort[f.Short]; ok {
			return &DuplicateFlagError{Name: string(f.Short)}
		}
	}
	n.flags = append(n.flags, f)
	n.byName[f.Name] = f
	if f.Short != 0 {
		n.byShort[f.Short] = f
	}
	return nil
}

// Parse consumes a run of zero or more "--name[=value]"/"-xyz" tokens
// starting at in's cursor, stopping at the first token that isn't a flag
// token at all (left unconsumed for whatever parses next). An unrecognized
// flag token is an error unless LIBERAL_FLAG_PARSING is set, in which case
// parsing stops and control returns to the caller with the cursor rewound
// to just before that token (spec.md §4.4 / open question 2).
func (n *flagGroupNode) Parse(ctx *CommandContext, in *CommandInput) error {
	matched := false
	for {
		in.SkipWhitespace()
		mark := in.Checkpoint()
		if !in.CanRead() || in.PeekString() != '-' {
			in.Restore(mark)
			break
		}
		token := in.ReadWhile(func(r rune) bool { return r != ArgumentSeparator })
		if err := n.parseToken(ctx, in, token); err != nil {
			if _, ok := err.(*UnknownFlagError); ok && ctx.Settings.LiberalFlagParsing {
				in.Restore(mark)
				break
			}
			in.Restore(mark)
			return err
		}
		matched = true
	}
	if matched {
		ctx.withNode(n, StringRange{Start: in.Cursor, End: in.Cursor})
	}
	return nil
}

func (n *flagGroupNode) parseToken(ctx *CommandContext, in *CommandInput, token string) error {
	switch {
	case strings.HasPrefix(token, "--"):
		return n.parseLong(ctx, in, token)
	case strings.HasPrefix(token, "-") && len(token) > 1:
		return n.parseShortCluster(ctx, in, token)
	default:
		return &UnknownFlagError{Token: token}
	}
}

// parseLong handles "--name" and "--name=value" tokens.
func (n *flagGroupNode) parseLong(ctx *CommandContext, in *CommandInput, token string) error {
	body := token[2:]
	if body == "" || !isFlagNameStart(rune(body[0])) {
		return &UnknownFlagError{Token: token}
	}
	name, inlineValue, hasInline := cutFlag(body)
	for _, r := range name {
		if !isFlagNameRune(r) {
			return &UnknownFlagError{Token: token}
		}
	}
	f, ok := n.byName[name]
	if !ok {
		return &UnknownFlagError{Token: token}
	}
	if ctx.Flags.Present(f.Name) && !f.Repeatable {
		return &DuplicateFlagError{Name: f.Name}
	}
	if f.isPresenceFlag() {
		if hasInline {
			return &UnknownFlagError{Token: token}
		}
		ctx.Flags.setPresence(f.Name)
		return nil
	}
	var raw string
	if hasInline {
		raw = inlineValue
	} else {
		in.SkipWhitespace()
		if !in.CanRead() {
			return &MissingFlagValueError{Name: f.Name}
		}
		raw = in.ReadUnquotedString()
	}
	return n.bindValue(ctx, f, NewCommandInput(raw))
}

// parseShortCluster handles "-xyz": a run of single-rune short flags, each
// resolved to a presence flag. A cluster character naming a value flag is a
// hard error — spec.md §4.4 reserves trailing-value consumption for the
// long form only, grounded on gargle's tokenizer one-rune-at-a-time decode
// loop (adapted to reject rather than special-case a value flag mid-run).
func (n *flagGroupNode) parseShortCluster(ctx *CommandContext, in *CommandInput, token string) error {
	remainder := token[1:]
	for remainder != "" {
		r, size := utf8.DecodeRuneInString(remainder)
		remainder = remainder[size:]
		f, ok := n.byShort[r]
		if !ok {
			return &UnknownFlagError{Token: "-" + string(r)}
		}
		if !f.isPresenceFlag() {
			return &ClusterValueFlagError{Name: f.Name}
		}
		if ctx.Flags.Present(f.Name) && !f.Repeatable {
			return &DuplicateFlagError{Name: f.Name}
		}
		ctx.Flags.setPresence(f.Name)
	}
	return nil
}

func (n *flagGroupNode) bindValue(ctx *CommandContext, f *CommandFlag, raw *CommandInput) error {
	value, err := f.ValueType.Parse(raw)
	if err != nil {
		return &ArgumentParseError{Name: f.Name, Err: err}
	}
	ctx.Flags.setValue(f.Name, value)
	return nil
}

func (n *flagGroupNode) Suggestions(ctx *CommandContext, b *SuggestionsBuilder) *Suggestions {
	var all []*Suggestions
	for _, f := range n.flags {
		candidate := "--" + f.Name
		if strings.HasPrefix(candidate, b.Remaining) {
			all = append(all, b.Suggest(candidate).Build())
		}
	}
	return MergeSuggestions(b.Input, all)
}

func isFlagNameStart(r rune) bool {
	return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z'
}

func isFlagNameRune(r rune) bool {
	return isFlagNameStart(r) || r >= '0' && r <= '9' || r == '_' || r == '-'
}

// cutFlag splits "name=value" into its parts, reporting whether "=" was
// present at all.
func cutFlag(body string) (name, value string, hasValue bool) {
	if i := strings.IndexByte(body, '='); i >= 0 {
		return body[:i], body[i+1:], true
	}
	return body, "", false
}
