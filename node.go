package cmdtree

import (
	"fmt"
	"strings"
)

// CommandNode is the tagged union spec.md §4 describes as CommandComponent
// once merged into the tree: a literal, an argument, or a flag group, each
// carrying ordered children and an aggregated Permission/SenderType computed
// over every terminal command reachable beneath it.
type CommandNode interface {
	// Name identifies the node for merge/lookup: the literal text, the
	// argument name, or the flag group's sentinel name.
	Name() string
	// UsageText is this node's own fragment of a usage string, e.g. "foo" or
	// "[count]" (an argument's name in brackets).
	UsageText() string
	// ChildrenOrdered returns this node's children in spec order: literals in
	// declaration order, then the single argument child (if any), then the
	// flag group (if any).
	ChildrenOrdered() []CommandNode
	childMap() StringCommandNodeMap
	argumentChild() CommandNode
	setArgumentChild(CommandNode)
	flagGroupChild() CommandNode
	setFlagGroupChild(CommandNode)
	// Command returns the terminal Command attached directly to this node,
	// or nil if this node is not itself a terminal.
	Command() *Command
	setCommand(*Command)
	// Permission is the disjunction of every reachable terminal's Permission.
	Permission() Permission
	// SenderType is the narrowest SenderType every reachable terminal shares.
	SenderType() SenderType
	aggregate(cmdPermission Permission, cmdSenderType SenderType)
	// Parse attempts to consume this node from in, binding into ctx on
	// success and leaving in's cursor untouched on failure.
	Parse(ctx *CommandContext, in *CommandInput) error
	// Suggestions implements SuggestionProvider for this node itself (used
	// for literal-text and flag-name completion).
	Suggestions(ctx *CommandContext, b *SuggestionsBuilder) *Suggestions
}

// Node is the shared structure embedded by every concrete CommandNode kind.
// Literal children are kept separately from the (at most one) argument child
// and the (at most one) flag-group child so ChildrenOrdered can produce
// spec.md's fixed ordering without a re-sort on every read.
type Node struct {
	literals  StringCommandNodeMap
	argument  CommandNode
	flagGroup CommandNode

	command    *Command
	permission Permission
	senderType SenderType
}

func newNode() Node {
	return Node{literals: NewStringCommandNodeMap()}
}

func (n *Node) childMap() StringCommandNodeMap { return n.literals }
func (n *Node) argumentChild() CommandNode     { return n.argument }
func (n *Node) setArgumentChild(c CommandNode) { n.argument = c }
func (n *Node) flagGroupChild() CommandNode    { return n.flagGroup }
func (n *Node) setFlagGroupChild(c CommandNode) { n.flagGroup = c }

func (n *Node) ChildrenOrdered() []CommandNode {
	children := make([]CommandNode, 0, n.literals.Size()+2)
	seen := make(map[CommandNode]struct{}, n.literals.Size())
	for _, v := range n.literals.Values() {
		// An aliased literal is stored once per name; list it only once.
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		children = append(children, v)
	}
	if n.argument != nil {
		children = append(children, n.argument)
	}
	if n.flagGroup != nil {
		children = append(children, n.flagGroup)
	}
	return children
}

func (n *Node) Command() *Command     { return n.command }
func (n *Node) setCommand(c *Command) { n.command = c }

func (n *Node) Permission() Permission {
	if n.permission == nil {
		return AnyPermission
	}
	return n.permission
}

func (n *Node) SenderType() SenderType {
	if n.senderType == nil {
		return AnySenderType
	}
	return n.senderType
}

// aggregate folds a newly-reachable terminal's exact predicates into this
// node's running Permission/SenderType aggregate (spec.md §4.2).
func (n *Node) aggregate(cmdPermission Permission, cmdSenderType SenderType) {
	n.permission = OrPermission(n.permission, cmdPermission)
	n.senderType = aggregateSenderType(n.senderType, cmdSenderType)
}

// rootNode is the invisible node a Tree's commands are registered under. It
// has no literal/usage text of its own.
type rootNode struct{ Node }

func newRootNode() *rootNode { return &rootNode{Node: newNode()} }

func (r *rootNode) Name() string      { return "" }
func (r *rootNode) UsageText() string { return "" }
func (r *rootNode) Parse(*CommandContext, *CommandInput) error {
	return nil
}
func (r *rootNode) Suggestions(_ *CommandContext, b *SuggestionsBuilder) *Suggestions {
	return emptySuggestions
}

// literalNode matches one exact, whitespace-delimited keyword (plus any
// registered aliases, tracked for ambiguity checks in merge.go).
type literalNode struct {
	Node
	literal string
	aliases []string

	cachedLower string
}

func newLiteralNode(literal string, aliases ...string) *literalNode {
	return &literalNode{Node: newNode(), literal: literal, aliases: aliases}
}

func (n *literalNode) Name() string      { return n.literal }
func (n *literalNode) UsageText() string { return n.literal }

// names returns the full set of strings that route to this node: its
// primary literal and every alias.
func (n *literalNode) names() []string {
	all := make([]string, 0, len(n.aliases)+1)
	all = append(all, n.literal)
	all = append(all, n.aliases...)
	return all
}

func (n *literalNode) Parse(ctx *CommandContext, in *CommandInput) error {
	start := in.Cursor
	end := n.tryMatch(in)
	if end < 0 {
		return &CommandSyntaxError{Err: &InputError{
			Err:   &IncorrectLiteralError{Literal: n.literal},
			Input: in,
		}}
	}
	ctx.withNode(n, StringRange{Start: start, End: end})
	return nil
}

// tryMatch reports the end offset of a match for any of this node's
// name/alias strings at in's current cursor, or -1, restoring the cursor on
// failure.
func (n *literalNode) tryMatch(in *CommandInput) int {
	start := in.Cursor
	for _, name := range n.names() {
		if !in.CanReadLen(len(name)) {
			continue
		}
		end := start + len(name)
		if in.String[start:end] != name {
			continue
		}
		in.Cursor = end
		if !in.CanRead() || in.PeekString() == ArgumentSeparator {
			return end
		}
		in.Cursor = start
	}
	return -1
}

func (n *literalNode) Suggestions(_ *CommandContext, b *SuggestionsBuilder) *Suggestions {
	if n.cachedLower == "" {
		n.cachedLower = strings.ToLower(n.literal)
	}
	if strings.HasPrefix(n.cachedLower, b.RemainingLowerCase) {
		return b.Suggest(n.literal).Build()
	}
	return emptySuggestions
}

// argumentNode binds one typed value by name, parsed via its ArgumentType.
// A node may have at most one argument child (spec.md §4.1's ambiguity
// rule); Optional carries a default used when parsing is skipped entirely
// because no more input remains (spec.md §4.3).
type argumentNode struct {
	Node
	name     string
	argType  ArgumentType
	optional bool
	hasDflt  bool
	dflt     any
	override SuggestionProvider
}

func newArgumentNode(name string, argType ArgumentType) *argumentNode {
	return &argumentNode{Node: newNode(), name: name, argType: argType}
}

func (n *argumentNode) Name() string { return n.name }
func (n *argumentNode) UsageText() string {
	return fmt.Sprintf("%c%s%c", UsageArgumentOpen, n.name, UsageArgumentClose)
}

func (n *argumentNode) Parse(ctx *CommandContext, in *CommandInput) error {
	start := in.Cursor
	value, err := n.argType.Parse(in)
	if err != nil {
		return &ArgumentParseError{Name: n.name, Err: err}
	}
	parsed := &ParsedArgument{Range: StringRange{Start: start, End: in.Cursor}, Value: value}
	ctx.withArgument(n.name, parsed)
	ctx.withNode(n, parsed.Range)
	return nil
}

// IsOptional reports whether this argument may be skipped when no more
// input remains, falling back to its default (spec.md §4.3).
func (n *argumentNode) IsOptional() bool { return n.optional }

// Default returns the value to bind when the argument is skipped, and
// whether one was configured.
func (n *argumentNode) Default() (any, bool) { return n.dflt, n.hasDflt }

func (n *argumentNode) Suggestions(ctx *CommandContext, b *SuggestionsBuilder) *Suggestions {
	if n.override != nil {
		return n.override.Suggestions(ctx, b)
	}
	return ProvideSuggestions(n.argType, ctx, b)
}

const (
	UsageArgumentOpen  rune = '['
	UsageArgumentClose rune = ']'
)
