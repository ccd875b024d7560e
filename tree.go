package cmdtree

import (
	"context"
	"fmt"
)

// CommandManagerSettings tunes parsing/suggestion behavior that can't be
// expressed as tree shape (spec.md §5).
type CommandManagerSettings struct {
	// LiberalFlagParsing, when set, makes an unrecognized flag token stop
	// flag-group consumption and hand control back to whatever comes next
	// (typically a greedy trailing argument) instead of failing the parse.
	LiberalFlagParsing bool
	// ForceSuggestion, when set, makes Suggest return a single empty
	// suggestion (rather than an empty set) when no provider contributes
	// any candidate at all (spec.md §4.5/§6).
	ForceSuggestion bool
}

// Logger is the minimal structured-logging seam the Tree uses to surface
// non-fatal registration anomalies (spec.md's open question 1: argument
// nodes merged across differing parser types are allowed, but logged).
type Logger interface {
	Printf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// Tree is a merged command tree: the entry point for registering commands,
// parsing input, producing completions, and introspecting the result
// (spec.md §6's external interface).
type Tree struct {
	Root     *rootNode
	Settings CommandManagerSettings
	Log      Logger
}

// NewTree returns an empty Tree.
func NewTree(settings CommandManagerSettings) *Tree {
	return &Tree{Root: newRootNode(), Settings: settings, Log: noopLogger{}}
}

// Register merges a built command chain into the tree, aggregating the
// terminal's Permission/SenderType into every ancestor along the way
// (spec.md §4.1/§4.2). The chain's first node is attached directly under
// Root.
func (t *Tree) Register(chain CommandNode) error {
	currentLogger = t.logger()
	defer func() { currentLogger = noopLogger{} }()
	_, err := addChild(t.Root, chain)
	return err
}

func (t *Tree) logger() Logger {
	if t.Log == nil {
		return noopLogger{}
	}
	return t.Log
}

func pathTo(root CommandNode, target CommandNode) []CommandNode {
	var walk func(n CommandNode, acc []CommandNode) []CommandNode
	walk = func(n CommandNode, acc []CommandNode) []CommandNode {
		acc = append(acc, n)
		if n == target {
			return acc
		}
		for _, c := range n.ChildrenOrdered() {
			if r := walk(c, append([]CommandNode{}, acc...)); r != nil {
				return r
			}
		}
		return nil
	}
	result := walk(root, nil)
	if result == nil {
		return nil
	}
	return result[1:] // drop root itself
}

// RegisterProxy registers a new literal alias whose children are target's
// children as they are at the time of the call (target's own root literal
// is not included). The child nodes are not copied: alias and target share
// them, with every ArgumentType and Handler below, so commands later merged
// beneath one of those shared children are reachable through both, while
// children added directly under target afterwards are not visible through
// alias.
func (t *Tree) RegisterProxy(alias string, target CommandNode) error {
	proxyRoot := newLiteralNode(alias)
	for _, child := range target.ChildrenOrdered() {
		if _, err := addChild(proxyRoot, child); err != nil {
			return err
		}
	}
	if cmd := target.Command(); cmd != nil {
		proxyRoot.setCommand(cmd)
	}
	proxyRoot.aggregate(target.Permission(), target.SenderType())
	return t.Register(proxyRoot)
}

func (t *Tree) parse(ctx context.Context, sender any, input string) *ParseResults {
	cctx := NewCommandContext(ctx, sender, t.Root)
	cctx.Settings = t.Settings
	return Parse(cctx, t.Root, input)
}

// ParseInput walks the tree against input for sender, without executing
// anything (spec.md §4.3).
func (t *Tree) ParseInput(ctx context.Context, sender any, input string) *ParseResults {
	return t.parse(ctx, sender, input)
}

// Execute parses and immediately runs input's command inline (no
// Coordinator/Executor indirection); most programs should prefer building a
// Coordinator instead so preprocessing/postprocessing/the execution mutex
// apply uniformly.
func (t *Tree) Execute(ctx context.Context, sender any, input string) error {
	results := t.parse(ctx, sender, input)
	cmd, err := results.Resolve()
	if err != nil {
		return err
	}
	if err := cmd.Handler(results.Context); err != nil {
		if isFrameworkError(err) {
			return err
		}
		return &CommandExecutionError{Err: err}
	}
	return nil
}

// Suggest computes completions for input at the end of the string.
func (t *Tree) Suggest(ctx context.Context, sender any, input string) (*Suggestions, error) {
	results := t.parse(ctx, sender, input)
	return CompletionSuggestionsCursor(ctx, results, len(input))
}

// SuggestAt computes completions for input as if the cursor were at cursor.
func (t *Tree) SuggestAt(ctx context.Context, sender any, input string, cursor int) (*Suggestions, error) {
	results := t.parse(ctx, sender, input)
	return CompletionSuggestionsCursor(ctx, results, cursor)
}

// Walk calls fn for every node in the tree, depth-first, starting at Root.
func (t *Tree) Walk(fn func(node CommandNode, depth int)) {
	var walk func(n CommandNode, depth int)
	walk = func(n CommandNode, depth int) {
		fn(n, depth)
		for _, c := range n.ChildrenOrdered() {
			walk(c, depth+1)
		}
	}
	walk(t.Root, 0)
}

// FindNode looks up the node reachable by following path (literal/argument
// names) from Root, or nil if no such path exists.
func (t *Tree) FindNode(path ...string) CommandNode {
	var node CommandNode = t.Root
	for _, name := range path {
		child, ok := node.childMap().Get(name)
		if !ok {
			if arg := node.argumentChild(); arg != nil && arg.Name() == name {
				child = arg
			} else {
				return nil
			}
		}
		node = child
	}
	return node
}

// Path returns the name chain from Root down to node, or nil if node is not
// part of this tree.
func (t *Tree) Path(node CommandNode) []string {
	p := pathTo(t.Root, node)
	names := make([]string, 0, len(p))
	for _, n := range p {
		if n.Name() != "" {
			names = append(names, n.Name())
		}
	}
	return names
}

func (t *Tree) String() string { return fmt.Sprintf("Tree(%d top-level commands)", t.Root.childMap().Size()) }
