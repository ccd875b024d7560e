package cmdtree

import "strings"

// ParseResults is the outcome of walking the tree against one input string:
// either a fully resolved Command bound into Context, or the node/position
// at which the walk could go no further along with the error that stopped
// it (spec.md §4.3).
type ParseResults struct {
	Context *CommandContext
	Input   *CommandInput
	Err     error
}

// Unread reports whether any input remains that no node consumed.
func (r *ParseResults) Unread() bool { return r.Input.CanRead() }

func checkAccess(node CommandNode, sender any) error {
	if !node.Permission().Allows(sender) {
		return &NoPermissionError{Command: node.Command()}
	}
	if !node.SenderType().Accepts(sender) {
		return &SenderTypeError{Command: node.Command()}
	}
	return nil
}

// tryChild attempts to parse child starting at in's current cursor. On
// success it descends into child and returns the recursive result with
// ok=true. On failure it restores the cursor to mark and returns ok=false
// with the failure recorded in the returned ParseResults.Err, so the caller
// can try the next candidate in priority order (spec.md §4.3 step 4: "on
// failure: restore the cursor and try the next child").
func tryChild(ctx *CommandContext, child CommandNode, in *CommandInput, mark int) (*ParseResults, bool) {
	trial := ctx.Copy()
	if err := child.Parse(trial, in); err != nil {
		in.Restore(mark)
		return &ParseResults{Context: ctx, Input: in, Err: err}, false
	}
	// A flag group stops at the start of the first token it does not
	// consume, already past the separator before it; every other node must
	// be followed by a separator or the end of input.
	_, isFlagGroup := child.(*flagGroupNode)
	if !isFlagGroup && in.CanRead() && in.PeekString() != ArgumentSeparator {
		in.Restore(mark)
		return &ParseResults{Context: ctx, Input: in, Err: &CommandSyntaxError{
			Err: &InputError{Err: ErrExpectedArgumentSeparator, Input: in},
		}}, false
	}
	if cmd := child.Command(); cmd != nil {
		trial.Command = cmd
	} else if !isFlagGroup {
		// A non-terminal literal/argument: the walk resolves only if a deeper
		// node is terminal. A flag group keeps its parent's command.
		trial.Command = nil
	}
	if in.CanRead() && in.PeekString() == ArgumentSeparator {
		in.Skip() // consume the separator
	}
	return parseWalk(trial, child, in), true
}

// parseWalk recursively descends the tree from node, binding every matched
// node into ctx. There is no redirect/fork concept here; RegisterProxy
// covers cross-registration sharing at registration time instead.
func parseWalk(ctx *CommandContext, node CommandNode, in *CommandInput) *ParseResults {
	in.SkipWhitespace()
	cursor := in.Checkpoint()

	// No input left to match anything against: a still-unvisited optional
	// argument child with a default binds it instead of ending the walk here,
	// so "foo" reaches foo's optional trailing argument the same way "foo 5"
	// would (spec.md §4.3).
	if !in.CanRead() {
		if arg, ok := node.argumentChild().(*argumentNode); ok {
			if dflt, hasDflt := arg.Default(); hasDflt {
				r := StringRange{Start: cursor, End: cursor}
				ctx.withArgument(arg.name, &ParsedArgument{Range: r, Value: dflt})
				ctx.withNode(arg, r)
				if cmd := arg.Command(); cmd != nil {
					ctx.Command = cmd
				}
				return parseWalk(ctx, arg, in)
			}
		}
		return &ParseResults{Context: ctx, Input: in}
	}

	peek := in.Copy()
	peek.SkipWhitespace()
	token := peek.ReadWhile(func(r rune) bool { return r != ArgumentSeparator })

	// Literal child trial (spec.md §4.3 step 3): the token either equals
	// exactly one literal's name/alias, in which case that match is final,
	// or it matches none and parsing falls through to the argument child.
	if token != "" {
		if lit, ok := node.childMap().Get(token); ok {
			if err := checkAccess(lit, ctx.Sender); err != nil {
				return &ParseResults{Context: ctx, Input: in, Err: err}
			}
			result, _ := tryChild(ctx, lit, in, cursor)
			return result
		}
	}

	var lastErr error

	// Argument child trial (spec.md §4.3 step 4): tried before the flag
	// child regardless of whether the token looks like a flag, so a
	// negative number binds to a sibling argument instead of being forced
	// into the flag group.
	if arg := node.argumentChild(); arg != nil {
		if err := checkAccess(arg, ctx.Sender); err != nil {
			return &ParseResults{Context: ctx, Input: in, Err: err}
		}
		result, ok := tryChild(ctx, arg, in, cursor)
		if ok {
			return result
		}
		lastErr = result.Err
	}

	// Flag child trial (spec.md §4.3 step 5): only invoked when the token
	// begins with "-", and only after the argument child has failed (or
	// doesn't exist).
	if strings.HasPrefix(token, "-") && len(token) > 1 {
		if fg := node.flagGroupChild(); fg != nil {
			if err := checkAccess(fg, ctx.Sender); err != nil {
				return &ParseResults{Context: ctx, Input: in, Err: err}
			}
			result, ok := tryChild(ctx, fg, in, cursor)
			if ok {
				return result
			}
			lastErr = result.Err
		}
	}

	if lastErr != nil {
		return &ParseResults{Context: ctx, Input: in, Err: lastErr}
	}
	return &ParseResults{Context: ctx, Input: in}
}

// Parse walks root against input on sender's behalf, returning a
// ParseResults whose Context.Command is the Command of the node the walk
// ended on (a flag group counts as its parent), or nil if that node is not
// terminal. Unconsumed input is left in Input; Resolve reports it as an
// error (spec.md §4.3).
func Parse(ctx *CommandContext, root CommandNode, input string) *ParseResults {
	in := NewCommandInput(input)
	ctx.Input = input
	ctx.RootNode = root
	return parseWalk(ctx, root, in)
}

// Resolve turns a ParseResults into a usable Command or a typed error
// (spec.md §4.3/§7's "unknown command"/"unknown argument"/"invalid syntax"
// classification).
func (r *ParseResults) Resolve() (*Command, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Input.CanRead() {
		if r.Context.Range.IsEmpty() {
			return nil, &CommandSyntaxError{Err: &InputError{Err: ErrUnknownCommand, Input: r.Input}}
		}
		return nil, &InvalidSyntaxError{Node: lastNode(r.Context), Remaining: r.Input.Remaining()}
	}
	if r.Context.Command == nil {
		return nil, &CommandSyntaxError{Err: &InputError{Err: ErrUnknownArgument, Input: r.Input}}
	}
	return r.Context.Command, nil
}

func lastNode(ctx *CommandContext) CommandNode {
	if len(ctx.Nodes) == 0 {
		return ctx.RootNode
	}
	return ctx.Nodes[len(ctx.Nodes)-1].Node
}
