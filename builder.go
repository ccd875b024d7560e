package cmdtree

// nodeBuilder is implemented by every fluent builder in this file; Build
// realizes the builder into an attached CommandNode, failing if doing so
// would violate one of spec.md §4.1's ambiguity rules.
type nodeBuilder interface {
	Build() (CommandNode, error)
}

// Literal starts building a literal component matching name or any of
// aliases (spec.md §4 "Literal").
func Literal(name string, aliases ...string) *LiteralBuilder {
	return &LiteralBuilder{name: name, aliases: aliases}
}

// LiteralBuilder fluently builds a literalNode.
type LiteralBuilder struct {
	name       string
	aliases    []string
	children   []nodeBuilder
	handler    Handler
	permission Permission
	senderType SenderType
	executor   Executor
}

// Then attaches children to the literal being built.
func (b *LiteralBuilder) Then(children ...nodeBuilder) *LiteralBuilder {
	b.children = append(b.children, children...)
	return b
}

// Executes marks this literal as a terminal command running h.
func (b *LiteralBuilder) Executes(h Handler) *LiteralBuilder {
	b.handler = h
	return b
}

// Requires restricts this terminal to senders p allows.
func (b *LiteralBuilder) Requires(p Permission) *LiteralBuilder {
	b.permission = p
	return b
}

// RequiresSenderType restricts this terminal to senders of type st.
func (b *LiteralBuilder) RequiresSenderType(st SenderType) *LiteralBuilder {
	b.senderType = st
	return b
}

// RunsOn pins this terminal's handler to executor, overriding the
// Coordinator's DefaultExecutor (spec.md §4.6).
func (b *LiteralBuilder) RunsOn(executor Executor) *LiteralBuilder {
	b.executor = executor
	return b
}

// Build realizes the literalNode, merging in every child.
func (b *LiteralBuilder) Build() (CommandNode, error) {
	n := newLiteralNode(b.name, b.aliases...)
	if err := attachChildren(n, b.children); err != nil {
		return nil, err
	}
	if b.handler != nil {
		cmd := &Command{Chain: []CommandNode{n}, Handler: b.handler, Permission: b.permission, SenderType: b.senderType, Executor: b.executor}
		n.setCommand(cmd)
		n.aggregate(cmd.permission(), cmd.senderType())
	}
	return n, nil
}

// Argument starts building a typed argument component named name, parsed by
// argType (spec.md §4 "Argument").
func Argument(name string, argType ArgumentType) *ArgumentBuilder {
	return &ArgumentBuilder{name: name, argType: argType}
}

// ArgumentBuilder fluently builds an argumentNode.
type ArgumentBuilder struct {
	name       string
	argType    ArgumentType
	children   []nodeBuilder
	handler    Handler
	permission Permission
	senderType SenderType
	optional   bool
	hasDflt    bool
	dflt       any
	suggest    SuggestionProvider
	executor   Executor
}

// Then attaches children to the argument being built.
func (b *ArgumentBuilder) Then(children ...nodeBuilder) *ArgumentBuilder {
	b.children = append(b.children, children...)
	return b
}

// Executes marks this argument as a terminal command running h.
func (b *ArgumentBuilder) Executes(h Handler) *ArgumentBuilder {
	b.handler = h
	return b
}

// Requires restricts this terminal to senders p allows.
func (b *ArgumentBuilder) Requires(p Permission) *ArgumentBuilder {
	b.permission = p
	return b
}

// RequiresSenderType restricts this terminal to senders of type st.
func (b *ArgumentBuilder) RequiresSenderType(st SenderType) *ArgumentBuilder {
	b.senderType = st
	return b
}

// Optional marks this argument skippable when no more input remains,
// binding dflt instead (spec.md §4.3).
func (b *ArgumentBuilder) Optional(dflt any) *ArgumentBuilder {
	b.optional = true
	b.hasDflt = true
	b.dflt = dflt
	return b
}

// Suggests overrides argType's own suggestions with provider.
func (b *ArgumentBuilder) Suggests(provider SuggestionProvider) *ArgumentBuilder {
	b.suggest = provider
	return b
}

// RunsOn pins this terminal's handler to executor, overriding the
// Coordinator's DefaultExecutor (spec.md §4.6).
func (b *ArgumentBuilder) RunsOn(executor Executor) *ArgumentBuilder {
	b.executor = executor
	return b
}

// Build realizes the argumentNode, merging in every child.
func (b *ArgumentBuilder) Build() (CommandNode, error) {
	n := newArgumentNode(b.name, b.argType)
	n.optional = b.optional
	n.hasDflt = b.hasDflt
	n.dflt = b.dflt
	n.override = b.suggest
	if err := attachChildren(n, b.children); err != nil {
		return nil, err
	}
	if b.handler != nil {
		cmd := &Command{Chain: []CommandNode{n}, Handler: b.handler, Permission: b.permission, SenderType: b.senderType, Executor: b.executor}
		n.setCommand(cmd)
		n.aggregate(cmd.permission(), cmd.senderType())
	}
	return n, nil
}

// Flags starts building a flag-group component (spec.md §4.4).
func Flags() *FlagGroupBuilder { return &FlagGroupBuilder{} }

// FlagGroupBuilder fluently builds a flagGroupNode.
type FlagGroupBuilder struct {
	flags    []*CommandFlag
	children []nodeBuilder
}

// Flag declares one flag. short may be 0 for no short form; valueType nil
// makes it a presence-only flag.
func (b *FlagGroupBuilder) Flag(name string, short rune, valueType ArgumentType, repeatable bool) *FlagGroupBuilder {
	b.flags = append(b.flags, &CommandFlag{Name: name, Short: short, ValueType: valueType, Repeatable: repeatable})
	return b
}

// Then attaches children to the flag group being built.
func (b *FlagGroupBuilder) Then(children ...nodeBuilder) *FlagGroupBuilder {
	b.children = append(b.children, children...)
	return b
}

// Build realizes the flagGroupNode.
func (b *FlagGroupBuilder) Build() (CommandNode, error) {
	n := newFlagGroupNode()
	for _, f := range b.flags {
		if err := n.addFlag(f); err != nil {
			return nil, err
		}
	}
	if err := attachChildren(n, b.children); err != nil {
		return nil, err
	}
	return n, nil
}

func attachChildren(parent CommandNode, builders []nodeBuilder) error {
	for _, cb := range builders {
		child, err := cb.Build()
		if err != nil {
			return err
		}
		if _, err := addChild(parent, child); err != nil {
			return err
		}
	}
	return nil
}

// RegisterBuilder builds b and registers the result with t in one step.
func (t *Tree) RegisterBuilder(b nodeBuilder) error {
	node, err := b.Build()
	if err != nil {
		return err
	}
	return t.Register(node)
}
