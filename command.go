package cmdtree

// Handler executes a fully parsed command. Returning a non-framework error
// causes the Execution Coordinator to wrap it in a CommandExecutionError
// before it reaches the caller (spec.md §4.6).
type Handler func(ctx *CommandContext) error

// HandlerFunc is a convenience adapter.
type HandlerFunc = Handler

// Command is the immutable terminal attached to a node: the component chain
// that leads to it, the handler to invoke, and the exact (non-aggregated)
// permission and sender-type constraints dispatch enforces (spec.md §4.2's
// "aggregated" predicates live on the Node; this is the terminal's own,
// precise requirement).
type Command struct {
	Chain      []CommandNode
	Handler    Handler
	Permission Permission
	SenderType SenderType
	// Executor overrides the Coordinator's DefaultExecutor for this
	// command's handler alone (spec.md §4.6); nil means "use the default".
	Executor Executor
}

func (c *Command) permission() Permission {
	if c == nil || c.Permission == nil {
		return AnyPermission
	}
	return c.Permission
}

func (c *Command) senderType() SenderType {
	if c == nil || c.SenderType == nil {
		return AnySenderType
	}
	return c.SenderType
}

// Path returns the dotted names of the chain leading to c, e.g. "foo.bar".
func (c *Command) Path() []string {
	names := make([]string, 0, len(c.Chain))
	for _, n := range c.Chain {
		if n.Name() != "" {
			names = append(names, n.Name())
		}
	}
	return names
}
