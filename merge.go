package cmdtree

// currentLogger receives non-fatal registration anomalies (spec.md open
// question 1). Tree.Register/RegisterProxy point it at the Tree's own
// Logger for the duration of a registration call; registration is expected
// to happen during single-threaded startup.
var currentLogger Logger = noopLogger{}

// addChild merges child into parent, applying spec.md §4.1's ambiguity
// rules: a literal merges onto an existing sibling with the identical
// name/alias set and conflicts with one that shares only some names; an
// argument merges onto a same-named argument sibling and conflicts with a
// differently named one; a flag group's flags are added to an existing flag
// group. When a terminal Command becomes reachable through child, child's
// aggregated Permission/SenderType (covering every terminal beneath it) is
// folded into parent, and that Command is returned so each caller up the
// chain does the same (spec.md §4.2).
func addChild(parent, child CommandNode) (*Command, error) {
	var (
		cmd *Command
		err error
	)
	switch c := child.(type) {
	case *literalNode:
		cmd, err = addLiteralChildNode(parent, c)
	case *argumentNode:
		cmd, err = addArgumentChild(parent, c)
	case *flagGroupNode:
		cmd, err = addFlagGroupChild(parent, c)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if cmd != nil {
		parent.aggregate(child.Permission(), child.SenderType())
	}
	return cmd, nil
}

// addLiteralChildNode merges c onto parent, matching any of c's name/alias
// strings against any existing literal sibling's name/alias strings.
func addLiteralChildNode(parent CommandNode, c *literalNode) (*Command, error) {
	children := parent.childMap()
	for _, existingName := range children.Keys() {
		existing, _ := children.Get(existingName)
		lit, ok := existing.(*literalNode)
		if !ok {
			continue
		}
		if !sharesName(lit, c) {
			continue
		}
		if !sameNameSet(lit, c) {
			// Overlapping but not identical alias sets: ambiguous sibling
			// naming (spec.md §4.1 DuplicateCommandChain).
			return nil, &DuplicateCommandChainError{Parent: parent, Name: existingName}
		}
		return mergeGrandchildren(lit, c)
	}
	for _, name := range c.names() {
		children.Put(name, c)
	}
	return deepestNewCommand(c), nil
}

func sharesName(a, b *literalNode) bool {
	for _, an := range a.names() {
		for _, bn := range b.names() {
			if an == bn {
				return true
			}
		}
	}
	return false
}

func sameNameSet(a, b *literalNode) bool {
	an, bn := a.names(), b.names()
	if len(an) != len(bn) {
		return false
	}
	set := make(map[string]struct{}, len(an))
	for _, n := range an {
		set[n] = struct{}{}
	}
	for _, n := range bn {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}

// addArgumentChild attaches c as parent's sole argument child, or reports
// AmbiguousNodeError if parent already has a differently-named one and
// merges in if the names match (spec.md open question 1: merging across
// differing parser types for the same name is allowed, just logged through
// currentLogger, which Tree.Register points at the Tree's Logger).
func addArgumentChild(parent CommandNode, c *argumentNode) (*Command, error) {
	existing := parent.argumentChild()
	if existing == nil {
		parent.setArgumentChild(c)
		return deepestNewCommand(c), nil
	}
	ea, ok := existing.(*argumentNode)
	if !ok || ea.name != c.name {
		return nil, &AmbiguousNodeError{Parent: parent, Name: c.name}
	}
	if ea.argType.String() != c.argType.String() {
		// Open question: same argument name, different parser type. Allowed
		// intentionally (e.g. two aliases of a command binding the same
		// name through different types); surfaced only as a log line.
		currentLogger.Printf("cmdtree: argument %q merged across differing parser types %q and %q",
			c.name, ea.argType.String(), c.argType.String())
	}
	return mergeGrandchildren(ea, c)
}

// addFlagGroupChild attaches c as parent's sole flag group, merging flag
// declarations into the existing one if parent already has a flag group.
func addFlagGroupChild(parent CommandNode, c *flagGroupNode) (*Command, error) {
	existing := parent.flagGroupChild()
	if existing == nil {
		parent.setFlagGroupChild(c)
		return deepestNewCommand(c), nil
	}
	eg := existing.(*flagGroupNode)
	for _, f := range c.flags {
		if err := eg.addFlag(f); err != nil {
			return nil, err
		}
	}
	return mergeGrandchildren(eg, c)
}

// mergeGrandchildren folds incoming's terminal command (if any) and
// children into existing, recursively, catching a duplicate terminal at the
// same node along the way. It
// returns whichever Command ends up newly reachable through existing as a
// result (existing's own, if incoming attached one directly here, else
// whatever a grandchild merge surfaced).
func mergeGrandchildren(existing, incoming CommandNode) (*Command, error) {
	var resolved *Command
	if incoming.Command() != nil {
		if existing.Command() != nil {
			return nil, &DuplicateCommandError{Chain: commandNames(existing, incoming)}
		}
		existing.setCommand(incoming.Command())
		resolved = incoming.Command()
		existing.aggregate(resolved.permission(), resolved.senderType())
	}
	for _, grandchild := range incoming.ChildrenOrdered() {
		cmd, err := addChild(existing, grandchild)
		if err != nil {
			return nil, err
		}
		if cmd != nil {
			resolved = cmd
		}
	}
	return resolved, nil
}

// deepestNewCommand returns the Command reachable from a freshly attached
// (never-before-merged) node by following its sole child chain down.
func deepestNewCommand(node CommandNode) *Command {
	if node.Command() != nil {
		return node.Command()
	}
	children := node.ChildrenOrdered()
	if len(children) == 0 {
		return nil
	}
	return deepestNewCommand(children[0])
}

func commandNames(a, b CommandNode) []string {
	names := []string{}
	if a.Name() != "" {
		names = append(names, a.Name())
	}
	if b.Name() != "" && b.Name() != a.Name() {
		names = append(names, b.Name())
	}
	return names
}
