package cmdtree

import "context"

// ParsedArgument is the decoded value bound to a single argument node, along
// with the input range it was parsed from (spec.md §4.3 "typed argument
// binding").
type ParsedArgument struct {
	Range StringRange
	Value any
}

// ParsedCommandNode records that node matched the input range r during a
// parse, building up CommandContext.Nodes for suggestion/introspection.
type ParsedCommandNode struct {
	Node  CommandNode
	Range StringRange
}

// FlagStore holds the decoded values of a parsed FlagGroup (spec.md §4.4).
// Presence flags (no Value parser) record only presence and an occurrence
// count; value flags record presence, the most recent decoded value, and
// the full ordered list of decoded values (spec.md §4.4/§8: a repeatable
// value flag accumulates an ordered list, a repeatable presence flag
// accumulates a count).
type FlagStore struct {
	present    map[string]bool
	values     map[string]any
	valueLists map[string][]any
	counts     map[string]int
}

// NewFlagStore returns an empty FlagStore.
func NewFlagStore() *FlagStore {
	return &FlagStore{
		present:    map[string]bool{},
		values:     map[string]any{},
		valueLists: map[string][]any{},
		counts:     map[string]int{},
	}
}

// Present reports whether name was supplied on the command line at all.
func (f *FlagStore) Present(name string) bool {
	if f == nil {
		return false
	}
	return f.present[name]
}

// Get returns the most recently decoded value for name and whether it was
// set at all. For a repeatable value flag, prefer Values.
func (f *FlagStore) Get(name string) (any, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.values[name]
	return v, ok
}

// Values returns every decoded value recorded for a repeatable value flag,
// in the order they appeared on the command line (spec.md §8 scenario 3).
func (f *FlagStore) Values(name string) []any {
	if f == nil {
		return nil
	}
	return f.valueLists[name]
}

// Count returns how many times name occurred, for a repeatable presence
// flag (spec.md §8 scenario 4); 0 if name was never supplied.
func (f *FlagStore) Count(name string) int {
	if f == nil {
		return 0
	}
	return f.counts[name]
}

// setPresence records one occurrence of a presence flag.
func (f *FlagStore) setPresence(name string) {
	f.present[name] = true
	f.counts[name]++
}

// setValue records one occurrence of a value flag, appending to the
// ordered value list and updating the most-recent-value lookup Get uses.
func (f *FlagStore) setValue(name string, value any) {
	f.present[name] = true
	f.values[name] = value
	f.valueLists[name] = append(f.valueLists[name], value)
}

func (f *FlagStore) copy() *FlagStore {
	n := NewFlagStore()
	for k, v := range f.present {
		n.present[k] = v
	}
	for k, v := range f.values {
		n.values[k] = v
	}
	for k, v := range f.counts {
		n.counts[k] = v
	}
	for k, v := range f.valueLists {
		cp := make([]any, len(v))
		copy(cp, v)
		n.valueLists[k] = cp
	}
	return n
}

// Bool returns the bool value of name, or false if unset or not a bool flag.
func (f *FlagStore) Bool(name string) bool {
	v, _ := f.Get(name)
	b, _ := v.(bool)
	return b
}

// String returns the string value of name, or "" if unset or not a string flag.
func (f *FlagStore) String(name string) string {
	v, _ := f.Get(name)
	s, _ := v.(string)
	return s
}

// CommandContext is the per-parse/execution state threaded through a walk of
// the tree: which sender issued the input, what each argument node decoded
// to, which flags were supplied, and scratch space a coordinator's
// preprocess/postprocess stages may use to pass data to the handler
// (spec.md §4.3/§4.6).
type CommandContext struct {
	context.Context

	Sender    any
	Arguments map[string]*ParsedArgument
	Flags     *FlagStore
	Scratch   map[string]any

	RootNode CommandNode
	Nodes    []ParsedCommandNode
	Range    StringRange
	Command  *Command

	Input    string
	Settings CommandManagerSettings
}

// NewCommandContext returns a CommandContext ready to parse input against
// root on behalf of sender.
func NewCommandContext(ctx context.Context, sender any, root CommandNode) *CommandContext {
	return &CommandContext{
		Context:   ctx,
		Sender:    sender,
		Arguments: map[string]*ParsedArgument{},
		Flags:     NewFlagStore(),
		Scratch:   map[string]any{},
		RootNode:  root,
	}
}

func (c *CommandContext) withNode(node CommandNode, r StringRange) {
	c.Nodes = append(c.Nodes, ParsedCommandNode{Node: node, Range: r})
	c.Range = Encompassing(c.Range, r)
}

func (c *CommandContext) withArgument(name string, parsed *ParsedArgument) {
	if c.Arguments == nil {
		c.Arguments = map[string]*ParsedArgument{}
	}
	c.Arguments[name] = parsed
}

// Copy returns an independent CommandContext sharing no mutable state with c,
// used before trying a child node so a failed trial doesn't corrupt the
// context a sibling trial needs (spec.md §4.3's backtracking parser).
func (c *CommandContext) Copy() *CommandContext {
	args := make(map[string]*ParsedArgument, len(c.Arguments))
	for k, v := range c.Arguments {
		args[k] = v
	}
	scratch := make(map[string]any, len(c.Scratch))
	for k, v := range c.Scratch {
		scratch[k] = v
	}
	nodes := make([]ParsedCommandNode, len(c.Nodes))
	copy(nodes, c.Nodes)
	return &CommandContext{
		Context:   c.Context,
		Sender:    c.Sender,
		Arguments: args,
		Flags:     c.Flags.copy(),
		Scratch:   scratch,
		RootNode:  c.RootNode,
		Nodes:     nodes,
		Range:     c.Range,
		Command:   c.Command,
		Input:     c.Input,
		Settings:  c.Settings,
	}
}

// HasNodes reports whether any node has matched yet.
func (c *CommandContext) HasNodes() bool { return len(c.Nodes) != 0 }

// Arg returns the raw decoded value bound to name, or nil if unset.
func (c *CommandContext) Arg(name string) any {
	p, ok := c.Arguments[name]
	if !ok {
		return nil
	}
	return p.Value
}

// String returns the string argument bound to name.
func (c *CommandContext) String(name string) string {
	v, _ := c.Arg(name).(string)
	return v
}

// Bool returns the bool argument bound to name.
func (c *CommandContext) Bool(name string) bool {
	v, _ := c.Arg(name).(bool)
	return v
}

// Int32 returns the int32 argument bound to name.
func (c *CommandContext) Int32(name string) int32 {
	v, _ := c.Arg(name).(int32)
	return v
}

// Int64 returns the int64 argument bound to name.
func (c *CommandContext) Int64(name string) int64 {
	v, _ := c.Arg(name).(int64)
	return v
}

// Float32 returns the float32 argument bound to name.
func (c *CommandContext) Float32(name string) float32 {
	v, _ := c.Arg(name).(float32)
	return v
}

// Float64 returns the float64 argument bound to name.
func (c *CommandContext) Float64(name string) float64 {
	v, _ := c.Arg(name).(float64)
	return v
}
