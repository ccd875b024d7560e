package cmdtree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseWith(t *testing.T, root CommandNode, input string) *ParseResults {
	t.Helper()
	ctx := NewCommandContext(context.Background(), nil, root)
	return Parse(ctx, root, input)
}

func TestParse_SimpleCommand(t *testing.T) {
	root := newRootNode()
	cmd := &Command{Handler: func(*CommandContext) error { return nil }}
	foo := newLiteralNode("foo")
	foo.setCommand(cmd)
	_, err := addChild(root, foo)
	require.NoError(t, err)

	results := parseWith(t, root, "foo")
	resolved, err := results.Resolve()
	require.NoError(t, err)
	require.Same(t, cmd, resolved)
}

func TestParse_ArgumentBinding(t *testing.T) {
	root := newRootNode()
	cmd := &Command{Handler: func(*CommandContext) error { return nil }}
	arg := newArgumentNode("n", Int32)
	arg.setCommand(cmd)
	foo := newLiteralNode("foo")
	_, err := addChild(foo, arg)
	require.NoError(t, err)
	_, err = addChild(root, foo)
	require.NoError(t, err)

	results := parseWith(t, root, "foo 42")
	resolved, err := results.Resolve()
	require.NoError(t, err)
	require.Same(t, cmd, resolved)
	require.EqualValues(t, 42, results.Context.Int32("n"))
}

func TestParse_UnknownCommand(t *testing.T) {
	root := newRootNode()
	_, err := addChild(root, newLiteralNode("bar"))
	require.NoError(t, err)

	results := parseWith(t, root, "foo")
	_, err = results.Resolve()
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestParse_UnknownArgumentAfterValidPrefix(t *testing.T) {
	root := newRootNode()
	cmd := &Command{Handler: func(*CommandContext) error { return nil }}
	foo := newLiteralNode("foo")
	foo.setCommand(cmd)
	_, err := addChild(root, foo)
	require.NoError(t, err)

	results := parseWith(t, root, "foo bar")
	_, err = results.Resolve()
	var invalid *InvalidSyntaxError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "bar", invalid.Remaining)
}

func TestParse_OptionalArgumentDefault(t *testing.T) {
	root := newRootNode()
	cmd := &Command{Handler: func(*CommandContext) error { return nil }}
	arg := newArgumentNode("n", Int32)
	arg.optional = true
	arg.hasDflt = true
	arg.dflt = int32(7)
	arg.setCommand(cmd)
	foo := newLiteralNode("foo")
	_, err := addChild(foo, arg)
	require.NoError(t, err)
	_, err = addChild(root, foo)
	require.NoError(t, err)

	results := parseWith(t, root, "foo")
	resolved, err := results.Resolve()
	require.NoError(t, err)
	require.Same(t, cmd, resolved)
	require.EqualValues(t, 7, results.Context.Int32("n"))
}

func TestParse_PermissionDenied(t *testing.T) {
	root := newRootNode()
	foo := newLiteralNode("foo")
	foo.aggregate(NonePermission, nil)
	cmd := &Command{Handler: func(*CommandContext) error { return nil }, Permission: NonePermission}
	foo.setCommand(cmd)
	_, err := addChild(root, foo)
	require.NoError(t, err)

	results := parseWith(t, root, "foo")
	_, err = results.Resolve()
	var noPerm *NoPermissionError
	require.ErrorAs(t, err, &noPerm)
}

func TestResolve_TrailingWhitespaceStillResolves(t *testing.T) {
	root := newRootNode()
	cmd := &Command{Handler: func(*CommandContext) error { return nil }}
	foo := newLiteralNode("foo")
	foo.setCommand(cmd)
	_, err := addChild(root, foo)
	require.NoError(t, err)

	results := parseWith(t, root, "foo ")
	resolved, err := results.Resolve()
	require.NoError(t, err)
	require.Same(t, cmd, resolved)
}

func TestParse_ArgumentTriedBeforeSiblingFlagGroup(t *testing.T) {
	root := newRootNode()
	cmd := &Command{Handler: func(*CommandContext) error { return nil }}
	num := newArgumentNode("num", Int32)
	num.setCommand(cmd)
	fg := newFlagGroupNode()
	require.NoError(t, fg.addFlag(&CommandFlag{Name: "verbose", Short: 'v'}))
	test := newLiteralNode("test")
	_, err := addChild(test, num)
	require.NoError(t, err)
	_, err = addChild(test, fg)
	require.NoError(t, err)
	_, err = addChild(root, test)
	require.NoError(t, err)

	results := parseWith(t, root, "test -5")
	resolved, err := results.Resolve()
	require.NoError(t, err)
	require.Same(t, cmd, resolved)
	require.EqualValues(t, -5, results.Context.Int32("num"))
}

func TestParse_FlagGroupStillTriedWhenArgumentFails(t *testing.T) {
	root := newRootNode()
	cmd := &Command{Handler: func(*CommandContext) error { return nil }}
	num := newArgumentNode("num", Int32)
	fg := newFlagGroupNode()
	require.NoError(t, fg.addFlag(&CommandFlag{Name: "verbose", Short: 'v'}))
	fg.setCommand(cmd)
	test := newLiteralNode("test")
	_, err := addChild(test, num)
	require.NoError(t, err)
	_, err = addChild(test, fg)
	require.NoError(t, err)
	_, err = addChild(root, test)
	require.NoError(t, err)

	results := parseWith(t, root, "test --verbose")
	resolved, err := results.Resolve()
	require.NoError(t, err)
	require.Same(t, cmd, resolved)
	require.True(t, results.Context.Flags.Present("verbose"))
}

func TestParseInput_Incomplete_StopsAtSpace(t *testing.T) {
	root := newRootNode()
	foo := newLiteralNode("foo")
	bar := newLiteralNode("bar")
	_, err := addChild(foo, bar)
	require.NoError(t, err)
	_, err = addChild(root, foo)
	require.NoError(t, err)

	results := parseWith(t, root, "foo ")
	require.Len(t, results.Context.Nodes, 1)
}
