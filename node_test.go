package cmdtree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLiteralNode_Parse(t *testing.T) {
	n := newLiteralNode("foo")
	ctx := NewCommandContext(context.Background(), nil, newRootNode())
	in := NewCommandInput("foo bar")

	require.NoError(t, n.Parse(ctx, in))
	require.Equal(t, 3, in.Cursor)
	require.Len(t, ctx.Nodes, 1)
}

func TestLiteralNode_Parse_AliasMatches(t *testing.T) {
	n := newLiteralNode("foo", "f")
	ctx := NewCommandContext(context.Background(), nil, newRootNode())
	in := NewCommandInput("f bar")

	require.NoError(t, n.Parse(ctx, in))
	require.Equal(t, 1, in.Cursor)
}

func TestLiteralNode_Parse_NoMatchRestoresCursor(t *testing.T) {
	n := newLiteralNode("foo")
	ctx := NewCommandContext(context.Background(), nil, newRootNode())
	in := NewCommandInput("bar")

	err := n.Parse(ctx, in)
	require.Error(t, err)
	require.Equal(t, 0, in.Cursor)
}

func TestLiteralNode_Parse_RequiresSeparatorOrEnd(t *testing.T) {
	n := newLiteralNode("foo")
	ctx := NewCommandContext(context.Background(), nil, newRootNode())
	in := NewCommandInput("foobar")

	err := n.Parse(ctx, in)
	require.Error(t, err)
	require.Equal(t, 0, in.Cursor)
}

func TestArgumentNode_UsageText(t *testing.T) {
	n := newArgumentNode("count", Int32)
	require.Equal(t, "[count]", n.UsageText())
}

func TestArgumentNode_Parse_BindsValue(t *testing.T) {
	n := newArgumentNode("count", Int32)
	ctx := NewCommandContext(context.Background(), nil, newRootNode())
	in := NewCommandInput("42")

	require.NoError(t, n.Parse(ctx, in))
	require.EqualValues(t, 42, ctx.Int32("count"))
}

func TestNode_ChildrenOrdered(t *testing.T) {
	parent := newLiteralNode("parent")
	a := newLiteralNode("a")
	b := newLiteralNode("b")
	arg := newArgumentNode("arg", StringWord)
	flags := newFlagGroupNode()

	_, err := addChild(parent, a)
	require.NoError(t, err)
	_, err = addChild(parent, b)
	require.NoError(t, err)
	_, err = addChild(parent, arg)
	require.NoError(t, err)
	_, err = addChild(parent, flags)
	require.NoError(t, err)

	children := parent.ChildrenOrdered()
	require.Len(t, children, 4)
	require.Equal(t, "a", children[0].Name())
	require.Equal(t, "b", children[1].Name())
	require.Equal(t, "arg", children[2].Name())
	require.Equal(t, flagGroupName, children[3].Name())
}
