package cmdtree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddChild_DuplicateCommandChain(t *testing.T) {
	root := newRootNode()
	_, err := addChild(root, newLiteralNode("foo", "f"))
	require.NoError(t, err)

	_, err = addChild(root, newLiteralNode("bar", "f"))
	var dup *DuplicateCommandChainError
	require.ErrorAs(t, err, &dup)
}

func TestAddChild_SameAliasSetMerges(t *testing.T) {
	root := newRootNode()
	foo := newLiteralNode("foo", "f")
	_, err := addChild(root, foo)
	require.NoError(t, err)

	same := newLiteralNode("foo", "f")
	_, err = addChild(same, newLiteralNode("child"))
	require.NoError(t, err)

	_, err = addChild(root, same)
	require.NoError(t, err)
	require.Equal(t, 1, len(root.ChildrenOrdered()))
	require.NotNil(t, foo.childMap().Values())
}

func TestAddChild_AmbiguousArgumentNode(t *testing.T) {
	root := newRootNode()
	_, err := addChild(root, newArgumentNode("a", StringWord))
	require.NoError(t, err)

	_, err = addChild(root, newArgumentNode("b", StringWord))
	var amb *AmbiguousNodeError
	require.ErrorAs(t, err, &amb)
}

func TestAddChild_SameArgumentNameMerges(t *testing.T) {
	root := newRootNode()
	_, err := addChild(root, newArgumentNode("a", StringWord))
	require.NoError(t, err)

	_, err = addChild(root, newArgumentNode("a", StringWord))
	require.NoError(t, err)
}

func TestAddChild_SameArgumentNameDifferentTypeLoggedNotRejected(t *testing.T) {
	root := newRootNode()
	_, err := addChild(root, newArgumentNode("a", StringWord))
	require.NoError(t, err)

	var logged string
	currentLogger = loggerFunc(func(format string, args ...any) { logged = fmt.Sprintf(format, args...) })
	defer func() { currentLogger = noopLogger{} }()

	_, err = addChild(root, newArgumentNode("a", Int32))
	require.NoError(t, err)
	require.Contains(t, logged, "merged across differing parser types")
}

func TestAddChild_DuplicateCommand(t *testing.T) {
	root := newRootNode()
	cmd := &Command{Handler: func(*CommandContext) error { return nil }}
	foo := newLiteralNode("foo")
	foo.setCommand(cmd)
	_, err := addChild(root, foo)
	require.NoError(t, err)

	foo2 := newLiteralNode("foo")
	foo2.setCommand(cmd)
	_, err = addChild(root, foo2)
	var dup *DuplicateCommandError
	require.ErrorAs(t, err, &dup)
}

func TestAddChild_PermissionAggregatesToAncestors(t *testing.T) {
	root := newRootNode()
	restricted := PermissionFunc(func(any) bool { return false })
	cmd := &Command{Handler: func(*CommandContext) error { return nil }, Permission: restricted}
	leaf := newLiteralNode("leaf")
	leaf.setCommand(cmd)
	leaf.aggregate(cmd.permission(), cmd.senderType())

	mid := newLiteralNode("mid")
	_, err := addChild(mid, leaf)
	require.NoError(t, err)
	_, err = addChild(root, mid)
	require.NoError(t, err)

	require.False(t, root.Permission().Allows(nil))
	require.False(t, mid.Permission().Allows(nil))
}

type loggerFunc func(format string, args ...any)

func (f loggerFunc) Printf(format string, args ...any) { f(format, args...) }
