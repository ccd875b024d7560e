package cmdtree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newFlagsCtx(settings CommandManagerSettings) *CommandContext {
	ctx := NewCommandContext(context.Background(), nil, newRootNode())
	ctx.Settings = settings
	return ctx
}

func TestFlagGroup_LongPresence(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "verbose", Short: 'v'}))

	ctx := newFlagsCtx(CommandManagerSettings{})
	in := NewCommandInput("--verbose")
	require.NoError(t, g.Parse(ctx, in))
	require.True(t, ctx.Flags.Present("verbose"))
}

func TestFlagGroup_ShortCluster(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "verbose", Short: 'v'}))
	require.NoError(t, g.addFlag(&CommandFlag{Name: "all", Short: 'a'}))

	ctx := newFlagsCtx(CommandManagerSettings{})
	in := NewCommandInput("-va")
	require.NoError(t, g.Parse(ctx, in))
	require.True(t, ctx.Flags.Present("verbose"))
	require.True(t, ctx.Flags.Present("all"))
}

func TestFlagGroup_LongValueInline(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "level", ValueType: Int32}))

	ctx := newFlagsCtx(CommandManagerSettings{})
	in := NewCommandInput("--level=3")
	require.NoError(t, g.Parse(ctx, in))
	v, ok := ctx.Flags.Get("level")
	require.True(t, ok)
	require.EqualValues(t, 3, v)
}

func TestFlagGroup_LongValueSeparateToken(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "level", ValueType: Int32}))

	ctx := newFlagsCtx(CommandManagerSettings{})
	in := NewCommandInput("--level 3 rest")
	require.NoError(t, g.Parse(ctx, in))
	v, ok := ctx.Flags.Get("level")
	require.True(t, ok)
	require.EqualValues(t, 3, v)
	require.Equal(t, "rest", in.Remaining())
}

func TestFlagGroup_ShortClusterRejectsValueFlag(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "verbose", Short: 'v'}))
	require.NoError(t, g.addFlag(&CommandFlag{Name: "level", Short: 'l', ValueType: Int32}))

	ctx := newFlagsCtx(CommandManagerSettings{})
	in := NewCommandInput("-vl5")
	err := g.Parse(ctx, in)
	var clusterErr *ClusterValueFlagError
	require.ErrorAs(t, err, &clusterErr)
	require.Equal(t, "level", clusterErr.Name)
}

func TestFlagGroup_RepeatableValueFlagAccumulatesValues(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "tag", ValueType: String, Repeatable: true}))

	ctx := newFlagsCtx(CommandManagerSettings{})
	in := NewCommandInput("--tag=one --tag=two --tag=three")
	require.NoError(t, g.Parse(ctx, in))
	require.Equal(t, []any{"one", "two", "three"}, ctx.Flags.Values("tag"))
	v, ok := ctx.Flags.Get("tag")
	require.True(t, ok)
	require.Equal(t, "three", v)
}

func TestFlagGroup_RepeatablePresenceFlagAccumulatesCount(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "verbose", Short: 'v', Repeatable: true}))

	ctx := newFlagsCtx(CommandManagerSettings{})
	in := NewCommandInput("-v -v -v -v")
	require.NoError(t, g.Parse(ctx, in))
	require.Equal(t, 4, ctx.Flags.Count("verbose"))
}

func TestFlagGroup_DuplicateNonRepeatable(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "verbose", Short: 'v'}))

	ctx := newFlagsCtx(CommandManagerSettings{})
	in := NewCommandInput("--verbose --verbose")
	err := g.Parse(ctx, in)
	var dup *DuplicateFlagError
	require.ErrorAs(t, err, &dup)
}

func TestFlagGroup_MissingValue(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "level", ValueType: Int32}))

	ctx := newFlagsCtx(CommandManagerSettings{})
	in := NewCommandInput("--level")
	err := g.Parse(ctx, in)
	var missing *MissingFlagValueError
	require.ErrorAs(t, err, &missing)
}

func TestFlagGroup_UnknownFlagErrorsByDefault(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "verbose", Short: 'v'}))

	ctx := newFlagsCtx(CommandManagerSettings{})
	in := NewCommandInput("--nope")
	err := g.Parse(ctx, in)
	var unknown *UnknownFlagError
	require.ErrorAs(t, err, &unknown)
}

func TestFlagGroup_UnknownFlagLiberalHandsBack(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "verbose", Short: 'v'}))

	ctx := newFlagsCtx(CommandManagerSettings{LiberalFlagParsing: true})
	in := NewCommandInput("--nope rest")
	require.NoError(t, g.Parse(ctx, in))
	require.Equal(t, "--nope rest", in.Remaining())
}

func TestFlagGroup_DuplicateFlagDeclaration(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "verbose", Short: 'v'}))
	err := g.addFlag(&CommandFlag{Name: "verbose", Short: 'x'})
	var dup *DuplicateFlagError
	require.ErrorAs(t, err, &dup)
}

func TestFlagGroup_Suggestions(t *testing.T) {
	g := newFlagGroupNode()
	require.NoError(t, g.addFlag(&CommandFlag{Name: "verbose"}))
	require.NoError(t, g.addFlag(&CommandFlag{Name: "version"}))

	ctx := newFlagsCtx(CommandManagerSettings{})
	b := &SuggestionsBuilder{Input: "--ver", Start: 0, Remaining: "--ver"}
	s := g.Suggestions(ctx, b)
	require.Len(t, s.Suggestions, 2)
}
