package cmdtree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func textsOf(s *Suggestions) []string {
	out := make([]string, len(s.Suggestions))
	for i, sug := range s.Suggestions {
		out[i] = sug.Text
	}
	return out
}

func TestCreateSuggestion_SortsCaseInsensitively(t *testing.T) {
	s := CreateSuggestion("", []*Suggestion{
		{Text: "Zebra", Range: StringRange{0, 0}},
		{Text: "apple", Range: StringRange{0, 0}},
		{Text: "Mango", Range: StringRange{0, 0}},
	})
	require.Equal(t, []string{"apple", "Mango", "Zebra"}, textsOf(s))
}

func TestCreateSuggestion_Dedupes(t *testing.T) {
	s := CreateSuggestion("", []*Suggestion{
		{Text: "a", Range: StringRange{0, 0}},
		{Text: "a", Range: StringRange{0, 0}},
	})
	require.Len(t, s.Suggestions, 1)
}

func TestMergeSuggestions_Empty(t *testing.T) {
	s := MergeSuggestions("cmd", nil)
	require.Same(t, emptySuggestions, s)
}

func TestPrefixSuggestionProcessor(t *testing.T) {
	out := PrefixSuggestionProcessor("fo", []string{"foo", "bar", "foxtrot"})
	require.Equal(t, []string{"foo", "foxtrot"}, out)
}

func TestFuzzySuggestionProcessor_EmptyReturnsAll(t *testing.T) {
	candidates := []string{"foo", "bar"}
	out := FuzzySuggestionProcessor("", candidates)
	require.Equal(t, candidates, out)
}

func TestFuzzySuggestionProcessor_RanksMatches(t *testing.T) {
	out := FuzzySuggestionProcessor("br", []string{"foo", "bar", "brunch"})
	require.Contains(t, out, "bar")
	require.Contains(t, out, "brunch")
	require.NotContains(t, out, "foo")
}

func TestCompletionSuggestionsCursor_TopLevelLiterals(t *testing.T) {
	root := newRootNode()
	_, err := addChild(root, newLiteralNode("foo"))
	require.NoError(t, err)
	_, err = addChild(root, newLiteralNode("bar"))
	require.NoError(t, err)

	ctx := NewCommandContext(context.Background(), nil, root)
	results := Parse(ctx, root, "")

	suggestions, err := CompletionSuggestions(context.Background(), results)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"foo", "bar"}, textsOf(suggestions))
}

func TestCompletionSuggestionsCursor_FiltersByPrefix(t *testing.T) {
	root := newRootNode()
	_, err := addChild(root, newLiteralNode("foo"))
	require.NoError(t, err)
	_, err = addChild(root, newLiteralNode("bar"))
	require.NoError(t, err)

	ctx := NewCommandContext(context.Background(), nil, root)
	results := Parse(ctx, root, "fo")

	suggestions, err := CompletionSuggestions(context.Background(), results)
	require.NoError(t, err)
	require.Equal(t, []string{"foo"}, textsOf(suggestions))
}

func TestCompletionSuggestionsCursor_ForceSuggestionEmitsEmptyCandidate(t *testing.T) {
	root := newRootNode()
	_, err := addChild(root, newLiteralNode("foo"))
	require.NoError(t, err)

	ctx := NewCommandContext(context.Background(), nil, root)
	ctx.Settings = CommandManagerSettings{ForceSuggestion: true}
	results := Parse(ctx, root, "zz")

	suggestions, err := CompletionSuggestions(context.Background(), results)
	require.NoError(t, err)
	require.Len(t, suggestions.Suggestions, 1)
	require.Equal(t, "", suggestions.Suggestions[0].Text)
}

func TestCompletionSuggestionsCursor_NoForceSuggestionReturnsEmptySet(t *testing.T) {
	root := newRootNode()
	_, err := addChild(root, newLiteralNode("foo"))
	require.NoError(t, err)

	ctx := NewCommandContext(context.Background(), nil, root)
	results := Parse(ctx, root, "zz")

	suggestions, err := CompletionSuggestions(context.Background(), results)
	require.NoError(t, err)
	require.Empty(t, suggestions.Suggestions)
}

func TestCompletionSuggestionsCursor_SubCommand(t *testing.T) {
	root := newRootNode()
	foo := newLiteralNode("foo")
	_, err := addChild(foo, newLiteralNode("bar"))
	require.NoError(t, err)
	_, err = addChild(foo, newLiteralNode("baz"))
	require.NoError(t, err)
	_, err = addChild(root, foo)
	require.NoError(t, err)

	ctx := NewCommandContext(context.Background(), nil, root)
	results := Parse(ctx, root, "foo b")

	suggestions, err := CompletionSuggestions(context.Background(), results)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"bar", "baz"}, textsOf(suggestions))
}
