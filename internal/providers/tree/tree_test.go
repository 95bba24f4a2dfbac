package tree_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sponsormap/internal/providers/tree"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestTree(t *testing.T) {
	doc := decode(t, `{
		"a": {"b": {"name": "x", "n": 12.5, "s": "7", "flag": true, "null": null, "list": [1, 2]}},
		"weird": "not an object"
	}`)

	assert.Equal(t, "x", tree.String(doc, "a", "b", "name"))
	assert.Equal(t, "", tree.String(doc, "a", "b", "n"))
	assert.Equal(t, "", tree.String(doc, "a", "missing", "name"))
	assert.Equal(t, "", tree.String(doc, "weird", "deeper"))

	n, ok := tree.Float(doc, "a", "b", "n")
	require.True(t, ok)
	assert.Equal(t, 12.5, n)
	assert.Equal(t, 7.0, tree.FloatOr(doc, 0, "a", "b", "s"))
	assert.Equal(t, -1.0, tree.FloatOr(doc, -1, "a", "b", "name"))

	assert.True(t, tree.Bool(doc, false, "a", "b", "flag"))
	assert.True(t, tree.Bool(doc, true, "a", "b", "null"))

	_, ok = tree.Get(doc, "a", "b", "null")
	assert.False(t, ok)

	l, ok := tree.List(doc, "a", "b", "list")
	require.True(t, ok)
	assert.Len(t, l, 2)

	_, ok = tree.Map(doc, "weird")
	assert.False(t, ok)

	assert.Equal(t, "a.b.c", tree.Path("a", "b", "c"))
}
