package dag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("main")
	assert.Len(t, g.nodes, 1)
	nodeMain, ok := g.nodes["main"]
	require.True(t, ok)
	assert.Equal(t, "main", nodeMain.id)
	assert.NotNil(t, nodeMain.deps)
	assert.NotNil(t, nodeMain.dependents)

	g.AddNode("main") // idempotent
	assert.Len(t, g.nodes, 1)

	g.AddNode("greet")
	assert.Len(t, g.nodes, 2)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("greet")
		g.AddNode("main")

		require.NoError(t, g.AddEdge("greet", "main")) // main imports greet

		deps, err := g.Dependencies("main")
		require.NoError(t, err)
		assert.Equal(t, []string{"greet"}, deps)

		dependents, err := g.Dependents("greet")
		require.NoError(t, err)
		assert.Equal(t, []string{"main"}, dependents)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")

		assert.ErrorContains(t, g.AddEdge("dne", "a"), "source node not found")
		assert.ErrorContains(t, g.AddEdge("a", "dne"), "destination node not found")

		var cycle *CycleError
		require.ErrorAs(t, g.AddEdge("a", "a"), &cycle)
		assert.Equal(t, []string{"a", "a"}, cycle.Path)
	})

	t.Run("unknown node lookups fail", func(t *testing.T) {
		g := New()
		_, err := g.Dependencies("dne")
		assert.ErrorContains(t, err, "node not found")
		_, err = g.Dependents("dne")
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		assert.NoError(t, New().DetectCycles())
	})

	t.Run("diamond imports have no cycles", func(t *testing.T) {
		g := New()
		for _, id := range []string{"main", "a", "b", "lib"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "main"))
		require.NoError(t, g.AddEdge("b", "main"))
		require.NoError(t, g.AddEdge("lib", "a"))
		require.NoError(t, g.AddEdge("lib", "b"))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("mutual import is reported with its path", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))

		err := g.DetectCycles()
		var cycle *CycleError
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"a", "b", "a"}, cycle.Path)
		assert.EqualError(t, err, "import cycle detected: a -> b -> a")
	})

	t.Run("longer cycle is detected", func(t *testing.T) {
		g := New()
		for _, id := range []string{"a", "b", "c", "d"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("c", "d"))
		require.NoError(t, g.AddEdge("d", "b"))

		var cycle *CycleError
		require.ErrorAs(t, g.DetectCycles(), &cycle)
		assert.Equal(t, []string{"b", "c", "d", "b"}, cycle.Path)
	})
}
