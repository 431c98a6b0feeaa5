package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mazepath"
)

func TestOne_IsValid(t *testing.T) {
	lvl := One()
	require.NoError(t, Validate(lvl))

	assert.Len(t, lvl.Coords, 24)
	assert.Len(t, lvl.Connections, 30)
	assert.Equal(t, [][]int{seq(24)}, Components(lvl))
}

func TestOne_FreshCopy(t *testing.T) {
	a := One()
	a.Coords[0] = Coord{X: 99, Y: 99}
	a.Connections[0] = mazepath.Edge{A: 5, B: 6}

	b := One()
	assert.Equal(t, Coord{X: 0, Y: 0}, b.Coords[0])
	assert.Equal(t, mazepath.Edge{A: 0, B: 1}, b.Connections[0])
}

func TestTable_Layout(t *testing.T) {
	lvl := One()

	positions := lvl.Positions()
	require.Len(t, positions, len(lvl.Coords))
	assert.Equal(t, mazepath.Point{X: 12, Y: -8}, positions[8])

	edges := lvl.Edges()
	edges[0] = mazepath.Edge{A: 3, B: 3}
	assert.Equal(t, mazepath.Edge{A: 0, B: 1}, lvl.Connections[0])

	assert.Equal(t, 0, lvl.StartNode())
	assert.Equal(t, mazepath.Edge{A: 0, B: 1}, lvl.StartEdge())
}

func TestBuiltin(t *testing.T) {
	assert.Equal(t, []string{"one"}, Names())

	lvl, err := Builtin("one")
	require.NoError(t, err)
	assert.Equal(t, "one", lvl.Name)

	_, err = Builtin("two")
	assert.ErrorIs(t, err, mazepath.ErrNotFound)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
