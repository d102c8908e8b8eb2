package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForceOverArea/nexsys-go/eqn"
	"github.com/ForceOverArea/nexsys-go/variable"
)

func mustParse(t *testing.T, text string) eqn.Equation {
	t.Helper()
	e, err := eqn.Parse(text)
	require.NoError(t, err)
	return e
}

func TestExtractConstrainedSingleUnknown(t *testing.T) {
	mgr := New()
	known := map[string]variable.Variable{}
	mgr.Add(mustParse(t, "x = 5"), known)

	blocks := mgr.ExtractConstrained()
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"x"}, blocks[0].Unknowns)
}

func TestExtractConstrainedTwoByTwo(t *testing.T) {
	mgr := New()
	known := map[string]variable.Variable{}
	mgr.Add(mustParse(t, "x + y = 3"), known)
	mgr.Add(mustParse(t, "x - y = 1"), known)

	blocks := mgr.ExtractConstrained()
	require.Len(t, blocks, 1)
	assert.ElementsMatch(t, []string{"x", "y"}, blocks[0].Unknowns)
	assert.Len(t, blocks[0].Equations, 2)
}

func TestExtractConstrainedSkipsUnderConstrained(t *testing.T) {
	mgr := New()
	known := map[string]variable.Variable{}
	// x+y+z=0 has 3 unknowns but only 1 equation sharing that set: not constrained
	mgr.Add(mustParse(t, "x + y + z = 0"), known)

	blocks := mgr.ExtractConstrained()
	assert.Empty(t, blocks)
}

func TestAddSkipsFullyKnownEquations(t *testing.T) {
	mgr := New()
	known := map[string]variable.Variable{
		"x": variable.New(1, nil),
	}
	mgr.Add(mustParse(t, "x = 1"), known)

	stats := mgr.Stats()
	assert.Equal(t, 1, stats.Seen)
	assert.Equal(t, 1, stats.Skipped)
	assert.Empty(t, mgr.ExtractConstrained())
}

func TestExtractConstrainedOrderedByBucketSize(t *testing.T) {
	mgr := New()
	known := map[string]variable.Variable{}
	mgr.Add(mustParse(t, "a + b = 1"), known)
	mgr.Add(mustParse(t, "a - b = 1"), known)
	mgr.Add(mustParse(t, "c = 2"), known)

	blocks := mgr.ExtractConstrained()
	require.Len(t, blocks, 2)
	assert.Len(t, blocks[0].Unknowns, 1) // single-unknown block first
	assert.Len(t, blocks[1].Unknowns, 2)
}
