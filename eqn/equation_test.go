package eqn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForceOverArea/nexsys-go/variable"
)

func TestParseSortsAndDedupesVars(t *testing.T) {
	e, err := Parse("y + x + y = x + b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "x", "y"}, e.Vars())
}

func TestParseRejectsZeroOrMultipleEquals(t *testing.T) {
	_, err := Parse("x + y")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = Parse("x = y = z")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestResidualExpr(t *testing.T) {
	e, err := Parse("x + y = b")
	require.NoError(t, err)
	assert.Equal(t, "(x + y) - (b)", e.ResidualExpr())
}

func TestNUnknownsAndUnknowns(t *testing.T) {
	e, err := Parse("x + y = b")
	require.NoError(t, err)

	known := map[string]variable.Variable{"b": variable.New(1, nil)}
	assert.Equal(t, 2, e.NUnknowns(known))
	assert.Equal(t, []string{"x", "y"}, e.Unknowns(known))

	known["x"] = variable.New(1, nil)
	assert.Equal(t, 1, e.NUnknowns(known))
	assert.Equal(t, []string{"y"}, e.Unknowns(known))
}

func TestVarsReturnsCopy(t *testing.T) {
	e, err := Parse("x = 1")
	require.NoError(t, err)
	v := e.Vars()
	v[0] = "mutated"
	assert.Equal(t, []string{"x"}, e.Vars())
}

func TestParseExcludesFunctionNamesFromVars(t *testing.T) {
	e, err := Parse("b = sqrt(a)")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, e.Vars())
}

func TestParseExcludesCondFromVars(t *testing.T) {
	e, err := Parse("cond(a, 4, 0, b - (sqrt(-a)), b - (sqrt(a))) = 0")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, e.Vars())

	known := map[string]variable.Variable{"a": variable.New(-4, nil)}
	assert.Equal(t, 1, e.NUnknowns(known))
	assert.Equal(t, []string{"b"}, e.Unknowns(known))
}
