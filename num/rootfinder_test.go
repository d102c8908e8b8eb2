package num

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForceOverArea/nexsys-go/variable"
)

func TestNewtonFindsRoot(t *testing.T) {
	s := New(1e-9, 200)
	// x^2 - 4 = 0, root at x=2, start near it
	res, err := s.Newton(context.Background(), "(x*x) - (4)", "x", variable.New(3, nil))
	require.NoError(t, err)
	assert.Equal(t, Converged, res.Status)
	assert.InDelta(t, 2.0, res.Value.Value(), 1e-6)
}

func TestNewtonRespectsDomainClamp(t *testing.T) {
	s := New(1e-9, 200)
	v0 := variable.New(3, &variable.Domain{Lo: 0, Hi: 2.5})
	res, _ := s.Newton(context.Background(), "(x*x) - (4)", "x", v0)
	assert.LessOrEqual(t, res.Value.Value(), 2.5)
}

func TestNewtonRespectsCancelledContext(t *testing.T) {
	s := New(1e-12, 100000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Newton(ctx, "(x*x) - (4)", "x", variable.New(100, nil))
	require.NoError(t, err)
	assert.Equal(t, NonConverged, res.Status)
}

func TestGoldenFindsMinimumRoot(t *testing.T) {
	s := New(1e-6, 500)
	v0 := variable.New(0, &variable.Domain{Lo: -10, Hi: 10})
	res, err := s.Golden(context.Background(), "(x*x) - (9)", "x", v0)
	require.NoError(t, err)
	assert.Equal(t, Converged, res.Status)
	assert.InDelta(t, 9.0, res.Value.Value()*res.Value.Value(), 1e-2)
}

func TestMVNewtonSolvesLinearSystem(t *testing.T) {
	s := New(1e-9, 200)
	guess := map[string]variable.Variable{
		"x": variable.New(0, nil),
		"y": variable.New(0, nil),
	}
	// x + y = 3 ; x - y = 1 -> x=2, y=1
	system := []string{"(x + y) - (3)", "(x - y) - (1)"}
	res, err := s.MVNewton(context.Background(), system, guess)
	require.NoError(t, err)
	assert.Equal(t, Converged, res.Status)
	assert.InDelta(t, 2.0, res.Values["x"].Value(), 1e-6)
	assert.InDelta(t, 1.0, res.Values["y"].Value(), 1e-6)
}

func TestCheckJacobianAgreesWithForwardDifference(t *testing.T) {
	guess := map[string]variable.Variable{
		"x": variable.New(2, nil),
		"y": variable.New(3, nil),
	}
	system := []string{"(x*x + y) - (0)", "(x + y*y) - (0)"}
	maxDiff, err := CheckJacobian(system, []string{"x", "y"}, guess)
	require.NoError(t, err)
	assert.Less(t, maxDiff, 1e-3)
}
