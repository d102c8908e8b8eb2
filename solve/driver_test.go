package solve

import (
	"context"
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

func TestSolveLightPassOnly(t *testing.T) {
	equations := []eqn.Equation{
		mustParse(t, "x = 5"),
		mustParse(t, "y = x + 1"),
	}
	d := New(equations, nil, nil, 1e-9, 200, false)
	solution, steps, err := d.Solve(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 5.0, solution["x"].Value(), 1e-6)
	assert.InDelta(t, 6.0, solution["y"].Value(), 1e-6)
	assert.NotEmpty(t, steps)
}

func TestSolveHeavyPassForCoupledPair(t *testing.T) {
	equations := []eqn.Equation{
		mustParse(t, "x + y = 3"),
		mustParse(t, "x - y = 1"),
	}
	d := New(equations, nil, nil, 1e-9, 200, false)
	solution, _, err := d.Solve(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 2.0, solution["x"].Value(), 1e-6)
	assert.InDelta(t, 1.0, solution["y"].Value(), 1e-6)
}

func TestSolveMixedLightThenHeavy(t *testing.T) {
	equations := []eqn.Equation{
		mustParse(t, "z = 10"),
		mustParse(t, "x + y = z"),
		mustParse(t, "x - y = 2"),
	}
	d := New(equations, nil, nil, 1e-9, 200, false)
	solution, _, err := d.Solve(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 10.0, solution["z"].Value(), 1e-6)
	assert.InDelta(t, 6.0, solution["x"].Value(), 1e-6)
	assert.InDelta(t, 4.0, solution["y"].Value(), 1e-6)
}

func TestSeedBypassesRootFinding(t *testing.T) {
	equations := []eqn.Equation{
		mustParse(t, "y = x + 1"),
	}
	d := New(equations, nil, nil, 1e-9, 200, false)
	d.Seed("x", 9)

	solution, _, err := d.Solve(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 9.0, solution["x"].Value(), 1e-9)
	assert.InDelta(t, 10.0, solution["y"].Value(), 1e-6)
}

func TestUnsolvedReportsLeftoverVariables(t *testing.T) {
	equations := []eqn.Equation{
		mustParse(t, "x + y = 3"), // underconstrained on its own
	}
	d := New(equations, nil, nil, 1e-9, 200, false)
	_, _, err := d.Solve(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"x", "y"}, d.Unsolved())
}

func TestSubstituteWholeTokenOnly(t *testing.T) {
	d := New(nil, nil, nil, 1e-9, 200, false)
	d.Seed("x", 3)
	// every standalone "x" identifier is substituted, including the
	// call argument to exp -- but the "x" inside the function name
	// "exp" itself must never be matched as a token.
	got := d.substitute("exp(x) + x")
	assert.Equal(t, "exp((3)) + (3)", got)
}

func TestGuessSeedsRootFinderStart(t *testing.T) {
	equations := []eqn.Equation{
		mustParse(t, "(x*x) = 16"),
	}
	d := New(equations, map[string]float64{"x": 3.5}, nil, 1e-9, 200, false)
	solution, _, err := d.Solve(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 4.0, solution["x"].Value(), 1e-6)
}

func TestSolveConditionalBranchWithFunctionCalls(t *testing.T) {
	// a = -4, b = sqrt(-a) if a < 0 else sqrt(a), lowered the way
	// pre.Compile renders an if/else/end block.
	equations := []eqn.Equation{
		mustParse(t, "a = -4"),
		mustParse(t, "cond(a, 4, 0, b - (sqrt(-a)), b - (sqrt(a))) = 0"),
	}
	d := New(equations, map[string]float64{"b": 1}, nil, 1e-9, 200, false)
	solution, _, err := d.Solve(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, -4.0, solution["a"].Value(), 1e-6)
	assert.InDelta(t, 2.0, solution["b"].Value(), 1e-6)
}

func TestLightPassClampsNewtonStepToDomain(t *testing.T) {
	// x^2 = 4 has roots at -2 and 2. From the seed 0 the first Newton
	// step overshoots far past the domain [0, 10] and is clamped to 10;
	// Newton then converges from there onto the positive root.
	equations := []eqn.Equation{
		mustParse(t, "(x*x) = 4"),
	}
	d := New(equations, map[string]float64{"x": 0}, map[string]variable.Domain{"x": {Lo: 0, Hi: 10}}, 1e-9, 200, false)
	solution, _, err := d.Solve(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, solution["x"].Value(), 1e-4)
}

func TestDomainClampsGuessVariable(t *testing.T) {
	equations := []eqn.Equation{
		mustParse(t, "y = x + 100"),
	}
	d := New(equations, nil, map[string]variable.Domain{"x": {Lo: 0, Hi: 1}}, 1e-9, 200, false)
	d.Seed("x", 5) // outside [0, 1]: clamped to 1
	solution, _, err := d.Solve(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 101.0, solution["y"].Value(), 1e-6)
}
