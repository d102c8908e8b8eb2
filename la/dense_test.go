package la

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvert2x2(t *testing.T) {
	d, err := FromColumns([][]float64{
		{4, 2}, // column 0: [4, 2]
		{7, 6}, // column 1: [7, 6]
	}, nil)
	require.NoError(t, err)

	require.NoError(t, d.Invert())

	// A = [[4,7],[2,6]], det=10, A^-1 = [[0.6,-0.7],[-0.2,0.4]]
	assert.InDelta(t, 0.6, d.Get(0, 0), 1e-12)
	assert.InDelta(t, -0.7, d.Get(0, 1), 1e-12)
	assert.InDelta(t, -0.2, d.Get(1, 0), 1e-12)
	assert.InDelta(t, 0.4, d.Get(1, 1), 1e-12)
}

func TestInvert2x2Singular(t *testing.T) {
	d, err := FromColumns([][]float64{
		{1, 2},
		{2, 4},
	}, nil)
	require.NoError(t, err)

	err = d.Invert()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSingular))
}

func TestInvert3x3RecoversIdentityProduct(t *testing.T) {
	d, err := FromColumns([][]float64{
		{2, 0, 1},
		{1, 3, 0},
		{0, 1, 1},
	}, nil)
	require.NoError(t, err)

	orig := [][]float64{
		append([]float64(nil), d.Columns()[0]...),
		append([]float64(nil), d.Columns()[1]...),
		append([]float64(nil), d.Columns()[2]...),
	}

	require.NoError(t, d.Invert())

	// A * A^-1 == I
	for c := 0; c < 3; c++ {
		col := make([]float64, 3)
		for k := 0; k < 3; k++ {
			col[k] = d.Get(k, c)
		}
		var prod [3]float64
		for r := 0; r < 3; r++ {
			for k := 0; k < 3; k++ {
				prod[r] += orig[k][r] * col[k]
			}
		}
		for r := 0; r < 3; r++ {
			expect := 0.0
			if r == c {
				expect = 1.0
			}
			assert.InDelta(t, expect, prod[r], 1e-9)
		}
	}
}

func TestInvertNxNRecoversIdentity(t *testing.T) {
	n := 5
	d := Identity(n)
	require.NoError(t, d.Invert())
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			expect := 0.0
			if r == c {
				expect = 1.0
			}
			assert.InDelta(t, expect, d.Get(r, c), 1e-9)
		}
	}
}

func TestMulVecIdentity(t *testing.T) {
	d := Identity(3)
	x := []float64{1, 2, 3}
	y, err := d.MulVec(x)
	require.NoError(t, err)
	assert.Equal(t, x, y)
}

func TestFromColumnsShapeMismatch(t *testing.T) {
	_, err := FromColumns([][]float64{{1, 2}, {1}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestLabelIndex(t *testing.T) {
	d, err := FromColumns([][]float64{{1, 0}, {0, 1}}, []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, 1, d.LabelIndex("y"))
	assert.Equal(t, -1, d.LabelIndex("z"))
}
