package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSubtotal_StorPerde(t *testing.T) {
	// 100 x 2m x 1.5m x 2 adet
	assert.InDelta(t, 600.0, ComputeSubtotal("STOR PERDE", 100, 2, 200, 150, 1), 1e-9)
}

func TestComputeSubtotal_StorIgnoresDensity(t *testing.T) {
	a := ComputeSubtotal("STOR PERDE", 100, 1, 200, 150, 1)
	b := ComputeSubtotal("STOR PERDE", 100, 1, 200, 150, 3)
	assert.Equal(t, a, b)
}

func TestComputeSubtotal_DensityModel(t *testing.T) {
	// 50 x max(1, 1.5 x 3) x 1
	assert.InDelta(t, 225.0, ComputeSubtotal("TÜL PERDE", 50, 1, 150, 0, 3), 1e-9)
}

func TestComputeSubtotal_MinimumOneMeter(t *testing.T) {
	// 0.5m x 1 = 0.5 -> 1 metreye yuvarlanır
	assert.InDelta(t, 80.0, ComputeSubtotal("FON PERDE", 80, 1, 50, 0, 1), 1e-9)
	assert.InDelta(t, 160.0, ComputeSubtotal("AKSESUAR", 80, 2, 0, 0, 0), 1e-9)
}

func TestComputeSubtotal_QtyFloorAndMinimum(t *testing.T) {
	assert.Equal(t,
		ComputeSubtotal("TÜL PERDE", 10, 1, 300, 0, 2),
		ComputeSubtotal("TÜL PERDE", 10, 0, 300, 0, 2))
	assert.Equal(t,
		ComputeSubtotal("TÜL PERDE", 10, 2, 300, 0, 2),
		ComputeSubtotal("TÜL PERDE", 10, 2.9, 300, 0, 2))
}

func TestComputeSubtotal_NonFiniteInputs(t *testing.T) {
	assert.Equal(t, 0.0, ComputeSubtotal("STOR PERDE", 100, 1, math.NaN(), 150, 1))
	assert.Equal(t, 0.0, ComputeSubtotal("TÜL PERDE", math.Inf(1), 1, 100, 0, 1))
	// sıklık NaN -> 0 -> en az 1 metre
	assert.InDelta(t, 40.0, ComputeSubtotal("TÜL PERDE", 40, 1, 100, 0, math.NaN()), 1e-9)
}

func TestComputeSubtotal_CategoryNameCaseInsensitive(t *testing.T) {
	assert.InDelta(t, 600.0, ComputeSubtotal("stor perde", 100, 2, 200, 150, 1), 1e-9)
}

func TestClampQty(t *testing.T) {
	assert.Equal(t, 1, ClampQty(-3))
	assert.Equal(t, 1, ClampQty(0.7))
	assert.Equal(t, 3, ClampQty(3.99))
	assert.Equal(t, 1, ClampQty(math.NaN()))
}

func TestClampDimension(t *testing.T) {
	assert.Equal(t, 0, ClampDimension(-10))
	assert.Equal(t, 120, ClampDimension(120.8))
	assert.Equal(t, 0, ClampDimension(math.Inf(-1)))
}
