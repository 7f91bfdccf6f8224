package partition

import (
	"math"

	"github.com/hupe1980/geoshard/geom"
)

// gridShape returns the factor pair rows*cols == n closest to square with
// cols >= rows.
func gridShape(n int) (rows, cols int) {
	for r := int(math.Sqrt(float64(n))); r >= 1; r-- {
		if n%r == 0 {
			return r, n / r
		}
	}
	return 1, n
}

// uniformGrid splits extent into n equal cells, row by row from the
// bottom-left corner. The last row and column snap to the extent maximum.
func uniformGrid(extent geom.Envelope, n int) []geom.Envelope {
	rows, cols := gridShape(n)
	xs := edges(extent.MinX, extent.MaxX, cols)
	ys := edges(extent.MinY, extent.MaxY, rows)

	cells := make([]geom.Envelope, 0, n)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells = append(cells, geom.Envelope{MinX: xs[c], MinY: ys[r], MaxX: xs[c+1], MaxY: ys[r+1]})
		}
	}
	return cells
}

func edges(lo, hi float64, n int) []float64 {
	step := (hi - lo) / float64(n)
	out := make([]float64, n+1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n] = hi
	return out
}
